package calib

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/pulsecal/internal/pulse"
)

// Library stores and retrieves calibrated schedules.
type Library interface {
	// Has reports whether an entry exists for (gate, qubits).
	Has(gate string, qubits []int) bool
	// Get returns the entry or a *MissingCalibrationError.
	Get(gate string, qubits []int) (pulse.Schedule, error)
	// Add inserts a new entry.
	Add(gate string, qubits []int, schedule pulse.Schedule) error
}

// Key identifies a calibration entry. Qubits is the comma-joined ordered
// qubit tuple so that Key is comparable.
type Key struct {
	Gate   string
	Qubits string
}

// NewKey builds the key for (gate, qubits).
func NewKey(gate string, qubits []int) Key {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}
	return Key{Gate: gate, Qubits: strings.Join(parts, ",")}
}

// ParseQubits parses a comma-joined qubit tuple as produced by NewKey.
func ParseQubits(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		q, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid qubit tuple %q", s)
		}
		out[i] = q
	}
	return out, nil
}

// QubitList returns the qubit tuple of k. It panics if k was not built by
// NewKey or validated with ParseQubits.
func (k Key) QubitList() []int {
	qubits, err := ParseQubits(k.Qubits)
	if err != nil {
		panic("calib: " + err.Error())
	}
	return qubits
}

// String renders k as gate(q0,q1).
func (k Key) String() string {
	return fmt.Sprintf("%s(%s)", k.Gate, k.Qubits)
}

// Compare orders keys by gate name, then qubit tuple.
func (k Key) Compare(other Key) int {
	if c := strings.Compare(k.Gate, other.Gate); c != 0 {
		return c
	}
	return slices.Compare(k.QubitList(), other.QubitList())
}

// Entry is one calibration entry.
type Entry struct {
	Key      Key
	Schedule pulse.Schedule
	Digest   string
}
