package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GateKind classifies a decomposed gate instruction.
type GateKind int

const (
	// GateOther is any gate the synthesizer does not handle.
	GateOther GateKind = iota
	// GateDirectRX is a single-qubit rotation synthesized from the pi pulse.
	GateDirectRX
	// GateCR is a two-qubit cross-resonance rotation.
	GateCR
	// GateOpenCX is an unparameterized two-qubit primitive that only needs
	// basis-gate registration.
	GateOpenCX
)

// Name prefixes of the synthesized gate families.
const (
	DirectRXPrefix = "direct_rx_"
	CRPrefix       = "cr_"
	OpenCXName     = "open_cx"
)

func (k GateKind) String() string {
	switch k {
	case GateDirectRX:
		return "direct_rx"
	case GateCR:
		return "cr"
	case GateOpenCX:
		return "open_cx"
	default:
		return "other"
	}
}

// Synthesized reports whether gates of this kind need a pulse schedule built.
func (k GateKind) Synthesized() bool {
	return k == GateDirectRX || k == GateCR
}

// Registered reports whether gates of this kind join the basis-gate set.
func (k GateKind) Registered() bool {
	return k != GateOther
}

// Gate is one instruction of a decomposed gate sequence.
//
// Name is kept verbatim because it is the calibration-library key consumed
// downstream. Theta is only meaningful for GateDirectRX and GateCR.
type Gate struct {
	Kind   GateKind
	Name   string
	Theta  float64
	Qubits []int
	Clbits []int
}

// GateError reports a gate that cannot be parsed at the decomposition boundary.
type GateError struct {
	Name    string
	Qubits  []int
	Message string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("invalid gate %s%v: %s", e.Name, e.Qubits, e.Message)
}

// ParseGate classifies and validates a raw (name, qubits, clbits) triple.
//
// Angles are parsed once here; a malformed angle, a non-finite angle or the
// wrong number of qubits is rejected with *GateError.
func ParseGate(name string, qubits, clbits []int) (Gate, error) {
	g := Gate{
		Kind:   GateOther,
		Name:   name,
		Qubits: append([]int(nil), qubits...),
		Clbits: append([]int(nil), clbits...),
	}

	for _, q := range qubits {
		if q < 0 {
			return Gate{}, &GateError{Name: name, Qubits: qubits, Message: "negative qubit index"}
		}
	}

	switch {
	case strings.HasPrefix(name, DirectRXPrefix):
		g.Kind = GateDirectRX
		theta, err := parseAngle(name, DirectRXPrefix)
		if err != nil {
			return Gate{}, &GateError{Name: name, Qubits: qubits, Message: err.Error()}
		}
		g.Theta = theta
		if len(qubits) != 1 {
			return Gate{}, &GateError{Name: name, Qubits: qubits, Message: fmt.Sprintf("expected 1 qubit, got %d", len(qubits))}
		}
	case strings.HasPrefix(name, CRPrefix):
		g.Kind = GateCR
		theta, err := parseAngle(name, CRPrefix)
		if err != nil {
			return Gate{}, &GateError{Name: name, Qubits: qubits, Message: err.Error()}
		}
		g.Theta = theta
		if err := checkPair(qubits); err != nil {
			return Gate{}, &GateError{Name: name, Qubits: qubits, Message: err.Error()}
		}
	case name == OpenCXName:
		g.Kind = GateOpenCX
		if err := checkPair(qubits); err != nil {
			return Gate{}, &GateError{Name: name, Qubits: qubits, Message: err.Error()}
		}
	}

	return g, nil
}

func parseAngle(name, prefix string) (float64, error) {
	raw := strings.TrimPrefix(name, prefix)
	if raw == "" {
		return 0, fmt.Errorf("missing angle")
	}
	theta, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed angle %q", raw)
	}
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0, fmt.Errorf("angle must be finite, got %q", raw)
	}
	return theta, nil
}

func checkPair(qubits []int) error {
	if len(qubits) != 2 {
		return fmt.Errorf("expected 2 qubits, got %d", len(qubits))
	}
	if qubits[0] == qubits[1] {
		return fmt.Errorf("control and target must differ")
	}
	return nil
}

// DirectRXName returns the gate name for a direct RX rotation by theta.
func DirectRXName(theta float64) string {
	return DirectRXPrefix + formatAngle(theta)
}

// CRName returns the gate name for a cross-resonance rotation by theta.
func CRName(theta float64) string {
	return CRPrefix + formatAngle(theta)
}

func formatAngle(theta float64) string {
	return strconv.FormatFloat(theta, 'g', -1, 64)
}

// NewDirectRX builds a direct RX gate on qubit.
func NewDirectRX(theta float64, qubit int) Gate {
	return Gate{Kind: GateDirectRX, Name: DirectRXName(theta), Theta: theta, Qubits: []int{qubit}}
}

// NewCR builds a cross-resonance gate from control to target.
func NewCR(theta float64, control, target int) Gate {
	return Gate{Kind: GateCR, Name: CRName(theta), Theta: theta, Qubits: []int{control, target}}
}
