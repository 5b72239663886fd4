// Package stats compares measured outcome counts against an ideal
// distribution.
//
// Counts are keyed by outcome bitstring. Both maps are normalised to
// probabilities before comparison. Outcomes the measurement never observed
// are skipped, so a missing outcome never produces an infinite term.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Counts maps an outcome bitstring to the number of shots that produced it.
type Counts map[string]int

// Total returns the number of shots.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Outcomes returns the outcome keys in lexical order.
func (c Counts) Outcomes() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// EmptyCountsError is returned when a distribution has no shots.
type EmptyCountsError struct {
	Which string
}

func (e *EmptyCountsError) Error() string {
	return fmt.Sprintf("%s counts are empty", e.Which)
}

// NegativeCountError is returned for an outcome with a negative count.
type NegativeCountError struct {
	Which   string
	Outcome string
	Count   int
}

func (e *NegativeCountError) Error() string {
	return fmt.Sprintf("%s counts: outcome %q has negative count %d", e.Which, e.Outcome, e.Count)
}

// KLDivergence returns D(ideal || actual) in nats.
func KLDivergence(ideal, actual Counts) (float64, error) {
	p, q, err := aligned(ideal, actual)
	if err != nil {
		return 0, err
	}
	return stat.KullbackLeibler(p, q), nil
}

// CrossEntropy returns H(ideal, actual) in nats.
func CrossEntropy(ideal, actual Counts) (float64, error) {
	p, q, err := aligned(ideal, actual)
	if err != nil {
		return 0, err
	}
	return stat.CrossEntropy(p, q), nil
}

// aligned normalises both count maps and returns matching probability
// vectors over the ideal outcomes that were observed in actual.
func aligned(ideal, actual Counts) (p, q []float64, err error) {
	if err := check("ideal", ideal); err != nil {
		return nil, nil, err
	}
	if err := check("actual", actual); err != nil {
		return nil, nil, err
	}

	idealTotal := float64(ideal.Total())
	actualTotal := float64(actual.Total())
	for _, k := range ideal.Outcomes() {
		observed := actual[k]
		if observed == 0 {
			continue
		}
		p = append(p, float64(ideal[k]))
		q = append(q, float64(observed))
	}
	floats.Scale(1/idealTotal, p)
	floats.Scale(1/actualTotal, q)
	return p, q, nil
}

func check(which string, c Counts) error {
	for _, k := range c.Outcomes() {
		if c[k] < 0 {
			return &NegativeCountError{Which: which, Outcome: k, Count: c[k]}
		}
	}
	if c.Total() == 0 {
		return &EmptyCountsError{Which: which}
	}
	return nil
}

// LoadCounts reads a JSON object of outcome counts, e.g. {"00": 480, "11": 520}.
func LoadCounts(path string) (Counts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read counts file: %w", err)
	}
	var c Counts
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: invalid counts: %w", path, err)
	}
	return c, nil
}
