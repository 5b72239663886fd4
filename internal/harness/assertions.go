package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the gate trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v %s\n", event.Step, event.Gate, event.Qubits, event.Action)
		}
	}

	return buf.String()
}

// assertBasisContains checks that every listed gate is in the basis set.
func assertBasisContains(result *Result, a Assertion) error {
	for _, g := range a.Gates {
		if !slices.Contains(result.BasisGates, g) {
			return &AssertionError{
				Type:     AssertBasisContains,
				Expected: fmt.Sprintf("basis gate %s", g),
				Actual:   fmt.Sprintf("basis gates %v", result.BasisGates),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertBasisOrder checks that the listed gates appear in the basis set in
// order. Intervening gates are allowed.
func assertBasisOrder(result *Result, a Assertion) error {
	last := -1
	for _, g := range a.Gates {
		pos := slices.Index(result.BasisGates, g)
		if pos < 0 {
			return &AssertionError{
				Type:     AssertBasisOrder,
				Expected: fmt.Sprintf("all gates present: %v", a.Gates),
				Actual:   fmt.Sprintf("missing gate: %s", g),
				Trace:    result.Trace,
			}
		}
		if pos <= last {
			return &AssertionError{
				Type:     AssertBasisOrder,
				Expected: fmt.Sprintf("gates in order: %v", a.Gates),
				Actual:   fmt.Sprintf("basis gates %v", result.BasisGates),
				Trace:    result.Trace,
			}
		}
		last = pos
	}
	return nil
}

// assertEntry checks a synthesized entry and its optional shape fields.
func assertEntry(result *Result, a Assertion) error {
	e, ok := result.Entry(a.Gate, a.Qubits)
	if !ok {
		return &AssertionError{
			Type:     AssertEntry,
			Expected: fmt.Sprintf("synthesized entry %s%v", a.Gate, a.Qubits),
			Actual:   "not found",
			Trace:    result.Trace,
		}
	}

	var mismatches []string
	if a.Instructions != 0 && e.Instructions != a.Instructions {
		mismatches = append(mismatches, fmt.Sprintf("instructions=%d (want %d)", e.Instructions, a.Instructions))
	}
	if a.Duration != 0 && e.Duration != a.Duration {
		mismatches = append(mismatches, fmt.Sprintf("duration=%d (want %d)", e.Duration, a.Duration))
	}
	if len(a.Channels) > 0 && !slices.Equal(e.Channels, a.Channels) {
		mismatches = append(mismatches, fmt.Sprintf("channels=%v (want %v)", e.Channels, a.Channels))
	}
	if !e.Aligned {
		mismatches = append(mismatches, "waveform lengths not aligned to granularity")
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertEntry,
			Expected: fmt.Sprintf("entry %s%v to match", a.Gate, a.Qubits),
			Actual:   strings.Join(mismatches, ", "),
		}
	}
	return nil
}

// assertSynthesizedCount checks the number of synthesized entries.
func assertSynthesizedCount(result *Result, a Assertion) error {
	if len(result.Entries) != a.Count {
		return &AssertionError{
			Type:     AssertSynthesizedCount,
			Expected: fmt.Sprintf("%d synthesized entries", a.Count),
			Actual:   fmt.Sprintf("%d synthesized entries", len(result.Entries)),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertGateAction checks the outcome of every trace event for gate. When
// qubits are given only events on those qubits are considered.
func assertGateAction(result *Result, a Assertion) error {
	found := false
	for _, ev := range result.Trace {
		if ev.Gate != a.Gate || (len(a.Qubits) > 0 && !slices.Equal(ev.Qubits, a.Qubits)) {
			continue
		}
		if ev.Action == a.Action {
			return nil
		}
		found = true
	}

	actual := "gate not in trace"
	if found {
		actual = "no event with that action"
	}
	return &AssertionError{
		Type:     AssertGateAction,
		Expected: fmt.Sprintf("%s%v %s", a.Gate, a.Qubits, a.Action),
		Actual:   actual,
		Trace:    result.Trace,
	}
}

// assertRegisterError checks that registration failed with a matching
// message.
func assertRegisterError(result *Result, a Assertion) error {
	if !strings.Contains(result.RegisterError, a.Message) || result.RegisterError == "" {
		actual := result.RegisterError
		if actual == "" {
			actual = "registration succeeded"
		}
		return &AssertionError{
			Type:     AssertRegisterError,
			Expected: fmt.Sprintf("registration error containing %q", a.Message),
			Actual:   actual,
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
//
// A registration error is itself a failure unless a register_error
// assertion expects it.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	expectsError := false
	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertBasisContains:
			err = assertBasisContains(result, assertion)
		case AssertBasisOrder:
			err = assertBasisOrder(result, assertion)
		case AssertEntry:
			err = assertEntry(result, assertion)
		case AssertSynthesizedCount:
			err = assertSynthesizedCount(result, assertion)
		case AssertGateAction:
			err = assertGateAction(result, assertion)
		case AssertRegisterError:
			expectsError = true
			err = assertRegisterError(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	if result.RegisterError != "" && !expectsError {
		errors = append(errors, fmt.Sprintf("unexpected registration error: %s", result.RegisterError))
	}

	return errors
}
