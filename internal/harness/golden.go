package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pulsecal/internal/calib"
)

// Report renders a deterministic plain-text summary of a run. Floating-point
// sample values are left out so reports are stable across platforms.
func Report(scenarioName string, result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario: %s\n", scenarioName)
	fmt.Fprintf(&b, "session: %s\n", result.Session)
	fmt.Fprintf(&b, "device: %s\n", result.Device)

	b.WriteString("gates:\n")
	for _, ev := range result.Trace {
		fmt.Fprintf(&b, "  %d %s %s %s\n", ev.Step, calib.NewKey(ev.Gate, ev.Qubits), ev.Kind, ev.Action)
	}

	b.WriteString("synthesized:\n")
	for _, e := range result.Entries {
		fmt.Fprintf(&b, "  %s instructions=%d channels=%s aligned=%t\n",
			calib.NewKey(e.Gate, e.Qubits), e.Instructions, strings.Join(e.Channels, ","), e.Aligned)
	}

	fmt.Fprintf(&b, "basis_gates: %s\n", strings.Join(result.BasisGates, " "))

	if result.RegisterError == "" {
		b.WriteString("error: none\n")
	} else {
		fmt.Fprintf(&b, "error: %s\n", result.RegisterError)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its report against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the report of an existing result against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Report(scenarioName, result))
}
