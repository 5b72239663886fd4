package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one calibration run and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Calibration is the CUE calibration spec (file or package directory).
	Calibration string `yaml:"calibration"`

	// Program is the YAML gate program to register.
	Program string `yaml:"program"`

	// Session is an optional fixed session id.
	// If empty, defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	// Synth overrides synthesizer defaults.
	Synth *SynthOptions `yaml:"synth,omitempty"`

	// Assertions validate the registration outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// SynthOptions are the synthesizer settings a scenario may override.
type SynthOptions struct {
	PiGate          string `yaml:"pi_gate,omitempty"`
	CNOTGate        string `yaml:"cnot_gate,omitempty"`
	PrimitiveMarker string `yaml:"primitive_marker,omitempty"`
}

// Assertion checks one property of a Result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Gate and Qubits identify a gate (entry, gate_action).
	Gate   string `yaml:"gate,omitempty"`
	Qubits []int  `yaml:"qubits,omitempty"`

	// Gates lists basis-gate names (basis_contains, basis_order).
	Gates []string `yaml:"gates,omitempty"`

	// Instructions, Duration and Channels are optional entry checks.
	// Zero values are not checked.
	Instructions int      `yaml:"instructions,omitempty"`
	Duration     int      `yaml:"duration,omitempty"`
	Channels     []string `yaml:"channels,omitempty"`

	// Count is the expected number of synthesized entries.
	Count int `yaml:"count,omitempty"`

	// Action is the expected registration outcome (gate_action).
	Action string `yaml:"action,omitempty"`

	// Message is a substring of the registration error (register_error).
	Message string `yaml:"message,omitempty"`
}

// Assertion type constants.
const (
	AssertBasisContains    = "basis_contains"
	AssertBasisOrder       = "basis_order"
	AssertEntry            = "entry"
	AssertSynthesizedCount = "synthesized_count"
	AssertGateAction       = "gate_action"
	AssertRegisterError    = "register_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving calibration and program paths relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if basePath != "" {
		scenario.Calibration = resolve(basePath, scenario.Calibration)
		scenario.Program = resolve(basePath, scenario.Program)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Calibration == "" {
		return fmt.Errorf("calibration is required")
	}
	if s.Program == "" {
		return fmt.Errorf("program is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, p := range []string{s.Calibration, s.Program} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertBasisContains, AssertBasisOrder:
		if len(a.Gates) == 0 {
			return fmt.Errorf("assertions[%d]: gates list is required for %s", index, a.Type)
		}
	case AssertEntry:
		if a.Gate == "" || len(a.Qubits) == 0 {
			return fmt.Errorf("assertions[%d]: gate and qubits are required for entry", index)
		}
	case AssertSynthesizedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for synthesized_count", index)
		}
	case AssertGateAction:
		if a.Gate == "" {
			return fmt.Errorf("assertions[%d]: gate is required for gate_action", index)
		}
		if !validActions[a.Action] {
			return fmt.Errorf("assertions[%d]: unknown action %q", index, a.Action)
		}
	case AssertRegisterError:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for register_error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
