package harness

import "slices"

// Registration outcomes recorded per gate.
const (
	ActionPassthrough = "passthrough" // not a synthesized gate family
	ActionRegistered  = "registered"  // basis set only
	ActionSynthesized = "synthesized" // new library entry
	ActionCached      = "cached"      // library already had the key
	ActionFailed      = "failed"
)

var validActions = map[string]bool{
	ActionPassthrough: true,
	ActionRegistered:  true,
	ActionSynthesized: true,
	ActionCached:      true,
	ActionFailed:      true,
}

// TraceEvent is the registration outcome of one program gate.
type TraceEvent struct {
	Step   int    `json:"step"`
	Gate   string `json:"gate"`
	Qubits []int  `json:"qubits"`
	Kind   string `json:"kind"`
	Action string `json:"action"`
}

// EntrySummary describes a synthesized library entry as persisted.
type EntrySummary struct {
	Gate         string   `json:"gate"`
	Qubits       []int    `json:"qubits"`
	Instructions int      `json:"instructions"`
	Duration     int      `json:"duration"`
	Channels     []string `json:"channels"`
	// Aligned is true when every waveform length is a multiple of the
	// device granularity.
	Aligned bool `json:"aligned"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	Session string `json:"session"`
	Device  string `json:"device"`

	// Trace holds one event per program gate processed.
	Trace []TraceEvent `json:"trace"`

	// Entries are the synthesized entries in synthesis order.
	Entries []EntrySummary `json:"entries"`

	// BasisGates is the final basis set in registration order.
	BasisGates []string `json:"basis_gates"`

	// RegisterError is the error that stopped registration, if any.
	RegisterError string `json:"register_error,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Trace:      []TraceEvent{},
		Entries:    []EntrySummary{},
		BasisGates: []string{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace records the outcome of one gate.
func (r *Result) AddTrace(step int, gate string, qubits []int, kind, action string) {
	r.Trace = append(r.Trace, TraceEvent{
		Step:   step,
		Gate:   gate,
		Qubits: qubits,
		Kind:   kind,
		Action: action,
	})
}

// Entry returns the synthesized entry for gate on qubits.
func (r *Result) Entry(gate string, qubits []int) (EntrySummary, bool) {
	for _, e := range r.Entries {
		if e.Gate == gate && slices.Equal(e.Qubits, qubits) {
			return e, true
		}
	}
	return EntrySummary{}, false
}
