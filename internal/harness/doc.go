// Package harness runs calibration scenarios end to end.
//
// A scenario pairs a CUE calibration spec with a decomposed gate program,
// registers every gate against a fresh in-memory store, and checks the
// resulting basis set and synthesized library entries.
//
// # Scenario Format
//
//	name: echo
//	description: "Direct and cross-resonance rotations on the native pair"
//	calibration: testdata/calibrations/two_qubit
//	program: testdata/programs/echo.yaml
//	session: test-session-echo
//	assertions:
//	  - type: basis_contains
//	    gates: [open_cx]
//	  - type: entry
//	    gate: direct_rx_1.5707963267948966
//	    qubits: [0]
//	    instructions: 1
//	    duration: 160
//	  - type: gate_action
//	    gate: measure
//	    action: passthrough
//
// # Assertion Types
//
//   - basis_contains: every name in gates is in the final basis set
//   - basis_order: gates appear in the basis set in the given order
//   - entry: a synthesized entry exists, optionally with instruction count,
//     duration and channels
//   - synthesized_count: number of synthesized entries
//   - gate_action: the registration outcome of a gate
//   - register_error: registration failed with a message containing message
//
// # Golden Reports
//
// RunWithGolden renders a plain-text report of the run and compares it with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
