// Package compiler turns CUE calibration specs into a device model and a
// populated calibration library.
//
// A calibration spec has two top-level fields:
//
//	device: {
//		name:        "fake_two_qubit"
//		num_qubits:  2
//		granularity: 16
//		basis_gates: ["id", "u1", "u2", "u3", "cx"]
//		control_channels: [{control: 0, target: 1, index: 0}]
//	}
//	calibrations: [{
//		gate:   "x"
//		qubits: [0]
//		instructions: [{
//			name:    "Xp_d0"
//			channel: "d0"
//			start:   0
//			shape: {kind: "gaussian", duration: 160, amp: [0.2, 0.01], sigma: 40}
//		}]
//	}]
//
// Values are checked against the embedded #Calibration schema before
// compilation, so field typos and out-of-range numbers surface with CUE
// source positions.
package compiler
