// Package synth derives new pulse schedules from calibrated ones.
//
// Two synthesizers share one Synthesizer value:
//
//   - DirectRotation rescales the calibrated pi pulse of a qubit to an
//     arbitrary rotation angle.
//   - CrossResonance resizes the flat-top plateau of the calibrated
//     CR90 pulse pair and assembles an echoed two-qubit schedule.
//
// Both read the calibration library but never write it. Inserting results
// (and caching them) is the registrar's job.
//
// Preconditions on calibration-source waveforms:
//   - The pi gate entry for a qubit holds exactly one instruction.
//   - The interaction gate for the native (control, target) direction has
//     strictly fewer instructions than the reversed direction.
//   - The CR primitive waveforms have a strictly changing rise, a contiguous
//     constant plateau, and a fall, at the same indices on both channels.
package synth
