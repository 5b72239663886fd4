package calib

import "fmt"

// MissingCalibrationError is returned when a required entry is absent or
// unusable (for example an ambiguous multi-instruction pi pulse).
type MissingCalibrationError struct {
	Gate   string
	Qubits []int
	Reason string
}

func (e *MissingCalibrationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("missing calibration %s%v: %s", e.Gate, e.Qubits, e.Reason)
	}
	return fmt.Sprintf("missing calibration %s%v", e.Gate, e.Qubits)
}

// DuplicateEntryError is returned when Add targets an existing key with a
// different schedule.
type DuplicateEntryError struct {
	Key            Key
	ExistingDigest string
	NewDigest      string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("calibration %s already exists with different content (existing=%.12s, new=%.12s)",
		e.Key, e.ExistingDigest, e.NewDigest)
}
