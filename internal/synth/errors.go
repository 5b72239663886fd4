package synth

import (
	"errors"
	"fmt"

	"github.com/roach88/pulsecal/internal/pulse"
)

// FlippedQubitOrderError reports a cross-resonance request whose
// control/target order is reversed relative to the native calibration.
type FlippedQubitOrderError struct {
	Control    int
	Target     int
	ForwardLen int
	ReverseLen int
}

func (e *FlippedQubitOrderError) Error() string {
	return fmt.Sprintf("flipped qubit order: (%d,%d) has %d instructions, reversed pair has %d; expected strictly fewer",
		e.Control, e.Target, e.ForwardLen, e.ReverseLen)
}

// AmbiguousPrimitiveError reports zero or several CR primitive pulses where
// exactly one was expected.
type AmbiguousPrimitiveError struct {
	Role   string
	Marker string
	Count  int
}

func (e *AmbiguousPrimitiveError) Error() string {
	return fmt.Sprintf("ambiguous %s primitive: found %d pulses marked %q, want 1", e.Role, e.Count, e.Marker)
}

// PlateauMismatchError reports a malformed flat-top source waveform.
type PlateauMismatchError struct {
	Reason string
}

func (e *PlateauMismatchError) Error() string {
	return "plateau mismatch: " + e.Reason
}

// AlignmentError reports a rebuilt waveform whose length is not a multiple
// of the granularity.
type AlignmentError struct {
	Channel     pulse.Channel
	Length      int
	Granularity int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("waveform on %s has length %d, not a multiple of %d", e.Channel, e.Length, e.Granularity)
}

// IsFlippedQubitOrder reports whether err wraps a *FlippedQubitOrderError.
func IsFlippedQubitOrder(err error) bool {
	var fe *FlippedQubitOrderError
	return errors.As(err, &fe)
}

// IsPlateauMismatch reports whether err wraps a *PlateauMismatchError.
func IsPlateauMismatch(err error) bool {
	var pe *PlateauMismatchError
	return errors.As(err, &pe)
}
