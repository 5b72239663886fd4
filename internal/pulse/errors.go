package pulse

import "fmt"

// UnsupportedScaleError is returned when Rescale is asked to grow a waveform.
type UnsupportedScaleError struct {
	Factor float64
}

func (e *UnsupportedScaleError) Error() string {
	return fmt.Sprintf("unsupported scale factor %g: only factors <= 1 are supported", e.Factor)
}

// NotImplementedError is returned for rescale policies that are not enabled.
type NotImplementedError struct {
	Policy Policy
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("rescale policy %s is not implemented", e.Policy)
}
