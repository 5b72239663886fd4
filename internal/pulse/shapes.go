package pulse

import (
	"fmt"
	"math"
)

// Gaussian returns a Gaussian envelope of the given duration, peak amplitude
// and standard deviation (in ticks), centred on the middle of the window.
func Gaussian(duration int, amp complex128, sigma float64) (Waveform, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("gaussian: duration must be positive, got %d", duration)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian: sigma must be positive, got %g", sigma)
	}
	center := float64(duration) / 2
	out := make(Waveform, duration)
	for i := range out {
		t := float64(i) + 0.5 - center
		out[i] = amp * complex(math.Exp(-t*t/(2*sigma*sigma)), 0)
	}
	return out, nil
}

// GaussianSquare returns a flat-top pulse: a Gaussian rise, width ticks held
// exactly at amp, and a Gaussian fall. duration-width is split between rise
// and fall, with the rise taking the smaller half when it is odd.
//
// Every rise and fall sample is strictly below the plateau, and consecutive
// rise samples differ, which is what flattop detection relies on.
func GaussianSquare(duration int, amp complex128, sigma float64, width int) (Waveform, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("gaussian_square: duration must be positive, got %d", duration)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian_square: sigma must be positive, got %g", sigma)
	}
	if width < 0 || width > duration {
		return nil, fmt.Errorf("gaussian_square: width %d outside [0, %d]", width, duration)
	}

	rise := (duration - width) / 2
	flatEnd := rise + width
	out := make(Waveform, duration)
	for i := range out {
		var t float64
		switch {
		case i < rise:
			t = float64(rise - i)
		case i < flatEnd:
			t = 0
		default:
			t = float64(i - flatEnd + 1)
		}
		out[i] = amp * complex(math.Exp(-t*t/(2*sigma*sigma)), 0)
	}
	return out, nil
}

// Constant returns duration samples of amp.
func Constant(duration int, amp complex128) (Waveform, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("constant: duration must be positive, got %d", duration)
	}
	return Repeat(amp, duration), nil
}
