package pulse

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Waveform is an ordered sequence of complex samples. Its length is its
// duration in clock ticks.
type Waveform []complex128

// Len returns the duration of the waveform in ticks.
func (w Waveform) Len() int {
	return len(w)
}

// Area returns the real-part area under the waveform.
func (w Waveform) Area() float64 {
	if len(w) == 0 {
		return 0
	}
	return floats.Sum(w.Real())
}

// Real returns the in-phase component of every sample.
func (w Waveform) Real() []float64 {
	out := make([]float64, len(w))
	for i, s := range w {
		out[i] = real(s)
	}
	return out
}

// Imag returns the quadrature component of every sample.
func (w Waveform) Imag() []float64 {
	out := make([]float64, len(w))
	for i, s := range w {
		out[i] = imag(s)
	}
	return out
}

// MaxAmplitude returns the largest sample magnitude.
func (w Waveform) MaxAmplitude() float64 {
	var peak float64
	for _, s := range w {
		if a := cmplx.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// Scale returns a copy of w with every sample multiplied by factor.
// Unlike Rescale it accepts any factor.
func (w Waveform) Scale(factor float64) Waveform {
	if w == nil {
		return nil
	}
	out := make(Waveform, len(w))
	f := complex(factor, 0)
	for i, s := range w {
		out[i] = s * f
	}
	return out
}

// Negate returns a copy of w with every sample sign-flipped.
func (w Waveform) Negate() Waveform {
	return w.Scale(-1)
}

// Clone returns a copy of w.
func (w Waveform) Clone() Waveform {
	if w == nil {
		return nil
	}
	out := make(Waveform, len(w))
	copy(out, w)
	return out
}

// Equal reports whether w and other hold identical samples.
func (w Waveform) Equal(other Waveform) bool {
	if len(w) != len(other) {
		return false
	}
	for i := range w {
		if w[i] != other[i] {
			return false
		}
	}
	return true
}

// Concat joins waveforms end to end.
func Concat(parts ...Waveform) Waveform {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Waveform, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Repeat returns a waveform holding sample n times.
func Repeat(sample complex128, n int) Waveform {
	if n <= 0 {
		return Waveform{}
	}
	out := make(Waveform, n)
	for i := range out {
		out[i] = sample
	}
	return out
}
