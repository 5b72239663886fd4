package pulse

import (
	"fmt"
	"math"
)

// Policy selects how Rescale shrinks a waveform.
type Policy int

const (
	// RescaleHeight multiplies every sample by the factor. Length is kept.
	RescaleHeight Policy = iota
	// RescaleWidth shortens the waveform to round(n*|factor|) samples at the
	// original height, then corrects the height so area = factor*area.
	RescaleWidth
	// RescaleHeightAndWidth splits the factor between duration and amplitude:
	// the waveform is shortened to round(n*sqrt(|factor|)) samples and the
	// height is set so area = factor*area.
	RescaleHeightAndWidth
)

var policyNames = map[Policy]string{
	RescaleHeight:         "height",
	RescaleWidth:          "width",
	RescaleHeightAndWidth: "height-and-width",
}

func (p Policy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses a policy name as printed by Policy.String.
func ParsePolicy(name string) (Policy, error) {
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown rescale policy %q", name)
}

type rescaleConfig struct {
	experimental bool
}

// RescaleOption configures Rescale.
type RescaleOption func(*rescaleConfig)

// WithExperimentalPolicies enables the width-based policies.
func WithExperimentalPolicies() RescaleOption {
	return func(c *rescaleConfig) {
		c.experimental = true
	}
}

// Rescale returns a new waveform whose real-part area is factor times the
// area of w. factor must be <= 1; negative factors flip polarity.
func Rescale(w Waveform, factor float64, policy Policy, opts ...RescaleOption) (Waveform, error) {
	if !(factor <= 1) {
		return nil, &UnsupportedScaleError{Factor: factor}
	}

	cfg := rescaleConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch policy {
	case RescaleHeight:
		return w.Scale(factor), nil
	case RescaleWidth:
		if !cfg.experimental {
			return nil, &NotImplementedError{Policy: policy}
		}
		return rescaleWidth(w, factor, math.Abs(factor)), nil
	case RescaleHeightAndWidth:
		if !cfg.experimental {
			return nil, &NotImplementedError{Policy: policy}
		}
		return rescaleWidth(w, factor, math.Sqrt(math.Abs(factor))), nil
	default:
		return nil, &NotImplementedError{Policy: policy}
	}
}

// rescaleWidth resamples w onto round(n*widthFactor) ticks, keeping the
// average height per output tick, then applies a height correction so the
// result has exactly factor*area.
func rescaleWidth(w Waveform, factor, widthFactor float64) Waveform {
	n := len(w)
	if n == 0 {
		return Waveform{}
	}
	m := int(math.Floor(float64(n)*widthFactor + 0.5))
	if m < 1 {
		m = 1
	}

	resampled := resample(w, m)

	want := factor * w.Area()
	got := resampled.Area()
	if got == 0 {
		return resampled.Scale(factor * float64(n) / float64(m))
	}
	return resampled.Scale(want / got)
}

// resample maps n input ticks onto m output ticks. Output tick j covers
// input interval [j*n/m, (j+1)*n/m) and holds the overlap-weighted mean of
// the input samples it covers.
func resample(w Waveform, m int) Waveform {
	n := len(w)
	step := float64(n) / float64(m)
	out := make(Waveform, m)
	for j := 0; j < m; j++ {
		lo := float64(j) * step
		hi := lo + step
		var acc complex128
		for i := int(math.Floor(lo)); i < n && float64(i) < hi; i++ {
			overlap := math.Min(hi, float64(i+1)) - math.Max(lo, float64(i))
			if overlap > 0 {
				acc += w[i] * complex(overlap, 0)
			}
		}
		out[j] = acc / complex(step, 0)
	}
	return out
}
