package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/pulsecal/internal/pulse"
)

// Shape kinds accepted in a calibration spec.
const (
	ShapeGaussian       = "gaussian"
	ShapeGaussianSquare = "gaussian_square"
	ShapeConstant       = "constant"
	ShapeSamples        = "samples"
)

// compileShape renders a #Shape value into samples.
func compileShape(v cue.Value, field string) (pulse.Waveform, error) {
	kind, err := lookupString(v, "kind")
	if err != nil {
		return nil, err
	}

	shapeErr := func(err error) error {
		return &CompileError{Code: ErrInvalidShape, Field: field, Message: err.Error(), Pos: v.Pos()}
	}

	if kind == ShapeSamples {
		iter, err := v.LookupPath(cue.ParsePath("samples")).List()
		if err != nil {
			return nil, shapeErr(fmt.Errorf("samples shape needs a samples list"))
		}
		var out pulse.Waveform
		for iter.Next() {
			c, err := decodeAmp(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		if len(out) == 0 {
			return nil, shapeErr(fmt.Errorf("samples list is empty"))
		}
		return out, nil
	}

	duration, err := lookupInt(v, "duration")
	if err != nil {
		return nil, err
	}
	ampVal, err := lookup(v, "amp")
	if err != nil {
		return nil, err
	}
	amp, err := decodeAmp(ampVal)
	if err != nil {
		return nil, err
	}

	var w pulse.Waveform
	switch kind {
	case ShapeConstant:
		w, err = pulse.Constant(duration, amp)
	case ShapeGaussian:
		sigma, lerr := lookupFloat(v, "sigma")
		if lerr != nil {
			return nil, lerr
		}
		w, err = pulse.Gaussian(duration, amp, sigma)
	case ShapeGaussianSquare:
		sigma, lerr := lookupFloat(v, "sigma")
		if lerr != nil {
			return nil, lerr
		}
		width, lerr := lookupInt(v, "width")
		if lerr != nil {
			return nil, lerr
		}
		w, err = pulse.GaussianSquare(duration, amp, sigma, width)
	default:
		return nil, shapeErr(fmt.Errorf("unknown shape kind %q", kind))
	}
	if err != nil {
		return nil, shapeErr(err)
	}
	return w, nil
}

// decodeAmp reads a number (real) or a [re, im] pair.
func decodeAmp(v cue.Value) (complex128, error) {
	if v.IncompleteKind() == cue.ListKind {
		iter, err := v.List()
		if err != nil {
			return 0, formatCUEError(err)
		}
		var parts []float64
		for iter.Next() {
			f, err := iter.Value().Float64()
			if err != nil {
				return 0, formatCUEError(err)
			}
			parts = append(parts, f)
		}
		if len(parts) != 2 {
			return 0, &CompileError{Code: ErrInvalidShape, Field: "amp", Message: "complex amplitude must be [re, im]", Pos: v.Pos()}
		}
		return complex(parts[0], parts[1]), nil
	}
	f, err := v.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return complex(f, 0), nil
}
