package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/pulsecal/internal/calib"
)

// Validate checks a calibration spec value and returns every problem found
// (does not fail fast). An empty result means CompileCalibration will
// succeed.
func Validate(v cue.Value) []ValidationError {
	if err := v.Err(); err != nil {
		return schemaErrors(err)
	}
	u := applySchema(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return schemaErrors(err)
	}

	dev, err := compileDevice(u.LookupPath(cue.ParsePath("device")))
	if err != nil {
		return []ValidationError{toValidation(err)}
	}

	var errs []ValidationError
	iter, err := u.LookupPath(cue.ParsePath("calibrations")).List()
	if err != nil {
		return []ValidationError{toValidation(formatCUEError(err))}
	}

	seen := make(map[calib.Key]int)
	for i := 0; iter.Next(); i++ {
		field := fmt.Sprintf("calibrations[%d]", i)
		e, err := decodeEntry(iter.Value(), field)
		if err != nil {
			errs = append(errs, toValidation(err))
			continue
		}
		for _, ce := range checkEntry(dev, field, e) {
			errs = append(errs, ce.toValidation())
		}
		key := calib.NewKey(e.Gate, e.Qubits)
		if prev, ok := seen[key]; ok {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate entry %s (first defined at calibrations[%d])", key, prev),
				Code:    ErrDuplicateEntry,
				Line:    lineOf(iter.Value()),
			})
			continue
		}
		seen[key] = i
	}

	return errs
}

func toValidation(err error) ValidationError {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.toValidation()
	}
	return ValidationError{Field: "cue", Message: err.Error(), Code: ErrSchema}
}

func lineOf(v cue.Value) int {
	if p := v.Pos(); p.IsValid() {
		return p.Line()
	}
	return 0
}
