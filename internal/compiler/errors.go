package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Validation error codes (E100-E199)
const (
	ErrSchema            = "E100" // value does not satisfy #Calibration
	ErrMissingField      = "E101" // required field absent
	ErrInvalidShape      = "E102" // shape parameters rejected
	ErrInvalidChannel    = "E103" // channel outside the device
	ErrDuplicateEntry    = "E105" // two entries for one (gate, qubits) key
	ErrGateArity         = "E106" // qubit tuple empty or out of range
	ErrGranularity       = "E107" // waveform length not a granularity multiple
	ErrControlChannelMap = "E108" // bad control channel mapping
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError is one finding reported by Validate.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

func (e *CompileError) toValidation() ValidationError {
	ve := ValidationError{Field: e.Field, Message: e.Message, Code: e.Code}
	if e.Pos.IsValid() {
		ve.Line = e.Pos.Line()
	}
	return ve
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	ce := &CompileError{Code: ErrSchema, Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}

// schemaErrors converts every CUE error in err to a ValidationError.
func schemaErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range errors.Errors(err) {
		ve := ValidationError{Field: "cue", Message: e.Error(), Code: ErrSchema}
		if positions := errors.Positions(e); len(positions) > 0 && positions[0].IsValid() {
			ve.Line = positions[0].Line()
		}
		out = append(out, ve)
	}
	return out
}
