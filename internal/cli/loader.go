package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/compiler"
	"github.com/roach88/pulsecal/internal/ir"
	"github.com/roach88/pulsecal/internal/store"
)

// Error code constants for failures outside the calibration compiler.
// Compiler load and schema codes (E003-E006, E1xx) are passed through.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Store open/read/write error
	ErrCodeProgram     = "E009" // Gate program load or parse error
	ErrCodeCounts      = "E010" // Counts file error
	ErrCodeNoEntry     = "E011" // Requested calibration entry absent
	ErrCodeRegister    = "E201" // Gate registration failed
	ErrCodeTestFailed  = "E_TEST_FAILED"
)

// errorCode returns the diagnostic code carried by err.
func errorCode(err error) string {
	var le *compiler.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var ge *ir.GateError
	if errors.As(err, &ge) {
		return ErrCodeProgram
	}
	var me *calib.MissingCalibrationError
	if errors.As(err, &me) {
		return ErrCodeNoEntry
	}
	return ErrCodeGeneric
}

// mergeStored adds every persisted entry and basis gate to cal.
// A stored entry that conflicts with the calibration spec is an error.
func mergeStored(ctx context.Context, st *store.Store, cal *compiler.Calibration) (int, error) {
	stored, err := st.LoadLibrary(ctx)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, e := range stored.Entries() {
		qubits := e.Key.QubitList()
		existed := cal.Library.Has(e.Key.Gate, qubits)
		if err := cal.Library.Add(e.Key.Gate, qubits, e.Schedule); err != nil {
			return added, err
		}
		if !existed {
			added++
		}
	}

	names, err := st.ReadBasisGates(ctx, cal.Device.Name)
	if err != nil {
		return added, err
	}
	basis := cal.Device.BasisGates()
	for _, n := range names {
		basis.Add(n)
	}
	return added, nil
}

// openStore opens the SQLite store at path, mapping failures to a
// command error.
func openStore(f *OutputFormatter, path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open store %s: %v", path, err), nil)
	}
	return st, nil
}
