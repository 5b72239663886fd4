package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/device"
	"github.com/roach88/pulsecal/internal/pulse"
)

// Calibration is a compiled calibration spec.
type Calibration struct {
	Device  *device.Device
	Library *calib.MemoryLibrary
}

// entrySpec is one decoded calibrations[] element.
type entrySpec struct {
	Gate         string
	Qubits       []int
	Schedule     pulse.Schedule
	Pos          token.Pos
	instructions []instructionSpec
}

type instructionSpec struct {
	Channel pulse.Channel
	Length  int
	Pos     token.Pos
}

// CompileCalibration compiles a calibration spec value. It stops at the
// first error; use Validate to collect every problem.
func CompileCalibration(v cue.Value) (*Calibration, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	u := applySchema(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	dev, err := compileDevice(u.LookupPath(cue.ParsePath("device")))
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(u.LookupPath(cue.ParsePath("calibrations")))
	if err != nil {
		return nil, err
	}

	lib := calib.NewMemoryLibrary()
	for i, e := range entries {
		if errs := checkEntry(dev, fmt.Sprintf("calibrations[%d]", i), e); len(errs) > 0 {
			return nil, errs[0]
		}
		if lib.Has(e.Gate, e.Qubits) {
			return nil, &CompileError{
				Code:    ErrDuplicateEntry,
				Field:   fmt.Sprintf("calibrations[%d]", i),
				Message: fmt.Sprintf("duplicate entry %s", calib.NewKey(e.Gate, e.Qubits)),
				Pos:     e.Pos,
			}
		}
		if err := lib.Add(e.Gate, e.Qubits, e.Schedule); err != nil {
			return nil, err
		}
	}

	return &Calibration{Device: dev, Library: lib}, nil
}

func compileDevice(v cue.Value) (*device.Device, error) {
	name, err := lookupString(v, "name")
	if err != nil {
		return nil, err
	}
	numQubits, err := lookupInt(v, "num_qubits")
	if err != nil {
		return nil, err
	}
	granularity, err := lookupInt(v, "granularity")
	if err != nil {
		return nil, err
	}
	basis, err := lookupStrings(v, "basis_gates")
	if err != nil {
		return nil, err
	}

	opts := []device.Option{
		device.WithGranularity(granularity),
		device.WithBasisGates(basis...),
	}

	seen := make(map[[2]int]bool)
	iter, err := v.LookupPath(cue.ParsePath("control_channels")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		cv := iter.Value()
		field := fmt.Sprintf("device.control_channels[%d]", i)
		control, err := lookupInt(cv, "control")
		if err != nil {
			return nil, err
		}
		target, err := lookupInt(cv, "target")
		if err != nil {
			return nil, err
		}
		index, err := lookupInt(cv, "index")
		if err != nil {
			return nil, err
		}
		pair := [2]int{control, target}
		switch {
		case control == target:
			return nil, &CompileError{Code: ErrControlChannelMap, Field: field, Message: "control and target must differ", Pos: cv.Pos()}
		case control >= numQubits || target >= numQubits:
			return nil, &CompileError{Code: ErrControlChannelMap, Field: field,
				Message: fmt.Sprintf("qubit pair (%d,%d) outside %d-qubit device", control, target, numQubits), Pos: cv.Pos()}
		case seen[pair]:
			return nil, &CompileError{Code: ErrControlChannelMap, Field: field,
				Message: fmt.Sprintf("pair (%d,%d) mapped twice", control, target), Pos: cv.Pos()}
		}
		seen[pair] = true
		opts = append(opts, device.WithControlChannel(control, target, index))
	}

	return device.New(name, numQubits, opts...), nil
}

func decodeEntries(v cue.Value) ([]entrySpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []entrySpec
	for i := 0; iter.Next(); i++ {
		e, err := decodeEntry(iter.Value(), fmt.Sprintf("calibrations[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeEntry(v cue.Value, field string) (entrySpec, error) {
	e := entrySpec{Pos: v.Pos()}
	var err error
	if e.Gate, err = lookupString(v, "gate"); err != nil {
		return e, err
	}
	if e.Qubits, err = lookupInts(v, "qubits"); err != nil {
		return e, err
	}

	iter, err := v.LookupPath(cue.ParsePath("instructions")).List()
	if err != nil {
		return e, formatCUEError(err)
	}
	var insts []pulse.Instruction
	for j := 0; iter.Next(); j++ {
		in, err := decodeInstruction(iter.Value(), fmt.Sprintf("%s.instructions[%d]", field, j))
		if err != nil {
			return e, err
		}
		insts = append(insts, in)
		e.instructions = append(e.instructions, instructionSpec{
			Channel: in.Channel,
			Length:  in.Duration(),
			Pos:     iter.Value().Pos(),
		})
	}
	e.Schedule = pulse.NewSchedule(e.Gate, insts...)
	return e, nil
}

func decodeInstruction(v cue.Value, field string) (pulse.Instruction, error) {
	name, err := lookupString(v, "name")
	if err != nil {
		return pulse.Instruction{}, err
	}
	chName, err := lookupString(v, "channel")
	if err != nil {
		return pulse.Instruction{}, err
	}
	ch, err := pulse.ParseChannel(chName)
	if err != nil {
		return pulse.Instruction{}, &CompileError{Code: ErrInvalidChannel, Field: field + ".channel", Message: err.Error(), Pos: v.Pos()}
	}
	start, err := lookupInt(v, "start")
	if err != nil {
		return pulse.Instruction{}, err
	}
	samples, err := compileShape(v.LookupPath(cue.ParsePath("shape")), field+".shape")
	if err != nil {
		return pulse.Instruction{}, err
	}
	return pulse.Instruction{
		Start:   start,
		Channel: ch,
		Pulse:   pulse.Pulse{Name: name, Samples: samples},
	}, nil
}

// checkEntry runs the device-dependent checks for one entry.
func checkEntry(dev *device.Device, field string, e entrySpec) []*CompileError {
	var errs []*CompileError
	if len(e.Qubits) == 0 {
		errs = append(errs, &CompileError{Code: ErrGateArity, Field: field + ".qubits", Message: "at least one qubit is required", Pos: e.Pos})
	}
	for _, q := range e.Qubits {
		if q >= dev.NumQubits {
			errs = append(errs, &CompileError{Code: ErrGateArity, Field: field + ".qubits",
				Message: fmt.Sprintf("qubit %d outside %d-qubit device", q, dev.NumQubits), Pos: e.Pos})
		}
	}
	for j, in := range e.instructions {
		f := fmt.Sprintf("%s.instructions[%d]", field, j)
		if in.Channel.Kind != pulse.ControlKind && in.Channel.Index >= dev.NumQubits {
			errs = append(errs, &CompileError{Code: ErrInvalidChannel, Field: f + ".channel",
				Message: fmt.Sprintf("channel %s outside %d-qubit device", in.Channel, dev.NumQubits), Pos: in.Pos})
		}
		if in.Length%dev.Granularity != 0 {
			errs = append(errs, &CompileError{Code: ErrGranularity, Field: f + ".shape",
				Message: fmt.Sprintf("waveform length %d is not a multiple of %d", in.Length, dev.Granularity), Pos: in.Pos})
		}
	}
	return errs
}

func lookupString(v cue.Value, path string) (string, error) {
	fv, err := lookup(v, path)
	if err != nil {
		return "", err
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func lookupInt(v cue.Value, path string) (int, error) {
	fv, err := lookup(v, path)
	if err != nil {
		return 0, err
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func lookupFloat(v cue.Value, path string) (float64, error) {
	fv, err := lookup(v, path)
	if err != nil {
		return 0, err
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

func lookupInts(v cue.Value, path string) ([]int, error) {
	fv, err := lookup(v, path)
	if err != nil {
		return nil, err
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}

func lookupStrings(v cue.Value, path string) ([]string, error) {
	fv, err := lookup(v, path)
	if err != nil {
		return nil, err
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// lookup resolves path under v, applying defaults.
func lookup(v cue.Value, path string) (cue.Value, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return fv, &CompileError{
			Code:    ErrMissingField,
			Field:   path,
			Message: path + " is required",
			Pos:     v.Pos(),
		}
	}
	if d, ok := fv.Default(); ok {
		fv = d
	}
	return fv, nil
}
