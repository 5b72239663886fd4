package testutil

import (
	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/device"
	"github.com/roach88/pulsecal/internal/pulse"
)

// Shape parameters of the two-qubit fixture calibration.
const (
	PiDuration = 160
	PiSigma    = 40.0

	CRDuration = 560
	CRWidth    = 432
	CRSigma    = 16.0
	CRRise     = (CRDuration - CRWidth) / 2
)

// Amplitudes of the fixture pulses.
var (
	PiAmp      = complex(0.2, 0.01)
	CRDriveAmp = complex(0.05, -0.004)
	CRCtrlAmp  = complex(0.3, 0.02)
	Y90Amp     = complex(0.0, 0.1)
)

// TwoQubitDevice returns a device with coupled qubits 0 and 1 whose cross
// resonance is natively driven from 0 (control) to 1 (target).
func TwoQubitDevice() *device.Device {
	return device.New("fake_two_qubit", 2,
		device.WithGranularity(device.DefaultGranularity),
		device.WithBasisGates("id", "u1", "u2", "u3", "cx"),
		device.WithControlChannel(0, 1, 0),
		device.WithControlChannel(1, 0, 1),
	)
}

// TwoQubitLibrary returns a calibration library for TwoQubitDevice.
//
// cx(0,1) is the native direction: 5 instructions built around CR90p/CR90m
// flat-top pulses on d1 and u0. cx(1,0) wraps the same pulses in extra
// single-qubit rotations and therefore has 7 instructions.
func TwoQubitLibrary() *calib.MemoryLibrary {
	lib := calib.NewMemoryLibrary()
	for q := 0; q < 2; q++ {
		mustAdd(lib, "x", []int{q}, pulse.NewSchedule("x", PiInstruction(q, 0)))
	}

	cr := CRPair(0)
	forward := pulse.NewSchedule("cx", cr...)
	forward = forward.Append(pulse.NewSchedule("", PiInstruction(0, 0)))
	forward = forward.Append(pulse.NewSchedule("", negated(cr)...))
	mustAdd(lib, "cx", []int{0, 1}, forward)

	reverse := pulse.NewSchedule("cx", y90(0))
	reverse = reverse.Append(forward)
	reverse = reverse.Append(pulse.NewSchedule("", y90(1)))
	mustAdd(lib, "cx", []int{1, 0}, reverse)

	return lib
}

// PiInstruction returns the calibrated pi pulse on qubit's drive channel.
func PiInstruction(qubit, start int) pulse.Instruction {
	return pulse.Instruction{
		Start:   start,
		Channel: pulse.Drive(qubit),
		Pulse:   pulse.Pulse{Name: "Xp_" + pulse.Drive(qubit).Name(), Samples: PiWaveform()},
	}
}

// PiWaveform returns the fixture pi pulse samples.
func PiWaveform() pulse.Waveform {
	return must(pulse.Gaussian(PiDuration, PiAmp, PiSigma))
}

// CRDriveWaveform returns the active-cancellation flat-top samples.
func CRDriveWaveform() pulse.Waveform {
	return must(pulse.GaussianSquare(CRDuration, CRDriveAmp, CRSigma, CRWidth))
}

// CRControlWaveform returns the cross-frequency flat-top samples.
func CRControlWaveform() pulse.Waveform {
	return must(pulse.GaussianSquare(CRDuration, CRCtrlAmp, CRSigma, CRWidth))
}

// CRPair returns the CR90p drive/control instructions starting at start.
func CRPair(start int) []pulse.Instruction {
	return []pulse.Instruction{
		{Start: start, Channel: pulse.Drive(1), Pulse: pulse.Pulse{Name: "CR90p_d1_u0", Samples: CRDriveWaveform()}},
		{Start: start, Channel: pulse.Control(0), Pulse: pulse.Pulse{Name: "CR90p_u0", Samples: CRControlWaveform()}},
	}
}

func negated(insts []pulse.Instruction) []pulse.Instruction {
	out := make([]pulse.Instruction, len(insts))
	for i, in := range insts {
		in.Pulse.Name = "CR90m" + in.Pulse.Name[len("CR90p"):]
		in.Pulse.Samples = in.Pulse.Samples.Negate()
		out[i] = in
	}
	return out
}

func y90(qubit int) pulse.Instruction {
	return pulse.Instruction{
		Channel: pulse.Drive(qubit),
		Pulse: pulse.Pulse{
			Name:    "Y90p_" + pulse.Drive(qubit).Name(),
			Samples: must(pulse.Gaussian(PiDuration, Y90Amp, PiSigma)),
		},
	}
}

func mustAdd(lib *calib.MemoryLibrary, gate string, qubits []int, s pulse.Schedule) {
	if err := lib.Add(gate, qubits, s); err != nil {
		panic(err)
	}
}

func must(w pulse.Waveform, err error) pulse.Waveform {
	if err != nil {
		panic(err)
	}
	return w
}
