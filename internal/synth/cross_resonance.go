package synth

import (
	"math"
	"strings"

	"github.com/roach88/pulsecal/internal/pulse"
)

// crPrimitive is the matched CR90 pulse pair of the native interaction.
type crPrimitive struct {
	drive   pulse.Instruction
	control pulse.Instruction
}

// CrossResonance returns an echoed cross-resonance schedule rotating by
// theta between control and target:
//
//	CR(+theta) ; X(control) ; CR(-theta)
//
// For negative theta the two halves are swapped. Each half plays the
// resized drive/control pulse pair simultaneously.
func (s *Synthesizer) CrossResonance(theta float64, control, target int) (pulse.Schedule, error) {
	prim, err := s.findPrimitive(control, target)
	if err != nil {
		return pulse.Schedule{}, err
	}

	flip := false
	if theta < 0 {
		flip = true
		theta = -theta
	}
	theta = math.Mod(theta, 2*math.Pi)

	drive := prim.drive.Pulse.Samples
	ctrl := prim.control.Pulse.Samples
	fullArea := ctrl.Area()
	targetArea := fullArea * (theta / (math.Pi / 2))

	f, err := detectFlattop(drive, ctrl)
	if err != nil {
		return pulse.Schedule{}, err
	}

	amp := real(ctrl[f.Start])
	if amp == 0 {
		return pulse.Schedule{}, &PlateauMismatchError{Reason: "control plateau has zero in-phase amplitude"}
	}
	outside := ctrl[:f.Start].Area() + ctrl[f.End+1:].Area()
	edges := len(ctrl) - f.width()
	g := s.cfg.Granularity

	flat, err := plateauDuration(targetArea, outside, amp)
	if err != nil {
		return pulse.Schedule{}, err
	}
	flat = alignPlateau(edges, flat, g)

	newDrive := rebuild(drive, f, flat)
	newCtrl := rebuild(ctrl, f, flat)
	for _, w := range []struct {
		ch pulse.Channel
		n  int
	}{{prim.drive.Channel, len(newDrive)}, {prim.control.Channel, len(newCtrl)}} {
		if w.n%g != 0 {
			return pulse.Schedule{}, &AlignmentError{Channel: w.ch, Length: w.n, Granularity: g}
		}
	}

	actual := newCtrl.Area()
	var factor float64
	switch {
	case actual != 0:
		factor = targetArea / actual
	case targetArea != 0:
		return pulse.Schedule{}, &PlateauMismatchError{Reason: "rebuilt control waveform has zero area"}
	}
	newDrive = newDrive.Scale(factor)
	newCtrl = newCtrl.Scale(factor)

	s.cfg.Logger.Debug("cross resonance resized",
		"control", control,
		"target", target,
		"theta", theta,
		"flip", flip,
		"flat_duration", flat,
		"duration", len(newCtrl),
		"correction", factor)

	plus := pulse.NewSchedule("",
		pulse.Instruction{Channel: prim.drive.Channel, Pulse: pulse.Pulse{Name: "CRp_" + prim.drive.Channel.Name(), Samples: newDrive}},
		pulse.Instruction{Channel: prim.control.Channel, Pulse: pulse.Pulse{Name: "CRp_" + prim.control.Channel.Name(), Samples: newCtrl}},
	)
	minus := plus.Negate()
	for i := range minus.Instructions {
		minus.Instructions[i].Pulse.Name = "CRm_" + minus.Instructions[i].Channel.Name()
	}

	echo, err := s.lib.Get(s.cfg.PiGate, []int{control})
	if err != nil {
		return pulse.Schedule{}, err
	}

	if flip {
		return minus.Append(echo).Append(plus), nil
	}
	return plus.Append(echo).Append(minus), nil
}

// findPrimitive checks the native direction of (control, target) and picks
// the marked drive and control pulses from its interaction schedule.
func (s *Synthesizer) findPrimitive(control, target int) (crPrimitive, error) {
	forward, err := s.lib.Get(s.cfg.CNOTGate, []int{control, target})
	if err != nil {
		return crPrimitive{}, err
	}
	reverse, err := s.lib.Get(s.cfg.CNOTGate, []int{target, control})
	if err != nil {
		return crPrimitive{}, err
	}
	if forward.Len() >= reverse.Len() {
		return crPrimitive{}, &FlippedQubitOrderError{
			Control:    control,
			Target:     target,
			ForwardLen: forward.Len(),
			ReverseLen: reverse.Len(),
		}
	}

	targetDrive, err := s.channels.DriveChannel(target)
	if err != nil {
		return crPrimitive{}, err
	}

	var drives, controls []pulse.Instruction
	for _, in := range forward.Instructions {
		if !strings.Contains(in.Pulse.Name, s.cfg.PrimitiveMarker) {
			continue
		}
		switch {
		case in.Channel == targetDrive:
			drives = append(drives, in)
		case in.Channel.Kind == pulse.ControlKind:
			controls = append(controls, in)
		}
	}
	if len(drives) != 1 {
		return crPrimitive{}, &AmbiguousPrimitiveError{Role: "drive", Marker: s.cfg.PrimitiveMarker, Count: len(drives)}
	}
	if len(controls) != 1 {
		return crPrimitive{}, &AmbiguousPrimitiveError{Role: "control", Marker: s.cfg.PrimitiveMarker, Count: len(controls)}
	}
	return crPrimitive{drive: drives[0], control: controls[0]}, nil
}
