package synth

import (
	"fmt"
	"math"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/pulse"
)

// NormalizeAngle reduces theta to (-pi, pi] in constant time. Angles
// less than one turn outside the range shift by exactly 2pi.
func NormalizeAngle(theta float64) float64 {
	switch {
	case theta > -math.Pi && theta <= math.Pi:
		return theta
	case theta > math.Pi && theta < 2*math.Pi:
		return theta - 2*math.Pi
	case theta <= -math.Pi && theta > -2*math.Pi:
		return theta + 2*math.Pi
	}
	theta = math.Remainder(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}

// DirectRotation returns a one-instruction schedule rotating qubit by theta
// about X. The calibrated pi pulse is rescaled by theta/pi after reducing
// theta to its shortest signed equivalent.
func (s *Synthesizer) DirectRotation(theta float64, qubit int) (pulse.Schedule, error) {
	qubits := []int{qubit}
	pi, err := s.lib.Get(s.cfg.PiGate, qubits)
	if err != nil {
		return pulse.Schedule{}, err
	}
	if pi.Len() != 1 {
		return pulse.Schedule{}, &calib.MissingCalibrationError{
			Gate:   s.cfg.PiGate,
			Qubits: qubits,
			Reason: fmt.Sprintf("expected exactly 1 instruction, found %d", pi.Len()),
		}
	}

	ch, err := s.channels.DriveChannel(qubit)
	if err != nil {
		return pulse.Schedule{}, err
	}

	theta = NormalizeAngle(theta)
	samples, err := pulse.Rescale(pi.Instructions[0].Pulse.Samples, theta/math.Pi, s.cfg.Policy, s.cfg.RescaleOpts...)
	if err != nil {
		return pulse.Schedule{}, fmt.Errorf("rescale pi pulse on qubit %d: %w", qubit, err)
	}

	s.cfg.Logger.Debug("direct rotation synthesized",
		"qubit", qubit,
		"theta", theta,
		"duration", len(samples))

	return pulse.NewSchedule("", pulse.Instruction{
		Channel: ch,
		Pulse:   pulse.Pulse{Name: "direct_rx_" + ch.Name(), Samples: samples},
	}), nil
}
