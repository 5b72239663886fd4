package synth

import (
	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/pulse"
)

// ChannelResolver maps a qubit to its drive channel.
// Implemented by *device.Device.
type ChannelResolver interface {
	DriveChannel(qubit int) (pulse.Channel, error)
}

// Synthesizer builds rotation schedules from a calibration library.
//
// A Synthesizer holds no mutable state and is safe for concurrent use as
// long as the library is.
type Synthesizer struct {
	lib      calib.Library
	channels ChannelResolver
	cfg      Config
}

// New creates a Synthesizer reading calibrations from lib.
func New(lib calib.Library, channels ChannelResolver, opts ...Option) *Synthesizer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Synthesizer{lib: lib, channels: channels, cfg: cfg}
}

// Config returns the effective configuration.
func (s *Synthesizer) Config() Config {
	return s.cfg
}
