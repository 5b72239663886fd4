package synth

import (
	"io"
	"log/slog"

	"github.com/roach88/pulsecal/internal/pulse"
)

// Defaults matching the observed device calibration.
const (
	DefaultPiGate          = "x"
	DefaultCNOTGate        = "cx"
	DefaultPrimitiveMarker = "CR90p"
	DefaultGranularity     = 16
)

// Config holds the synthesis policy knobs.
type Config struct {
	// PiGate is the calibration name of the full pi rotation.
	PiGate string
	// CNOTGate is the calibration name of the two-qubit interaction whose
	// instruction count reveals the native CR direction.
	CNOTGate string
	// PrimitiveMarker selects the CR90 primitive pulses by name.
	PrimitiveMarker string
	// Granularity is the waveform length quantum in ticks.
	Granularity int

	Policy      pulse.Policy
	RescaleOpts []pulse.RescaleOption
	Logger      *slog.Logger
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		PiGate:          DefaultPiGate,
		CNOTGate:        DefaultCNOTGate,
		PrimitiveMarker: DefaultPrimitiveMarker,
		Granularity:     DefaultGranularity,
		Policy:          pulse.RescaleHeight,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Synthesizer.
type Option func(*Config)

// WithPiGate sets the calibration name of the pi pulse.
func WithPiGate(name string) Option {
	return func(c *Config) {
		c.PiGate = name
	}
}

// WithCNOTGate sets the calibration name of the two-qubit interaction.
func WithCNOTGate(name string) Option {
	return func(c *Config) {
		c.CNOTGate = name
	}
}

// WithPrimitiveMarker sets the substring that marks CR90 primitive pulses.
func WithPrimitiveMarker(marker string) Option {
	return func(c *Config) {
		c.PrimitiveMarker = marker
	}
}

// WithGranularity sets the waveform length quantum. Values below 1 are
// ignored.
func WithGranularity(g int) Option {
	return func(c *Config) {
		if g > 0 {
			c.Granularity = g
		}
	}
}

// WithRescalePolicy sets the policy used by DirectRotation.
//
// Only pulse.RescaleHeight is production ready; the width policies also need
// pulse.WithExperimentalPolicies in opts.
func WithRescalePolicy(p pulse.Policy, opts ...pulse.RescaleOption) Option {
	return func(c *Config) {
		c.Policy = p
		c.RescaleOpts = opts
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
