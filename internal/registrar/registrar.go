// Package registrar walks a decomposed gate sequence and registers
// synthesized gates with the device basis set and the calibration library.
//
// Synthesis runs at most once per (gate name, qubit tuple) key, including
// under concurrent Register calls.
package registrar

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/device"
	"github.com/roach88/pulsecal/internal/ir"
	"github.com/roach88/pulsecal/internal/pulse"
)

// GateSynthesizer builds schedules for synthesized gates.
// Implemented by *synth.Synthesizer.
type GateSynthesizer interface {
	DirectRotation(theta float64, qubit int) (pulse.Schedule, error)
	CrossResonance(theta float64, control, target int) (pulse.Schedule, error)
}

// GateError names the gate whose registration failed.
type GateError struct {
	Gate   string
	Qubits []int
	Err    error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("register %s%v: %v", e.Gate, e.Qubits, e.Err)
}

func (e *GateError) Unwrap() error {
	return e.Err
}

// Registrar registers synthesized gates.
type Registrar struct {
	basis  *device.BasisGates
	lib    calib.Library
	synth  GateSynthesizer
	logger *slog.Logger

	onSynthesized func(calib.Key, pulse.Schedule)

	group       singleflight.Group
	synthesized atomic.Int64
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registrar) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOnSynthesized registers a callback invoked once for every new
// library entry, after it has been inserted.
func WithOnSynthesized(fn func(calib.Key, pulse.Schedule)) Option {
	return func(r *Registrar) {
		r.onSynthesized = fn
	}
}

// New creates a Registrar over the given basis set and library.
func New(basis *device.BasisGates, lib calib.Library, s GateSynthesizer, opts ...Option) *Registrar {
	r := &Registrar{
		basis:  basis,
		lib:    lib,
		synth:  s,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register processes gates in order and stops at the first failure.
//
// Direct-rotation, cross-resonance and open_cx gates join the basis set.
// The first two are also synthesized and inserted into the library when
// the library has no entry for their key. Other gates are ignored.
func (r *Registrar) Register(gates []ir.Gate) error {
	for _, g := range gates {
		if err := r.RegisterGate(g); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGate processes a single gate.
func (r *Registrar) RegisterGate(g ir.Gate) error {
	if !g.Kind.Registered() {
		return nil
	}
	if r.basis.Add(g.Name) {
		r.logger.Info("basis gate registered", "gate", g.Name, "kind", g.Kind.String())
	}
	if !g.Kind.Synthesized() || r.lib.Has(g.Name, g.Qubits) {
		return nil
	}

	key := calib.NewKey(g.Name, g.Qubits)
	_, err, _ := r.group.Do(key.String(), func() (any, error) {
		if r.lib.Has(g.Name, g.Qubits) {
			return nil, nil
		}
		sched, err := r.synthesize(g)
		if err != nil {
			return nil, err
		}
		if err := r.lib.Add(g.Name, g.Qubits, sched); err != nil {
			return nil, err
		}
		r.synthesized.Add(1)
		r.logger.Info("calibration synthesized",
			"gate", g.Name,
			"qubits", key.Qubits,
			"instructions", sched.Len(),
			"duration", sched.Duration())
		if r.onSynthesized != nil {
			r.onSynthesized(key, sched)
		}
		return nil, nil
	})
	if err != nil {
		return &GateError{Gate: g.Name, Qubits: g.Qubits, Err: err}
	}
	return nil
}

func (r *Registrar) synthesize(g ir.Gate) (pulse.Schedule, error) {
	switch g.Kind {
	case ir.GateDirectRX:
		return r.synth.DirectRotation(g.Theta, g.Qubits[0])
	case ir.GateCR:
		return r.synth.CrossResonance(g.Theta, g.Qubits[0], g.Qubits[1])
	default:
		return pulse.Schedule{}, fmt.Errorf("gate kind %s is not synthesized", g.Kind)
	}
}

// Synthesized returns how many synthesized schedules this Registrar has
// inserted into the library.
func (r *Registrar) Synthesized() int64 {
	return r.synthesized.Load()
}
