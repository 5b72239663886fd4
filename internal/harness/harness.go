package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/compiler"
	"github.com/roach88/pulsecal/internal/ir"
	"github.com/roach88/pulsecal/internal/program"
	"github.com/roach88/pulsecal/internal/pulse"
	"github.com/roach88/pulsecal/internal/registrar"
	"github.com/roach88/pulsecal/internal/store"
	"github.com/roach88/pulsecal/internal/synth"
	"github.com/roach88/pulsecal/internal/testutil"
)

// Harness executes one scenario against a private store.
type Harness struct {
	store     *store.Store
	cal       *compiler.Calibration
	reg       *registrar.Registrar
	sessionID string
	logger    *slog.Logger

	// writeErr holds the first store failure raised from the synthesis
	// callback, which cannot return errors itself.
	writeErr error
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile the calibration spec and persist it as calibrated entries
// 2. Load and decompose the gate program
// 3. Register gates one by one, recording each outcome
// 4. Persist the basis set and read back synthesized entries
// 5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with an explicit logger for synthesis and
// registration events.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cal, err := compiler.LoadCalibration(scenario.Calibration)
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration: %w", err)
	}
	prog, err := program.Load(scenario.Program)
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	gates, err := prog.Decompose()
	if err != nil {
		return nil, fmt.Errorf("failed to decompose program: %w", err)
	}

	ctx := context.Background()
	sessionID, err := st.BeginSession(ctx, testutil.NewFixedSessionGenerator(scenario.Session), cal.Device.Name)
	if err != nil {
		return nil, err
	}
	if _, err := st.SaveLibrary(ctx, sessionID, store.OriginCalibrated, cal.Library); err != nil {
		return nil, fmt.Errorf("failed to persist calibration: %w", err)
	}

	h := &Harness{
		store:     st,
		cal:       cal,
		sessionID: sessionID,
		logger:    logger,
	}
	s := synth.New(cal.Library, cal.Device, synthOptions(scenario.Synth, cal, logger)...)
	h.reg = registrar.New(cal.Device.BasisGates(), cal.Library, s,
		registrar.WithLogger(logger),
		registrar.WithOnSynthesized(func(key calib.Key, sched pulse.Schedule) {
			h.persist(ctx, key, sched)
		}),
	)

	result := NewResult()
	result.Session = sessionID
	result.Device = cal.Device.Name

	h.register(gates, result)
	if h.writeErr != nil {
		return nil, fmt.Errorf("failed to persist synthesized entry: %w", h.writeErr)
	}
	if err := h.collect(ctx, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func synthOptions(o *SynthOptions, cal *compiler.Calibration, logger *slog.Logger) []synth.Option {
	opts := []synth.Option{
		synth.WithGranularity(cal.Device.Granularity),
		synth.WithLogger(logger),
	}
	if o == nil {
		return opts
	}
	if o.PiGate != "" {
		opts = append(opts, synth.WithPiGate(o.PiGate))
	}
	if o.CNOTGate != "" {
		opts = append(opts, synth.WithCNOTGate(o.CNOTGate))
	}
	if o.PrimitiveMarker != "" {
		opts = append(opts, synth.WithPrimitiveMarker(o.PrimitiveMarker))
	}
	return opts
}

// register feeds gates to the registrar one at a time so each outcome can
// be traced. It stops at the first failure, like Registrar.Register.
func (h *Harness) register(gates []ir.Gate, result *Result) {
	for i, g := range gates {
		before := h.reg.Synthesized()
		err := h.reg.RegisterGate(g)
		result.AddTrace(i, g.Name, g.Qubits, g.Kind.String(), classify(g, before, h.reg.Synthesized(), err))

		h.logger.Info("gate processed",
			"step", i,
			"gate", g.Name,
			"qubits", g.Qubits,
			"action", result.Trace[len(result.Trace)-1].Action,
		)
		if err != nil {
			result.RegisterError = err.Error()
			return
		}
	}
}

func classify(g ir.Gate, before, after int64, err error) string {
	switch {
	case err != nil:
		return ActionFailed
	case !g.Kind.Registered():
		return ActionPassthrough
	case !g.Kind.Synthesized():
		return ActionRegistered
	case after > before:
		return ActionSynthesized
	default:
		return ActionCached
	}
}

func (h *Harness) persist(ctx context.Context, key calib.Key, sched pulse.Schedule) {
	if h.writeErr != nil {
		return
	}
	if _, err := h.store.WriteEntry(ctx, h.sessionID, store.OriginSynthesized, key, sched); err != nil {
		h.writeErr = err
	}
}

// collect reads the final basis set and synthesized entries back from the
// store so the result reflects what was persisted.
func (h *Harness) collect(ctx context.Context, result *Result) error {
	dev := h.cal.Device
	if err := h.store.WriteBasisGates(ctx, dev.Name, dev.BasisGates().List()); err != nil {
		return err
	}
	basis, err := h.store.ReadBasisGates(ctx, dev.Name)
	if err != nil {
		return err
	}
	result.BasisGates = basis

	records, err := h.store.ReadSessionEntries(ctx, h.sessionID)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Origin != store.OriginSynthesized {
			continue
		}
		result.Entries = append(result.Entries, summarize(r, dev.Granularity))
	}
	return nil
}

func summarize(r store.Record, granularity int) EntrySummary {
	e := EntrySummary{
		Gate:         r.Key.Gate,
		Qubits:       r.Key.QubitList(),
		Instructions: r.Schedule.Len(),
		Duration:     r.Schedule.Duration(),
		Channels:     []string{},
		Aligned:      true,
	}
	for _, ch := range r.Schedule.Channels() {
		e.Channels = append(e.Channels, ch.Name())
	}
	for _, in := range r.Schedule.Instructions {
		if in.Pulse.Samples.Len()%granularity != 0 {
			e.Aligned = false
		}
	}
	return e
}
