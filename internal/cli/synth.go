package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/compiler"
	"github.com/roach88/pulsecal/internal/program"
	"github.com/roach88/pulsecal/internal/pulse"
	"github.com/roach88/pulsecal/internal/registrar"
	"github.com/roach88/pulsecal/internal/store"
	"github.com/roach88/pulsecal/internal/synth"
)

// SynthOptions holds flags for the synth command.
type SynthOptions struct {
	*RootOptions
	Database        string
	Session         string
	PiGate          string
	CNOTGate        string
	PrimitiveMarker string
}

// EntryInfo summarises one synthesized calibration entry.
type EntryInfo struct {
	Gate         string   `json:"gate"`
	Qubits       []int    `json:"qubits"`
	Instructions int      `json:"instructions"`
	Duration     int      `json:"duration"`
	Channels     []string `json:"channels"`
}

// SynthResult is the outcome of a synth run.
type SynthResult struct {
	Device      string      `json:"device"`
	Session     string      `json:"session,omitempty"`
	Processed   int         `json:"processed"`
	Synthesized []EntryInfo `json:"synthesized"`
	BasisGates  []string    `json:"basis_gates"`
}

// fixedSession is a SessionGenerator for a caller-chosen session id.
type fixedSession string

func (s fixedSession) Generate() string { return string(s) }

// NewSynthCommand creates the synth command.
func NewSynthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "synth <calibration> <program>",
		Short: "Synthesize and register the gates of a program",
		Long: `Register every gate of a decomposed gate program against a calibration.

direct_rx_<theta> and cr_<theta> gates are synthesized from the calibrated
pi pulse and cross-resonance primitive when the library has no entry for
them yet; open_cx is only added to the basis set. Other gates pass through.

With --db, entries synthesized by earlier runs are reused and new entries
are persisted with the session id of this run.

Exit codes:
  0 - All gates registered
  1 - A gate could not be synthesized
  2 - Command error (invalid paths, malformed program, etc.)

Examples:
  pulsecal synth ./calibration ./program.yaml
  pulsecal synth ./calibration ./program.yaml --db ./pulsecal.db
  pulsecal synth ./calibration ./program.yaml --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite store for persisted entries")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default: new UUIDv7)")
	cmd.Flags().StringVar(&opts.PiGate, "pi-gate", "", "calibrated pi gate name (default \"x\")")
	cmd.Flags().StringVar(&opts.CNOTGate, "cnot-gate", "", "calibrated interaction gate name (default \"cx\")")
	cmd.Flags().StringVar(&opts.PrimitiveMarker, "marker", "", "cross-resonance primitive pulse marker (default \"CR90p\")")

	return cmd
}

func runSynth(opts *SynthOptions, calPath, progPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cal, err := compiler.LoadCalibration(calPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), nil)
	}
	prog, err := program.Load(progPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeProgram, err.Error(), nil)
	}
	gates, err := prog.Decompose()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeProgram, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded %d calibration entries and %d gates", cal.Library.Len(), len(gates))

	result := SynthResult{
		Device:      cal.Device.Name,
		Processed:   len(gates),
		Synthesized: []EntryInfo{},
	}

	var (
		st       *store.Store
		writeErr error
	)
	if opts.Database != "" {
		st, err = openStore(formatter, opts.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		reused, err := mergeStored(ctx, st, cal)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to load stored entries: %v", err), nil)
		}
		formatter.VerboseLog("Reused %d stored entries", reused)

		var gen store.SessionGenerator = store.UUIDv7Generator{}
		if opts.Session != "" {
			gen = fixedSession(opts.Session)
		}
		result.Session, err = st.BeginSession(ctx, gen, cal.Device.Name)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		if _, err := st.SaveLibrary(ctx, result.Session, store.OriginCalibrated, cal.Library); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
	}

	s := synth.New(cal.Library, cal.Device, opts.synthOptions(cal, logger)...)
	reg := registrar.New(cal.Device.BasisGates(), cal.Library, s,
		registrar.WithLogger(logger),
		registrar.WithOnSynthesized(func(key calib.Key, sched pulse.Schedule) {
			result.Synthesized = append(result.Synthesized, entryInfo(key, sched))
			if st == nil || writeErr != nil {
				return
			}
			if _, err := st.WriteEntry(ctx, result.Session, store.OriginSynthesized, key, sched); err != nil {
				writeErr = err
			}
		}),
	)

	regErr := reg.Register(gates)
	result.BasisGates = cal.Device.BasisGates().List()

	if st != nil {
		if writeErr != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, writeErr.Error(), nil)
		}
		if err := st.WriteBasisGates(ctx, cal.Device.Name, result.BasisGates); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
	}

	if regErr != nil {
		return formatter.Fail(ExitFailure, ErrCodeRegister, regErr.Error(), result)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputSynthText(formatter, result)
	return nil
}

func (o *SynthOptions) synthOptions(cal *compiler.Calibration, logger *slog.Logger) []synth.Option {
	opts := []synth.Option{
		synth.WithGranularity(cal.Device.Granularity),
		synth.WithLogger(logger),
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

func entryInfo(key calib.Key, sched pulse.Schedule) EntryInfo {
	channels := []string{}
	for _, ch := range sched.Channels() {
		channels = append(channels, ch.Name())
	}
	return EntryInfo{
		Gate:         key.Gate,
		Qubits:       key.QubitList(),
		Instructions: sched.Len(),
		Duration:     sched.Duration(),
		Channels:     channels,
	}
}

func outputSynthText(f *OutputFormatter, r SynthResult) {
	fmt.Fprintf(f.Writer, "Device: %s\n", r.Device)
	if r.Session != "" {
		fmt.Fprintf(f.Writer, "Session: %s\n", r.Session)
	}
	fmt.Fprintf(f.Writer, "Gates: %d processed, %d synthesized\n", r.Processed, len(r.Synthesized))
	for _, e := range r.Synthesized {
		fmt.Fprintf(f.Writer, "  %s%v  instructions=%d duration=%d channels=%s\n",
			e.Gate, e.Qubits, e.Instructions, e.Duration, strings.Join(e.Channels, ","))
	}
	fmt.Fprintf(f.Writer, "Basis gates: %s\n", strings.Join(r.BasisGates, " "))
}
