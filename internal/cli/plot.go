package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/compiler"
	"github.com/roach88/pulsecal/internal/waveplot"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	Database string
	Gate     string
	Qubits   []int
	Output   string
	Title    string
}

// PlotResult describes a rendered plot.
type PlotResult struct {
	Gate     string   `json:"gate"`
	Qubits   []int    `json:"qubits"`
	Output   string   `json:"output"`
	Channels []string `json:"channels"`
	Duration int      `json:"duration"`
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot <calibration>",
		Short: "Plot the pulse envelopes of one calibration entry",
		Long: `Render the I and Q envelopes of every channel of a calibration entry.

The output format follows the file extension (.png or .svg). With --db,
entries synthesized by earlier runs can be plotted too.

Examples:
  pulsecal plot ./calibration --gate x --qubits 0 -o x0.png
  pulsecal plot ./calibration --db ./pulsecal.db --gate cr_0.785 --qubits 0,1 -o cr.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite store for synthesized entries")
	cmd.Flags().StringVar(&opts.Gate, "gate", "", "gate name (required)")
	cmd.Flags().IntSliceVar(&opts.Qubits, "qubits", nil, "gate qubits (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file, .png or .svg (required)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "plot title (default: gate and qubits)")
	_ = cmd.MarkFlagRequired("gate")
	_ = cmd.MarkFlagRequired("qubits")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runPlot(opts *PlotOptions, calPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cal, err := compiler.LoadCalibration(calPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), nil)
	}
	if opts.Database != "" {
		st, err := openStore(formatter, opts.Database)
		if err != nil {
			return err
		}
		defer st.Close()
		if _, err := mergeStored(ctx, st, cal); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to load stored entries: %v", err), nil)
		}
	}

	sched, err := cal.Library.Get(opts.Gate, opts.Qubits)
	if err != nil {
		return formatter.Fail(ExitFailure, errorCode(err), err.Error(), nil)
	}

	title := opts.Title
	if title == "" {
		title = calib.NewKey(opts.Gate, opts.Qubits).String()
	}
	if err := waveplot.Save(opts.Output, sched, title); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}
	formatter.VerboseLog("Wrote %s", opts.Output)

	result := PlotResult{
		Gate:     opts.Gate,
		Qubits:   opts.Qubits,
		Output:   opts.Output,
		Channels: []string{},
		Duration: sched.Duration(),
	}
	for _, ch := range sched.Channels() {
		result.Channels = append(result.Channels, ch.Name())
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Plotted %s (%d channel(s), %d ticks) to %s\n",
		title, len(result.Channels), result.Duration, opts.Output)
	return nil
}
