package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsecal/internal/stats"
)

// StatsResult holds the distance between two count distributions.
type StatsResult struct {
	Ideal        string  `json:"ideal"`
	Measured     string  `json:"measured"`
	Shots        int     `json:"shots"`
	KLDivergence float64 `json:"kl_divergence"`
	CrossEntropy float64 `json:"cross_entropy"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <ideal.json> <measured.json>",
		Short: "Compare measured counts against an ideal distribution",
		Long: `Compute the Kullback-Leibler divergence and cross entropy between a
measured outcome distribution and the ideal one.

Both files are JSON objects mapping outcome bitstrings to counts.

Examples:
  pulsecal stats ideal.json measured.json
  pulsecal stats ideal.json measured.json --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, idealPath, measuredPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ideal, err := stats.LoadCounts(idealPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCounts, err.Error(), nil)
	}
	measured, err := stats.LoadCounts(measuredPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCounts, err.Error(), nil)
	}

	kl, err := stats.KLDivergence(ideal, measured)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeCounts, err.Error(), nil)
	}
	ce, err := stats.CrossEntropy(ideal, measured)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeCounts, err.Error(), nil)
	}

	result := StatsResult{
		Ideal:        idealPath,
		Measured:     measuredPath,
		Shots:        measured.Total(),
		KLDivergence: kl,
		CrossEntropy: ce,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Shots: %d\n", result.Shots)
	fmt.Fprintf(formatter.Writer, "KL divergence: %.6f\n", result.KLDivergence)
	fmt.Fprintf(formatter.Writer, "Cross entropy: %.6f\n", result.CrossEntropy)
	return nil
}
