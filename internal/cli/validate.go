package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsecal/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Device  string                     `json:"device,omitempty"`
	Entries int                        `json:"entries,omitempty"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <calibration>",
		Short: "Validate a calibration spec",
		Long: `Validate a CUE calibration spec (file or package directory).

Checks the schema, the device description and every calibration entry
(channel ranges, gate arity, waveform granularity, duplicates) and reports
all problems at once.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	value, err := compiler.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), nil)
	}
	formatter.VerboseLog("Loaded calibration spec %s", path)

	if errs := compiler.Validate(value); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	cal, err := compiler.CompileCalibration(value)
	if err != nil {
		return formatter.Fail(ExitFailure, errorCode(err), err.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{
			Valid:   true,
			Device:  cal.Device.Name,
			Entries: cal.Library.Len(),
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Calibration valid: %s, %d qubit(s), %d entries\n",
		cal.Device.Name, cal.Device.NumQubits, cal.Library.Len())
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return exitErr
}
