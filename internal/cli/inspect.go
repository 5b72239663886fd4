package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsecal/internal/store"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
	Session  string
	Gate     string
	Origin   string
}

// StoredEntry describes one persisted calibration entry.
type StoredEntry struct {
	Seq          int64  `json:"seq"`
	Gate         string `json:"gate"`
	Qubits       []int  `json:"qubits"`
	Origin       string `json:"origin"`
	Session      string `json:"session"`
	Digest       string `json:"digest"`
	Instructions int    `json:"instructions"`
	Duration     int    `json:"duration"`
}

// StoredSession describes one persisted session and its device's basis set.
type StoredSession struct {
	ID         string   `json:"id"`
	Device     string   `json:"device"`
	Tool       string   `json:"tool_version"`
	BasisGates []string `json:"basis_gates"`
}

// InspectResult is the content of a store.
type InspectResult struct {
	Sessions []StoredSession `json:"sessions"`
	Entries  []StoredEntry   `json:"entries"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List sessions and calibration entries in a store",
		Long: `List the sessions and calibration entries persisted by synth.

Entries are listed in insertion order with their origin (calibrated or
synthesized) and the session that produced them.

Examples:
  pulsecal inspect --db ./pulsecal.db
  pulsecal inspect --db ./pulsecal.db --session 0190c7a4-...
  pulsecal inspect --db ./pulsecal.db --origin synthesized --gate cr_0.785`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite store (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only list entries from this session")
	cmd.Flags().StringVar(&opts.Gate, "gate", "", "only list entries for this gate")
	cmd.Flags().StringVar(&opts.Origin, "origin", "", "only list entries of this origin (calibrated|synthesized)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	origin := store.Origin(opts.Origin)
	if origin != "" && origin != store.OriginCalibrated && origin != store.OriginSynthesized {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid origin %q: must be calibrated or synthesized", opts.Origin), nil)
	}

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	filter := store.Filter{Session: opts.Session, Gate: opts.Gate, Origin: origin}
	result, err := inspectStore(ctx, st, filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	if opts.Session != "" && len(result.Sessions) == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("session not found: %s", opts.Session), nil)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputInspectText(formatter, result)
	return nil
}

func inspectStore(ctx context.Context, st *store.Store, filter store.Filter) (InspectResult, error) {
	result := InspectResult{Sessions: []StoredSession{}, Entries: []StoredEntry{}}

	sessions, err := st.Sessions(ctx)
	if err != nil {
		return result, err
	}
	basis := map[string][]string{}
	for _, s := range sessions {
		if filter.Session != "" && s.ID != filter.Session {
			continue
		}
		names, ok := basis[s.Device]
		if !ok {
			if names, err = st.ReadBasisGates(ctx, s.Device); err != nil {
				return result, err
			}
			basis[s.Device] = names
		}
		result.Sessions = append(result.Sessions, StoredSession{
			ID:         s.ID,
			Device:     s.Device,
			Tool:       s.ToolVersion,
			BasisGates: names,
		})
	}

	records, err := st.Query(ctx, filter.Predicate())
	if err != nil {
		return result, err
	}
	for _, r := range records {
		result.Entries = append(result.Entries, StoredEntry{
			Seq:          r.Seq,
			Gate:         r.Key.Gate,
			Qubits:       r.Key.QubitList(),
			Origin:       string(r.Origin),
			Session:      r.SessionID,
			Digest:       r.Digest,
			Instructions: r.Schedule.Len(),
			Duration:     r.Schedule.Duration(),
		})
	}
	return result, nil
}

func outputInspectText(f *OutputFormatter, r InspectResult) {
	fmt.Fprintf(f.Writer, "Sessions (%d):\n", len(r.Sessions))
	for _, s := range r.Sessions {
		fmt.Fprintf(f.Writer, "  %s  device=%s tool=%s\n", s.ID, s.Device, s.Tool)
		fmt.Fprintf(f.Writer, "    basis: %s\n", strings.Join(s.BasisGates, " "))
	}
	fmt.Fprintf(f.Writer, "Entries (%d):\n", len(r.Entries))
	for _, e := range r.Entries {
		digest := e.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(f.Writer, "  %4d %-11s %s%v instructions=%d duration=%d digest=%s\n",
			e.Seq, e.Origin, e.Gate, e.Qubits, e.Instructions, e.Duration, digest)
	}
}
