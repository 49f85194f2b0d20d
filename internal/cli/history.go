package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ludb/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	System     string
	Constraint string
}

// RunList is the text form of stored runs.
type RunList []store.Run

func (l RunList) String() string {
	if len(l) == 0 {
		return "No runs recorded."
	}
	var sb strings.Builder
	for i, r := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		status := "linear"
		if !r.Linear {
			status = "not linear"
		}
		fmt.Fprintf(&sb, "%d  %s  %s  %s  %s", r.Seq, r.ID, r.Backend, status, shortDigest(r.SystemDigest))
	}
	return sb.String()
}

// ResultList is the text form of stored results.
type ResultList []store.Result

func (l ResultList) String() string {
	if len(l) == 0 {
		return "No results."
	}
	var sb strings.Builder
	for i, r := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s  %s/%s  %s", r.RunID, r.System, r.Name, r.Status)
		switch {
		case r.ErrorCode != "":
			fmt.Fprintf(&sb, "  %s", r.ErrorCode)
		case r.Constraint != nil && r.Constraint.Difference != nil:
			fmt.Fprintf(&sb, "  %s >= 0", r.Constraint.Difference)
		case r.Objective != nil && r.Objective.Value != nil:
			fmt.Fprintf(&sb, "  %s", r.Objective.Value)
		}
	}
	return sb.String()
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded analysis runs",
		Long: `List the runs recorded by "simplify --db", show the results of one
run, or follow one constraint across runs.

Examples:
  ludb history --db ./ludb.db
  ludb history --db ./ludb.db 0192f3c4-...
  ludb history --db ./ludb.db --system tandem --constraint order`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.System, "system", "", "system name (with --constraint)")
	cmd.Flags().StringVar(&opts.Constraint, "constraint", "", "constraint name, or \"objective\"")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	// store.Open would create a missing file.
	if _, err := os.Stat(opts.Database); err != nil {
		message := fmt.Sprintf("database not found: %s", opts.Database)
		if outErr := formatter.Error(ErrCodeNotFound, message, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, message)
	}
	if (opts.System == "") != (opts.Constraint == "") {
		return badFlag(formatter, "--system and --constraint must be given together")
	}
	if runID != "" && opts.System != "" {
		return badFlag(formatter, "a run id excludes --system and --constraint")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return storeFailure(formatter, "failed to open database", err)
	}
	defer st.Close()

	ctx := commandContext(cmd)
	switch {
	case runID != "":
		results, err := st.ReadResults(ctx, runID)
		if errors.Is(err, store.ErrRunNotFound) {
			if outErr := formatter.Error(ErrCodeNotFound, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "unknown run", err)
		}
		if err != nil {
			return storeFailure(formatter, "failed to read results", err)
		}
		return formatter.Success(ResultList(results))

	case opts.System != "":
		results, err := st.History(ctx, opts.System, opts.Constraint)
		if err != nil {
			return storeFailure(formatter, "failed to read history", err)
		}
		return formatter.Success(ResultList(results))

	default:
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return storeFailure(formatter, "failed to list runs", err)
		}
		return formatter.Success(RunList(runs))
	}
}

func storeFailure(formatter *OutputFormatter, message string, err error) error {
	if outErr := formatter.Error(ErrCodeStoreFailed, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, message, err)
}
