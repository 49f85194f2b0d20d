package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ludb/internal/analysis"
	"github.com/roach88/ludb/internal/ir"
	"github.com/roach88/ludb/internal/store"
)

// ErrCodeInvalidSystem is reported when a system fails validation or holds a
// literal the backend cannot parse.
const ErrCodeInvalidSystem = "E013"

// SimplifyOptions holds flags for the simplify command.
type SimplifyOptions struct {
	*RootOptions
	Output   string // canonical JSON report file
	Database string // optional run store
	Workers  int
	Strict   bool

	// IDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs analysis.IDGenerator
}

// NewSimplifyCommand creates the simplify command.
func NewSimplifyCommand(rootOpts *RootOptions) *cobra.Command {
	return newSimplifyCommand(&SimplifyOptions{RootOptions: rootOpts})
}

func newSimplifyCommand(opts *SimplifyOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplify <specs-dir>",
		Short: "Normalize constraint systems to linear form",
		Long: `Load the constraint systems in a directory, validate them and
normalize every constraint to LHS >= RHS over affine forms in the selected
backend.

Exit codes:
  0 - Every constraint is linear
  1 - A system is invalid or some constraint is not linear
  2 - Command error (invalid paths, database errors, etc.)

Examples:
  ludb simplify ./specs
  ludb simplify ./specs --backend decimal --format json
  ludb simplify ./specs -o report.json --db ./ludb.db --strict`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the canonical JSON report to a file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in a SQLite database")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "constraints simplified concurrently (default: CPU count)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject any product or quotient of two variable-dependent operands")

	return cmd
}

func runSimplify(opts *SimplifyOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kind, err := opts.kind()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid backend", err)
	}

	loaded, err := LoadSystems(specsDir)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Loaded %d system(s) from %s", len(loaded.Systems), specsDir)

	sessOpts := []analysis.Option{
		analysis.WithLogger(opts.logger(formatter.GetErrWriter())),
		analysis.WithIDGenerator(opts.IDs),
	}
	if opts.Workers > 0 {
		sessOpts = append(sessOpts, analysis.WithWorkers(opts.Workers))
	}
	if opts.Strict {
		sessOpts = append(sessOpts, analysis.WithStrictLinearity())
	}
	sess, err := analysis.Open(kind, sessOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open session", err)
	}

	report, err := sess.AnalyzeAll(commandContext(cmd), loaded.Systems)
	if err != nil {
		var invalid *analysis.InvalidSystemError
		if errors.As(err, &invalid) {
			code := ErrCodeInvalidSystem
			if len(invalid.Errors) > 0 {
				code = invalid.Errors[0].Code
			}
			if outErr := formatter.Error(code, invalid.Error(), invalid.Errors); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitFailure, "invalid system", err)
		}
		return WrapExitError(ExitCommandError, "analysis failed", err)
	}

	if opts.Output != "" {
		if err := writeReport(opts.Output, report); err != nil {
			if outErr := formatter.Error(ErrCodeWriteFailed, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
		formatter.VerboseLog("Wrote report to %s", opts.Output)
	}

	if opts.Database != "" {
		if err := recordRun(commandContext(cmd), opts.Database, report); err != nil {
			if outErr := formatter.Error(ErrCodeStoreFailed, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", report.RunID, opts.Database)
	}

	if formatter.IsJSON() {
		if err := formatter.SuccessRun(report.RunID, report); err != nil {
			return err
		}
	} else {
		writeReportText(formatter.Writer, report, opts.Verbose)
	}

	if !report.Linear {
		return NewExitError(ExitFailure, ir.NonlinearMessage)
	}
	return nil
}

// writeReport writes the report's canonical JSON to path.
func writeReport(path string, report *analysis.Report) error {
	data, err := ir.MarshalCanonical(report.Value())
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func recordRun(ctx context.Context, path string, report *analysis.Report) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := store.NewRun(report.RunID, report.Backend, report.Systems)
	if err != nil {
		return err
	}
	return st.WriteRun(ctx, run, report.Systems)
}

func writeReportText(w io.Writer, report *analysis.Report, verbose bool) {
	for _, sys := range report.Systems {
		fmt.Fprintf(w, "system %s (%s)\n", sys.System, sys.Backend)
		for _, c := range sys.Constraints {
			if c.Error != nil {
				fmt.Fprintf(w, "  ✗ %s: %s\n", c.Name, c.Error.Message)
			} else {
				fmt.Fprintf(w, "  ✓ %s: %s >= 0\n", c.Name, c.Difference)
			}
			if verbose {
				fmt.Fprintf(w, "      %s\n", c.Rendered)
			}
		}
		if o := sys.Objective; o != nil {
			if o.Error != nil {
				fmt.Fprintf(w, "  ✗ %s: %s\n", o.Name, o.Error.Message)
			} else {
				fmt.Fprintf(w, "  = %s: %s\n", o.Name, o.Value)
			}
		}
		if sys.Message != "" {
			fmt.Fprintf(w, "  %s\n", sys.Message)
		}
	}

	status := "linear"
	if !report.Linear {
		status = "not linear"
	}
	fmt.Fprintf(w, "run %s: %d system(s), %s\n", report.RunID, len(report.Systems), status)
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
