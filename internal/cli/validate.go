package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ludb/internal/compiler"
)

// SystemValidation lists the validation errors of one system.
type SystemValidation struct {
	System string                     `json:"system"`
	Errors []compiler.ValidationError `json:"errors"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool               `json:"valid"`
	Systems int                `json:"systems"`
	Invalid []SystemValidation `json:"invalid,omitempty"`
}

func (r ValidationResult) String() string {
	if r.Valid {
		return fmt.Sprintf("✓ All systems valid (%d)", r.Systems)
	}
	var sb strings.Builder
	for i, v := range r.Invalid {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "✗ %s", v.System)
		for _, e := range v.Errors {
			fmt.Fprintf(&sb, "\n  %s", e.Error())
		}
	}
	return sb.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate constraint systems without analyzing them",
		Long: `Load the CUE and YAML constraint systems in a directory and check
their structure: one field per node, binary operators, geq only at a
constraint root, unique constraint names.

Exit codes:
  0 - All systems valid
  1 - One or more systems invalid
  2 - Command error (missing directory, unparsable files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSystems(specsDir)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE and %d YAML file(s) in %s", loaded.CUEFiles, loaded.YAMLFiles, specsDir)

	result := ValidationResult{Valid: true, Systems: len(loaded.Systems)}
	for _, spec := range loaded.Systems {
		if errs := compiler.Validate(spec); len(errs) > 0 {
			result.Valid = false
			result.Invalid = append(result.Invalid, SystemValidation{System: spec.Name, Errors: errs})
		}
	}

	if result.Valid {
		return formatter.Success(result)
	}

	message := fmt.Sprintf("%d of %d systems invalid", len(result.Invalid), result.Systems)
	if formatter.IsJSON() {
		first := result.Invalid[0].Errors[0]
		if err := formatter.Error(first.Code, message, result.Invalid); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, result)
	}
	return NewExitError(ExitFailure, message)
}

// loadFailure reports a LoadSystems error and converts it to a command error.
func loadFailure(formatter *OutputFormatter, err error) error {
	code, message := loadErrorCode(err)
	if outErr := formatter.Error(code, message, nil); outErr != nil {
		return outErr
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
