package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ludb/internal/backend"
)

// BackendInfo describes one available backend.
type BackendInfo struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// BackendList is the output of the backends command.
type BackendList []BackendInfo

func (l BackendList) String() string {
	var sb strings.Builder
	for i, b := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Description)
		if b.Default {
			sb.WriteString(" (default)")
		}
	}
	return sb.String()
}

// NewBackendsCommand creates the backends command.
func NewBackendsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "backends",
		Short:         "List the numeric backends",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := listBackends()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to describe backends", err)
			}
			return rootOpts.formatter(cmd).Success(list)
		},
	}
}

func listBackends() (BackendList, error) {
	var list BackendList
	for _, k := range backend.Kinds() {
		desc, err := backend.Describe(k)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", k, err)
		}
		list = append(list, BackendInfo{Kind: string(k), Description: desc, Default: k == backend.DefaultKind})
	}
	return list, nil
}
