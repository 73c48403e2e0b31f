package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display LeapQuery version and the compiled-in adapters and dialects.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "LeapQuery v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Entity query translator with keyset pagination")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Adapters: %s\n", strings.Join(adapter.ListAdapters(), ", "))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dialects: %s\n", strings.Join(dialect.List(), ", "))
		},
	}
}
