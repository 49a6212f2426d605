package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display tablesync version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "tablesync v%s\n", version)
			_, _ = fmt.Fprintln(out, "Table Synchronization Engine")
			_, _ = fmt.Fprintf(out, "Build Date: %s\n", buildDate)
			_, _ = fmt.Fprintf(out, "Git Commit: %s\n", gitCommit)
		},
	}
}
