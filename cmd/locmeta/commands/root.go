package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the locmeta command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "locmeta",
		Short: "Commit history dashboard for a per-line git blame log",
		Long: `locmeta turns a per-line commit log into a commit history dashboard.

Commands:
  extract   Blame a repository into loc.csv
  stats     Summary statistics up to a cutoff
  files     Files ranked by surviving lines
  render    Static HTML dashboard
  serve     Interactive HTTP dashboard
  explore   Terminal dashboard
  export    JSON snapshot of the aggregated commits
  profile   GitHub profile summary
  mcp       MCP server for AI agents`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(FlagConfig, "", "config file (default .locmeta.yaml in . or $HOME)")
	root.PersistentFlags().BoolP(FlagVerbose, "v", false, "verbose output")
	root.PersistentFlags().BoolP(FlagQuiet, "q", false, "suppress output")

	root.AddCommand(
		NewExtractCommand(),
		NewStatsCommand(),
		NewFilesCommand(),
		NewRenderCommand(),
		NewServeCommand(),
		NewExploreCommand(),
		NewExportCommand(),
		NewProfileCommand(),
		NewMCPCommand(),
		NewVersionCommand(),
	)

	return root
}
