package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/mcp"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp [source]",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server loads the commit log once and exposes it as tools:
  - locmeta_stats: summary statistics up to a cutoff
  - locmeta_files: files ranked by surviving lines
  - locmeta_commits: the most recent commits up to a cutoff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer e.close()

			all, err := loadCommits(e.source(args), e.loc, e.logger)
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(e.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Commits:  all,
				Location: e.loc,
				Logger:   e.logger,
				Metrics:  red,
				Tracer:   e.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	return cmd
}
