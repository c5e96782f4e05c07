package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
)

// StatsOutput is the structured output of the stats command.
type StatsOutput struct {
	Label     string               `json:"label"`
	Visible   int                  `json:"visible"`
	Total     int                  `json:"total"`
	Message   string               `json:"message,omitempty"`
	Stats     stats.Summary        `json:"stats"`
	Cards     []stats.Card         `json:"cards"`
	Selection *dashboard.Selection `json:"selection,omitempty"`
}

// NewStatsCommand creates the stats subcommand.
func NewStatsCommand() *cobra.Command {
	var (
		filter   filterFlags
		format   string
		noColor  bool
		maxFiles int
	)

	cmd := &cobra.Command{
		Use:   "stats [source]",
		Short: "Print summary statistics of the commits up to a cutoff",
		Long: `Print summary statistics of a commit log or snapshot.

Without a filter every commit is included. --cutoff, --progress and --step
select a chronological prefix the same way the dashboard slider does.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close()

			all, err := loadCommits(e.source(args), e.loc, e.logger)
			if err != nil {
				return err
			}

			v, err := filter.view(cmd, all, dashboardOptions(e))
			if err != nil {
				return err
			}

			if format != FormatTable {
				out := StatsOutput{
					Label:   v.Label,
					Visible: len(v.Commits),
					Total:   v.Total,
					Message: v.Message,
					Stats:   v.Stats,
					Cards:   v.Cards,
				}

				if v.Selection.Active {
					out.Selection = &v.Selection
				}

				return writeStructured(cmd.OutOrStdout(), format, out)
			}

			if maxFiles <= 0 {
				maxFiles = e.cfg.Dashboard.MaxTableFiles
			}

			title := e.cfg.Dashboard.Title
			if v.Label != "" {
				title = fmt.Sprintf("%s: %d of %d commits until %s", title, len(v.Commits), v.Total, v.Label)
			}

			if v.Message != "" {
				e.logger.Info(v.Message)
			}

			return stats.WriteTable(cmd.OutOrStdout(), v.Stats, v.Files, stats.TableOptions{
				Title:    title,
				MaxFiles: maxFiles,
				NoColor:  noColor,
			})
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, json or yaml")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "maximum file rows in table output")

	return cmd
}
