package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/explore"
	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
)

// NewExploreCommand creates the explore subcommand.
func NewExploreCommand() *cobra.Command {
	var step float64

	cmd := &cobra.Command{
		Use:   "explore [source]",
		Short: "Browse the commit history in the terminal",
		Long: `Browse the commit history in the terminal.

Keys: ←/→ move the slider, ↑/↓ (or k/j) jump between commits, home/end go to
the first or last commit, r resets, q quits.`,
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

			if step <= 0 {
				step = e.cfg.Dashboard.SliderStep
			}

			ctrl := dashboard.NewController(dashboardOptions(e))
			ctrl.Load(all)

			return explore.Run(cmd.Context(), ctrl, explore.Options{
				Title:      e.cfg.Dashboard.Title,
				SliderStep: step,
				MaxFiles:   e.cfg.Dashboard.MaxTableFiles,
			})
		},
	}

	cmd.Flags().Float64Var(&step, "slider-step", 0, "slider increment in percent (default from config)")

	return cmd
}
