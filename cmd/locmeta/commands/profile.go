package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/profile"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
)

// NewProfileCommand creates the profile subcommand.
func NewProfileCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "profile [username]",
		Short: "Show a GitHub profile summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close()

			user := e.cfg.Profile.Username
			if len(args) > 0 {
				user = args[0]
			}

			client, err := newProfileClient(e)
			if err != nil {
				return err
			}

			p, err := client.Fetch(cmd.Context(), user)
			if err != nil {
				return err
			}

			if format != FormatTable {
				return writeStructured(cmd.OutOrStdout(), format, p)
			}

			return writeProfileTable(cmd, p)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, json or yaml")

	return cmd
}

func writeProfileTable(cmd *cobra.Command, p *profile.Profile) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"Login", p.Login},
		{"Name", p.Name},
		{"URL", p.HTMLURL},
		{"Repositories", stats.FormatCount(p.PublicRepos)},
		{"Gists", stats.FormatCount(p.PublicGists)},
		{"Followers", stats.FormatCount(p.Followers)},
		{"Following", stats.FormatCount(p.Following)},
	})

	_, err := fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	return nil
}
