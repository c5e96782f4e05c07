package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
)

const defaultFileLimit = 50

// FileOutput is one row of the files command.
type FileOutput struct {
	File  string   `json:"file"`
	Lines int      `json:"lines"`
	Types []string `json:"types"`
}

// NewFilesCommand creates the files subcommand.
func NewFilesCommand() *cobra.Command {
	var (
		filter filterFlags
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "files [source]",
		Short: "List files by surviving line count",
		Args:  cobra.MaximumNArgs(1),
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

			groups := v.Files
			if limit > 0 && len(groups) > limit {
				groups = groups[:limit]
			}

			out := make([]FileOutput, len(groups))
			for i, g := range groups {
				out[i] = FileOutput{File: g.File, Lines: g.Count(), Types: g.Types()}
			}

			if format != FormatTable {
				return writeStructured(cmd.OutOrStdout(), format, out)
			}

			return writeFileTable(cmd, out, len(v.Files)-len(groups))
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, json or yaml")
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultFileLimit, "maximum number of files (0 for all)")

	return cmd
}

func writeFileTable(cmd *cobra.Command, rows []FileOutput, hidden int) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tw.AppendHeader(table.Row{"File", "Lines", "Types"})

	for _, r := range rows {
		tw.AppendRow(table.Row{r.File, stats.FormatCount(r.Lines), strings.Join(r.Types, ", ")})
	}

	if hidden > 0 {
		tw.AppendFooter(table.Row{fmt.Sprintf("+%d more files", hidden)})
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
	if err != nil {
		return fmt.Errorf("write files: %w", err)
	}

	return nil
}
