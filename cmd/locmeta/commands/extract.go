package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/extract"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
)

// NewExtractCommand creates the extract subcommand.
func NewExtractCommand() *cobra.Command {
	var (
		output      string
		urlTemplate string
		indentWidth int
		progress    bool
	)

	cmd := &cobra.Command{
		Use:   "extract [repository]",
		Short: "Blame a git repository into a per-line commit log",
		Long: `Blame every file of HEAD and write one CSV row per surviving line.

Binary, vendored and oversized files are skipped. --url-template builds a
link for every commit; {commit} is replaced by the commit id, e.g.
https://github.com/owner/repo/commit/{commit}.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close()

			repoPath := "."
			if len(args) > 0 {
				repoPath = args[0]
			}

			if output == "" {
				output = e.cfg.Data.Source
			}

			if urlTemplate == "" {
				urlTemplate = e.cfg.Extract.URLTemplate
			}

			if indentWidth <= 0 {
				indentWidth = e.cfg.Extract.IndentWidth
			}

			err = os.MkdirAll(filepath.Dir(output), renderDirPerm)
			if err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			var bar io.Writer
			if progress {
				bar = cmd.ErrOrStderr()
			}

			report, err := extract.Run(cmd.Context(), repoPath, loc.NewWriter(f), extract.Options{
				IndentWidth: indentWidth,
				MaxFileSize: e.cfg.Extract.MaxFileSize,
				URLTemplate: urlTemplate,
				Progress:    bar,
				Logger:      e.logger,
			})
			if err != nil {
				return fmt.Errorf("extract %s: %w", repoPath, err)
			}

			err = f.Close()
			if err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}

			e.logger.Info("log written", "path", output, "files", report.Files, "lines", report.Lines)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default from config)")
	cmd.Flags().StringVar(&urlTemplate, "url-template", "", "commit URL template containing {commit}")
	cmd.Flags().IntVar(&indentWidth, "indent-width", 0, "spaces per indentation level (default from config)")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar on stderr")

	return cmd
}
