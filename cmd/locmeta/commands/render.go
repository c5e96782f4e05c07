package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/plotpage"
	"github.com/Sumatoshi-tech/locmeta/pkg/profile"
)

const (
	renderDirPerm   = 0o750
	renderFilePerm  = 0o600
	renderOutput    = "dashboard.html"
	renderStdoutArg = "-"
)

// ErrNoOutput is returned when --output is empty.
var ErrNoOutput = errors.New("output path is required (use --output)")

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var (
		filter filterFlags
		output string
		theme  string
		title  string
		user   string
	)

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render the dashboard as a static HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoOutput
			}

			e, err := setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close()

			opts, err := pageOptions(e, theme, title)
			if err != nil {
				return err
			}

			if user == "" {
				user = e.cfg.Profile.Username
			}

			if user != "" {
				opts.Profile = fetchCard(cmd.Context(), e, user)
			}

			// A failed load still renders, with the empty state.
			all, err := loadCommits(e.source(args), e.loc, e.logger)
			if err != nil {
				e.logger.Warn("source could not be loaded", "error", err)
			}

			v, err := filter.view(cmd, all, dashboardOptions(e))
			if err != nil {
				return err
			}

			var buf bytes.Buffer

			err = dashboard.RenderPage(&buf, v, opts)
			if err != nil {
				return err
			}

			if output == renderStdoutArg {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())

				return err
			}

			err = writeOutput(output, buf.Bytes())
			if err != nil {
				return err
			}

			e.logger.Info("dashboard rendered", "path", output, "commits", len(v.Commits), "total", v.Total)

			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", renderOutput, "output HTML file, - for stdout")
	cmd.Flags().StringVar(&theme, "theme", "", "page theme: light or dark")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&user, "user", "", "GitHub user whose profile card is shown")

	return cmd
}

func pageOptions(e *env, theme, title string) (dashboard.PageOptions, error) {
	if theme == "" {
		theme = e.cfg.Dashboard.Theme
	}

	parsed, err := plotpage.ParseTheme(theme)
	if err != nil {
		return dashboard.PageOptions{}, err
	}

	if title == "" {
		title = e.cfg.Dashboard.Title
	}

	return dashboard.PageOptions{
		Title:       title,
		Description: e.cfg.Dashboard.Description,
		Theme:       parsed,
		SliderStep:  e.cfg.Dashboard.SliderStep,
		MaxFileRows: e.cfg.Dashboard.MaxFileRows,
	}, nil
}

func newProfileClient(e *env) (*profile.Client, error) {
	return profile.NewClient(profile.Options{
		Token:     e.cfg.Profile.Token,
		BaseURL:   e.cfg.Profile.BaseURL,
		RateLimit: e.cfg.Profile.RateLimit,
		Timeout:   e.cfg.Profile.Timeout,
	})
}

// fetchCard looks up a profile once. Failures become an inline message.
func fetchCard(ctx context.Context, e *env, user string) *plotpage.ProfileCard {
	client, err := newProfileClient(e)
	if err != nil {
		return profile.Card(nil, err)
	}

	p, err := client.Fetch(ctx, user)
	if err != nil {
		e.logger.Warn("profile lookup failed", "user", user, "error", err)
	}

	return profile.Card(p, err)
}

func writeOutput(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), renderDirPerm)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	err = os.WriteFile(path, data, renderFilePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
