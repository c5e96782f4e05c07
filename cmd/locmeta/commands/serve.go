package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/server"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand() *cobra.Command {
	var (
		host string
		port int
		user string
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve the interactive dashboard over HTTP",
		Long: `Serve the dashboard and its JSON API.

The page takes the slider position as query parameters (progress, cutoff,
step, brush). The same parameters drive /api/stats, /api/commits and
/api/files. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, observability.ModeServe)
			if err != nil {
				return err
			}
			defer e.close()

			// A failed load serves the empty state.
			all, err := loadCommits(e.source(args), e.loc, e.logger)
			if err != nil {
				e.logger.Warn("source could not be loaded", "error", err)
			}

			prom, err := observability.NewPrometheus()
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(prom.Meter())
			if err != nil {
				return err
			}

			page, err := pageOptions(e, "", "")
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("host") {
				e.cfg.Server.Host = host
			}

			if cmd.Flags().Changed("port") {
				e.cfg.Server.Port = port
			}

			if user == "" {
				user = e.cfg.Profile.Username
			}

			opts := server.Options{
				Addr:            e.cfg.Addr(),
				ReadTimeout:     e.cfg.Server.ReadTimeout,
				WriteTimeout:    e.cfg.Server.WriteTimeout,
				IdleTimeout:     e.cfg.Server.IdleTimeout,
				ShutdownTimeout: e.cfg.Server.ShutdownTimeout,
				Dashboard:       dashboardOptions(e),
				Page:            page,
				Username:        user,
				Logger:          e.logger,
				Tracer:          e.providers.Tracer,
				Metrics:         red,
				MetricsHandler:  prom.Handler,
			}

			if user != "" {
				client, clientErr := newProfileClient(e)
				if clientErr != nil {
					return clientErr
				}

				opts.Profiles = client
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = server.New(all, opts).Run(ctx)
			if err != nil {
				return fmt.Errorf("serve dashboard: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().StringVar(&user, "user", "", "GitHub user whose profile card is shown")

	return cmd
}
