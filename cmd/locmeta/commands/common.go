// Package commands implements the locmeta subcommands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/config"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/snapshot"
	"github.com/Sumatoshi-tech/locmeta/pkg/version"
)

// Global flag names registered on the root command.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// env is the per-invocation runtime shared by all commands.
type env struct {
	cfg       *config.Config
	loc       *time.Location
	logger    *slog.Logger
	providers observability.Providers
}

// setup loads the configuration and initializes observability for a command.
func setup(cmd *cobra.Command, mode observability.AppMode) (*env, error) {
	configPath, _ := cmd.Flags().GetString(FlagConfig)
	verbose, _ := cmd.Flags().GetBool(FlagVerbose)
	quiet, _ := cmd.Flags().GetBool(FlagQuiet)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json" || mode == observability.ModeMCP

	switch {
	case verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &env{cfg: cfg, loc: location, logger: providers.Logger, providers: providers}, nil
}

func (e *env) close() {
	err := e.providers.Shutdown(context.Background())
	if err != nil {
		e.logger.Warn("observability shutdown failed", "error", err)
	}
}

// source returns the data path given on the command line or the configured one.
func (e *env) source(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}

	return e.cfg.Data.Source
}

// loadCommits reads a CSV log or a snapshot into sorted commit summaries.
func loadCommits(path string, location *time.Location, logger *slog.Logger) ([]commits.Summary, error) {
	if snapshot.IsSnapshotPath(path) {
		snap, err := snapshot.ReadFile(path)
		if err != nil {
			return nil, err
		}

		all := snap.Summaries()
		logger.Debug("snapshot loaded", "path", path, "commits", len(all), "generated_at", snap.GeneratedAt)

		return all, nil
	}

	records, report, err := loc.ReadFile(path, loc.NewParser(location))
	if err != nil {
		return nil, err
	}

	if report.Dropped > 0 {
		logger.Warn("rows without a valid timestamp dropped", "path", path, "dropped", report.Dropped)
	}

	all := commits.Aggregate(records)
	logger.Debug("log loaded", "path", path, "rows", report.Rows, "commits", len(all))

	return all, nil
}

// writeStructured encodes v as indented JSON or as YAML.
func writeStructured(w io.Writer, format string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	switch format {
	case FormatJSON:
		_, err = fmt.Fprintln(w, string(raw))
		if err != nil {
			return fmt.Errorf("write json: %w", err)
		}

		return nil
	case FormatYAML:
		var node yaml.Node

		err = yaml.Unmarshal(raw, &node)
		if err != nil {
			return fmt.Errorf("decode json as yaml: %w", err)
		}

		blockStyle(&node)

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err = enc.Encode(&node)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// blockStyle drops the flow and quoting styles a JSON document carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0

	for _, child := range n.Content {
		blockStyle(child)
	}
}
