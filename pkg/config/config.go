// Package config loads locmeta settings from .locmeta.yaml and LOCMETA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort       = errors.New("invalid server port")
	ErrInvalidRadius     = errors.New("radius range must satisfy 0 < min < max")
	ErrInvalidSliderStep = errors.New("slider step must be in (0, 100]")
	ErrInvalidTheme      = errors.New("theme must be light or dark")
	ErrInvalidTimezone   = errors.New("unknown timezone")
	ErrInvalidLogFormat  = errors.New("log format must be text or json")
	ErrInvalidSampling   = errors.New("sample ratio must be in [0, 1]")
	ErrInvalidIndent     = errors.New("indent width must be positive")
)

const (
	maxPort     = 65535
	maxProgress = 100

	envPrefix  = "LOCMETA"
	configName = ".locmeta"
)

// Config holds all locmeta configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Server    ServerConfig    `mapstructure:"server"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DataConfig locates the commit log.
type DataConfig struct {
	// Source is a loc.csv file or a .json / .json.lz4 snapshot.
	Source   string `mapstructure:"source"`
	Timezone string `mapstructure:"timezone"`
}

// ServerConfig holds HTTP dashboard settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DashboardConfig holds rendering settings.
type DashboardConfig struct {
	Title         string  `mapstructure:"title"`
	Description   string  `mapstructure:"description"`
	Theme         string  `mapstructure:"theme"`
	RadiusMin     float64 `mapstructure:"radius_min"`
	RadiusMax     float64 `mapstructure:"radius_max"`
	SliderStep    float64 `mapstructure:"slider_step"`
	MaxFileRows   int     `mapstructure:"max_file_rows"`
	MaxTableFiles int     `mapstructure:"max_table_files"`
}

// ProfileConfig holds the GitHub profile lookup settings.
type ProfileConfig struct {
	Username  string        `mapstructure:"username"`
	Token     string        `mapstructure:"token"`
	BaseURL   string        `mapstructure:"base_url"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ExtractConfig holds git extraction settings.
type ExtractConfig struct {
	IndentWidth int    `mapstructure:"indent_width"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
	URLTemplate string `mapstructure:"url_template"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// LoadConfig loads configuration from configPath, or from .locmeta.yaml in
// the working or home directory when configPath is empty. Environment
// variables (LOCMETA_SERVER_PORT, ...) override file values.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("data.source", DefaultSource)
	viperCfg.SetDefault("data.timezone", DefaultTimezone)

	viperCfg.SetDefault("server.host", DefaultHost)
	viperCfg.SetDefault("server.port", DefaultPort)
	viperCfg.SetDefault("server.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	viperCfg.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	viperCfg.SetDefault("dashboard.title", DefaultTitle)
	viperCfg.SetDefault("dashboard.description", "")
	viperCfg.SetDefault("dashboard.theme", DefaultTheme)
	viperCfg.SetDefault("dashboard.radius_min", DefaultRadiusMin)
	viperCfg.SetDefault("dashboard.radius_max", DefaultRadiusMax)
	viperCfg.SetDefault("dashboard.slider_step", DefaultSliderStep)
	viperCfg.SetDefault("dashboard.max_file_rows", DefaultMaxFileRows)
	viperCfg.SetDefault("dashboard.max_table_files", DefaultMaxTableFiles)

	viperCfg.SetDefault("profile.username", "")
	viperCfg.SetDefault("profile.token", "")
	viperCfg.SetDefault("profile.base_url", "")
	viperCfg.SetDefault("profile.rate_limit", DefaultProfileRateLimit)
	viperCfg.SetDefault("profile.timeout", DefaultProfileTimeout)

	viperCfg.SetDefault("extract.indent_width", DefaultIndentWidth)
	viperCfg.SetDefault("extract.max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("extract.url_template", "")

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.environment", "")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	if c.Dashboard.RadiusMin <= 0 || c.Dashboard.RadiusMax <= c.Dashboard.RadiusMin {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRadius, c.Dashboard.RadiusMin, c.Dashboard.RadiusMax)
	}

	if c.Dashboard.SliderStep <= 0 || c.Dashboard.SliderStep > maxProgress {
		return fmt.Errorf("%w: %g", ErrInvalidSliderStep, c.Dashboard.SliderStep)
	}

	if c.Dashboard.Theme != "light" && c.Dashboard.Theme != "dark" {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Dashboard.Theme)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampling, c.Telemetry.SampleRatio)
	}

	if c.Extract.IndentWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndent, c.Extract.IndentWidth)
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Data.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Data.Timezone)
	}

	return loc, nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
