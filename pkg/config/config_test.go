package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".locmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSource, cfg.Data.Source)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, config.DefaultTheme, cfg.Dashboard.Theme)
	assert.InDelta(t, config.DefaultRadiusMax, cfg.Dashboard.RadiusMax, 0)
	assert.Equal(t, config.DefaultIndentWidth, cfg.Extract.IndentWidth)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `data:
  source: history.json.lz4
  timezone: Europe/Berlin
server:
  port: 9000
  read_timeout: 5s
dashboard:
  theme: light
  radius_min: 4
  radius_max: 40
profile:
  username: octocat
logging:
  format: json
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "history.json.lz4", cfg.Data.Source)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "light", cfg.Dashboard.Theme)
	assert.InDelta(t, 4.0, cfg.Dashboard.RadiusMin, 0)
	assert.Equal(t, "octocat", cfg.Profile.Username)
	assert.Equal(t, "json", cfg.Logging.Format)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("LOCMETA_SERVER_PORT", "9100")
	t.Setenv("LOCMETA_PROFILE_USERNAME", "hubot")

	cfg, err := config.LoadConfig(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "hubot", cfg.Profile.Username)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		content string
		want    error
	}{
		"port":     {"server:\n  port: 70000\n", config.ErrInvalidPort},
		"radius":   {"dashboard:\n  radius_min: 10\n  radius_max: 5\n", config.ErrInvalidRadius},
		"step":     {"dashboard:\n  slider_step: 0\n", config.ErrInvalidSliderStep},
		"theme":    {"dashboard:\n  theme: neon\n", config.ErrInvalidTheme},
		"timezone": {"data:\n  timezone: Mars/Olympus\n", config.ErrInvalidTimezone},
		"format":   {"logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		"sampling": {"telemetry:\n  sample_ratio: 2\n", config.ErrInvalidSampling},
		"indent":   {"extract:\n  indent_width: -1\n", config.ErrInvalidIndent},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tc.content))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "server: [\n"))
	require.Error(t, err)
}
