package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitseek/pkg/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitseek.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, ".", cfg.Repository.Path)
	assert.True(t, cfg.Output.Color)
	assert.False(t, cfg.Search.NoFallback)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
search:
  follow: true
  no_fallback: true
  log_dir: /var/log/gitseek
logging:
  level: debug
  format: json
output:
  format: yaml
telemetry:
  otlp_endpoint: localhost:4317
  sample_ratio: 0.5
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Search.Follow)
	assert.True(t, cfg.Search.NoFallback)
	assert.Equal(t, "/var/log/gitseek", cfg.Search.LogDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GITSEEK_LOGGING_LEVEL", "warn")

	path := writeConfigFile(t, "")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, loadErr := config.Load("")
	require.NoError(t, loadErr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr error
	}{
		{
			name:    "bad log level",
			mutate:  func(cfg *config.Config) { cfg.Logging.Level = "verbose" },
			wantErr: config.ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(cfg *config.Config) { cfg.Logging.Format = "xml" },
			wantErr: config.ErrInvalidLogFormat,
		},
		{
			name:    "bad output format",
			mutate:  func(cfg *config.Config) { cfg.Output.Format = "csv" },
			wantErr: config.ErrInvalidOutputFormat,
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(cfg *config.Config) { cfg.Telemetry.SampleRatio = 1.5 },
			wantErr: config.ErrInvalidSampleRatio,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{
				Logging:    config.LoggingConfig{Level: "info", Format: "text"},
				Repository: config.RepositoryConfig{Path: "."},
				Output:     config.OutputConfig{Format: "text"},
			}
			tc.mutate(cfg)

			err := config.Validate(cfg)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: loud\n")

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
