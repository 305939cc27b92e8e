// Package config provides configuration loading and validation for gitseek.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel     = errors.New("invalid logging level")
	ErrInvalidLogFormat    = errors.New("invalid logging format")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidSampleRatio  = errors.New("sample ratio must be between 0 and 1")
	ErrSchemaViolation     = errors.New("configuration schema violation")
)

// Config holds all configuration for gitseek.
type Config struct {
	Search     SearchConfig     `mapstructure:"search"     json:"search"`
	Logging    LoggingConfig    `mapstructure:"logging"    json:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" json:"repository"`
	Output     OutputConfig     `mapstructure:"output"     json:"output"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"  json:"telemetry"`
}

// SearchConfig holds search-specific configuration.
type SearchConfig struct {
	LogDir     string `mapstructure:"log_dir"     json:"log_dir"`
	Follow     bool   `mapstructure:"follow"      json:"follow"`
	NoFallback bool   `mapstructure:"no_fallback" json:"no_fallback"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// RepositoryConfig holds repository-specific configuration.
type RepositoryConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// OutputConfig holds rendering configuration.
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format"`
	Color  bool   `mapstructure:"color"  json:"color"`
}

// TelemetryConfig holds observability export configuration.
type TelemetryConfig struct {
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"   json:"otlp_endpoint"`
	OTLPHeaders    string  `mapstructure:"otlp_headers"    json:"otlp_headers"`
	PrometheusAddr string  `mapstructure:"prometheus_addr" json:"prometheus_addr"`
	Environment    string  `mapstructure:"environment"     json:"environment"`
	SampleRatio    float64 `mapstructure:"sample_ratio"    json:"sample_ratio"`
	OTLPInsecure   bool    `mapstructure:"otlp_insecure"   json:"otlp_insecure"`
}

// Load loads configuration from file and environment variables.
// An empty configPath falls back to the standard search locations.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("gitseek")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/gitseek")
		viperCfg.AddConfigPath("/etc/gitseek")
	}

	viperCfg.SetEnvPrefix("GITSEEK")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}
