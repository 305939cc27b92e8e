package config

import "github.com/spf13/viper"

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Search defaults.
	viperCfg.SetDefault("search.log_dir", "")
	viperCfg.SetDefault("search.follow", false)
	viperCfg.SetDefault("search.no_fallback", false)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")

	// Repository defaults.
	viperCfg.SetDefault("repository.path", ".")

	// Output defaults.
	viperCfg.SetDefault("output.format", "text")
	viperCfg.SetDefault("output.color", true)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
}
