package commands

import (
	"log/slog"
	"os"

	"github.com/Sumatoshi-tech/gitseek/pkg/config"
	"github.com/Sumatoshi-tech/gitseek/pkg/observability"
	"github.com/Sumatoshi-tech/gitseek/pkg/version"
)

// initObservability builds providers from the loaded configuration, letting
// the standard OTEL_EXPORTER_* environment variables take precedence.
func initObservability(cfg *config.Config, mode observability.AppMode, debug bool) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.PrometheusAddr = cfg.Telemetry.PrometheusAddr

	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	if env := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); env != "" {
		obsCfg.OTLPEndpoint = env
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	if env := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); env != "" {
		obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(env)
	}

	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	obsCfg.LogJSON = cfg.Logging.Format == "json" || mode == observability.ModeMCP
	obsCfg.LogLevel = parseLogLevel(cfg.Logging.Level)

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	}

	return observability.Init(obsCfg)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
