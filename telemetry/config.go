package telemetry

import (
	"fmt"
	"time"
)

// Config carries the telemetry settings for a netforge process.
type Config struct {
	ServiceName    string
	ServiceVersion string

	Logging LoggingConfig
	Metrics MetricsConfig
	Tracing TracingConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format selects the encoding (console, json).
	Format string

	// Output is where log lines go (stdout, stderr, or a file path).
	Output string

	// EnableCaller adds file:line information to each record.
	EnableCaller bool
}

// MetricsConfig configures the Prometheus endpoint. Collection always
// happens; the listener is only started when Enabled is set.
type MetricsConfig struct {
	Enabled       bool
	ListenAddress string
	Path          string
	Namespace     string
	Buckets       []float64
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled       bool
	Exporter      string
	Endpoint      string
	Insecure      bool
	SamplingRate  float64
	ExportTimeout time.Duration
	Headers       map[string]string
}

// DefaultConfig returns settings suited to interactive use: console logs on
// stderr so command output stays clean, no metrics listener, no tracing.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "netforge",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			ListenAddress: ":9464",
			Path:          "/metrics",
			Namespace:     "netforge",
			Buckets:       []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		Tracing: TracingConfig{
			Enabled:       false,
			Exporter:      "none",
			SamplingRate:  1.0,
			ExportTimeout: 30 * time.Second,
		},
	}
}

// Validate checks the configuration before any component is built from it.
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("telemetry.service-name is required")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("telemetry.logging.format must be console or json, got %q", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		return fmt.Errorf("telemetry.metrics.listen-address is required when metrics are enabled")
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "otlp", "stdout", "none":
		default:
			return fmt.Errorf("telemetry.tracing.exporter %q is not supported", c.Tracing.Exporter)
		}
		if c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
			return fmt.Errorf("telemetry.tracing.endpoint is required for the otlp exporter")
		}
		if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
			return fmt.Errorf("telemetry.tracing.sampling-rate must be within [0, 1], got %g", c.Tracing.SamplingRate)
		}
	}

	return nil
}
