package core

import (
	"path/filepath"
	"testing"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/faults"
	filesecrets "github.com/netforge-io/netforge/internal/providers/secrets/file"
)

func resolvedContext() config.Context {
	return config.Context{
		Name: "dev",
		NetBox: &config.NetBox{
			BaseURL: "https://netbox-dev.example.com",
			Auth:    &config.NetBoxAuth{Token: "dev-token"},
		},
	}
}

func TestBuildServicesRequiresNetBoxConfiguration(t *testing.T) {
	t.Parallel()

	_, err := buildServices(config.Context{Name: "dev"})
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestBuildServicesWiresFileTokenStore(t *testing.T) {
	t.Parallel()

	resolved := resolvedContext()
	resolved.SecretStore = &config.SecretStore{
		File: &config.FileSecretStore{
			Path:       filepath.Join(t.TempDir(), "tokens.enc"),
			Passphrase: "correct horse battery staple",
		},
	}

	nfctx, err := buildServices(resolved)
	if err != nil {
		t.Fatalf("buildServices returned error: %v", err)
	}
	if _, ok := nfctx.Tokens.(*filesecrets.FileTokenStore); !ok {
		t.Fatalf("expected file token store, got %T", nfctx.Tokens)
	}
}

func TestBuildServicesRejectsSecretStoreWithoutProvider(t *testing.T) {
	t.Parallel()

	resolved := resolvedContext()
	resolved.SecretStore = &config.SecretStore{}

	_, err := buildServices(resolved)
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestTelemetryConfigForDefaults(t *testing.T) {
	t.Parallel()

	cfg := telemetryConfigFor(resolvedContext())

	if cfg.ServiceName != "netforge" {
		t.Fatalf("expected netforge service name, got %q", cfg.ServiceName)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" || cfg.Logging.Output != "stderr" {
		t.Fatalf("unexpected default logging config: %+v", cfg.Logging)
	}
	if cfg.Metrics.Enabled || cfg.Tracing.Enabled {
		t.Fatal("metrics and tracing must stay disabled by default")
	}
}

func TestTelemetryConfigForFoldsOverrides(t *testing.T) {
	t.Parallel()

	resolved := resolvedContext()
	resolved.Telemetry = &config.Telemetry{
		Logging: &config.LoggingSettings{Level: "debug", Format: "json"},
		Metrics: &config.MetricsSettings{Enabled: true, ListenAddress: ":9100"},
		Tracing: &config.TracingSettings{
			Enabled:  true,
			Exporter: "otlp-grpc",
			Endpoint: "collector:4317",
			Insecure: true,
		},
	}

	cfg := telemetryConfigFor(resolved)

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging overrides not applied: %+v", cfg.Logging)
	}
	if cfg.Logging.Output != "stderr" {
		t.Fatalf("unset logging output must keep the default, got %q", cfg.Logging.Output)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ListenAddress != ":9100" {
		t.Fatalf("metrics overrides not applied: %+v", cfg.Metrics)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Endpoint != "collector:4317" || !cfg.Tracing.Insecure {
		t.Fatalf("tracing overrides not applied: %+v", cfg.Tracing)
	}
	if cfg.Tracing.Exporter != "otlp" {
		t.Fatalf("expected the otlp-grpc exporter to map to otlp, got %q", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SamplingRate != 1.0 {
		t.Fatalf("unset sampling rate must keep the default, got %g", cfg.Tracing.SamplingRate)
	}
}

func TestExporterNamePassesUnknownValuesThrough(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"stdout", "none"} {
		if got := exporterName(name); got != name {
			t.Fatalf("expected %q to pass through, got %q", name, got)
		}
	}
	if got := exporterName("otlp-grpc"); got != "otlp" {
		t.Fatalf("expected otlp-grpc to map to otlp, got %q", got)
	}
}
