package core

import (
	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	netboxhttp "github.com/netforge-io/netforge/internal/providers/netbox/http"
	filesecrets "github.com/netforge-io/netforge/internal/providers/secrets/file"
	"github.com/netforge-io/netforge/library"
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/secrets"
	"github.com/netforge-io/netforge/telemetry"
)

// buildServices turns one resolved context into the full service bundle:
// telemetry first so every later component can log, then the secret store,
// the NetBox gateway, the engine, and the library components.
func buildServices(resolved config.Context) (NetforgeContext, error) {
	if resolved.NetBox == nil {
		return NetforgeContext{}, faults.Validation("context has no netbox configuration", nil)
	}

	tel, err := telemetry.New(telemetryConfigFor(resolved))
	if err != nil {
		return NetforgeContext{}, faults.Validation("invalid telemetry configuration", err)
	}

	tokens, err := tokenStoreFor(resolved)
	if err != nil {
		return NetforgeContext{}, err
	}

	schemas := schema.NewRegistry()

	gatewayOpts := []netboxhttp.GatewayOption{
		netboxhttp.WithSchemas(schemas),
		netboxhttp.WithLogger(tel.Logger),
		netboxhttp.WithMetrics(tel.Metrics),
	}
	if tokens != nil {
		gatewayOpts = append(gatewayOpts, netboxhttp.WithTokenStore(tokens))
	}
	client, err := netboxhttp.NewNetBoxGateway(*resolved.NetBox, gatewayOpts...)
	if err != nil {
		return NetforgeContext{}, err
	}

	mutationEngine := &engine.DefaultEngine{
		Client:  client,
		Schemas: schemas,
		Log:     tel.Logger,
		Metrics: tel.Metrics,
		Tracer:  tel.Tracer,
	}
	if resolved.Safety.DryRunMode {
		mutationEngine.SetDryRun(true)
		tel.Logger.Warn("global dry-run mode is active; no request will reach the write stage")
	}

	libraryCfg := config.Library{}
	if resolved.Library != nil {
		libraryCfg = *resolved.Library
	}
	syncer, err := library.NewSyncer(libraryCfg, tel.Logger)
	if err != nil {
		return NetforgeContext{}, err
	}
	loader, err := library.NewLoader(libraryCfg.BaseDirOrDefault())
	if err != nil {
		return NetforgeContext{}, err
	}

	return NetforgeContext{
		Resolved:      resolved,
		Telemetry:     tel,
		Client:        client,
		Schemas:       schemas,
		Engine:        mutationEngine,
		Tokens:        tokens,
		LibrarySyncer: syncer,
		LibraryLoader: loader,
	}, nil
}

// telemetryConfigFor folds the context's telemetry block over the defaults.
// Exporter names follow the configuration vocabulary; the catalog says
// otlp-grpc where the tracer says otlp.
func telemetryConfigFor(resolved config.Context) telemetry.Config {
	cfg := telemetry.DefaultConfig()
	if resolved.Telemetry == nil {
		return cfg
	}

	if logging := resolved.Telemetry.Logging; logging != nil {
		if logging.Level != "" {
			cfg.Logging.Level = logging.Level
		}
		if logging.Format != "" {
			cfg.Logging.Format = logging.Format
		}
		if logging.Output != "" {
			cfg.Logging.Output = logging.Output
		}
	}

	if metrics := resolved.Telemetry.Metrics; metrics != nil {
		cfg.Metrics.Enabled = metrics.Enabled
		if metrics.ListenAddress != "" {
			cfg.Metrics.ListenAddress = metrics.ListenAddress
		}
	}

	if tracing := resolved.Telemetry.Tracing; tracing != nil {
		cfg.Tracing.Enabled = tracing.Enabled
		if tracing.Exporter != "" {
			cfg.Tracing.Exporter = exporterName(tracing.Exporter)
		}
		if tracing.Endpoint != "" {
			cfg.Tracing.Endpoint = tracing.Endpoint
		}
		cfg.Tracing.Insecure = tracing.Insecure
		if tracing.SamplingRate > 0 {
			cfg.Tracing.SamplingRate = tracing.SamplingRate
		}
	}

	return cfg
}

func exporterName(configured string) string {
	if configured == "otlp-grpc" {
		return "otlp"
	}
	return configured
}

func tokenStoreFor(resolved config.Context) (secrets.TokenStore, error) {
	if resolved.SecretStore == nil {
		return nil, nil
	}
	if resolved.SecretStore.File == nil {
		return nil, faults.Validation("secret-store is set but has no file provider", nil)
	}
	return filesecrets.NewFileTokenStore(*resolved.SecretStore.File)
}
