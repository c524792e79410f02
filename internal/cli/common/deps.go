package common

import (
	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/library"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/secrets"
	"github.com/netforge-io/netforge/telemetry"
)

type CommandDependencies struct {
	Contexts      config.ContextService
	Engine        engine.Engine
	Client        netbox.Client
	Schemas       *schema.Registry
	Tokens        secrets.TokenStore
	LibrarySyncer *library.Syncer
	LibraryLoader *library.Loader
	Log           *telemetry.Logger
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts, nil
}

func RequireEngine(deps CommandDependencies) (engine.Engine, error) {
	if deps.Engine == nil {
		return nil, ValidationError("mutation engine is not configured", nil)
	}
	return deps.Engine, nil
}

func RequireClient(deps CommandDependencies) (netbox.Client, error) {
	if deps.Client == nil {
		return nil, ValidationError("netbox client is not configured", nil)
	}
	return deps.Client, nil
}

func RequireSchemas(deps CommandDependencies) (*schema.Registry, error) {
	if deps.Schemas == nil {
		return nil, ValidationError("schema registry is not configured", nil)
	}
	return deps.Schemas, nil
}

func RequireTokenStore(deps CommandDependencies) (secrets.TokenStore, error) {
	if deps.Tokens == nil {
		return nil, ValidationError("token store is not configured", nil)
	}
	return deps.Tokens, nil
}

func RequireLibrarySyncer(deps CommandDependencies) (*library.Syncer, error) {
	if deps.LibrarySyncer == nil {
		return nil, ValidationError("library syncer is not configured", nil)
	}
	return deps.LibrarySyncer, nil
}

func RequireLibraryLoader(deps CommandDependencies) (*library.Loader, error) {
	if deps.LibraryLoader == nil {
		return nil, ValidationError("library loader is not configured", nil)
	}
	return deps.LibraryLoader, nil
}
