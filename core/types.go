package core

import (
	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/library"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/secrets"
	"github.com/netforge-io/netforge/telemetry"
)

// NetforgeContext bundles the services a command runs with, assembled from
// one resolved configuration context.
type NetforgeContext struct {
	Contexts config.ContextService
	Resolved config.Context

	Telemetry *telemetry.Telemetry
	Client    netbox.Client
	Schemas   *schema.Registry
	Engine    engine.Engine
	Tokens    secrets.TokenStore

	LibrarySyncer *library.Syncer
	LibraryLoader *library.Loader
}

type BootstrapConfig struct {
	ContextCatalogPath string
}
