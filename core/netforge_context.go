// Package core assembles netforge's services from a configuration context:
// the resolved context picks the NetBox instance, telemetry stack, secret
// store and library checkout, and everything downstream receives its
// dependencies from here.
package core

import (
	"context"

	"github.com/netforge-io/netforge/config"
	configfile "github.com/netforge-io/netforge/internal/providers/config/file"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath)
}

// NewNetforgeContext resolves the selected configuration context and builds
// the full service set for it. The caller owns the returned bundle's
// lifecycle; Telemetry.Shutdown flushes spans on the way out.
func NewNetforgeContext(ctx context.Context, opts BootstrapConfig, selection config.ContextSelection) (NetforgeContext, error) {
	contextService := NewContextService(opts)

	resolved, err := contextService.ResolveContext(ctx, selection)
	if err != nil {
		return NetforgeContext{}, err
	}

	nfctx, err := buildServices(resolved)
	if err != nil {
		return NetforgeContext{}, err
	}

	nfctx.Contexts = contextService
	return nfctx, nil
}
