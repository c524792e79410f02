package config

import "context"

// ContextCatalogWriter mutates the persisted context catalog. Every write
// validates the resulting catalog before it reaches disk, so a successful
// call leaves the catalog loadable.
type ContextCatalogWriter interface {
	Create(ctx context.Context, cfg Context) error
	Update(ctx context.Context, cfg Context) error
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, fromName string, toName string) error
	SetCurrent(ctx context.Context, name string) error
}

// ContextCatalogReader reads the persisted catalog without resolving
// environment overrides or secrets.
type ContextCatalogReader interface {
	List(ctx context.Context) ([]Context, error)
	GetCurrent(ctx context.Context) (Context, error)
}

// ContextCatalogEditor is an optional capability for commands that need to
// edit the full persisted catalog while preserving strict validation.
type ContextCatalogEditor interface {
	GetCatalog(ctx context.Context) (ContextCatalog, error)
	ReplaceCatalog(ctx context.Context, catalog ContextCatalog) error
}

// ContextResolver picks one context (by name, or the catalog's current one)
// and returns it fully resolved: NetBox endpoint, API token reference,
// telemetry, library checkout and secret store settings ready for use.
type ContextResolver interface {
	ResolveContext(ctx context.Context, selection ContextSelection) (Context, error)
}

type ContextValidator interface {
	Validate(ctx context.Context, cfg Context) error
}

// ContextService is the full contract the CLI binds commands against.
type ContextService interface {
	ContextCatalogWriter
	ContextCatalogReader
	ContextResolver
	ContextValidator
}
