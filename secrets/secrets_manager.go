package secrets

import "context"

// TokenStore keeps named API tokens at rest, encrypted. The config wizard
// writes NetBox tokens here and contexts reference them by name through
// netbox.auth.secret-ref.
type TokenStore interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, name string) (string, error)
	Store(ctx context.Context, name string, value string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
