package common

import "context"

type contextNameKey struct{}

// WithContextName records the --context selection for this invocation so
// completion functions and deferred lookups resolve against the same
// configuration context the command runs with.
func WithContextName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextNameKey{}, name)
}

// ContextName returns the configuration context selected for this run, or
// an empty string when the catalog's current context applies.
func ContextName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(contextNameKey{}).(string)
	return name
}
