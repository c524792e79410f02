package netbox

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Query carries the scope qualifiers for a Filter call. Fresh forces the
// read past any client-side cache; conflict detection depends on that
// guarantee and must never observe a stale result.
type Query struct {
	Params map[string]string
	Fresh  bool
}

// Signature renders the query parameters as a stable string, usable as a
// cache key component. Parameter order does not affect the result.
func (q Query) Signature() string {
	if len(q.Params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(q.Params))
	for key := range q.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+q.Params[key])
	}
	return strings.Join(parts, "&")
}

// InstanceStatus describes the NetBox instance behind the client, as
// reported by its status endpoint.
type InstanceStatus struct {
	Version       string
	PythonVersion string
	Plugins       map[string]string
	ResponseTime  time.Duration
}

// Client is the NetBox access contract the mutation engine consumes. The
// engine never constructs one; the collaborator that owns transport,
// authentication and timeout policy injects it.
//
// Filter returns the records matching query in the server's own order.
// Create submits a fully assembled payload and returns the stored object.
// Invalidate drops cached reads scoped to the given objects; implementations
// without a cache may make it a no-op.
type Client interface {
	Filter(ctx context.Context, kind Kind, query Query) ([]Object, error)
	Create(ctx context.Context, kind Kind, payload map[string]any) (Object, error)
	Invalidate(ctx context.Context, scope ...Object) error
	Status(ctx context.Context) (InstanceStatus, error)
}
