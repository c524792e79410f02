package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/time/rate"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/internal/providers/shared/tlsconfig"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/secrets"
	"github.com/netforge-io/netforge/telemetry"
)

const (
	defaultMediaType = "application/json"

	// maxListPages bounds pagination link following so a server handing out
	// circular next links cannot hold a Filter call forever.
	maxListPages = 1000
)

var _ netbox.Client = (*NetBoxGateway)(nil)

// NetBoxGateway is the production netbox.Client: REST calls against a NetBox
// instance with token authentication, a rate limiter, a read-through TTL
// cache in front of Filter, and typed classification of API failures.
type NetBoxGateway struct {
	baseURL  *url.URL
	auth     authConfig
	client   *http.Client
	schemas  *schema.Registry
	cache    *readCache
	limiter  *rate.Limiter
	tokens   secrets.TokenStore
	log      *telemetry.Logger
	metrics  *telemetry.Metrics
	tlsDebug tlsDebugInfo

	minimumVersion *semver.Version
	versionMu      sync.Mutex
	versionChecked bool

	tokenMu       sync.Mutex
	resolvedToken string
	tokenResolved bool
}

type GatewayOption func(*NetBoxGateway)

// WithSchemas replaces the builtin schema registry, letting embedders route
// additional kinds through the same gateway.
func WithSchemas(registry *schema.Registry) GatewayOption {
	return func(g *NetBoxGateway) {
		if g == nil || registry == nil {
			return
		}
		g.schemas = registry
	}
}

// WithTokenStore supplies the secret store consulted when the context
// references its token through netbox.auth.secret-ref.
func WithTokenStore(store secrets.TokenStore) GatewayOption {
	return func(g *NetBoxGateway) {
		if g == nil {
			return
		}
		g.tokens = store
	}
}

func WithLogger(log *telemetry.Logger) GatewayOption {
	return func(g *NetBoxGateway) {
		if g == nil || log == nil {
			return
		}
		g.log = log.NewComponentLogger("netbox-client")
	}
}

func WithMetrics(metrics *telemetry.Metrics) GatewayOption {
	return func(g *NetBoxGateway) {
		if g == nil {
			return
		}
		g.metrics = metrics
	}
}

func NewNetBoxGateway(cfg config.NetBox, opts ...GatewayOption) (*NetBoxGateway, error) {
	baseURL, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth, err := buildAuthConfig(cfg.Auth)
	if err != nil {
		return nil, err
	}

	tlsConfig, err := tlsconfig.Build(cfg.TLS, "netbox")
	if err != nil {
		return nil, err
	}

	var minimumVersion *semver.Version
	if trimmed := strings.TrimSpace(cfg.MinimumVersion); trimmed != "" {
		minimumVersion, err = semver.NewVersion(trimmed)
		if err != nil {
			return nil, validationError("netbox.minimum-version must be a semantic version", err)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	gateway := &NetBoxGateway{
		baseURL: baseURL,
		auth:    auth,
		client: &http.Client{
			Timeout:   cfg.RequestTimeout(),
			Transport: transport,
		},
		schemas:        schema.NewRegistry(),
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecondOrDefault()), cfg.RateLimit.BurstOrDefault()),
		log:            telemetry.Nop(),
		tlsDebug:       newTLSDebugInfo(cfg.TLS),
		minimumVersion: minimumVersion,
	}
	if cfg.Cache.EnabledOrDefault() {
		gateway.cache = newReadCache(cfg.Cache.TTLOrDefault())
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}
	return gateway, nil
}

// Filter lists the records matching query in the server's own order,
// following pagination links until the set is complete. Results are served
// from the read cache unless the entry expired or query.Fresh is set; a
// fresh read still refreshes the cached entry on the way out.
func (g *NetBoxGateway) Filter(ctx context.Context, kind netbox.Kind, query netbox.Query) ([]netbox.Object, error) {
	if g == nil {
		return nil, internalError("netbox gateway is not configured", nil)
	}

	def, err := g.schemas.Lookup(kind)
	if err != nil {
		return nil, err
	}

	cacheKey := string(kind) + "?" + query.Signature()
	if g.cache != nil {
		if query.Fresh {
			g.metrics.RecordCacheLookup("bypass")
		} else if cached, ok := g.cache.get(cacheKey); ok {
			g.metrics.RecordCacheLookup("hit")
			return cached, nil
		} else {
			g.metrics.RecordCacheLookup("miss")
		}
	}

	objects, err := g.fetchAllPages(ctx, apiPath(def.Endpoint), query.Params)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.put(cacheKey, query.Params, objects)
	}
	return objects, nil
}

// Create submits a fully assembled payload and returns the stored object.
// When a minimum NetBox version is configured the first create probes the
// instance and refuses to write to anything older.
func (g *NetBoxGateway) Create(ctx context.Context, kind netbox.Kind, payload map[string]any) (netbox.Object, error) {
	if g == nil {
		return netbox.Object{}, internalError("netbox gateway is not configured", nil)
	}

	def, err := g.schemas.Lookup(kind)
	if err != nil {
		return netbox.Object{}, err
	}
	if len(payload) == 0 {
		return netbox.Object{}, validationError("create payload must not be empty", nil)
	}

	if err := g.ensureMinimumVersion(ctx); err != nil {
		return netbox.Object{}, err
	}

	body, err := g.execute(ctx, http.MethodPost, apiPath(def.Endpoint), nil, payload)
	if err != nil {
		return netbox.Object{}, err
	}
	return decodeObjectResponse(body)
}

// Invalidate drops cached reads touching the scope objects. Without a scope
// the whole cache is cleared. A gateway running with the cache disabled
// treats this as a no-op.
func (g *NetBoxGateway) Invalidate(_ context.Context, scope ...netbox.Object) error {
	if g == nil {
		return internalError("netbox gateway is not configured", nil)
	}
	if g.cache == nil {
		return nil
	}
	g.cache.drop(scope...)
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, validationError("netbox.base-url is required", nil)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return nil, validationError("netbox.base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("netbox.base-url must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError("netbox.base-url host is required", nil)
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	return parsed, nil
}

// apiPath renders a schema endpoint such as "dcim/device-types" as a request
// path. The trailing slash matters; NetBox rejects collection URLs without it.
func apiPath(endpoint string) string {
	return "/api/" + strings.Trim(endpoint, "/") + "/"
}
