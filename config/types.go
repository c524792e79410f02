package config

import "time"

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "NETFORGE_CONTEXTS_FILE"
	DefaultContextCatalogPath = "~/.netforge/contexts.yaml"

	// Environment fallbacks for running without a context catalog.
	NetBoxURLEnvVar   = "NETBOX_URL"
	NetBoxTokenEnvVar = "NETBOX_TOKEN"

	// EnvContextName is the synthetic context name used when the NetBox
	// connection is assembled from environment variables alone.
	EnvContextName = "env"

	DefaultCacheTTL          = 30 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 10

	DefaultLibraryRepositoryURL = "https://github.com/netbox-community/devicetype-library.git"
	DefaultLibraryBranch        = "master"
	DefaultLibraryBaseDir       = "~/.netforge/devicetype-library"
)

type ContextCatalog struct {
	Contexts      []Context `yaml:"contexts"`
	CurrentCtx    string    `yaml:"current-ctx"`
	DefaultEditor string    `yaml:"default-editor,omitempty"`
}

type Context struct {
	Name        string       `yaml:"name" validate:"required"`
	NetBox      *NetBox      `yaml:"netbox,omitempty" validate:"required"`
	Safety      Safety       `yaml:"safety,omitempty"`
	Telemetry   *Telemetry   `yaml:"telemetry,omitempty"`
	Library     *Library     `yaml:"library,omitempty"`
	SecretStore *SecretStore `yaml:"secret-store,omitempty"`
}

type NetBox struct {
	BaseURL        string      `yaml:"base-url" validate:"required,url"`
	Auth           *NetBoxAuth `yaml:"auth,omitempty"`
	TLS            *TLS        `yaml:"tls,omitempty"`
	Timeout        string      `yaml:"timeout,omitempty"`
	MinimumVersion string      `yaml:"minimum-version,omitempty"`
	Cache          Cache       `yaml:"cache,omitempty"`
	RateLimit      RateLimit   `yaml:"rate-limit,omitempty"`
}

func (n NetBox) RequestTimeout() time.Duration {
	if n.Timeout == "" {
		return DefaultRequestTimeout
	}
	parsed, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return parsed
}

// NetBoxAuth selects where the API token comes from. Exactly one source may
// be set; when the whole block is absent the NETBOX_TOKEN environment
// variable is consulted instead.
type NetBoxAuth struct {
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"token-file,omitempty"`
	SecretRef string `yaml:"secret-ref,omitempty"`
}

type Safety struct {
	DryRunMode bool `yaml:"dry-run-mode,omitempty"`
}

// Cache controls the read-through cache in front of NetBox list calls.
// Conflict checks always bypass it regardless of these settings.
type Cache struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	TTL     string `yaml:"ttl,omitempty"`
}

func (c Cache) EnabledOrDefault() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

func (c Cache) TTLOrDefault() time.Duration {
	if c.TTL == "" {
		return DefaultCacheTTL
	}
	parsed, err := time.ParseDuration(c.TTL)
	if err != nil {
		return DefaultCacheTTL
	}
	return parsed
}

type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests-per-second,omitempty" validate:"min=0"`
	Burst             int     `yaml:"burst,omitempty" validate:"min=0"`
}

func (r RateLimit) RequestsPerSecondOrDefault() float64 {
	if r.RequestsPerSecond <= 0 {
		return DefaultRequestsPerSecond
	}
	return r.RequestsPerSecond
}

func (r RateLimit) BurstOrDefault() int {
	if r.Burst <= 0 {
		return DefaultBurst
	}
	return r.Burst
}

type Telemetry struct {
	Logging *LoggingSettings `yaml:"logging,omitempty"`
	Metrics *MetricsSettings `yaml:"metrics,omitempty"`
	Tracing *TracingSettings `yaml:"tracing,omitempty"`
}

type LoggingSettings struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
	Output string `yaml:"output,omitempty"`
}

type MetricsSettings struct {
	Enabled       bool   `yaml:"enabled,omitempty"`
	ListenAddress string `yaml:"listen-address,omitempty"`
}

type TracingSettings struct {
	Enabled      bool    `yaml:"enabled,omitempty"`
	Exporter     string  `yaml:"exporter,omitempty" validate:"omitempty,oneof=otlp-grpc stdout none"`
	Endpoint     string  `yaml:"endpoint,omitempty"`
	Insecure     bool    `yaml:"insecure,omitempty"`
	SamplingRate float64 `yaml:"sampling-rate,omitempty" validate:"min=0,max=1"`
}

// Library points at a device-type library checkout: a git repository of YAML
// definitions in the community devicetype-library layout.
type Library struct {
	RepositoryURL string `yaml:"repository-url,omitempty" validate:"omitempty,url"`
	Branch        string `yaml:"branch,omitempty"`
	BaseDir       string `yaml:"base-dir,omitempty"`
}

func (l Library) RepositoryURLOrDefault() string {
	if l.RepositoryURL == "" {
		return DefaultLibraryRepositoryURL
	}
	return l.RepositoryURL
}

func (l Library) BranchOrDefault() string {
	if l.Branch == "" {
		return DefaultLibraryBranch
	}
	return l.Branch
}

func (l Library) BaseDirOrDefault() string {
	if l.BaseDir == "" {
		return DefaultLibraryBaseDir
	}
	return l.BaseDir
}

type SecretStore struct {
	File *FileSecretStore `yaml:"file,omitempty"`
}

type FileSecretStore struct {
	Path           string `yaml:"path"`
	Passphrase     string `yaml:"passphrase,omitempty"`
	PassphraseFile string `yaml:"passphrase-file,omitempty"`
	KDF            *KDF   `yaml:"kdf,omitempty"`
}

type KDF struct {
	Time    int `yaml:"time,omitempty"`
	Memory  int `yaml:"memory,omitempty"`
	Threads int `yaml:"threads,omitempty"`
}

type TLS struct {
	CACertFile         string `yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty"`
}
