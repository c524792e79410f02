package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/faults"
)

func TestDecodeCatalogSuccess(t *testing.T) {
	t.Parallel()

	contextCatalog, err := decodeCatalog([]byte(validContextCatalogYAML))
	if err != nil {
		t.Fatalf("decodeCatalog returned error: %v", err)
	}
	if len(contextCatalog.Contexts) != 1 {
		t.Fatalf("expected 1 context, got %d", len(contextCatalog.Contexts))
	}
	if contextCatalog.CurrentCtx != "dev" {
		t.Fatalf("expected current-ctx dev, got %q", contextCatalog.CurrentCtx)
	}
	if got := contextCatalog.Contexts[0].NetBox.Cache.TTLOrDefault(); got.Seconds() != 45 {
		t.Fatalf("expected cache ttl 45s, got %v", got)
	}
}

func TestDecodeCatalogRejectsUnknownField(t *testing.T) {
	t.Parallel()

	invalidYAML := `
contexts:
  - name: dev
    netbox:
      base-url: https://netbox.example.com
      unknown-key: true
current-ctx: dev
`
	_, err := decodeCatalog([]byte(invalidYAML))
	if err == nil {
		t.Fatal("expected unknown field to fail decode")
	}
}

func TestValidateCatalogCurrentContextMissing(t *testing.T) {
	t.Parallel()

	contextCatalog := config.ContextCatalog{
		Contexts: []config.Context{{
			Name:   "dev",
			NetBox: validNetBox(),
		}},
		CurrentCtx: "prod",
	}

	err := validateCatalog(contextCatalog)
	if err == nil {
		t.Fatal("expected current-ctx mismatch error")
	}
}

func TestValidateCatalogDuplicateContextNames(t *testing.T) {
	t.Parallel()

	contextCatalog := config.ContextCatalog{
		Contexts: []config.Context{
			{Name: "dev", NetBox: validNetBox()},
			{Name: "dev", NetBox: validNetBox()},
		},
		CurrentCtx: "dev",
	}

	err := validateCatalog(contextCatalog)
	if err == nil {
		t.Fatal("expected duplicate name validation error")
	}
}

func TestValidateConfigRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Context
		message string
	}{
		{
			name:    "netbox_missing",
			cfg:     config.Context{Name: "dev"},
			message: "netbox is required",
		},
		{
			name: "base_url_missing",
			cfg: config.Context{
				Name:   "dev",
				NetBox: &config.NetBox{},
			},
			message: "netbox.base-url is required",
		},
		{
			name: "base_url_not_a_url",
			cfg: config.Context{
				Name:   "dev",
				NetBox: &config.NetBox{BaseURL: "not a url"},
			},
			message: "netbox.base-url must be a valid url",
		},
		{
			name: "auth_multiple_sources",
			cfg: config.Context{
				Name: "dev",
				NetBox: &config.NetBox{
					BaseURL: "https://netbox.example.com",
					Auth:    &config.NetBoxAuth{Token: "abc", TokenFile: "/tmp/token"},
				},
			},
			message: "netbox.auth must define exactly one of token, token-file, secret-ref",
		},
		{
			name: "timeout_not_a_duration",
			cfg: config.Context{
				Name: "dev",
				NetBox: &config.NetBox{
					BaseURL: "https://netbox.example.com",
					Timeout: "soon",
				},
			},
			message: "netbox.timeout must be a valid duration",
		},
		{
			name: "cache_ttl_not_a_duration",
			cfg: config.Context{
				Name: "dev",
				NetBox: &config.NetBox{
					BaseURL: "https://netbox.example.com",
					Cache:   config.Cache{TTL: "forever"},
				},
			},
			message: "netbox.cache.ttl must be a valid duration",
		},
		{
			name: "minimum_version_not_semver",
			cfg: config.Context{
				Name: "dev",
				NetBox: &config.NetBox{
					BaseURL:        "https://netbox.example.com",
					MinimumVersion: "latest",
				},
			},
			message: "netbox.minimum-version must be a semantic version",
		},
		{
			name: "secret_store_missing_path",
			cfg: config.Context{
				Name:        "dev",
				NetBox:      validNetBox(),
				SecretStore: &config.SecretStore{File: &config.FileSecretStore{Passphrase: "x"}},
			},
			message: "secret-store.file.path is required",
		},
		{
			name: "secret_store_both_passphrases",
			cfg: config.Context{
				Name:   "dev",
				NetBox: validNetBox(),
				SecretStore: &config.SecretStore{File: &config.FileSecretStore{
					Path:           "/tmp/secrets.json",
					Passphrase:     "x",
					PassphraseFile: "/tmp/pass",
				}},
			},
			message: "secret-store.file must define exactly one of passphrase, passphrase-file",
		},
		{
			name: "tracing_exporter_unknown",
			cfg: config.Context{
				Name:   "dev",
				NetBox: validNetBox(),
				Telemetry: &config.Telemetry{
					Tracing: &config.TracingSettings{Exporter: "jaeger"},
				},
			},
			message: "must be one of",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateConfig(tt.cfg)
			assertTypedCategory(t, err, faults.ValidationError)
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("expected message containing %q, got: %v", tt.message, err)
			}
		})
	}
}

func TestValidateConfigAcceptsTokenFileAndSecretRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		auth config.NetBoxAuth
	}{
		{name: "token_file", auth: config.NetBoxAuth{TokenFile: "/tmp/token"}},
		{name: "secret_ref", auth: config.NetBoxAuth{SecretRef: "netbox-token"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			auth := tt.auth
			err := validateConfig(config.Context{
				Name: "dev",
				NetBox: &config.NetBox{
					BaseURL: "https://netbox.example.com",
					Auth:    &auth,
				},
			})
			if err != nil {
				t.Fatalf("expected auth source %s to validate, got: %v", tt.name, err)
			}
		})
	}
}

func TestResolveCatalogPathDefaultAndEnv(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to resolve home dir: %v", err)
	}

	resolvedDefault, err := resolveCatalogPath(config.DefaultContextCatalogPath)
	if err != nil {
		t.Fatalf("resolveCatalogPath default failed: %v", err)
	}

	expectedDefault := filepath.Join(home, ".netforge/contexts.yaml")
	if resolvedDefault != expectedDefault {
		t.Fatalf("expected %q, got %q", expectedDefault, resolvedDefault)
	}

	envPath := filepath.Join(t.TempDir(), "contexts.yaml")
	t.Setenv(config.ContextFileEnvVar, envPath)
	resolvedFromEnv, err := resolveCatalogPath("")
	if err != nil {
		t.Fatalf("resolveCatalogPath env failed: %v", err)
	}
	if resolvedFromEnv != envPath {
		t.Fatalf("expected env path %q, got %q", envPath, resolvedFromEnv)
	}
}

func TestResolveContextUnknownOverrideFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(validContextCatalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write test contextCatalog: %v", err)
	}

	contextService := NewFileContextService(path)
	_, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
		Name:      "dev",
		Overrides: map[string]string{"unknown.key": "value"},
	})
	if err == nil {
		t.Fatal("expected unknown override error")
	}
	if !strings.Contains(err.Error(), "unknown override key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveContextSelectionAndPrecedence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(multiContextCatalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write test contextCatalog: %v", err)
	}

	contextService := NewFileContextService(path)

	t.Run("explicit_context_selected", func(t *testing.T) {
		t.Parallel()

		resolvedContext, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: "prod"})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolvedContext.Name != "prod" {
			t.Fatalf("expected resolved context name prod, got %q", resolvedContext.Name)
		}
		if resolvedContext.NetBox.Auth == nil || resolvedContext.NetBox.Auth.SecretRef != "netbox-prod-token" {
			t.Fatalf("expected prod secret-ref auth, got %#v", resolvedContext.NetBox.Auth)
		}
	})

	t.Run("empty_name_uses_current_context", func(t *testing.T) {
		t.Parallel()

		resolvedContext, err := contextService.ResolveContext(context.Background(), config.ContextSelection{})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolvedContext.Name != "dev" {
			t.Fatalf("expected current context dev, got %q", resolvedContext.Name)
		}
	})

	t.Run("unknown_context_returns_not_found", func(t *testing.T) {
		t.Parallel()

		_, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: "missing"})
		if err == nil {
			t.Fatal("expected unknown context to fail")
		}
		if !strings.Contains(err.Error(), "context \"missing\" not found") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("runtime_override_takes_precedence", func(t *testing.T) {
		t.Parallel()

		resolvedContext, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
			Name:      "dev",
			Overrides: map[string]string{"netbox.base-url": "https://override.example.com"},
		})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolvedContext.NetBox.BaseURL != "https://override.example.com" {
			t.Fatalf("expected override base-url, got %q", resolvedContext.NetBox.BaseURL)
		}
	})

	t.Run("override_does_not_leak_into_catalog", func(t *testing.T) {
		t.Parallel()

		if _, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
			Name:      "dev",
			Overrides: map[string]string{"netbox.base-url": "https://scratch.example.com"},
		}); err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}

		plain, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: "dev"})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if plain.NetBox.BaseURL != "https://netbox.example.com" {
			t.Fatalf("expected catalog base-url to be untouched, got %q", plain.NetBox.BaseURL)
		}
	})
}

func TestResolveContextSafetyOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(validContextCatalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write test contextCatalog: %v", err)
	}

	contextService := NewFileContextService(path)
	resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
		Name:      "dev",
		Overrides: map[string]string{"safety.dry-run-mode": "true"},
	})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if !resolved.Safety.DryRunMode {
		t.Fatal("expected dry-run-mode override to apply")
	}

	_, err = contextService.ResolveContext(context.Background(), config.ContextSelection{
		Name:      "dev",
		Overrides: map[string]string{"safety.dry-run-mode": "sometimes"},
	})
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestResolveContextFallsBackToEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contexts.yaml")
	t.Setenv(config.NetBoxURLEnvVar, "https://env.netbox.example.com")
	t.Setenv(config.NetBoxTokenEnvVar, "env-token")

	contextService := NewFileContextService(path)

	resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Name != config.EnvContextName {
		t.Fatalf("expected env context, got %q", resolved.Name)
	}
	if resolved.NetBox.BaseURL != "https://env.netbox.example.com" {
		t.Fatalf("unexpected base-url %q", resolved.NetBox.BaseURL)
	}
	if resolved.NetBox.Auth == nil || resolved.NetBox.Auth.Token != "env-token" {
		t.Fatalf("expected env token auth, got %#v", resolved.NetBox.Auth)
	}

	byName, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: config.EnvContextName})
	if err != nil {
		t.Fatalf("ResolveContext(env) returned error: %v", err)
	}
	if byName.Name != config.EnvContextName {
		t.Fatalf("expected env context, got %q", byName.Name)
	}
}

func TestResolveContextCatalogEntryWinsOverEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(validContextCatalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write test contextCatalog: %v", err)
	}
	t.Setenv(config.NetBoxURLEnvVar, "https://env.netbox.example.com")

	contextService := NewFileContextService(path)
	resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Name != "dev" {
		t.Fatalf("expected catalog context dev to win, got %q", resolved.Name)
	}
	if resolved.NetBox.BaseURL != "https://netbox.example.com" {
		t.Fatalf("expected catalog base-url, got %q", resolved.NetBox.BaseURL)
	}
}

func TestContextServiceMissingCatalogBehaviors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contexts.yaml")
	t.Setenv(config.NetBoxURLEnvVar, "")
	t.Setenv(config.NetBoxTokenEnvVar, "")

	contextService := NewFileContextService(path)

	items, err := contextService.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}

	_, err = contextService.GetCurrent(context.Background())
	assertTypedCategory(t, err, faults.NotFoundError)
	if !strings.Contains(err.Error(), "current context not set") {
		t.Fatalf("unexpected get current error: %v", err)
	}

	_, err = contextService.ResolveContext(context.Background(), config.ContextSelection{})
	assertTypedCategory(t, err, faults.NotFoundError)
	if !strings.Contains(err.Error(), "current context not set") {
		t.Fatalf("unexpected resolve error: %v", err)
	}

	if err := contextService.SetCurrent(context.Background(), "missing"); err == nil {
		t.Fatal("expected SetCurrent on empty contextCatalog to fail")
	} else {
		assertTypedCategory(t, err, faults.NotFoundError)
	}
}

func TestFileContextServiceCreateWritesUserOnlyCatalogPermissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX file mode semantics are not portable on Windows")
	}

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	contextService := NewFileContextService(path)

	err := contextService.Create(context.Background(), config.Context{
		Name:   "dev",
		NetBox: validNetBox(),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat catalog: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected 0600 permissions, got %#o", got)
	}
}

func TestFileContextServiceLoadCatalogNormalizesPermissiveFileMode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX file mode semantics are not portable on Windows")
	}

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(validContextCatalogYAML), 0o644); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}

	contextService := NewFileContextService(path)
	if _, err := contextService.List(context.Background()); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat catalog: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected normalized 0600 permissions, got %#o", got)
	}
}

func TestContextServiceCRUDLifecycle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	contextService := NewFileContextService(path)

	dev := config.Context{
		Name:   "dev",
		NetBox: validNetBox(),
	}
	if err := contextService.Create(context.Background(), dev); err != nil {
		t.Fatalf("Create(dev) returned error: %v", err)
	}

	prod := config.Context{
		Name: "prod",
		NetBox: &config.NetBox{
			BaseURL:        "https://netbox.prod.example.com",
			Auth:           &config.NetBoxAuth{SecretRef: "netbox-prod-token"},
			MinimumVersion: "3.5.0",
		},
	}
	if err := contextService.Create(context.Background(), prod); err != nil {
		t.Fatalf("Create(prod) returned error: %v", err)
	}

	current, err := contextService.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetCurrent returned error: %v", err)
	}
	if current.Name != "dev" {
		t.Fatalf("expected current context dev, got %q", current.Name)
	}

	if err := contextService.SetCurrent(context.Background(), "prod"); err != nil {
		t.Fatalf("SetCurrent(prod) returned error: %v", err)
	}

	current, err = contextService.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetCurrent after SetCurrent returned error: %v", err)
	}
	if current.Name != "prod" {
		t.Fatalf("expected current context prod, got %q", current.Name)
	}

	if err := contextService.Rename(context.Background(), "prod", "stage"); err != nil {
		t.Fatalf("Rename(prod->stage) returned error: %v", err)
	}

	current, err = contextService.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetCurrent after Rename returned error: %v", err)
	}
	if current.Name != "stage" {
		t.Fatalf("expected current context stage after rename, got %q", current.Name)
	}

	if err := contextService.Update(context.Background(), config.Context{
		Name: "stage",
		NetBox: &config.NetBox{
			BaseURL: "https://netbox.stage.example.com",
			Auth:    &config.NetBoxAuth{SecretRef: "netbox-stage-token"},
		},
	}); err != nil {
		t.Fatalf("Update(stage) returned error: %v", err)
	}

	resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: "stage"})
	if err != nil {
		t.Fatalf("ResolveContext(stage) returned error: %v", err)
	}
	if resolved.NetBox.BaseURL != "https://netbox.stage.example.com" {
		t.Fatalf("expected updated base-url, got %q", resolved.NetBox.BaseURL)
	}

	if err := contextService.Delete(context.Background(), "stage"); err != nil {
		t.Fatalf("Delete(stage) returned error: %v", err)
	}

	current, err = contextService.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetCurrent after deleting current context returned error: %v", err)
	}
	if current.Name != "dev" {
		t.Fatalf("expected fallback current context dev, got %q", current.Name)
	}

	if err := contextService.Delete(context.Background(), "dev"); err != nil {
		t.Fatalf("Delete(dev) returned error: %v", err)
	}

	items, err := contextService.List(context.Background())
	if err != nil {
		t.Fatalf("List after deleting all contexts returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty contextCatalog, got %#v", items)
	}

	if _, err := contextService.GetCurrent(context.Background()); err == nil {
		t.Fatal("expected GetCurrent to fail when contextCatalog is empty")
	} else {
		assertTypedCategory(t, err, faults.NotFoundError)
	}
}

func TestSetCurrentPreservesContextOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	contextService := NewFileContextService(path)

	for _, name := range []string{"a", "b", "c"} {
		if err := contextService.Create(context.Background(), config.Context{
			Name: name,
			NetBox: &config.NetBox{
				BaseURL: "https://" + name + ".netbox.example.com",
				Auth:    &config.NetBoxAuth{Token: "token-" + name},
			},
		}); err != nil {
			t.Fatalf("Create(%q) returned error: %v", name, err)
		}
	}

	if err := contextService.SetCurrent(context.Background(), "b"); err != nil {
		t.Fatalf("SetCurrent(b) returned error: %v", err)
	}

	items, err := contextService.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 contexts, got %d", len(items))
	}
	if items[0].Name != "a" || items[1].Name != "b" || items[2].Name != "c" {
		t.Fatalf("expected preserved order [a b c], got [%s %s %s]", items[0].Name, items[1].Name, items[2].Name)
	}
}

func TestEmptyAuthBlockIsNotPersisted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	contextService := NewFileContextService(path)

	if err := contextService.Create(context.Background(), config.Context{
		Name: "dev",
		NetBox: &config.NetBox{
			BaseURL: "https://netbox.example.com",
			Auth:    &config.NetBoxAuth{},
		},
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved context catalog: %v", err)
	}
	if strings.Contains(string(raw), "auth:") {
		t.Fatalf("expected empty auth block to be omitted, got:\n%s", string(raw))
	}
}

func TestResolveContextOverrideFailureIsDeterministic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(multiContextCatalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write test contextCatalog: %v", err)
	}

	contextService := NewFileContextService(path)
	_, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
		Name: "dev",
		Overrides: map[string]string{
			"netbox.base-url": "https://override.example.com",
			"aaa.unknown":     "x",
		},
	})
	if err == nil {
		t.Fatal("expected invalid overrides to fail")
	}
	if !strings.Contains(err.Error(), "unknown override key \"aaa.unknown\"") {
		t.Fatalf("expected deterministic failure on alphabetically first invalid key, got: %v", err)
	}
}

func TestMutationOnMissingCatalogReturnsNotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	contextService := NewFileContextService(path)

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "update",
			run: func() error {
				return contextService.Update(context.Background(), config.Context{
					Name:   "missing",
					NetBox: validNetBox(),
				})
			},
		},
		{
			name: "delete",
			run: func() error {
				return contextService.Delete(context.Background(), "missing")
			},
		},
		{
			name: "rename",
			run: func() error {
				return contextService.Rename(context.Background(), "missing", "renamed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			assertTypedCategory(t, err, faults.NotFoundError)
		})
	}
}

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %q error, got nil", category)
	}

	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if typedErr.Category != category {
		t.Fatalf("expected %q category, got %q", category, typedErr.Category)
	}
}

func validNetBox() *config.NetBox {
	return &config.NetBox{
		BaseURL: "https://netbox.example.com",
		Auth:    &config.NetBoxAuth{Token: "0123456789abcdef0123456789abcdef01234567"},
	}
}

const validContextCatalogYAML = `
contexts:
  - name: dev
    netbox:
      base-url: https://netbox.example.com
      auth:
        token: 0123456789abcdef0123456789abcdef01234567
      cache:
        ttl: 45s
      rate-limit:
        requests-per-second: 5
        burst: 2
    secret-store:
      file:
        path: /tmp/secrets.json
        passphrase: change-me
current-ctx: dev
`

const multiContextCatalogYAML = `
contexts:
  - name: dev
    netbox:
      base-url: https://netbox.example.com
      auth:
        token: 0123456789abcdef0123456789abcdef01234567

  - name: staging
    netbox:
      base-url: https://netbox.staging.example.com
      auth:
        token-file: /tmp/netbox-token
      timeout: 10s

  - name: prod
    netbox:
      base-url: https://netbox.prod.example.com
      auth:
        secret-ref: netbox-prod-token
      minimum-version: 3.5.0
      cache:
        enabled: false
    safety:
      dry-run-mode: true

current-ctx: dev
`
