package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	configfile "github.com/netforge-io/netforge/internal/providers/config/file"
	netboxhttp "github.com/netforge-io/netforge/internal/providers/netbox/http"
	"github.com/netforge-io/netforge/netbox"
)

func writeContextCatalog(t *testing.T, path string, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
}

func TestNewNetforgeContextWiring(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	writeContextCatalog(t, contextCatalogPath, `
contexts:
  - name: dev
    netbox:
      base-url: https://netbox-dev.example.com
      auth:
        token: dev-token
    telemetry:
      logging:
        level: error
    library:
      base-dir: `+filepath.Join(tempDir, "library")+`
current-ctx: dev
`)

	nfctx, err := NewNetforgeContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{Name: "dev"},
	)
	if err != nil {
		t.Fatalf("NewNetforgeContext returned error: %v", err)
	}

	if _, ok := nfctx.Contexts.(*configfile.FileContextService); !ok {
		t.Fatalf("expected FileContextService, got %T", nfctx.Contexts)
	}
	if _, ok := nfctx.Client.(*netboxhttp.NetBoxGateway); !ok {
		t.Fatalf("expected NetBoxGateway client, got %T", nfctx.Client)
	}
	if _, ok := nfctx.Engine.(*engine.DefaultEngine); !ok {
		t.Fatalf("expected DefaultEngine, got %T", nfctx.Engine)
	}
	if nfctx.Telemetry == nil || nfctx.Telemetry.Logger == nil {
		t.Fatal("expected telemetry stack")
	}
	if nfctx.Schemas == nil {
		t.Fatal("expected schema registry")
	}
	if nfctx.LibrarySyncer == nil || nfctx.LibraryLoader == nil {
		t.Fatal("expected library components")
	}
	if nfctx.Tokens != nil {
		t.Fatalf("expected no token store without secret-store config, got %T", nfctx.Tokens)
	}
	if nfctx.Resolved.Name != "dev" {
		t.Fatalf("expected resolved dev context, got %q", nfctx.Resolved.Name)
	}
}

func TestNewNetforgeContextSelectsNamedContext(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	writeContextCatalog(t, contextCatalogPath, `
contexts:
  - name: dev
    netbox:
      base-url: https://netbox-dev.example.com
      auth:
        token: dev-token
  - name: prod
    netbox:
      base-url: https://netbox-prod.example.com
      auth:
        token: prod-token
    safety:
      dry-run-mode: true
current-ctx: dev
`)

	nfctx, err := NewNetforgeContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{Name: "prod"},
	)
	if err != nil {
		t.Fatalf("NewNetforgeContext returned error: %v", err)
	}

	if nfctx.Resolved.NetBox.BaseURL != "https://netbox-prod.example.com" {
		t.Fatalf("expected prod base url, got %q", nfctx.Resolved.NetBox.BaseURL)
	}

	// The prod context forces global dry-run: even a confirmed request
	// must come back as a preview without touching the network.
	outcome, err := nfctx.Engine.Execute(context.Background(), engine.Request{
		Kind:       netbox.KindInterfaceTemplate,
		DeviceType: "C9300-24T",
		Name:       "Gig0/1",
		Attributes: map[string]any{"type": "1000base-t"},
		Confirmed:  true,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if outcome.Status != engine.StatusDryRun {
		t.Fatalf("expected dry-run outcome under safety.dry-run-mode, got %q", outcome.Status)
	}
}

func TestNewNetforgeContextFailsWhenCurrentContextMissing(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	writeContextCatalog(t, contextCatalogPath, "contexts: []\n")

	_, err := NewNetforgeContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{},
	)
	assertTypedCategory(t, err, faults.NotFoundError)
}

func TestNewNetforgeContextRejectsUnknownContext(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	writeContextCatalog(t, contextCatalogPath, `
contexts:
  - name: dev
    netbox:
      base-url: https://netbox-dev.example.com
current-ctx: dev
`)

	_, err := NewNetforgeContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{Name: "staging"},
	)
	assertTypedCategory(t, err, faults.NotFoundError)
}

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", category)
	}
	var typed *faults.TypedError
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if typed.Category != category {
		t.Fatalf("expected %s, got %s: %v", category, typed.Category, err)
	}
}
