package tlsconfig

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netforge-io/netforge/config"
)

func TestBuildNilSettingsYieldsNilConfig(t *testing.T) {
	t.Parallel()

	tlsConfig, err := Build(nil, "netbox")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if tlsConfig != nil {
		t.Fatalf("expected nil config, got %#v", tlsConfig)
	}
}

func TestBuildSetsMinimumVersionAndInsecureFlag(t *testing.T) {
	t.Parallel()

	tlsConfig, err := Build(&config.TLS{InsecureSkipVerify: true}, "netbox")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if tlsConfig.MinVersion != tls.VersionTLS12 {
		t.Fatalf("expected TLS 1.2 minimum, got %d", tlsConfig.MinVersion)
	}
	if !tlsConfig.InsecureSkipVerify {
		t.Fatal("expected insecure-skip-verify to carry through")
	}
}

func TestBuildRejectsUnreadableCACert(t *testing.T) {
	t.Parallel()

	_, err := Build(&config.TLS{CACertFile: filepath.Join(t.TempDir(), "missing.pem")}, "netbox")
	if err == nil {
		t.Fatal("expected missing ca cert to fail")
	}
	if !strings.Contains(err.Error(), "netbox.tls.ca-cert-file could not be read") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRejectsMalformedCACert(t *testing.T) {
	t.Parallel()

	caPath := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(caPath, []byte("not a certificate"), 0o600); err != nil {
		t.Fatalf("failed to write ca file: %v", err)
	}

	_, err := Build(&config.TLS{CACertFile: caPath}, "netbox")
	if err == nil {
		t.Fatal("expected malformed ca cert to fail")
	}
	if !strings.Contains(err.Error(), "is not valid PEM") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRequiresCertAndKeyTogether(t *testing.T) {
	t.Parallel()

	_, err := Build(&config.TLS{ClientCertFile: "/tmp/client.pem"}, "netbox")
	if err == nil {
		t.Fatal("expected lone client-cert-file to fail")
	}
	if !strings.Contains(err.Error(), "requires both client-cert-file and client-key-file") {
		t.Fatalf("unexpected error: %v", err)
	}
}
