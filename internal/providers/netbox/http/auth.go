package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/netforge-io/netforge/config"
)

type authMode int

const (
	authModeEnv authMode = iota
	authModeToken
	authModeTokenFile
	authModeSecretRef
)

type authConfig struct {
	mode      authMode
	token     string
	tokenFile string
	secretRef string
}

func buildAuthConfig(cfg *config.NetBoxAuth) (authConfig, error) {
	if cfg == nil {
		return authConfig{mode: authModeEnv}, nil
	}

	setCount := 0
	for _, value := range []string{cfg.Token, cfg.TokenFile, cfg.SecretRef} {
		if strings.TrimSpace(value) != "" {
			setCount++
		}
	}
	if setCount == 0 {
		// An empty auth block means the same as no auth block.
		return authConfig{mode: authModeEnv}, nil
	}
	if setCount > 1 {
		return authConfig{}, validationError("netbox.auth must define exactly one of token, token-file, secret-ref", nil)
	}

	switch {
	case strings.TrimSpace(cfg.Token) != "":
		return authConfig{mode: authModeToken, token: strings.TrimSpace(cfg.Token)}, nil
	case strings.TrimSpace(cfg.TokenFile) != "":
		return authConfig{mode: authModeTokenFile, tokenFile: strings.TrimSpace(cfg.TokenFile)}, nil
	default:
		return authConfig{mode: authModeSecretRef, secretRef: strings.TrimSpace(cfg.SecretRef)}, nil
	}
}

// applyAuth attaches the NetBox token header. An env-mode gateway without
// NETBOX_TOKEN sends the request anonymously and lets the server decide;
// instances with open read access stay probeable without credentials.
func (g *NetBoxGateway) applyAuth(ctx context.Context, request *http.Request) error {
	token, err := g.apiToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		request.Header.Set("Authorization", "Token "+token)
	}
	return nil
}

// apiToken resolves the configured token source once and caches the result
// for the lifetime of the gateway.
func (g *NetBoxGateway) apiToken(ctx context.Context) (string, error) {
	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()

	if g.tokenResolved {
		return g.resolvedToken, nil
	}

	token, err := g.resolveToken(ctx)
	if err != nil {
		return "", err
	}

	g.resolvedToken = token
	g.tokenResolved = true
	return token, nil
}

func (g *NetBoxGateway) resolveToken(ctx context.Context) (string, error) {
	switch g.auth.mode {
	case authModeToken:
		return g.auth.token, nil
	case authModeTokenFile:
		raw, err := os.ReadFile(g.auth.tokenFile)
		if err != nil {
			return "", authError("netbox.auth.token-file could not be read", err)
		}
		token := strings.TrimSpace(string(raw))
		if token == "" {
			return "", authError("netbox.auth.token-file is empty", nil)
		}
		return token, nil
	case authModeSecretRef:
		if g.tokens == nil {
			return "", authError("netbox.auth.secret-ref requires a configured secret store", nil)
		}
		token, err := g.tokens.Get(ctx, g.auth.secretRef)
		if err != nil {
			return "", err
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return "", authError(fmt.Sprintf("secret %q resolved to an empty token", g.auth.secretRef), nil)
		}
		return token, nil
	default:
		return strings.TrimSpace(os.Getenv(config.NetBoxTokenEnvVar)), nil
	}
}
