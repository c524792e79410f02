package file

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/netforge-io/netforge/config"
)

// validate checks the tag-expressible constraints (required, url, oneof,
// ranges). Field names in messages come from the yaml tags so errors read as
// catalog keys, not Go identifiers.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}

	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

func validateConfig(cfg config.Context) error {
	cfg = normalizeConfig(cfg)

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return validationError(describeFieldError(fieldErrs[0]), err)
		}
		return validationError("context configuration is invalid", err)
	}

	if err := validateNetBox(cfg.NetBox); err != nil {
		return err
	}

	return validateSecretStore(cfg.SecretStore)
}

func describeFieldError(fieldErr validator.FieldError) string {
	key := yamlPath(fieldErr.Namespace())
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "url":
		return fmt.Sprintf("%s must be a valid url", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", key)
	}
}

// yamlPath turns a validator namespace like "Context.netbox.base-url" into
// the catalog key path "netbox.base-url".
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func validateNetBox(netbox *config.NetBox) error {
	if netbox == nil {
		return validationError("netbox is required", nil)
	}

	if netbox.Auth != nil {
		if countSet(netbox.Auth.Token != "", netbox.Auth.TokenFile != "", netbox.Auth.SecretRef != "") != 1 {
			return validationError("netbox.auth must define exactly one of token, token-file, secret-ref", nil)
		}
	}

	if netbox.Timeout != "" {
		if _, err := time.ParseDuration(netbox.Timeout); err != nil {
			return validationError("netbox.timeout must be a valid duration", err)
		}
	}
	if netbox.Cache.TTL != "" {
		if _, err := time.ParseDuration(netbox.Cache.TTL); err != nil {
			return validationError("netbox.cache.ttl must be a valid duration", err)
		}
	}

	if netbox.MinimumVersion != "" {
		if _, err := semver.NewVersion(netbox.MinimumVersion); err != nil {
			return validationError("netbox.minimum-version must be a semantic version", err)
		}
	}

	return nil
}

func validateSecretStore(secretStore *config.SecretStore) error {
	if secretStore == nil {
		return nil
	}

	if secretStore.File == nil {
		return validationError("secret-store must define file", nil)
	}
	if secretStore.File.Path == "" {
		return validationError("secret-store.file.path is required", nil)
	}
	if countSet(secretStore.File.Passphrase != "", secretStore.File.PassphraseFile != "") != 1 {
		return validationError("secret-store.file must define exactly one of passphrase, passphrase-file", nil)
	}

	return nil
}

// normalizeConfig trims the identifying fields and drops an all-empty auth
// block, which means the same as no auth block at all. The catalog entry is
// never mutated in place.
func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.NetBox != nil {
		netbox := *cfg.NetBox
		netbox.BaseURL = strings.TrimSpace(netbox.BaseURL)
		if netbox.Auth != nil && *netbox.Auth == (config.NetBoxAuth{}) {
			netbox.Auth = nil
		}
		cfg.NetBox = &netbox
	}
	return cfg
}

func compactContextCatalogForPersistence(contextCatalog config.ContextCatalog) config.ContextCatalog {
	if len(contextCatalog.Contexts) == 0 {
		return contextCatalog
	}

	compacted := contextCatalog
	compacted.Contexts = make([]config.Context, len(contextCatalog.Contexts))
	for idx, item := range contextCatalog.Contexts {
		compacted.Contexts[idx] = compactConfigForPersistence(item)
	}

	return compacted
}

func compactConfigForPersistence(cfg config.Context) config.Context {
	if cfg.NetBox != nil && cfg.NetBox.Auth != nil {
		auth := *cfg.NetBox.Auth
		if auth.Token == "" && auth.TokenFile == "" && auth.SecretRef == "" {
			netbox := *cfg.NetBox
			netbox.Auth = nil
			cfg.NetBox = &netbox
		}
	}
	if cfg.Telemetry != nil {
		t := *cfg.Telemetry
		if t.Logging == nil && t.Metrics == nil && t.Tracing == nil {
			cfg.Telemetry = nil
		}
	}
	if cfg.Library != nil {
		l := *cfg.Library
		if l.RepositoryURL == "" && l.Branch == "" && l.BaseDir == "" {
			cfg.Library = nil
		}
	}
	return cfg
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}

	// Overrides apply to a resolved copy, never to the catalog entry itself.
	if cfg.NetBox != nil {
		netbox := *cfg.NetBox
		cfg.NetBox = &netbox
	}

	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		switch key {
		case "netbox.base-url":
			if cfg.NetBox == nil {
				return config.Context{}, validationError("override netbox.base-url requires netbox to be configured", nil)
			}
			cfg.NetBox.BaseURL = value
		case "netbox.timeout":
			if cfg.NetBox == nil {
				return config.Context{}, validationError("override netbox.timeout requires netbox to be configured", nil)
			}
			cfg.NetBox.Timeout = value
		case "netbox.minimum-version":
			if cfg.NetBox == nil {
				return config.Context{}, validationError("override netbox.minimum-version requires netbox to be configured", nil)
			}
			cfg.NetBox.MinimumVersion = value
		case "netbox.cache.ttl":
			if cfg.NetBox == nil {
				return config.Context{}, validationError("override netbox.cache.ttl requires netbox to be configured", nil)
			}
			cfg.NetBox.Cache.TTL = value
		case "netbox.cache.enabled":
			if cfg.NetBox == nil {
				return config.Context{}, validationError("override netbox.cache.enabled requires netbox to be configured", nil)
			}
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return config.Context{}, validationError("override netbox.cache.enabled must be true or false", err)
			}
			cfg.NetBox.Cache.Enabled = &enabled
		case "safety.dry-run-mode":
			dryRun, err := strconv.ParseBool(value)
			if err != nil {
				return config.Context{}, validationError("override safety.dry-run-mode must be true or false", err)
			}
			cfg.Safety.DryRunMode = dryRun
		case "library.repository-url":
			cfg.Library = libraryOrZero(cfg.Library)
			cfg.Library.RepositoryURL = value
		case "library.branch":
			cfg.Library = libraryOrZero(cfg.Library)
			cfg.Library.Branch = value
		case "library.base-dir":
			cfg.Library = libraryOrZero(cfg.Library)
			cfg.Library.BaseDir = value
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}

	return cfg, nil
}

func libraryOrZero(library *config.Library) *config.Library {
	if library != nil {
		copied := *library
		return &copied
	}
	return &config.Library{}
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}
