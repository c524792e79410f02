package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const deviceTypesDir = "device-types"

// Filter narrows a load to one vendor directory and optionally one model.
// Matching is case-insensitive; empty fields match everything.
type Filter struct {
	Vendor string
	Model  string
}

func (f Filter) matchesVendor(vendor string) bool {
	return f.Vendor == "" || strings.EqualFold(strings.TrimSpace(f.Vendor), vendor)
}

func (f Filter) matchesModel(model string) bool {
	return f.Model == "" || strings.EqualFold(strings.TrimSpace(f.Model), model)
}

// Loader reads device-type definitions from a library checkout.
type Loader struct {
	baseDir string
}

func NewLoader(baseDir string) (*Loader, error) {
	resolved, err := resolveBaseDir(baseDir)
	if err != nil {
		return nil, err
	}
	return &Loader{baseDir: resolved}, nil
}

// BaseDir returns the resolved checkout root.
func (l *Loader) BaseDir() string {
	return l.baseDir
}

// Load parses every definition under device-types/ matching the filter,
// sorted by vendor/model. A checkout without the device-types directory is
// reported as not found so callers can point at the sync step.
func (l *Loader) Load(ctx context.Context, filter Filter) ([]Definition, error) {
	if l == nil {
		return nil, internalError("library loader is not configured", nil)
	}

	root := filepath.Join(l.baseDir, deviceTypesDir)
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFoundError(fmt.Sprintf("no device-type library at %s; run library sync first", l.baseDir), err)
		}
		return nil, internalError("failed to open device-type library", err)
	}

	vendors, err := os.ReadDir(root)
	if err != nil {
		return nil, internalError("failed to list library vendors", err)
	}

	var definitions []Definition
	for _, vendor := range vendors {
		if !vendor.IsDir() || strings.HasPrefix(vendor.Name(), ".") {
			continue
		}
		if !filter.matchesVendor(vendor.Name()) {
			continue
		}

		loaded, err := l.loadVendor(ctx, root, vendor.Name(), filter)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, loaded...)
	}

	sort.Slice(definitions, func(i, j int) bool { return definitions[i].Key() < definitions[j].Key() })
	return definitions, nil
}

func (l *Loader) loadVendor(ctx context.Context, root, vendor string, filter Filter) ([]Definition, error) {
	entries, err := os.ReadDir(filepath.Join(root, vendor))
	if err != nil {
		return nil, internalError(fmt.Sprintf("failed to list definitions for vendor %s", vendor), err)
	}

	var definitions []Definition
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}

		path := filepath.Join(root, vendor, entry.Name())
		if !isPathUnderRoot(l.baseDir, path) {
			return nil, validationError(fmt.Sprintf("definition %s resolves outside the library checkout", path), nil)
		}

		def, err := l.loadDefinition(path)
		if err != nil {
			return nil, err
		}
		def.Path = filepath.Join(deviceTypesDir, vendor, entry.Name())
		if def.Manufacturer == "" {
			def.Manufacturer = vendor
		}
		if !filter.matchesModel(def.Model) {
			continue
		}
		definitions = append(definitions, def)
	}
	return definitions, nil
}

func (l *Loader) loadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, internalError(fmt.Sprintf("failed to read definition %s", path), err)
	}

	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, validationError(fmt.Sprintf("invalid definition yaml in %s", path), err)
	}
	if strings.TrimSpace(def.Model) == "" {
		return Definition{}, validationError(fmt.Sprintf("definition %s has no model", path), nil)
	}
	return def, nil
}

func isDefinitionFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func resolveBaseDir(baseDir string) (string, error) {
	path := strings.TrimSpace(baseDir)
	if path == "" {
		return "", validationError("library.base-dir is empty", nil)
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", internalError("failed to resolve user home directory", err)
		}
		if path == "~" {
			path = homeDir
		} else {
			path = filepath.Join(homeDir, strings.TrimPrefix(path, "~/"))
		}
	}

	return filepath.Clean(path), nil
}
