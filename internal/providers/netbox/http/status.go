package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/telemetry"
)

const statusPath = "/api/status/"

// Status probes the instance's status endpoint and reports its version,
// plugin set and response latency. With a minimum version configured the
// probe also enforces the gate, so `netforge status` shows the same refusal
// a write would hit.
func (g *NetBoxGateway) Status(ctx context.Context) (netbox.InstanceStatus, error) {
	if g == nil {
		return netbox.InstanceStatus{}, internalError("netbox gateway is not configured", nil)
	}

	status, err := g.fetchStatus(ctx)
	if err != nil {
		return netbox.InstanceStatus{}, err
	}

	if err := g.checkMinimumVersion(status.Version); err != nil {
		return status, err
	}
	return status, nil
}

func (g *NetBoxGateway) fetchStatus(ctx context.Context) (netbox.InstanceStatus, error) {
	timer := telemetry.NewTimer()
	body, err := g.execute(ctx, http.MethodGet, statusPath, nil, nil)
	if err != nil {
		return netbox.InstanceStatus{}, err
	}
	elapsed := timer.Duration()

	payload, err := decodeJSONResponse(body)
	if err != nil {
		return netbox.InstanceStatus{}, err
	}
	fields, ok := payload.(map[string]any)
	if !ok {
		return netbox.InstanceStatus{}, internalError("netbox status response must be a JSON object", nil)
	}

	status := netbox.InstanceStatus{
		ResponseTime: elapsed,
		Plugins:      map[string]string{},
	}
	if version, ok := fields["netbox-version"].(string); ok {
		status.Version = strings.TrimSpace(version)
	}
	if pythonVersion, ok := fields["python-version"].(string); ok {
		status.PythonVersion = strings.TrimSpace(pythonVersion)
	}
	if plugins, ok := fields["plugins"].(map[string]any); ok {
		for name, value := range plugins {
			if pluginVersion, ok := value.(string); ok {
				status.Plugins[name] = pluginVersion
			}
		}
	}

	if status.Version == "" {
		return netbox.InstanceStatus{}, internalError("netbox status response carries no version", nil)
	}
	return status, nil
}

// ensureMinimumVersion gates the first write of a gateway's lifetime on the
// instance being recent enough. Probing once is enough; the instance does
// not get older mid-process.
func (g *NetBoxGateway) ensureMinimumVersion(ctx context.Context) error {
	if g.minimumVersion == nil {
		return nil
	}

	g.versionMu.Lock()
	defer g.versionMu.Unlock()
	if g.versionChecked {
		return nil
	}

	status, err := g.fetchStatus(ctx)
	if err != nil {
		return err
	}
	if err := g.checkMinimumVersion(status.Version); err != nil {
		return err
	}

	g.versionChecked = true
	return nil
}

func (g *NetBoxGateway) checkMinimumVersion(reported string) error {
	if g.minimumVersion == nil {
		return nil
	}

	running, err := semver.NewVersion(strings.TrimSpace(reported))
	if err != nil {
		return validationError(fmt.Sprintf("netbox reported unparseable version %q", reported), err)
	}

	if running.LessThan(g.minimumVersion) {
		return validationError(
			fmt.Sprintf("netbox version %s is older than the required minimum %s", running, g.minimumVersion),
			nil,
		)
	}
	return nil
}
