package status

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/netforge-io/netforge/netbox"
)

func TestStatusRendersInstanceDetails(t *testing.T) {
	t.Parallel()

	client := &testClient{
		status: netbox.InstanceStatus{
			Version:       "4.1.3",
			PythonVersion: "3.12.4",
			ResponseTime:  42 * time.Millisecond,
			Plugins: map[string]string{
				"netbox-topology-views": "4.0.1",
				"netbox-bgp":            "0.14.0",
			},
		},
	}

	output, err := executeStatusCommand(t, common.CommandDependencies{Client: client}, &common.GlobalFlags{})
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	if !strings.Contains(output, "netbox 4.1.3 (python 3.12.4), response time 42ms") {
		t.Fatalf("expected instance line, got %q", output)
	}
	bgpIndex := strings.Index(output, "netbox-bgp 0.14.0")
	topologyIndex := strings.Index(output, "netbox-topology-views 4.0.1")
	if bgpIndex < 0 || topologyIndex < 0 || bgpIndex > topologyIndex {
		t.Fatalf("expected sorted plugin lines, got %q", output)
	}
}

func TestStatusOmitsEmptyPluginSection(t *testing.T) {
	t.Parallel()

	client := &testClient{status: netbox.InstanceStatus{Version: "4.1.3"}}
	output, err := executeStatusCommand(t, common.CommandDependencies{Client: client}, &common.GlobalFlags{})
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if strings.Contains(output, "plugins:") {
		t.Fatalf("expected no plugin section, got %q", output)
	}
}

func TestStatusPropagatesProbeFailure(t *testing.T) {
	t.Parallel()

	client := &testClient{err: faults.Transport("netbox instance is unreachable", nil)}
	_, err := executeStatusCommand(t, common.CommandDependencies{Client: client}, &common.GlobalFlags{})
	if !faults.IsCategory(err, faults.TransportError) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestStatusRequiresConfiguredClient(t *testing.T) {
	t.Parallel()

	_, err := executeStatusCommand(t, common.CommandDependencies{}, &common.GlobalFlags{})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func executeStatusCommand(
	t *testing.T,
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	args ...string,
) (string, error) {
	t.Helper()

	command := NewCommand(deps, globalFlags)
	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetErr(io.Discard)
	command.SetIn(strings.NewReader(""))
	command.SetArgs(args)

	err := command.Execute()
	return output.String(), err
}

type testClient struct {
	status netbox.InstanceStatus
	err    error
}

func (c *testClient) Filter(context.Context, netbox.Kind, netbox.Query) ([]netbox.Object, error) {
	return nil, errors.New("unexpected filter call")
}

func (c *testClient) Create(context.Context, netbox.Kind, map[string]any) (netbox.Object, error) {
	return netbox.Object{}, errors.New("unexpected create call")
}

func (c *testClient) Invalidate(context.Context, ...netbox.Object) error {
	return nil
}

func (c *testClient) Status(context.Context) (netbox.InstanceStatus, error) {
	if c.err != nil {
		return netbox.InstanceStatus{}, c.err
	}
	return c.status, nil
}
