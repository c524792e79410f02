package template

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
)

func TestAddBuildsRequestFromChangedFlags(t *testing.T) {
	t.Parallel()

	engineService := &testEngine{
		outcome: engine.Outcome{
			Status:     engine.StatusDryRun,
			Kind:       netbox.KindInterfaceTemplate,
			DeviceType: "C9300-48P",
			Name:       "eth0",
			Preview: map[string]any{
				"device_type": "C9300-48P",
				"name":        "eth0",
				"type":        "1000base-t",
				"mgmt_only":   true,
			},
		},
	}

	output, err := executeTemplateCommand(t, depsWith(engineService, nil), &common.GlobalFlags{},
		"add", "interface-template", "eth0",
		"--device-type", "C9300-48P",
		"--type", "1000base-t",
		"--mgmt-only",
	)
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	if len(engineService.executed) != 1 {
		t.Fatalf("expected one engine execution, got %d", len(engineService.executed))
	}
	request := engineService.executed[0]
	if request.Kind != netbox.KindInterfaceTemplate {
		t.Fatalf("expected interface-template kind, got %q", request.Kind)
	}
	if request.DeviceType != "C9300-48P" || request.Name != "eth0" {
		t.Fatalf("unexpected target: %q / %q", request.DeviceType, request.Name)
	}
	if request.Confirmed {
		t.Fatal("expected unconfirmed request without --confirm")
	}
	if got := request.Attributes["type"]; got != "1000base-t" {
		t.Fatalf("expected type attribute, got %v", got)
	}
	if got := request.Attributes["mgmt_only"]; got != true {
		t.Fatalf("expected mgmt_only attribute, got %v", got)
	}
	if _, present := request.Attributes["description"]; present {
		t.Fatal("expected unchanged flags to stay out of the request")
	}
	if len(request.References) != 0 {
		t.Fatalf("expected no references, got %v", request.References)
	}

	if !strings.Contains(output, "dry-run: would create interface-template \"eth0\"") {
		t.Fatalf("expected dry-run header, got %q", output)
	}
	if !strings.Contains(output, "pass --confirm to apply") {
		t.Fatalf("expected confirm hint, got %q", output)
	}
	if !strings.Contains(output, "type: 1000base-t") {
		t.Fatalf("expected preview fields, got %q", output)
	}
}

func TestAddMapsReferenceFlagsToRequestFields(t *testing.T) {
	t.Parallel()

	engineService := &testEngine{
		outcome: engine.Outcome{
			Status:     engine.StatusCreated,
			Kind:       netbox.KindFrontPortTemplate,
			DeviceType: "PDU-2000",
			Name:       "fp1",
			Created:    &netbox.Object{ID: 7, Display: "fp1", Attrs: map[string]any{"name": "fp1"}},
		},
	}

	output, err := executeTemplateCommand(t, depsWith(engineService, nil), &common.GlobalFlags{},
		"add", "front-port-template", "fp1",
		"--device-type", "PDU-2000",
		"--type", "8p8c",
		"--rear-port", "rp1",
		"--confirm",
	)
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	if len(engineService.executed) != 1 {
		t.Fatalf("expected one engine execution, got %d", len(engineService.executed))
	}
	request := engineService.executed[0]
	if !request.Confirmed {
		t.Fatal("expected confirmed request with --confirm")
	}
	if got := request.References["rear_port_template"]; got != "rp1" {
		t.Fatalf("expected rear port reference keyed by request field, got %v", request.References)
	}

	if !strings.Contains(output, "created front-port-template \"fp1\" on device-type \"PDU-2000\" (id 7)") {
		t.Fatalf("expected created line, got %q", output)
	}
}

func TestAddRejectsFlagsOutsideKind(t *testing.T) {
	t.Parallel()

	engineService := &testEngine{}
	_, err := executeTemplateCommand(t, depsWith(engineService, nil), &common.GlobalFlags{},
		"add", "interface-template", "eth0",
		"--device-type", "C9300-48P",
		"--type", "1000base-t",
		"--positions", "4",
	)
	assertTypedCategory(t, err, faults.ValidationError)
	if !strings.Contains(err.Error(), "--positions") {
		t.Fatalf("expected rejected flag in message, got %v", err)
	}
	if len(engineService.executed) != 0 {
		t.Fatal("expected engine execution to be skipped on flag validation failure")
	}
}

func TestAddRequiresDeviceType(t *testing.T) {
	t.Parallel()

	engineService := &testEngine{}
	_, err := executeTemplateCommand(t, depsWith(engineService, nil), &common.GlobalFlags{},
		"add", "interface-template", "eth0", "--type", "1000base-t",
	)
	assertTypedCategory(t, err, faults.ValidationError)
	if len(engineService.executed) != 0 {
		t.Fatal("expected engine execution to be skipped without a device type")
	}
}

func TestAddRejectsNonCreatableKind(t *testing.T) {
	t.Parallel()

	t.Run("unknown_kind", func(t *testing.T) {
		t.Parallel()

		_, err := executeTemplateCommand(t, depsWith(&testEngine{}, nil), &common.GlobalFlags{},
			"add", "no-such-kind", "x", "--device-type", "C9300-48P",
		)
		assertTypedCategory(t, err, faults.ValidationError)
	})

	t.Run("parent_kind", func(t *testing.T) {
		t.Parallel()

		_, err := executeTemplateCommand(t, depsWith(&testEngine{}, nil), &common.GlobalFlags{},
			"add", "device-type", "x", "--device-type", "C9300-48P",
		)
		assertTypedCategory(t, err, faults.ValidationError)
	})
}

func TestAddSurfacesCacheWarningOnStderr(t *testing.T) {
	t.Parallel()

	engineService := &testEngine{
		outcome: engine.Outcome{
			Status:       engine.StatusCreated,
			Kind:         netbox.KindInterfaceTemplate,
			DeviceType:   "C9300-48P",
			Name:         "eth0",
			Created:      &netbox.Object{ID: 3},
			CacheWarning: "cache invalidation failed: store unavailable",
		},
	}

	command := NewCommand(depsWith(engineService, nil), &common.GlobalFlags{})
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(""))
	command.SetArgs([]string{
		"add", "interface-template", "eth0",
		"--device-type", "C9300-48P", "--type", "1000base-t", "--confirm",
	})

	if err := command.Execute(); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if !strings.Contains(stderr.String(), "warning: cache invalidation failed") {
		t.Fatalf("expected cache warning on stderr, got %q", stderr.String())
	}
	if strings.Contains(stdout.String(), "warning:") {
		t.Fatalf("expected stdout free of warnings, got %q", stdout.String())
	}
}

func TestListLocatesParentThenFiltersChildren(t *testing.T) {
	t.Parallel()

	client := &testClient{
		objects: map[netbox.Kind][]netbox.Object{
			netbox.KindDeviceType: {
				{ID: 42, Display: "C9300-48P", Attrs: map[string]any{"model": "C9300-48P"}},
			},
			netbox.KindInterfaceTemplate: {
				{ID: 1, Attrs: map[string]any{"name": "eth0"}},
				{ID: 2, Attrs: map[string]any{"name": "eth1"}},
			},
		},
	}

	output, err := executeTemplateCommand(t, depsWith(nil, client), &common.GlobalFlags{},
		"list", "interface-template", "--device-type", "C9300-48P",
	)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}

	if len(client.filters) != 2 {
		t.Fatalf("expected two filter calls, got %d", len(client.filters))
	}
	parentCall := client.filters[0]
	if parentCall.kind != netbox.KindDeviceType {
		t.Fatalf("expected parent locate first, got %q", parentCall.kind)
	}
	if got := parentCall.query.Params["model"]; got != "C9300-48P" {
		t.Fatalf("expected model query param, got %v", parentCall.query.Params)
	}
	childCall := client.filters[1]
	if childCall.kind != netbox.KindInterfaceTemplate {
		t.Fatalf("expected child filter second, got %q", childCall.kind)
	}
	if got := childCall.query.Params["devicetype_id"]; got != "42" {
		t.Fatalf("expected parent id query param, got %v", childCall.query.Params)
	}
	if childCall.query.Fresh {
		t.Fatal("expected cached read without --fresh")
	}

	if !strings.Contains(output, "eth0 (id 1)") || !strings.Contains(output, "eth1 (id 2)") {
		t.Fatalf("expected template lines, got %q", output)
	}
}

func TestListFreshForcesChildReadPastCache(t *testing.T) {
	t.Parallel()

	client := &testClient{
		objects: map[netbox.Kind][]netbox.Object{
			netbox.KindDeviceType:        {{ID: 42, Attrs: map[string]any{"model": "C9300-48P"}}},
			netbox.KindInterfaceTemplate: {},
		},
	}

	_, err := executeTemplateCommand(t, depsWith(nil, client), &common.GlobalFlags{},
		"list", "interface-template", "--device-type", "C9300-48P", "--fresh",
	)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}

	if len(client.filters) != 2 {
		t.Fatalf("expected two filter calls, got %d", len(client.filters))
	}
	if client.filters[0].query.Fresh {
		t.Fatal("expected parent locate to stay cacheable")
	}
	if !client.filters[1].query.Fresh {
		t.Fatal("expected child read to bypass the cache with --fresh")
	}
}

func TestListReportsMissingDeviceType(t *testing.T) {
	t.Parallel()

	client := &testClient{objects: map[netbox.Kind][]netbox.Object{}}
	_, err := executeTemplateCommand(t, depsWith(nil, client), &common.GlobalFlags{},
		"list", "interface-template", "--device-type", "missing",
	)
	assertTypedCategory(t, err, faults.NotFoundError)
}

func TestListAppliesJQProjection(t *testing.T) {
	t.Parallel()

	client := &testClient{
		objects: map[netbox.Kind][]netbox.Object{
			netbox.KindDeviceType: {{ID: 42, Attrs: map[string]any{"model": "C9300-48P"}}},
			netbox.KindInterfaceTemplate: {
				{ID: 1, Attrs: map[string]any{"name": "eth0", "type": map[string]any{"value": "1000base-t"}}},
				{ID: 2, Attrs: map[string]any{"name": "eth1", "type": map[string]any{"value": "1000base-t"}}},
			},
		},
	}

	output, err := executeTemplateCommand(t, depsWith(nil, client), &common.GlobalFlags{},
		"list", "interface-template", "--device-type", "C9300-48P",
		"--jq", ".[] | .name",
	)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if output != "eth0\neth1\n" {
		t.Fatalf("expected projected names, got %q", output)
	}
}

func TestListRejectsInvalidJQExpression(t *testing.T) {
	t.Parallel()

	client := &testClient{
		objects: map[netbox.Kind][]netbox.Object{
			netbox.KindDeviceType:        {{ID: 42, Attrs: map[string]any{"model": "C9300-48P"}}},
			netbox.KindInterfaceTemplate: {},
		},
	}

	_, err := executeTemplateCommand(t, depsWith(nil, client), &common.GlobalFlags{},
		"list", "interface-template", "--device-type", "C9300-48P",
		"--jq", ".[ broken",
	)
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestKindsListsCreatableKindsWithFlagSurface(t *testing.T) {
	t.Parallel()

	output, err := executeTemplateCommand(t, depsWith(nil, nil), &common.GlobalFlags{}, "kinds")
	if err != nil {
		t.Fatalf("kinds returned error: %v", err)
	}

	if !strings.Contains(output, "interface-template: --type --mgmt-only --description") {
		t.Fatalf("expected interface-template flag surface, got %q", output)
	}
	if !strings.Contains(output, "front-port-template:") || !strings.Contains(output, "--rear-port") {
		t.Fatalf("expected front-port-template reference flag, got %q", output)
	}
	if strings.Contains(output, "device-type:") {
		t.Fatalf("expected parent kind to stay out of the listing, got %q", output)
	}
}

func depsWith(engineService engine.Engine, client netbox.Client) common.CommandDependencies {
	return common.CommandDependencies{
		Engine:  engineService,
		Client:  client,
		Schemas: schema.NewRegistry(),
	}
}

func executeTemplateCommand(
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

type testEngine struct {
	planned  []engine.Request
	executed []engine.Request
	outcome  engine.Outcome
	err      error
}

func (e *testEngine) Plan(_ context.Context, req engine.Request) (engine.Outcome, error) {
	e.planned = append(e.planned, req)
	return e.outcome, e.err
}

func (e *testEngine) Execute(_ context.Context, req engine.Request) (engine.Outcome, error) {
	e.executed = append(e.executed, req)
	return e.outcome, e.err
}

type filterCall struct {
	kind  netbox.Kind
	query netbox.Query
}

type testClient struct {
	objects map[netbox.Kind][]netbox.Object
	filters []filterCall
	err     error
}

func (c *testClient) Filter(_ context.Context, kind netbox.Kind, query netbox.Query) ([]netbox.Object, error) {
	c.filters = append(c.filters, filterCall{kind: kind, query: query})
	if c.err != nil {
		return nil, c.err
	}
	return c.objects[kind], nil
}

func (c *testClient) Create(context.Context, netbox.Kind, map[string]any) (netbox.Object, error) {
	return netbox.Object{}, errors.New("unexpected create call")
}

func (c *testClient) Invalidate(context.Context, ...netbox.Object) error {
	return nil
}

func (c *testClient) Status(context.Context) (netbox.InstanceStatus, error) {
	return netbox.InstanceStatus{}, nil
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
