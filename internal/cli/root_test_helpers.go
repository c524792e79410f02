package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	clitestkit "github.com/netforge-io/netforge/internal/cli/testkit"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/spf13/cobra"
)

func executeForTest(deps Dependencies, stdin string, args ...string) (string, error) {
	return clitestkit.ExecuteCommandForTest(NewRootCommand(deps), stdin, args...)
}

func executeForTestWithStreams(deps Dependencies, stdin string, args ...string) (string, string, error) {
	return clitestkit.ExecuteCommandForTestWithStreams(NewRootCommand(deps), stdin, args...)
}

func registeredPaths(command *cobra.Command, prefix []string) [][]string {
	return clitestkit.RegisteredPaths(command, prefix)
}

func joinPath(path []string) string {
	return clitestkit.JoinPath(path)
}

func commandByPath(root *cobra.Command, path ...string) *cobra.Command {
	command := root
	for _, name := range path {
		found := false
		for _, child := range command.Commands() {
			if child.Name() != name {
				continue
			}
			command = child
			found = true
			break
		}
		if !found {
			return nil
		}
	}
	return command
}

func extractHelpSection(output string, heading string) string {
	lines := strings.Split(output, "\n")
	start := -1
	for index, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = index + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	section := make([]string, 0)
	for index := start; index < len(lines); index++ {
		line := lines[index]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(section) > 0 {
				break
			}
			continue
		}

		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") && strings.HasSuffix(trimmed, ":") {
			break
		}

		section = append(section, line)
	}

	return strings.Join(section, "\n")
}

func trailingBlankLineCount(value string) int {
	lines := strings.Split(value, "\n")
	emptySuffix := 0
	for index := len(lines) - 1; index >= 0; index-- {
		if lines[index] != "" {
			break
		}
		emptySuffix++
	}
	if emptySuffix == 0 {
		return 0
	}
	// Account for the expected terminal newline in help output.
	if emptySuffix == 1 {
		return 0
	}
	return emptySuffix - 1
}

func testDeps() Dependencies {
	return testDepsWith(&testEngine{}, newTestClient())
}

func testDepsWith(engineService *testEngine, client *testClient) Dependencies {
	return Dependencies{
		Contexts: &testContextService{},
		Engine:   engineService,
		Client:   client,
		Schemas:  schema.NewRegistry(),
		Tokens:   newTestTokenStore(),
	}
}

type testContextService struct{}

func (s *testContextService) Create(context.Context, config.Context) error { return nil }
func (s *testContextService) Update(context.Context, config.Context) error { return nil }
func (s *testContextService) Delete(context.Context, string) error         { return nil }
func (s *testContextService) Rename(context.Context, string, string) error { return nil }
func (s *testContextService) List(context.Context) ([]config.Context, error) {
	return []config.Context{{Name: "dev"}, {Name: "prod"}}, nil
}
func (s *testContextService) SetCurrent(context.Context, string) error { return nil }
func (s *testContextService) GetCurrent(context.Context) (config.Context, error) {
	return config.Context{Name: "dev"}, nil
}
func (s *testContextService) ResolveContext(_ context.Context, selection config.ContextSelection) (config.Context, error) {
	name := strings.TrimSpace(selection.Name)
	if name == "" {
		name = "dev"
	}
	return config.Context{
		Name: name,
		NetBox: &config.NetBox{
			BaseURL: fmt.Sprintf("https://netbox.%s.example.invalid", name),
			Auth:    &config.NetBoxAuth{Token: "test-token"},
		},
	}, nil
}
func (s *testContextService) Validate(context.Context, config.Context) error { return nil }

type testEngine struct {
	planned  []engine.Request
	executed []engine.Request
	outcome  engine.Outcome
	err      error
}

func (e *testEngine) Plan(_ context.Context, req engine.Request) (engine.Outcome, error) {
	e.planned = append(e.planned, req)
	if e.err != nil {
		return engine.Outcome{}, e.err
	}
	return e.outcomeFor(req), nil
}

func (e *testEngine) Execute(_ context.Context, req engine.Request) (engine.Outcome, error) {
	e.executed = append(e.executed, req)
	if e.err != nil {
		return engine.Outcome{}, e.err
	}
	return e.outcomeFor(req), nil
}

// outcomeFor answers with the configured outcome, or derives one from the
// request so root-level flows render plausible output without per-test setup.
func (e *testEngine) outcomeFor(req engine.Request) engine.Outcome {
	if e.outcome.Status != "" {
		return e.outcome
	}

	outcome := engine.Outcome{
		Kind:       req.Kind,
		DeviceType: req.DeviceType,
		Name:       req.Name,
	}
	if !req.Confirmed {
		outcome.Status = engine.StatusDryRun
		preview := map[string]any{"name": req.Name}
		for field, value := range req.Attributes {
			preview[field] = value
		}
		for field, value := range req.References {
			preview[field] = value
		}
		outcome.Preview = preview
		return outcome
	}

	outcome.Status = engine.StatusCreated
	outcome.Created = &netbox.Object{
		ID:      101,
		Display: req.Name,
		Attrs:   map[string]any{"name": req.Name},
	}
	return outcome
}

type filterCall struct {
	kind  netbox.Kind
	query netbox.Query
}

type testClient struct {
	objects   map[netbox.Kind][]netbox.Object
	filters   []filterCall
	filterErr error
	status    netbox.InstanceStatus
	statusErr error
}

func newTestClient() *testClient {
	return &testClient{
		objects: map[netbox.Kind][]netbox.Object{
			netbox.KindDeviceType: {
				{ID: 1, Display: "C9300-48P", Attrs: map[string]any{"model": "C9300-48P"}},
			},
			netbox.KindInterfaceTemplate: {
				{ID: 11, Display: "eth0", Attrs: map[string]any{"name": "eth0", "type": "1000base-t"}},
			},
		},
		status: netbox.InstanceStatus{
			Version:       "4.1.3",
			PythonVersion: "3.12.4",
			Plugins:       map[string]string{"netbox_topology_views": "4.0.1"},
			ResponseTime:  120 * time.Millisecond,
		},
	}
}

func (c *testClient) Filter(_ context.Context, kind netbox.Kind, query netbox.Query) ([]netbox.Object, error) {
	c.filters = append(c.filters, filterCall{kind: kind, query: query})
	if c.filterErr != nil {
		return nil, c.filterErr
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
	if c.statusErr != nil {
		return netbox.InstanceStatus{}, c.statusErr
	}
	return c.status, nil
}

type testTokenStore struct {
	values map[string]string
}

func newTestTokenStore() *testTokenStore {
	return &testTokenStore{values: map[string]string{}}
}

func (s *testTokenStore) Init(context.Context) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	return nil
}

func (s *testTokenStore) Store(_ context.Context, name string, value string) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[name] = value
	return nil
}

func (s *testTokenStore) Get(_ context.Context, name string) (string, error) {
	value, found := s.values[name]
	if !found {
		return "", faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("token %q not found", name), nil)
	}
	return value, nil
}

func (s *testTokenStore) Delete(_ context.Context, name string) error {
	delete(s.values, name)
	return nil
}

func (s *testTokenStore) List(context.Context) ([]string, error) {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
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
