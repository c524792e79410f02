package library

import (
	"context"
	"sync"
	"testing"

	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
)

// fakeExecutor records the order requests arrive in and answers them from a
// scripted error table keyed by kind/name.
type fakeExecutor struct {
	mu       sync.Mutex
	sequence []string
	failures map[string]error
}

func (f *fakeExecutor) Execute(_ context.Context, req engine.Request) (engine.Outcome, error) {
	key := string(req.Kind) + "/" + req.Name

	f.mu.Lock()
	f.sequence = append(f.sequence, key)
	f.mu.Unlock()

	if err, ok := f.failures[key]; ok {
		return engine.Outcome{}, err
	}

	outcome := engine.Outcome{
		Kind:       req.Kind,
		DeviceType: req.DeviceType,
		Name:       req.Name,
	}
	if req.Confirmed {
		outcome.Status = engine.StatusCreated
		outcome.Created = &netbox.Object{ID: 1, Display: req.Name}
	} else {
		outcome.Status = engine.StatusDryRun
		outcome.Preview = map[string]any{"name": req.Name}
	}
	return outcome, nil
}

func (f *fakeExecutor) indexOf(t *testing.T, key string) int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, seen := range f.sequence {
		if seen == key {
			return i
		}
	}
	t.Fatalf("request %q never reached the engine", key)
	return -1
}

func TestApplyConfirmedCreatesEverything(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{}
	applier := &Applier{Engine: executor}

	report, err := applier.Apply(context.Background(), []Definition{sampleDefinition()}, true)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if report.Definitions != 1 {
		t.Fatalf("expected 1 definition, got %d", report.Definitions)
	}
	if report.Created != 8 || report.Failed != 0 || report.Skipped != 0 || report.Planned != 0 {
		t.Fatalf("unexpected counts: %s", report.Summary())
	}
	if len(report.Results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(report.Results))
	}
}

func TestApplyUnconfirmedPlansEverything(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{}
	applier := &Applier{Engine: executor}

	report, err := applier.Apply(context.Background(), []Definition{sampleDefinition()}, false)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if report.Planned != 8 || report.Created != 0 {
		t.Fatalf("expected a full preview batch, got %s", report.Summary())
	}
	for _, result := range report.Results {
		if result.Outcome.Status != engine.StatusDryRun {
			t.Fatalf("expected dry-run outcome for %s %q, got %q", result.Kind, result.Name, result.Outcome.Status)
		}
	}
}

func TestApplyHonorsGroupOrdering(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{}
	applier := &Applier{Engine: executor, Concurrency: 8}

	if _, err := applier.Apply(context.Background(), []Definition{sampleDefinition()}, true); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if executor.indexOf(t, "rear-port-template/R1") > executor.indexOf(t, "front-port-template/F1") {
		t.Fatal("rear port must be written before the front port referencing it")
	}
	if executor.indexOf(t, "power-port-template/PS1") > executor.indexOf(t, "power-outlet-template/Outlet1") {
		t.Fatal("power port must be written before the power outlet referencing it")
	}
}

func TestApplySkipExistingMapsConflictsToSkips(t *testing.T) {
	t.Parallel()

	conflict := faults.Conflict(`interface-template "GigabitEthernet1/0/1" already exists`, nil)
	executor := &fakeExecutor{failures: map[string]error{
		"interface-template/GigabitEthernet1/0/1": conflict,
	}}
	applier := &Applier{Engine: executor, SkipExisting: true}

	report, err := applier.Apply(context.Background(), []Definition{sampleDefinition()}, true)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if report.Skipped != 1 {
		t.Fatalf("expected 1 skip, got %s", report.Summary())
	}
	if report.Failed != 0 {
		t.Fatalf("expected conflicts not to count as failures, got %s", report.Summary())
	}
	if report.Created != 7 {
		t.Fatalf("expected the rest created, got %s", report.Summary())
	}
}

func TestApplyCollectsFailuresWithoutAborting(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{failures: map[string]error{
		"interface-template/mgmt0":   faults.Transport("netbox unreachable", nil),
		"console-port-template/con0": faults.Conflict("already exists", nil),
	}}
	applier := &Applier{Engine: executor}

	report, err := applier.Apply(context.Background(), []Definition{sampleDefinition()}, true)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if report.Failed != 2 {
		t.Fatalf("expected 2 failures, got %s", report.Summary())
	}
	if report.Created != 6 {
		t.Fatalf("expected remaining components created, got %s", report.Summary())
	}

	failures := report.Failures()
	if len(failures) != 2 {
		t.Fatalf("expected 2 failure entries, got %d", len(failures))
	}
	for _, failure := range failures {
		if failure.Err == nil {
			t.Fatal("failure entry without error")
		}
	}
}

func TestApplyWithoutEngineIsRejected(t *testing.T) {
	t.Parallel()

	applier := &Applier{}
	_, err := applier.Apply(context.Background(), nil, true)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestApplyStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	applier := &Applier{Engine: &fakeExecutor{}}
	_, err := applier.Apply(ctx, []Definition{sampleDefinition()}, true)
	if err == nil {
		t.Fatal("expected context error")
	}
}
