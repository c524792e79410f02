package library

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/telemetry"
)

const defaultConcurrency = 4

// Applier provisions the component templates of library definitions through
// the mutation engine, one pipeline run per component. Engine is required;
// the rest may stay zero.
type Applier struct {
	Engine engine.MutationExecutor
	Log    *telemetry.Logger

	// Concurrency bounds the pipeline runs in flight per component group.
	// Groups themselves run in order so name references resolve against
	// records created earlier in the same apply.
	Concurrency int

	// SkipExisting turns conflicts with records already present into skips
	// instead of failures.
	SkipExisting bool
}

// Result is the outcome of one component's pipeline run.
type Result struct {
	Definition string
	Kind       netbox.Kind
	Name       string
	Outcome    engine.Outcome
	Skipped    bool
	Err        error
}

// Report aggregates an apply across definitions.
type Report struct {
	Definitions int
	Created     int
	Planned     int
	Skipped     int
	Failed      int
	Results     []Result
}

// Failures returns the failed results, in report order.
func (r Report) Failures() []Result {
	var failed []Result
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

func (a *Applier) requireEngine() (engine.MutationExecutor, error) {
	if a == nil || a.Engine == nil {
		return nil, faults.Validation("mutation engine is not configured", nil)
	}
	return a.Engine, nil
}

func (a *Applier) logger() *telemetry.Logger {
	if a == nil || a.Log == nil {
		return telemetry.Nop()
	}
	return a.Log
}

func (a *Applier) concurrency() int {
	if a == nil || a.Concurrency <= 0 {
		return defaultConcurrency
	}
	return a.Concurrency
}

// Apply runs every component of every definition through the engine.
// Confirmed is carried onto each request; an unconfirmed apply previews the
// whole batch without writing. Per-component failures are collected, not
// fatal; the error return is reserved for the applier itself being unusable
// or the context ending.
func (a *Applier) Apply(ctx context.Context, definitions []Definition, confirmed bool) (Report, error) {
	executor, err := a.requireEngine()
	if err != nil {
		return Report{}, err
	}

	report := Report{Definitions: len(definitions)}
	for _, def := range definitions {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		results, err := a.applyDefinition(ctx, executor, def, confirmed)
		report.Results = append(report.Results, results...)
		if err != nil {
			return report, err
		}
	}

	for _, result := range report.Results {
		switch {
		case result.Err != nil:
			report.Failed++
		case result.Skipped:
			report.Skipped++
		case result.Outcome.Status == engine.StatusCreated:
			report.Created++
		default:
			report.Planned++
		}
	}
	return report, nil
}

// applyDefinition walks the definition's component groups in provisioning
// order, bounding concurrency within each group. A group finishes before the
// next starts so front ports and power outlets see their referenced siblings
// already written.
func (a *Applier) applyDefinition(ctx context.Context, executor engine.MutationExecutor, def Definition, confirmed bool) ([]Result, error) {
	log := a.logger().WithDeviceType(def.Model)
	log.Infof("applying %s (%d components)", def.Key(), def.ComponentCount())

	var mu sync.Mutex
	var results []Result

	for _, group := range def.componentGroups() {
		if len(group.components) == 0 {
			continue
		}

		grp, groupCtx := errgroup.WithContext(ctx)
		grp.SetLimit(a.concurrency())

		for _, component := range group.components {
			request := component.request(group.kind, def.Model, confirmed)
			grp.Go(func() error {
				result := a.runOne(groupCtx, executor, def, request)
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
				return nil
			})
		}

		if err := grp.Wait(); err != nil {
			return results, err
		}
	}

	sortResults(results)
	return results, nil
}

func (a *Applier) runOne(ctx context.Context, executor engine.MutationExecutor, def Definition, request engine.Request) Result {
	result := Result{
		Definition: def.Key(),
		Kind:       request.Kind,
		Name:       request.Name,
	}

	outcome, err := executor.Execute(ctx, request)
	if err != nil {
		if a != nil && a.SkipExisting && faults.IsCategory(err, faults.ConflictError) {
			a.logger().WithKind(string(request.Kind)).WithName(request.Name).
				Debugf("already exists, skipping")
			result.Skipped = true
			return result
		}
		result.Err = err
		return result
	}

	result.Outcome = outcome
	return result
}

// sortResults orders results for stable reporting: by definition, then kind,
// then name. Concurrent completion order is not meaningful to readers.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Definition != results[j].Definition {
			return results[i].Definition < results[j].Definition
		}
		if results[i].Kind != results[j].Kind {
			return results[i].Kind < results[j].Kind
		}
		return results[i].Name < results[j].Name
	})
}

// Summary renders the report counts on one line.
func (r Report) Summary() string {
	return fmt.Sprintf("%d definitions: %d created, %d planned, %d skipped, %d failed",
		r.Definitions, r.Created, r.Planned, r.Skipped, r.Failed)
}
