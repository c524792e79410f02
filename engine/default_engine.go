package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/telemetry"
)

var _ Engine = (*DefaultEngine)(nil)

// DefaultEngine drives the mutation pipeline against an injected client.
// Client and Schemas are required; the telemetry fields may stay nil.
type DefaultEngine struct {
	Client  netbox.Client
	Schemas *schema.Registry
	Log     *telemetry.Logger
	Metrics *telemetry.Metrics
	Tracer  *telemetry.Tracer

	dryRun bool
}

// SetDryRun forces every request through the gate regardless of its
// Confirmed flag. Used by the global dry-run switch.
func (e *DefaultEngine) SetDryRun(enabled bool) {
	if e == nil {
		return
	}
	e.dryRun = enabled
}

func (e *DefaultEngine) requireClient() (netbox.Client, error) {
	if e == nil || e.Client == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "netbox client is not configured", nil)
	}
	return e.Client, nil
}

func (e *DefaultEngine) requireSchemas() (*schema.Registry, error) {
	if e == nil || e.Schemas == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "schema registry is not configured", nil)
	}
	return e.Schemas, nil
}

func (e *DefaultEngine) logger() *telemetry.Logger {
	if e == nil || e.Log == nil {
		return telemetry.Nop()
	}
	return e.Log
}

// prepare normalizes the request and binds it to its definition. Everything
// the pipeline cannot run without is rejected here.
func (e *DefaultEngine) prepare(req Request) (Request, schema.Definition, error) {
	schemas, err := e.requireSchemas()
	if err != nil {
		return req, schema.Definition{}, err
	}

	req = req.normalized()
	if req.Kind == "" {
		return req, schema.Definition{}, faults.Validation("kind is required", nil)
	}

	def, err := schemas.Lookup(req.Kind)
	if err != nil {
		return req, schema.Definition{}, err
	}
	if !def.Creatable() {
		return req, schema.Definition{}, faults.Validation(fmt.Sprintf("%s records cannot be created", req.Kind), nil)
	}

	if req.DeviceType == "" {
		return req, schema.Definition{}, faults.Validation("device type is required", nil)
	}
	if req.Name == "" {
		return req, schema.Definition{}, faults.Validation("name is required", nil)
	}

	return req, def, nil
}

// step runs one pipeline stage with its span, latency metric and stage
// detail on failure.
func (e *DefaultEngine) step(ctx context.Context, name stage, fn func(context.Context) error) error {
	ctx, span := e.Tracer.StartStageSpan(ctx, string(name))
	defer span.End()

	timer := telemetry.NewTimer()
	err := fn(ctx)
	e.Metrics.RecordStage(string(name), timer.Duration())

	if err != nil {
		telemetry.RecordError(span, err)
		return markStage(err, name)
	}
	telemetry.RecordSuccess(span)
	return nil
}

func markStage(err error, name stage) error {
	var typed *faults.TypedError
	if errors.As(err, &typed) && typed.Detail("stage") == nil {
		typed.WithDetail("stage", string(name))
	}
	return err
}
