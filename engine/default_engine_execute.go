package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/telemetry"
)

func (e *DefaultEngine) Plan(_ context.Context, req Request) (Outcome, error) {
	req, def, err := e.prepare(req)
	if err != nil {
		return Outcome{}, err
	}
	return e.plan(def, req, uuid.NewString()), nil
}

func (e *DefaultEngine) Execute(ctx context.Context, req Request) (Outcome, error) {
	req, def, err := e.prepare(req)
	if err != nil {
		return Outcome{}, err
	}

	requestID := uuid.NewString()
	if !req.Confirmed || (e != nil && e.dryRun) {
		return e.plan(def, req, requestID), nil
	}

	client, err := e.requireClient()
	if err != nil {
		return Outcome{}, err
	}

	ctx, span := e.Tracer.StartMutationSpan(ctx, string(req.Kind), req.DeviceType, req.Name)
	span.SetAttributes(telemetry.AttrRequestID.String(requestID))
	defer span.End()

	timer := telemetry.NewTimer()
	outcome, err := e.run(ctx, client, def, req, requestID)
	duration := timer.Duration()

	if err != nil {
		telemetry.RecordError(span, err)
		e.Metrics.RecordMutation(string(req.Kind), failureLabel(err), duration)
		return Outcome{}, err
	}

	telemetry.RecordSuccess(span)
	e.Metrics.RecordMutation(string(req.Kind), string(StatusCreated), duration)
	outcome.Duration = duration
	return outcome, nil
}

// run walks the confirmed pipeline in order. Each stage only sees state
// produced by the stages before it; the first failure ends the run with the
// write never attempted.
func (e *DefaultEngine) run(ctx context.Context, client netbox.Client, def schema.Definition, req Request, requestID string) (Outcome, error) {
	log := e.logger().WithRequestID(requestID).
		WithKind(string(req.Kind)).WithDeviceType(req.DeviceType).WithName(req.Name)

	var parent netbox.Object
	if err := e.step(ctx, stageLocate, func(ctx context.Context) error {
		var stepErr error
		parent, stepErr = e.locateParent(ctx, client, def, req)
		return stepErr
	}); err != nil {
		return Outcome{}, err
	}
	log.Debugf("device type resolved to id %d", parent.ID)

	var refs map[string]int64
	if err := e.step(ctx, stageReferences, func(ctx context.Context) error {
		var stepErr error
		refs, stepErr = e.resolveReferences(ctx, client, def, req, parent)
		return stepErr
	}); err != nil {
		return Outcome{}, err
	}

	if err := e.step(ctx, stageConflict, func(ctx context.Context) error {
		return e.ensureAbsent(ctx, client, def, req, parent)
	}); err != nil {
		return Outcome{}, err
	}

	var created netbox.Object
	if err := e.step(ctx, stageWrite, func(ctx context.Context) error {
		var stepErr error
		created, stepErr = e.createRecord(ctx, client, def, req, parent, refs)
		return stepErr
	}); err != nil {
		return Outcome{}, err
	}
	log.Infof("created %s %q with id %d", req.Kind, req.Name, created.ID)

	warning := e.invalidateScope(ctx, client, parent, log)

	return Outcome{
		Status:       StatusCreated,
		Kind:         req.Kind,
		DeviceType:   req.DeviceType,
		Name:         req.Name,
		Created:      &created,
		CacheWarning: warning,
	}, nil
}

func failureLabel(err error) string {
	switch faults.CategoryOf(err) {
	case faults.ValidationError:
		return "validation"
	case faults.NotFoundError:
		return "not-found"
	case faults.ConflictError:
		return "conflict"
	case faults.AuthError:
		return "auth"
	case faults.TransportError:
		return "transport"
	default:
		return "internal"
	}
}
