package engine

import (
	"github.com/netforge-io/netforge/schema"
	"github.com/netforge-io/netforge/telemetry"
)

// plan answers an unconfirmed request. The preview is assembled entirely
// from the definition; the client is never touched, so neither the parent
// nor any reference is resolved.
func (e *DefaultEngine) plan(def schema.Definition, req Request, requestID string) Outcome {
	timer := telemetry.NewTimer()
	preview := def.Preview(req.DeviceType, req.Name, req.Attributes, req.References)

	e.logger().
		WithRequestID(requestID).
		WithKind(string(req.Kind)).
		WithDeviceType(req.DeviceType).
		WithName(req.Name).
		Info("dry run; no changes applied")

	duration := timer.Duration()
	e.Metrics.RecordStage(string(stageGate), duration)
	e.Metrics.RecordMutation(string(req.Kind), string(StatusDryRun), duration)

	return Outcome{
		Status:     StatusDryRun,
		Kind:       req.Kind,
		DeviceType: req.DeviceType,
		Name:       req.Name,
		Preview:    preview,
		Duration:   duration,
	}
}
