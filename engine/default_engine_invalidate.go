package engine

import (
	"context"

	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/telemetry"
)

// invalidateScope drops cached reads for the parent after a successful
// write. A failure here never fails the operation; the record exists on the
// server, so the caller gets a warning instead of an error.
func (e *DefaultEngine) invalidateScope(
	ctx context.Context,
	client netbox.Client,
	parent netbox.Object,
	log *telemetry.Logger,
) string {
	timer := telemetry.NewTimer()
	err := client.Invalidate(ctx, parent)
	e.Metrics.RecordStage(string(stageInvalidate), timer.Duration())

	if err == nil {
		return ""
	}

	e.Metrics.RecordCacheInvalidationFailure()
	log.WithErr(err).Warn("cache invalidation failed; cached reads for this device type may be stale")
	return "cache invalidation failed: " + err.Error()
}
