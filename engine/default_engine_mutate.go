package engine

import (
	"context"

	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
)

// createRecord assembles the payload and submits it. Required-field
// validation lives in the payload assembly, so it runs after every lookup
// has succeeded and right before the write. A duplicate that appeared since
// the conflict check comes back from the server as a conflict.
func (e *DefaultEngine) createRecord(
	ctx context.Context,
	client netbox.Client,
	def schema.Definition,
	req Request,
	parent netbox.Object,
	refs map[string]int64,
) (netbox.Object, error) {
	payload, err := def.Payload(parent.ID, req.Name, req.Attributes, refs)
	if err != nil {
		return netbox.Object{}, err
	}
	return client.Create(ctx, def.Kind, payload)
}
