package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
)

// ensureAbsent checks the live server for a record with the same name under
// the same device type. The read always bypasses the cache; when it cannot
// be completed the run fails, because the write would be unverified.
func (e *DefaultEngine) ensureAbsent(
	ctx context.Context,
	client netbox.Client,
	def schema.Definition,
	req Request,
	parent netbox.Object,
) error {
	query := netbox.Query{
		Params: map[string]string{
			def.ParentQuery: strconv.FormatInt(parent.ID, 10),
			def.NaturalKey:  req.Name,
		},
		Fresh: true,
	}

	matches, err := client.Filter(ctx, def.Kind, query)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	existing := matches[0]
	e.Metrics.RecordConflict(string(def.Kind))
	return faults.Conflict(
		fmt.Sprintf("%s %q already exists on device type %q (id %d)", def.Kind, req.Name, req.DeviceType, existing.ID), nil).
		WithDetail("existing_id", existing.ID).
		WithDetail("existing_name", existing.Name())
}
