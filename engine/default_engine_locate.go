package engine

import (
	"context"
	"fmt"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
)

// locateParent resolves the device type the record will be attached to.
// The read may come from cache; a duplicate model resolves to the first
// match the server returned.
func (e *DefaultEngine) locateParent(ctx context.Context, client netbox.Client, def schema.Definition, req Request) (netbox.Object, error) {
	parentDef, err := e.Schemas.Lookup(def.ParentKind)
	if err != nil {
		return netbox.Object{}, err
	}

	query := netbox.Query{Params: map[string]string{parentDef.NaturalKey: req.DeviceType}}
	matches, err := client.Filter(ctx, parentDef.Kind, query)
	if err != nil {
		return netbox.Object{}, err
	}

	if len(matches) == 0 {
		return netbox.Object{}, faults.NotFound(
			fmt.Sprintf("%s %q not found", parentDef.Kind, req.DeviceType), nil).
			WithDetail("kind", string(parentDef.Kind)).
			WithDetail("key", req.DeviceType)
	}
	if len(matches) > 1 {
		e.logger().WithDeviceType(req.DeviceType).
			Debugf("%d device types matched; using id %d", len(matches), matches[0].ID)
	}

	return matches[0], nil
}
