package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
)

// resolveReferences looks up every referenced sibling component under the
// same device type and returns its ID keyed by request field. A reference
// to a record that does not exist fails the run before the conflict check
// is ever reached.
func (e *DefaultEngine) resolveReferences(
	ctx context.Context,
	client netbox.Client,
	def schema.Definition,
	req Request,
	parent netbox.Object,
) (map[string]int64, error) {
	if len(def.References) == 0 {
		return nil, nil
	}

	resolved := make(map[string]int64, len(def.References))
	for _, ref := range def.References {
		name := strings.TrimSpace(req.References[ref.Field])
		if name == "" {
			if ref.Required {
				return nil, faults.Validation(fmt.Sprintf("%s is required for %s", ref.Field, def.Kind), nil)
			}
			continue
		}

		refDef, err := e.Schemas.Lookup(ref.Kind)
		if err != nil {
			return nil, err
		}

		query := netbox.Query{Params: map[string]string{
			refDef.ParentQuery: strconv.FormatInt(parent.ID, 10),
			refDef.NaturalKey:  name,
		}}
		matches, err := client.Filter(ctx, ref.Kind, query)
		if err != nil {
			return nil, err
		}

		if len(matches) == 0 {
			return nil, faults.NotFound(
				fmt.Sprintf("%s %q not found on device type %q", ref.Kind, name, req.DeviceType), nil).
				WithDetail("kind", string(ref.Kind)).
				WithDetail("key", name)
		}
		if len(matches) > 1 {
			e.logger().WithKind(string(ref.Kind)).WithName(name).
				Debugf("%d records matched; using id %d", len(matches), matches[0].ID)
		}

		resolved[ref.Field] = matches[0].ID
	}

	return resolved, nil
}
