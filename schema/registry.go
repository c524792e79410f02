package schema

import (
	"fmt"
	"sort"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
)

// Registry holds the definitions the engine and the API provider share.
// The built-in set covers the device-type component templates; Register
// exists so embedding programs can add kinds without forking the engine.
type Registry struct {
	defs map[netbox.Kind]Definition
}

// NewRegistry returns a registry preloaded with the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[netbox.Kind]Definition, len(builtin))}
	for _, def := range builtin {
		r.defs[def.Kind] = def
	}
	return r
}

// Register adds or replaces a definition. The kind and endpoint must be set
// and every reference must point at a registered or built-in kind; callers
// register referenced kinds first.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return faults.Internal("schema registry is not initialized", nil)
	}
	if def.Kind == "" {
		return faults.Validation("definition kind is required", nil)
	}
	if def.Endpoint == "" {
		return faults.Validation(fmt.Sprintf("definition for %s has no endpoint", def.Kind), nil)
	}
	if def.NaturalKey == "" {
		return faults.Validation(fmt.Sprintf("definition for %s has no natural key", def.Kind), nil)
	}
	for _, ref := range def.References {
		if _, ok := r.defs[ref.Kind]; !ok {
			return faults.Validation(fmt.Sprintf("definition for %s references unknown kind %s", def.Kind, ref.Kind), nil)
		}
	}
	r.defs[def.Kind] = def
	return nil
}

// Lookup returns the definition for kind.
func (r *Registry) Lookup(kind netbox.Kind) (Definition, error) {
	if r == nil {
		return Definition{}, faults.Internal("schema registry is not initialized", nil)
	}
	def, ok := r.defs[kind]
	if !ok {
		return Definition{}, faults.Validation(fmt.Sprintf("unknown kind %q", kind), nil)
	}
	return def, nil
}

// Definitions returns every registered definition sorted by kind.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	defs := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Kind < defs[j].Kind })
	return defs
}

// CreatableKinds returns the kinds the mutation pipeline accepts, sorted.
func (r *Registry) CreatableKinds() []netbox.Kind {
	kinds := make([]netbox.Kind, 0, len(r.defs))
	for kind, def := range r.defs {
		if def.Creatable() {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

var descriptionAttr = Attribute{Name: "description", Type: StringAttr, Default: ""}

// builtin mirrors the DCIM component template endpoints. Attribute defaults
// follow the API's own: connector types fall back to common IEC and RJ-45
// values, counters to 1, flags to false. Fields without defaults are sent
// only when the caller sets them.
var builtin = []Definition{
	{
		Kind:       netbox.KindDeviceType,
		Endpoint:   "dcim/device-types",
		NaturalKey: "model",
	},
	{
		Kind:        netbox.KindInterfaceTemplate,
		Endpoint:    "dcim/interface-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Required: true},
			{Name: "mgmt_only", Type: BoolAttr, Default: false},
			descriptionAttr,
		},
	},
	{
		Kind:        netbox.KindConsolePortTemplate,
		Endpoint:    "dcim/console-port-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Default: "rj-45"},
			descriptionAttr,
		},
	},
	{
		Kind:        netbox.KindPowerPortTemplate,
		Endpoint:    "dcim/power-port-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Default: "iec-60320-c14"},
			{Name: "maximum_draw", Type: IntAttr},
			{Name: "allocated_draw", Type: IntAttr},
			descriptionAttr,
		},
	},
	{
		Kind:        netbox.KindConsoleServerPortTemplate,
		Endpoint:    "dcim/console-server-port-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Default: "rj-45"},
			descriptionAttr,
		},
	},
	{
		Kind:        netbox.KindPowerOutletTemplate,
		Endpoint:    "dcim/power-outlet-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Default: "iec-60320-c13"},
			{Name: "feed_leg", Type: StringAttr},
			descriptionAttr,
		},
		References: []Reference{
			{Field: "power_port_template", Kind: netbox.KindPowerPortTemplate, PayloadAs: "power_port"},
		},
	},
	{
		Kind:        netbox.KindFrontPortTemplate,
		Endpoint:    "dcim/front-port-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Required: true},
			{Name: "rear_port_position", Type: IntAttr, Default: int64(1)},
			descriptionAttr,
		},
		References: []Reference{
			{Field: "rear_port_template", Kind: netbox.KindRearPortTemplate, PayloadAs: "rear_port", Required: true},
		},
	},
	{
		Kind:        netbox.KindRearPortTemplate,
		Endpoint:    "dcim/rear-port-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "type", Type: StringAttr, Required: true},
			{Name: "positions", Type: IntAttr, Default: int64(1)},
			descriptionAttr,
		},
	},
	{
		Kind:        netbox.KindDeviceBayTemplate,
		Endpoint:    "dcim/device-bay-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			descriptionAttr,
		},
	},
	{
		Kind:        netbox.KindModuleBayTemplate,
		Endpoint:    "dcim/module-bay-templates",
		NaturalKey:  "name",
		ParentKind:  netbox.KindDeviceType,
		ParentField: "device_type",
		ParentQuery: "devicetype_id",
		Attributes: []Attribute{
			{Name: "position", Type: StringAttr},
			descriptionAttr,
		},
	},
}
