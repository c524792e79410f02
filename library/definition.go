// Package library imports device-type definitions from a devicetype-library
// checkout: a git repository of YAML files in the community layout, one file
// per device type, each declaring the component templates that belong to it.
package library

import (
	"strings"

	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/netbox"
)

// Definition is one parsed device-type YAML file. The parent identity comes
// from manufacturer, model and slug; the component lists carry the templates
// to provision under it.
type Definition struct {
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
	Slug         string `yaml:"slug"`
	PartNumber   string `yaml:"part_number"`

	Interfaces         []Component `yaml:"interfaces"`
	ConsolePorts       []Component `yaml:"console-ports"`
	ConsoleServerPorts []Component `yaml:"console-server-ports"`
	PowerPorts         []Component `yaml:"power-ports"`
	PowerOutlets       []Component `yaml:"power-outlets"`
	FrontPorts         []Component `yaml:"front-ports"`
	RearPorts          []Component `yaml:"rear-ports"`
	DeviceBays         []Component `yaml:"device-bays"`
	ModuleBays         []Component `yaml:"module-bays"`

	// Path is the definition file relative to the library root, for
	// reporting. It is set by the loader, not the YAML.
	Path string `yaml:"-"`
}

// Component is one entry of any component list. The field set is the union
// of what the library format declares per kind; fields that do not apply to
// a kind stay zero and are left out of the request.
type Component struct {
	Name             string `yaml:"name"`
	Type             string `yaml:"type"`
	MgmtOnly         *bool  `yaml:"mgmt_only"`
	MaximumDraw      *int64 `yaml:"maximum_draw"`
	AllocatedDraw    *int64 `yaml:"allocated_draw"`
	FeedLeg          string `yaml:"feed_leg"`
	PowerPort        string `yaml:"power_port"`
	RearPort         string `yaml:"rear_port"`
	RearPortPosition *int64 `yaml:"rear_port_position"`
	Positions        *int64 `yaml:"positions"`
	Position         string `yaml:"position"`
	Description      string `yaml:"description"`
}

// Key renders the definition's identity as vendor/model.
func (d Definition) Key() string {
	return strings.TrimSpace(d.Manufacturer) + "/" + strings.TrimSpace(d.Model)
}

// ComponentCount reports how many component templates the definition holds.
func (d Definition) ComponentCount() int {
	count := 0
	for _, group := range d.componentGroups() {
		count += len(group.components)
	}
	return count
}

type componentGroup struct {
	kind       netbox.Kind
	components []Component
}

// componentGroups lists the component sets in provisioning order. Kinds
// whose records are referenced by name from sibling kinds come before the
// kinds referencing them: rear ports before front ports, power ports before
// power outlets.
func (d Definition) componentGroups() []componentGroup {
	return []componentGroup{
		{netbox.KindConsolePortTemplate, d.ConsolePorts},
		{netbox.KindConsoleServerPortTemplate, d.ConsoleServerPorts},
		{netbox.KindPowerPortTemplate, d.PowerPorts},
		{netbox.KindInterfaceTemplate, d.Interfaces},
		{netbox.KindRearPortTemplate, d.RearPorts},
		{netbox.KindDeviceBayTemplate, d.DeviceBays},
		{netbox.KindModuleBayTemplate, d.ModuleBays},
		{netbox.KindFrontPortTemplate, d.FrontPorts},
		{netbox.KindPowerOutletTemplate, d.PowerOutlets},
	}
}

// Requests flattens the definition into one engine request per component,
// in provisioning order. Confirmed is carried onto every request; leaving
// it false turns the whole batch into previews.
func (d Definition) Requests(confirmed bool) []engine.Request {
	requests := make([]engine.Request, 0, d.ComponentCount())
	for _, group := range d.componentGroups() {
		for _, component := range group.components {
			requests = append(requests, component.request(group.kind, d.Model, confirmed))
		}
	}
	return requests
}

func (c Component) request(kind netbox.Kind, model string, confirmed bool) engine.Request {
	attrs := make(map[string]any)
	if c.Type != "" {
		attrs["type"] = c.Type
	}
	if c.MgmtOnly != nil {
		attrs["mgmt_only"] = *c.MgmtOnly
	}
	if c.MaximumDraw != nil {
		attrs["maximum_draw"] = *c.MaximumDraw
	}
	if c.AllocatedDraw != nil {
		attrs["allocated_draw"] = *c.AllocatedDraw
	}
	if c.FeedLeg != "" {
		attrs["feed_leg"] = c.FeedLeg
	}
	if c.RearPortPosition != nil {
		attrs["rear_port_position"] = *c.RearPortPosition
	}
	if c.Positions != nil {
		attrs["positions"] = *c.Positions
	}
	if c.Position != "" {
		attrs["position"] = c.Position
	}
	if c.Description != "" {
		attrs["description"] = c.Description
	}

	var refs map[string]string
	if c.PowerPort != "" {
		refs = map[string]string{"power_port_template": c.PowerPort}
	}
	if c.RearPort != "" {
		if refs == nil {
			refs = make(map[string]string, 1)
		}
		refs["rear_port_template"] = c.RearPort
	}

	return engine.Request{
		Kind:       kind,
		DeviceType: model,
		Name:       c.Name,
		Attributes: attrs,
		References: refs,
		Confirmed:  confirmed,
	}
}
