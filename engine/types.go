package engine

import (
	"strings"
	"time"

	"github.com/netforge-io/netforge/netbox"
)

// Request describes one record to add under a device type. Attributes are
// keyed by payload field name; References carries the names of sibling
// components the definition declares, to be resolved to IDs before the
// write. Nothing is written unless Confirmed is set.
type Request struct {
	Kind       netbox.Kind
	DeviceType string
	Name       string
	Attributes map[string]any
	References map[string]string
	Confirmed  bool
}

func (r Request) normalized() Request {
	r.Kind = netbox.Kind(strings.TrimSpace(string(r.Kind)))
	r.DeviceType = strings.TrimSpace(r.DeviceType)
	r.Name = strings.TrimSpace(r.Name)
	return r
}

type Status string

const (
	StatusDryRun  Status = "dry-run"
	StatusCreated Status = "created"
)

// Outcome reports what a run did. Preview is set on dry runs and holds the
// intended payload with references still as names; Created is set once a
// record was written. CacheWarning is non-empty when the write succeeded
// but invalidating cached reads did not.
type Outcome struct {
	Status     Status
	Kind       netbox.Kind
	DeviceType string
	Name       string

	Preview map[string]any
	Created *netbox.Object

	Duration     time.Duration
	CacheWarning string
}

// stage names the pipeline steps. They appear in logs, stage metrics and
// the "stage" detail attached to failures.
type stage string

const (
	stageGate       stage = "gate"
	stageLocate     stage = "locate"
	stageReferences stage = "references"
	stageConflict   stage = "conflict"
	stageWrite      stage = "write"
	stageInvalidate stage = "invalidate"
)
