package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/netbox"
)

// AttrType enumerates the JSON shapes a payload attribute may take.
type AttrType int

const (
	StringAttr AttrType = iota
	IntAttr
	BoolAttr
)

// Attribute describes one payload field beyond the natural key. A nil
// Default means the field is omitted when the caller does not provide a
// value; a non-nil Default is written into the payload instead.
type Attribute struct {
	Name     string
	Type     AttrType
	Required bool
	Default  any
}

// Reference describes a sibling component resolved by name within the same
// parent before the write. Field is the request attribute carrying the
// referenced name; PayloadAs is the payload field receiving the resolved ID.
type Reference struct {
	Field     string
	Kind      netbox.Kind
	PayloadAs string
	Required  bool
}

// Definition is the declarative description of one kind: where it lives on
// the API, how records of it are addressed, and how create payloads for it
// are assembled.
type Definition struct {
	Kind        netbox.Kind
	Endpoint    string
	NaturalKey  string
	ParentKind  netbox.Kind
	ParentField string
	ParentQuery string
	Attributes  []Attribute
	References  []Reference
}

// Creatable reports whether records of this kind are created through the
// mutation pipeline. The parent kind itself is lookup-only.
func (d Definition) Creatable() bool {
	return d.ParentKind != ""
}

// Reference returns the reference declared under the given request field.
func (d Definition) Reference(field string) (Reference, bool) {
	for _, ref := range d.References {
		if ref.Field == field {
			return ref, true
		}
	}
	return Reference{}, false
}

// Payload assembles the create payload for one record. Required attributes
// and references are enforced here, immediately before submission, so
// lookup failures always surface before validation failures. Resolved
// reference IDs arrive keyed by request field.
func (d Definition) Payload(parentID int64, name string, attrs map[string]any, refs map[string]int64) (map[string]any, error) {
	payload := map[string]any{
		d.ParentField: parentID,
		d.NaturalKey:  name,
	}

	for _, attr := range d.Attributes {
		value, ok := provided(attrs, attr)
		if !ok {
			if attr.Required {
				return nil, faults.Validation(fmt.Sprintf("%s is required for %s", attr.Name, d.Kind), nil)
			}
			if attr.Default != nil {
				payload[attr.Name] = attr.Default
			}
			continue
		}
		coerced, err := coerce(attr, value)
		if err != nil {
			return nil, err
		}
		payload[attr.Name] = coerced
	}

	for _, ref := range d.References {
		id, ok := refs[ref.Field]
		if !ok {
			if ref.Required {
				return nil, faults.Validation(fmt.Sprintf("%s is required for %s", ref.Field, d.Kind), nil)
			}
			continue
		}
		payload[ref.PayloadAs] = id
	}

	return payload, nil
}

// Preview renders the intent of a create without touching the server. The
// parent stays a model string, references stay names, defaults are applied
// and nothing is validated; it mirrors what a confirmed run would attempt.
func (d Definition) Preview(parentKey, name string, attrs map[string]any, refs map[string]string) map[string]any {
	preview := map[string]any{
		"device_type": parentKey,
		d.NaturalKey:  name,
	}

	for _, attr := range d.Attributes {
		value, ok := provided(attrs, attr)
		if !ok {
			if attr.Default != nil {
				preview[attr.Name] = attr.Default
			}
			continue
		}
		if coerced, err := coerce(attr, value); err == nil {
			preview[attr.Name] = coerced
		} else {
			preview[attr.Name] = value
		}
	}

	for _, ref := range d.References {
		if refName := strings.TrimSpace(refs[ref.Field]); refName != "" {
			preview[ref.Field] = refName
		}
	}

	return preview
}

// provided reports whether the caller supplied a usable value for attr.
// Empty strings count as absent so defaults and required checks behave the
// same for flag and file input.
func provided(attrs map[string]any, attr Attribute) (any, bool) {
	value, ok := attrs[attr.Name]
	if !ok || value == nil {
		return nil, false
	}
	if attr.Type == StringAttr {
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return nil, false
		}
	}
	return value, true
}

func coerce(attr Attribute, value any) (any, error) {
	switch attr.Type {
	case StringAttr:
		s, ok := value.(string)
		if !ok {
			return nil, faults.Validation(fmt.Sprintf("%s must be a string", attr.Name), nil)
		}
		return strings.TrimSpace(s), nil
	case IntAttr:
		n, ok := asInt64(value)
		if !ok {
			return nil, faults.Validation(fmt.Sprintf("%s must be an integer", attr.Name), nil)
		}
		return n, nil
	case BoolAttr:
		b, ok := value.(bool)
		if !ok {
			return nil, faults.Validation(fmt.Sprintf("%s must be a boolean", attr.Name), nil)
		}
		return b, nil
	default:
		return nil, faults.Internal(fmt.Sprintf("unknown attribute type for %s", attr.Name), nil)
	}
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
