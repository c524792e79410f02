package netbox

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Object is one record returned by the NetBox API: the assigned numeric
// identity, the rendered display name, and the raw attribute map as decoded
// from the response body.
type Object struct {
	ID      int64
	Display string
	Attrs   map[string]any
}

// Attr returns the raw attribute stored under key, or nil when absent.
func (o Object) Attr(key string) any {
	if o.Attrs == nil {
		return nil
	}
	return o.Attrs[key]
}

// StringAttr returns the attribute under key rendered as a string. NetBox
// serializes choice fields either as plain strings or as {value, label}
// objects; both shapes are handled.
func (o Object) StringAttr(key string) string {
	switch value := o.Attr(key).(type) {
	case string:
		return value
	case map[string]any:
		if inner, ok := value["value"].(string); ok {
			return inner
		}
	}
	return ""
}

// IntAttr returns the attribute under key as an int64 and reports whether
// a numeric value was present.
func (o Object) IntAttr(key string) (int64, bool) {
	return toInt64(o.Attr(key))
}

// Name returns the object's natural key attribute.
func (o Object) Name() string {
	return o.StringAttr("name")
}

// FromAttrs builds an Object from a decoded JSON record, lifting the id and
// display fields NetBox places on every serialized object.
func FromAttrs(attrs map[string]any) Object {
	object := Object{Attrs: attrs}
	if id, ok := toInt64(attrs["id"]); ok {
		object.ID = id
	}
	if display, ok := attrs["display"].(string); ok {
		object.Display = strings.TrimSpace(display)
	}
	if object.Display == "" {
		object.Display = object.Name()
	}
	return object
}

func toInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		return int64(typed), true
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
