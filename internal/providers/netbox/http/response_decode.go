package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/netforge-io/netforge/netbox"
)

// decodeJSONResponse decodes a response body into plain Go values. Numbers
// are decoded precisely and then narrowed to int or float64, the shapes both
// the attribute helpers and gojq accept.
func decodeJSONResponse(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, transportError("netbox response body is not valid JSON", err)
	}

	return normalizeJSONValue(value)
}

func normalizeJSONValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil, bool, string, int, float64:
		return typed, nil
	case json.Number:
		return normalizeJSONNumber(typed)
	case []any:
		for idx, item := range typed {
			normalized, err := normalizeJSONValue(item)
			if err != nil {
				return nil, err
			}
			typed[idx] = normalized
		}
		return typed, nil
	case map[string]any:
		for key, item := range typed {
			normalized, err := normalizeJSONValue(item)
			if err != nil {
				return nil, err
			}
			typed[key] = normalized
		}
		return typed, nil
	default:
		return nil, internalError(fmt.Sprintf("unexpected value type %T in netbox response", value), nil)
	}
}

func normalizeJSONNumber(value json.Number) (any, error) {
	if asInt, err := value.Int64(); err == nil {
		if asInt >= math.MinInt && asInt <= math.MaxInt {
			return int(asInt), nil
		}
		return nil, internalError("netbox response contains integer out of range", nil)
	}
	asFloat, err := value.Float64()
	if err != nil {
		return nil, internalError("netbox response contains unreadable number", err)
	}
	return asFloat, nil
}

// decodeObjectResponse decodes a single created or fetched record.
func decodeObjectResponse(body []byte) (netbox.Object, error) {
	value, err := decodeJSONResponse(body)
	if err != nil {
		return netbox.Object{}, err
	}

	attrs, ok := value.(map[string]any)
	if !ok {
		return netbox.Object{}, internalError("netbox object response must be a JSON object", nil)
	}

	object := netbox.FromAttrs(attrs)
	if object.ID == 0 {
		return netbox.Object{}, internalError("netbox object response carries no id", nil)
	}
	return object, nil
}

// classifyStatusError maps an API error response onto the typed taxonomy,
// keeping the server's own diagnostic text. NetBox reports a duplicate
// natural key as a 400 validation response, not a 409; those are detected by
// message and surfaced as conflicts so a lost conflict-check race reads the
// same as a detected one.
func classifyStatusError(statusCode int, body []byte) error {
	message := fmt.Sprintf("netbox request failed with status %d: %s", statusCode, summarizeBody(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return authError(message, nil)
	case http.StatusNotFound:
		return notFoundError(message, nil)
	case http.StatusConflict:
		return conflictError(message, nil)
	}

	if statusCode >= 400 && statusCode < 500 {
		if isDuplicateRecordBody(body) {
			return conflictError(message, nil)
		}
		return validationError(message, nil)
	}
	return transportError(message, nil)
}

func isDuplicateRecordBody(body []byte) bool {
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "already exists") ||
		strings.Contains(lower, "must make a unique set")
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}
