package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/itchyny/gojq"

	"github.com/netforge-io/netforge/netbox"
)

// resultsExpression extracts the record array from the NetBox list envelope
// {count, next, previous, results}.
const resultsExpression = ".results"

var listJQCodeCache sync.Map

// fetchAllPages lists one collection completely, following the envelope's
// next links. Query parameters from a next link replace the original set;
// NetBox encodes the continuation offset there.
func (g *NetBoxGateway) fetchAllPages(ctx context.Context, path string, params map[string]string) ([]netbox.Object, error) {
	query := make(map[string]string, len(params))
	for key, value := range params {
		query[key] = value
	}

	var objects []netbox.Object
	for page := 0; ; page++ {
		if page >= maxListPages {
			return nil, internalError(fmt.Sprintf("list pagination exceeded %d pages", maxListPages), nil)
		}

		body, err := g.execute(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		pageObjects, next, err := decodeListPage(body)
		if err != nil {
			return nil, err
		}
		objects = append(objects, pageObjects...)

		if next == "" {
			break
		}
		query, err = queryFromNextLink(next)
		if err != nil {
			return nil, err
		}
	}

	return objects, nil
}

func decodeListPage(body []byte) ([]netbox.Object, string, error) {
	payload, err := decodeJSONResponse(body)
	if err != nil {
		return nil, "", err
	}

	envelope, ok := payload.(map[string]any)
	if !ok {
		return nil, "", internalError("netbox list response must be a JSON object", nil)
	}

	extracted, err := applyListJQ(envelope, resultsExpression)
	if err != nil {
		return nil, "", err
	}
	items, ok := extracted.([]any)
	if !ok {
		return nil, "", internalError("netbox list response carries no results array", nil)
	}

	objects := make([]netbox.Object, 0, len(items))
	for _, item := range items {
		attrs, ok := item.(map[string]any)
		if !ok {
			return nil, "", internalError("netbox list entries must be JSON objects", nil)
		}
		objects = append(objects, netbox.FromAttrs(attrs))
	}

	next, _ := envelope["next"].(string)
	return objects, next, nil
}

// applyListJQ evaluates a jq expression over a decoded list payload.
// Compiled programs are cached per expression; the same extraction runs for
// every page of every Filter call.
func applyListJQ(payload any, expression string) (any, error) {
	code, err := cachedListJQCode(expression)
	if err != nil {
		return nil, validationError("invalid list jq expression", err)
	}

	iterator := code.Run(payload)
	results := make([]any, 0, 1)
	for {
		value, ok := iterator.Next()
		if !ok {
			break
		}
		if valueErr, isErr := value.(error); isErr {
			return nil, validationError("failed to evaluate list jq expression", valueErr)
		}
		results = append(results, value)
	}

	if len(results) == 0 {
		return []any{}, nil
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func cachedListJQCode(expression string) (*gojq.Code, error) {
	if cached, ok := listJQCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := listJQCodeCache.LoadOrStore(expression, code)
	typed, _ := actual.(*gojq.Code)
	if typed == nil {
		return code, nil
	}
	return typed, nil
}

func queryFromNextLink(next string) (map[string]string, error) {
	parsed, err := url.Parse(next)
	if err != nil {
		return nil, internalError("netbox pagination link is invalid", err)
	}

	values := parsed.Query()
	query := make(map[string]string, len(values))
	for key := range values {
		query[key] = values.Get(key)
	}
	return query, nil
}
