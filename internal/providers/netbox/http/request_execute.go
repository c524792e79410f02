package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/netforge-io/netforge/telemetry"
)

// maxResponseBytes bounds how much of a response body is read. NetBox pages
// are capped server-side well below this; anything larger is not a list
// page, it is a misbehaving endpoint.
const maxResponseBytes = 4 << 20

// execute performs one API exchange and returns the raw body. The rate
// limiter is consulted before the request leaves, and any response status
// from 400 up is translated into the typed error taxonomy.
func (g *NetBoxGateway) execute(
	ctx context.Context,
	method string,
	path string,
	query map[string]string,
	body map[string]any,
) ([]byte, error) {
	if err := g.waitForLimiter(ctx); err != nil {
		return nil, err
	}

	request, err := g.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	response, err := g.doRequest(ctx, request)
	if err != nil {
		return nil, transportError("netbox request failed", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError("failed to read netbox response body", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return nil, classifyStatusError(response.StatusCode, responseBody)
	}

	return responseBody, nil
}

func (g *NetBoxGateway) waitForLimiter(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}

	timer := telemetry.NewTimer()
	if err := g.limiter.Wait(ctx); err != nil {
		return transportError("request cancelled while waiting on rate limiter", err)
	}
	g.metrics.RecordRateLimitWait(timer.Duration())
	return nil
}

func (g *NetBoxGateway) newRequest(
	ctx context.Context,
	method string,
	path string,
	query map[string]string,
	body map[string]any,
) (*http.Request, error) {
	targetURL := g.resolveRequestURL(path, query)

	var bodyReader io.Reader
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, validationError("failed to encode request payload", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, targetURL, bodyReader)
	if err != nil {
		return nil, internalError("failed to create netbox request", err)
	}

	request.Header.Set("Accept", defaultMediaType)
	if len(encoded) > 0 {
		request.Header.Set("Content-Type", defaultMediaType)
	}

	if err := g.applyAuth(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (g *NetBoxGateway) resolveRequestURL(path string, query map[string]string) string {
	target := *g.baseURL
	target.Path = joinBaseAndRequestPath(g.baseURL.Path, path)

	values := target.Query()
	if len(query) > 0 {
		keys := make([]string, 0, len(query))
		for key := range query {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			values.Set(key, query[key])
		}
	}
	target.RawQuery = values.Encode()

	return target.String()
}

func joinBaseAndRequestPath(basePath string, requestPath string) string {
	trimmedBase := basePath
	for len(trimmedBase) > 0 && trimmedBase[len(trimmedBase)-1] == '/' {
		trimmedBase = trimmedBase[:len(trimmedBase)-1]
	}
	if len(requestPath) == 0 || requestPath[0] != '/' {
		requestPath = "/" + requestPath
	}
	return trimmedBase + requestPath
}

func (g *NetBoxGateway) doRequest(ctx context.Context, request *http.Request) (*http.Response, error) {
	debugPrintRequest(ctx, request, g.tlsDebug)

	timer := telemetry.NewTimer()
	response, err := g.client.Do(request)
	if err != nil {
		g.metrics.RecordAPIRequest(request.Method, "error", timer.Duration())
		debugPrintRequestError(ctx, request, err)
		return nil, err
	}

	g.metrics.RecordAPIRequest(request.Method, strconv.Itoa(response.StatusCode), timer.Duration())
	debugPrintResponse(ctx, request, response.StatusCode)
	return response, nil
}

func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil
	return cloned.String()
}
