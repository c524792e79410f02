package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/debugctx"
)

type tlsDebugInfo struct {
	enabled            bool
	insecureSkipVerify bool
	caCertFile         string
	clientCertFile     string
	clientKeyFile      string
}

func newTLSDebugInfo(tlsSettings *config.TLS) tlsDebugInfo {
	if tlsSettings == nil {
		return tlsDebugInfo{}
	}

	return tlsDebugInfo{
		enabled:            true,
		insecureSkipVerify: tlsSettings.InsecureSkipVerify,
		caCertFile:         strings.TrimSpace(tlsSettings.CACertFile),
		clientCertFile:     strings.TrimSpace(tlsSettings.ClientCertFile),
		clientKeyFile:      strings.TrimSpace(tlsSettings.ClientKeyFile),
	}
}

func (info tlsDebugInfo) mTLSEnabled() bool {
	return info.clientCertFile != "" && info.clientKeyFile != ""
}

func debugPrintRequest(ctx context.Context, request *http.Request, tlsDebug tlsDebugInfo) {
	debugctx.Printf(
		ctx,
		"netbox request method=%q url=%q tls_enabled=%t mtls_enabled=%t tls_insecure_skip_verify=%t",
		request.Method,
		redactURLForDebug(request.URL),
		tlsDebug.enabled,
		tlsDebug.mTLSEnabled(),
		tlsDebug.insecureSkipVerify,
	)
}

func debugPrintRequestError(ctx context.Context, request *http.Request, err error) {
	debugctx.Printf(
		ctx,
		"netbox request failed method=%q url=%q error=%v",
		request.Method,
		redactURLForDebug(request.URL),
		err,
	)
}

func debugPrintResponse(ctx context.Context, request *http.Request, statusCode int) {
	debugctx.Printf(
		ctx,
		"netbox response method=%q url=%q status=%d",
		request.Method,
		redactURLForDebug(request.URL),
		statusCode,
	)
}
