// Package debugctx threads the CLI --debug switch through context.Context.
// The root command stores the flag and the destination writer once; layers
// below it (the NetBox HTTP gateway, command handlers) trace their work
// through Printf without holding a logger of their own.
package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type enabledKey struct{}
type writerKey struct{}

// WithEnabled records whether debug tracing was requested for this run.
func WithEnabled(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, enabledKey{}, enabled)
}

// Enabled reports whether debug tracing is active on ctx. A nil or
// unconfigured context traces nothing.
func Enabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	enabled, _ := ctx.Value(enabledKey{}).(bool)
	return enabled
}

// WithWriter sets the destination for trace lines, normally the command's
// stderr stream. A nil writer leaves ctx unchanged.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	if writer == nil {
		return ctx
	}

	return context.WithValue(ctx, writerKey{}, writer)
}

// Writer returns the trace destination carried by ctx, or nil.
func Writer(ctx context.Context) io.Writer {
	if ctx == nil {
		return nil
	}

	writer, _ := ctx.Value(writerKey{}).(io.Writer)
	return writer
}

// Printf writes one "debug:" line when tracing is active and a writer is
// set. It is a no-op otherwise, so call sites never guard it.
func Printf(ctx context.Context, format string, args ...any) {
	if !Enabled(ctx) {
		return
	}

	writer := Writer(ctx)
	if writer == nil {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}

	_, _ = fmt.Fprintf(writer, "debug: %s\n", message)
}
