package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// TraceParentHeader is the W3C trace context header name.
const TraceParentHeader = "traceparent"

// Version and flags of the propagation header are fixed.
const (
	traceParentVersion = "00"
	traceParentFlags   = "01"
)

// FormatTraceParent renders sc as "00-<trace-id>-<span-id>-01".
func FormatTraceParent(sc trace.SpanContext) string {
	return fmt.Sprintf("%s-%s-%s-%s", traceParentVersion, sc.TraceID(), sc.SpanID(), traceParentFlags)
}

// TraceParent returns the propagation header value for the span active in ctx.
// It reports false when ctx carries no valid span. The value is derived on
// every call and never cached.
func TraceParent(ctx context.Context) (string, bool) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return FormatTraceParent(sc), true
}
