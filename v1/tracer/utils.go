package tracer

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// RecordErrorOnSpan records an error on a span and sets its status to error.
//
// Example:
//
//	ctx, span := tracer.StartSpan(ctx, "fetch-items")
//	defer span.End()
//
//	items, err := store.FindItems(ctx, term, limit)
//	if err != nil {
//	    tracer.RecordErrorOnSpan(span, err)
//	    return nil, err
//	}
func (t *Tracer) RecordErrorOnSpan(span traceSpan.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// StartSpan creates a new span with the given name and returns an updated context
// containing the span, along with the span itself.
//
// The created span becomes a child of any span that exists in the provided context.
// If no span exists in the context, a new root span is created. The caller owns
// the span and must end it; prefer RunInSpan, which does that on every path.
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, traceSpan.Span) {
	return t.tracer.Start(ctx, name)
}

// SetAttributes adds one or more attributes to a span with support for different data types.
//
// Supported value types:
//   - string: Stored as string attributes
//   - int/int64: Stored as integer attributes
//   - float64: Stored as floating-point attributes
//   - bool: Stored as boolean attributes
//   - []string: Stored as string slice attributes
//   - other types: Converted to strings using fmt.Sprint
//
// Example:
//
//	tracer.SetAttributes(span, map[string]interface{}{
//	    "app.itemsSearch.term":  "bicycle",
//	    "app.itemsSearch.limit": 3,
//	})
func (t *Tracer) SetAttributes(span traceSpan.Span, attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}
	span.SetAttributes(toAttributes(attrs)...)
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		attributes = append(attributes, toAttribute(k, v))
	}
	return attributes
}

func toAttribute(k string, v interface{}) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(k, val)
	case int:
		return attribute.Int(k, val)
	case int64:
		return attribute.Int64(k, val)
	case float64:
		return attribute.Float64(k, val)
	case bool:
		return attribute.Bool(k, val)
	case []string:
		return attribute.StringSlice(k, val)
	default:
		// For unsupported types, convert to string
		return attribute.String(k, fmt.Sprint(val))
	}
}

// GetCarrier extracts the current trace context from a context object and returns it as
// a map that can be transmitted across service boundaries.
//
// The returned map typically includes:
//   - "traceparent": Contains trace ID, span ID, and trace flags
//   - "tracestate": Contains vendor-specific trace information (if present)
//   - "baggage": W3C baggage members (if present)
func (t *Tracer) GetCarrier(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	propagator.Inject(ctx, carrier)
	return carrier
}

// SetCarrierOnContext extracts trace information from a carrier map and injects it into a context.
// This is the complement to GetCarrier and is used when receiving requests
// from other services that include trace headers.
//
// Example:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    ctx := tracer.SetCarrierOnContext(r.Context(), tracer.HeaderCarrier(r.Header))
//	    // spans started from ctx continue the caller's trace
//	}
func (t *Tracer) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// HeaderCarrier flattens HTTP-style headers into a carrier map, keeping the
// first value of each key and lower-casing key names.
func HeaderCarrier(headers map[string][]string) map[string]string {
	carrier := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) > 0 {
			carrier[strings.ToLower(key)] = values[0]
		}
	}
	return carrier
}
