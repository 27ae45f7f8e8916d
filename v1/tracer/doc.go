// Package tracer provides distributed tracing functionality using OpenTelemetry.
//
// The tracer package offers a simplified interface for implementing distributed tracing
// in Go applications. Its central operation is RunInSpan: open a span, run a unit of
// work with that span active in the context, capture any failure onto the span, and
// end the span exactly once.
//
// Core Features:
//   - Scoped span execution with guaranteed finalization (RunInSpan, Tracer.Run)
//   - Error and panic recording (app.error, app.error.stack, status error)
//   - Customizable span attributes
//   - W3C traceparent rendering for outgoing requests (TraceParent)
//   - Carrier inject/extract for incoming requests
//   - OTLP/HTTP export
//
// Basic Usage:
//
//	tracerClient := tracer.NewClient(tracer.Config{
//		ServiceName:  "items-search",
//		AppEnv:       "development",
//		EnableExport: true,
//	}, log)
//
//	err := tracerClient.Run(ctx, "submit fetch", func(ctx context.Context, span *tracer.Span) error {
//		span.SetAttributes(map[string]interface{}{
//			"app.itemsSearch.term":  "bicycle",
//			"app.itemsSearch.limit": 3,
//		})
//		return doWork(ctx)
//	})
//
// Active Span:
//
// The active span travels in context.Context. A unit of work must pass the ctx it
// receives to anything it calls; spans started from that ctx become children. Two
// calls started from unrelated contexts never see each other's span, regardless
// of how goroutines are scheduled.
//
// Propagation:
//
//	header, ok := tracer.TraceParent(ctx) // "00-<trace-id>-<span-id>-01"
//	if ok {
//		req.Header.Set(tracer.TraceParentHeader, header)
//	}
//
//	// In the receiving service
//	ctx := tracerClient.SetCarrierOnContext(r.Context(), tracer.HeaderCarrier(r.Header))
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		// ... other modules
//	)
//	app.Run()
//
// Thread Safety:
//
// All methods on the Tracer and Span types are safe for concurrent use
// by multiple goroutines.
package tracer
