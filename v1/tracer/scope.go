package tracer

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/Aleph-Alpha/spantrace/v1/observability"
)

// UnitOfWork is the function RunInSpan executes. ctx carries the new span as
// its active span; nested RunInSpan calls made with ctx become its children.
type UnitOfWork[T any] func(ctx context.Context, span *Span) (T, error)

// RunInSpan opens a span named name as a child of the span in ctx (or a root
// span), runs fn with the span active, and finalizes the span exactly once on
// every exit path.
//
// On success the span ends with the status fn set, or codes.Ok if fn set none.
// On error the span ends with codes.Error, the error message as description,
// and the app.error / app.error.stack attributes; the error is returned
// unchanged. A panic in fn is annotated the same way and re-raised with its
// original value. If fn calls runtime.Goexit the span ends with
// ErrUnitOfWorkExited.
//
// Example:
//
//	items, err := tracer.RunInSpan(ctx, t, "submit fetch", func(ctx context.Context, span *tracer.Span) ([]Item, error) {
//	    span.SetAttribute("app.fetchTrigger", "search")
//	    return fetch(ctx)
//	})
func RunInSpan[T any](ctx context.Context, t *Tracer, name string, fn UnitOfWork[T]) (result T, err error) {
	ctx, otelSpan := t.StartSpan(ctx, name)
	span := newSpan(otelSpan)
	start := time.Now()

	completed := false
	defer func() {
		if !completed {
			r := recover()
			if r == nil {
				// fn called runtime.Goexit; the goroutine keeps unwinding.
				t.finalize(span, name, start, ErrUnitOfWorkExited)
				return
			}
			t.finalize(span, name, start, &PanicError{Value: r, Stack: debug.Stack()})
			panic(r)
		}
		t.finalize(span, name, start, err)
	}()

	result, err = fn(ctx, span)
	completed = true
	return result, err
}

// Run is RunInSpan for units of work without a result.
func (t *Tracer) Run(ctx context.Context, name string, fn func(ctx context.Context, span *Span) error) error {
	_, err := RunInSpan(ctx, t, name, func(ctx context.Context, span *Span) (struct{}, error) {
		return struct{}{}, fn(ctx, span)
	})
	return err
}

func (t *Tracer) finalize(span *Span, name string, start time.Time, err error) {
	span.finish(err)

	if t.observer == nil {
		return
	}
	t.observer.ObserveOperation(observability.OperationContext{
		Component: "tracer",
		Operation: name,
		Duration:  time.Since(start),
		Error:     err,
		Metadata: map[string]interface{}{
			"trace_id": span.TraceID(),
			"span_id":  span.SpanID(),
		},
	})
}
