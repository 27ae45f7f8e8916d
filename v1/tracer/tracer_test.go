package tracer

import (
	"context"
	"errors"
	"regexp"
	"runtime"
	"sync"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/observability"
)

var traceParentPattern = regexp.MustCompile(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`)

func newTestTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewClientWithProvider(tp, logger.NewNop()), recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func endedByName(t *testing.T, recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	var found []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == name {
			found = append(found, s)
		}
	}
	require.Len(t, found, 1, "expected exactly one ended span named %q", name)
	return found[0]
}

func TestRunInSpanSuccessEndsOnceWithOK(t *testing.T) {
	tr, recorder := newTestTracer(t)

	got, err := RunInSpan(context.Background(), tr, "compute", func(ctx context.Context, span *Span) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	require.Len(t, recorder.Ended(), 1)

	span := recorder.Ended()[0]
	assert.Equal(t, "compute", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.False(t, span.EndTime().Before(span.StartTime()))
	_, hasError := attrs(span)[AttrError]
	assert.False(t, hasError)
}

func TestRunInSpanKeepsStatusSetByUnitOfWork(t *testing.T) {
	tr, recorder := newTestTracer(t)

	err := tr.Run(context.Background(), "partial", func(ctx context.Context, span *Span) error {
		span.SetStatus(codes.Error, "partial result")
		return nil
	})

	require.NoError(t, err)
	span := endedByName(t, recorder, "partial")
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "partial result", span.Status().Description)
}

func TestRunInSpanErrorIsAnnotatedAndReturnedUnchanged(t *testing.T) {
	tr, recorder := newTestTracer(t)
	errBoom := errors.New("network down")

	_, err := RunInSpan(context.Background(), tr, "fails", func(ctx context.Context, span *Span) (string, error) {
		return "", errBoom
	})

	require.Error(t, err)
	assert.True(t, err == errBoom, "error must be returned without wrapping")

	span := endedByName(t, recorder, "fails")
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "network down", span.Status().Description)
	assert.Equal(t, "network down", attrs(span)[AttrError].AsString())
	_, hasStack := attrs(span)[AttrErrorStack]
	assert.False(t, hasStack, "plain errors carry no stack")

	require.NotEmpty(t, span.Events())
	assert.Equal(t, "exception", span.Events()[0].Name)
}

func TestRunInSpanErrorOverridesExplicitOK(t *testing.T) {
	tr, recorder := newTestTracer(t)

	err := tr.Run(context.Background(), "ok-then-fail", func(ctx context.Context, span *Span) error {
		span.SetStatus(codes.Ok, "")
		return errors.New("late failure")
	})

	require.Error(t, err)
	assert.Equal(t, codes.Error, endedByName(t, recorder, "ok-then-fail").Status().Code)
}

func TestRunInSpanRecordsStackForStackErrors(t *testing.T) {
	tr, recorder := newTestTracer(t)

	err := tr.Run(context.Background(), "stack", func(ctx context.Context, span *Span) error {
		return pkgerrors.New("decode failed")
	})

	require.Error(t, err)
	span := endedByName(t, recorder, "stack")
	assert.Equal(t, "decode failed", attrs(span)[AttrError].AsString())
	assert.Contains(t, attrs(span)[AttrErrorStack].AsString(), "TestRunInSpanRecordsStackForStackErrors")
}

func TestRunInSpanRecordsStackForWrappedStackErrors(t *testing.T) {
	tr, recorder := newTestTracer(t)
	inner := pkgerrors.New("inner")

	_ = tr.Run(context.Background(), "wrapped", func(ctx context.Context, span *Span) error {
		return errors.Join(errors.New("outer"), inner)
	})

	assert.NotEmpty(t, attrs(endedByName(t, recorder, "wrapped"))[AttrErrorStack].AsString())
}

func TestRunInSpanPanicIsAnnotatedAndReRaised(t *testing.T) {
	tr, recorder := newTestTracer(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = tr.Run(context.Background(), "panics", func(ctx context.Context, span *Span) error {
			panic("kaboom")
		})
	})

	span := endedByName(t, recorder, "panics")
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "kaboom", attrs(span)[AttrError].AsString())
	assert.Contains(t, attrs(span)[AttrErrorStack].AsString(), "goroutine")
}

func TestRunInSpanGoexitEndsWithError(t *testing.T) {
	tr, recorder := newTestTracer(t)

	returned := false
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tr.Run(context.Background(), "exits", func(ctx context.Context, span *Span) error {
			runtime.Goexit()
			return nil
		})
		returned = true
	}()
	<-done

	assert.False(t, returned)
	span := endedByName(t, recorder, "exits")
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, ErrUnitOfWorkExited.Error(), span.Status().Description)
	assert.Equal(t, ErrUnitOfWorkExited.Error(), attrs(span)[AttrError].AsString())
}

func TestRunInSpanNestsChildrenUnderParent(t *testing.T) {
	tr, recorder := newTestTracer(t)

	var parentSC, childSC trace.SpanContext
	err := tr.Run(context.Background(), "parent", func(ctx context.Context, parent *Span) error {
		parentSC = parent.SpanContext()
		err := tr.Run(ctx, "child", func(ctx context.Context, child *Span) error {
			childSC = child.SpanContext()
			return errors.New("child failed")
		})
		require.Error(t, err)
		// the child's end must not end the parent
		assert.Len(t, recorder.Ended(), 1)
		return nil
	})
	require.NoError(t, err)

	child := endedByName(t, recorder, "child")
	parent := endedByName(t, recorder, "parent")
	assert.Equal(t, parentSC.TraceID(), childSC.TraceID())
	assert.Equal(t, parentSC.SpanID(), child.Parent().SpanID())
	assert.False(t, parent.Parent().IsValid(), "parent must be a root span")
	assert.Equal(t, codes.Error, child.Status().Code)
	assert.Equal(t, codes.Ok, parent.Status().Code)
}

func TestConcurrentRootsDoNotShareActiveSpan(t *testing.T) {
	tr, recorder := newTestTracer(t)

	var ready sync.WaitGroup
	ready.Add(2)
	release := make(chan struct{})

	roots := make([]trace.SpanContext, 2)
	children := make([]trace.SpanContext, 2)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			return tr.Run(ctx, "root", func(ctx context.Context, root *Span) error {
				roots[i] = root.SpanContext()
				ready.Done()
				<-release
				return tr.Run(ctx, "child", func(ctx context.Context, child *Span) error {
					children[i] = trace.SpanContextFromContext(ctx)
					return nil
				})
			})
		})
	}
	ready.Wait()
	close(release)
	require.NoError(t, g.Wait())

	assert.NotEqual(t, roots[0].TraceID(), roots[1].TraceID())
	for i := 0; i < 2; i++ {
		assert.Equal(t, roots[i].TraceID(), children[i].TraceID())
	}
	assert.Len(t, recorder.Ended(), 4)
}

func TestTraceParentFormatAndIdempotence(t *testing.T) {
	tr, _ := newTestTracer(t)

	err := tr.Run(context.Background(), "header", func(ctx context.Context, span *Span) error {
		first, ok := TraceParent(ctx)
		require.True(t, ok)
		second, _ := TraceParent(ctx)

		assert.Regexp(t, traceParentPattern, first)
		assert.Equal(t, first, second)
		assert.Equal(t, "00-"+span.TraceID()+"-"+span.SpanID()+"-01", first)
		assert.Equal(t, first, span.TraceParent())
		return nil
	})
	require.NoError(t, err)
}

func TestTraceParentWithoutSpan(t *testing.T) {
	header, ok := TraceParent(context.Background())
	assert.False(t, ok)
	assert.Empty(t, header)
}

func TestCarrierRoundTripContinuesTrace(t *testing.T) {
	tr, recorder := newTestTracer(t)

	var carrier map[string]string
	var upstream trace.SpanContext
	_ = tr.Run(context.Background(), "upstream", func(ctx context.Context, span *Span) error {
		upstream = span.SpanContext()
		carrier = tr.GetCarrier(ctx)
		return nil
	})
	require.Contains(t, carrier, TraceParentHeader)

	ctx := tr.SetCarrierOnContext(context.Background(), HeaderCarrier(map[string][]string{
		"Traceparent": {carrier[TraceParentHeader]},
	}))
	_ = tr.Run(ctx, "downstream", func(ctx context.Context, span *Span) error { return nil })

	downstream := endedByName(t, recorder, "downstream")
	assert.Equal(t, upstream.TraceID(), downstream.SpanContext().TraceID())
	assert.Equal(t, upstream.SpanID(), downstream.Parent().SpanID())
}

func TestSpanAttributeTypes(t *testing.T) {
	tr, recorder := newTestTracer(t)

	_ = tr.Run(context.Background(), "attrs", func(ctx context.Context, span *Span) error {
		span.SetAttributes(map[string]interface{}{
			"s":   "bicycle",
			"i":   2,
			"i64": int64(3),
			"f":   1.5,
			"b":   true,
			"ss":  []string{"a", "b"},
			"u":   uint8(7),
		})
		span.SetAttribute("app.resultCount", 2)
		return nil
	})

	got := attrs(endedByName(t, recorder, "attrs"))
	assert.Equal(t, "bicycle", got["s"].AsString())
	assert.Equal(t, int64(2), got["i"].AsInt64())
	assert.Equal(t, int64(3), got["i64"].AsInt64())
	assert.Equal(t, 1.5, got["f"].AsFloat64())
	assert.True(t, got["b"].AsBool())
	assert.Equal(t, []string{"a", "b"}, got["ss"].AsStringSlice())
	assert.Equal(t, "7", got["u"].AsString())
	assert.Equal(t, int64(2), got["app.resultCount"].AsInt64())
}

func TestObserverReceivesFinalizedSpans(t *testing.T) {
	tr, _ := newTestTracer(t)

	var mu sync.Mutex
	var ops []observability.OperationContext
	tr.WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, op)
	}))

	errBoom := errors.New("boom")
	_ = tr.Run(context.Background(), "observed", func(ctx context.Context, span *Span) error { return errBoom })

	require.Len(t, ops, 1)
	assert.Equal(t, "tracer", ops[0].Component)
	assert.Equal(t, "observed", ops[0].Operation)
	assert.True(t, errors.Is(ops[0].Error, errBoom))
}

func TestShutdownNilProvider(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
}
