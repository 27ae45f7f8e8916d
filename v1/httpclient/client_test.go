package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"

	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/observability"
	"github.com/Aleph-Alpha/spantrace/v1/tracer"
)

var traceParentPattern = regexp.MustCompile(`^00-([0-9a-f]{32})-([0-9a-f]{16})-01$`)

func newTestTracer(t *testing.T) (*tracer.Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tracer.NewClientWithProvider(tp, logger.NewNop()), recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func spansNamed(recorder *tracetest.SpanRecorder, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func TestRequestAgainstServerPropagatesTraceParent(t *testing.T) {
	var gotHeader, gotMethod, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("traceparent")
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"value":"bike A"},{"value":"bike B"}]`)
	}))
	defer server.Close()

	tr, recorder := newTestTracer(t)
	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, tr, logger.NewNop())
	defer client.Close()

	res, err := client.Request(context.Background(), "/api/items?limit=5&q=bicycle", Options{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `[{"value":"bike A"},{"value":"bike B"}]`, res.Text())
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "limit=5&q=bicycle", gotQuery)
	require.Regexp(t, traceParentPattern, gotHeader)

	spans := spansNamed(recorder, "Request: GET /api/items?limit=5&q=bicycle")
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Equal(t, "GET", attrs(span)[AttrRequestMethod].AsString())
	assert.Equal(t, "/api/items?limit=5&q=bicycle", attrs(span)[AttrRequestURL].AsString())
	assert.Equal(t, int64(200), attrs(span)[AttrResponseStatusCode].AsInt64())

	m := traceParentPattern.FindStringSubmatch(gotHeader)
	assert.Equal(t, span.SpanContext().TraceID().String(), m[1])
	assert.Equal(t, span.SpanContext().SpanID().String(), m[2])
}

func TestRequestHTTPErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not found")
	}))
	defer server.Close()

	tr, recorder := newTestTracer(t)
	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, tr, logger.NewNop())

	res, err := client.Request(context.Background(), "/missing", Options{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not found", res.Text())

	span := recorder.Ended()[0]
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Equal(t, int64(404), attrs(span)[AttrResponseStatusCode].AsInt64())
}

func TestRequestComputedTraceParentOverridesCallerValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	tr, recorder := newTestTracer(t)

	var captured FetchRequest
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req FetchRequest) (*Response, error) {
			captured = req
			return NewResponse(http.StatusCreated, nil, nil), nil
		})

	client := NewClientWithFetcher(tr, fetcher, logger.NewNop())
	_, err := client.Request(context.Background(), "/api/items", Options{
		Method: "post",
		Headers: map[string]string{
			"TraceParent":  "00-bogus-bogus-00",
			"X-Request-Id": "abc-123",
		},
		Body: `{"value":"bike C"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "POST", captured.Method)
	assert.Equal(t, "/api/items", captured.URL)
	assert.Equal(t, `{"value":"bike C"}`, captured.Body)
	assert.Equal(t, "abc-123", captured.Header.Get("X-Request-Id"))
	assert.Len(t, captured.Header.Values("traceparent"), 1)

	span := spansNamed(recorder, "Request: POST /api/items")[0]
	assert.Equal(t, tracer.FormatTraceParent(span.SpanContext()), captured.Header.Get("traceparent"))
}

func TestSiblingRequestsUseTheirOwnChildSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	tr, recorder := newTestTracer(t)

	var headers []string
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(ctx context.Context, req FetchRequest) (*Response, error) {
			headers = append(headers, req.Header.Get("traceparent"))
			return NewResponse(http.StatusOK, nil, []byte("[]")), nil
		})

	client := NewClientWithFetcher(tr, fetcher, logger.NewNop())

	var parentTraceID, parentSpanID string
	err := tr.Run(context.Background(), "submit fetch", func(ctx context.Context, span *tracer.Span) error {
		parentTraceID, parentSpanID = span.TraceID(), span.SpanID()
		if _, err := client.Request(ctx, "/a", Options{}); err != nil {
			return err
		}
		_, err := client.Request(ctx, "/b", Options{})
		return err
	})
	require.NoError(t, err)
	require.Len(t, headers, 2)

	first := traceParentPattern.FindStringSubmatch(headers[0])
	second := traceParentPattern.FindStringSubmatch(headers[1])
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.Equal(t, parentTraceID, first[1])
	assert.Equal(t, parentTraceID, second[1])
	assert.NotEqual(t, first[2], second[2])
	assert.NotEqual(t, parentSpanID, first[2])

	a := spansNamed(recorder, "Request: GET /a")[0]
	b := spansNamed(recorder, "Request: GET /b")[0]
	assert.Equal(t, a.SpanContext().SpanID().String(), first[2])
	assert.Equal(t, b.SpanContext().SpanID().String(), second[2])
	assert.Equal(t, parentSpanID, a.Parent().SpanID().String())
}

func TestRequestTransportFailurePropagatesUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	tr, recorder := newTestTracer(t)
	errNetwork := errors.New("network down")

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errNetwork)

	client := NewClientWithFetcher(tr, fetcher, logger.NewNop())
	res, err := client.Request(context.Background(), "/api/items", Options{})

	assert.Nil(t, res)
	assert.True(t, err == errNetwork, "transport error must not be wrapped")

	span := recorder.Ended()[0]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "network down", attrs(span)[tracer.AttrError].AsString())
	_, hasStatus := attrs(span)[AttrResponseStatusCode]
	assert.False(t, hasStatus)
}

func TestRequestRealTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	tr, recorder := newTestTracer(t)
	client := NewClient(Config{Timeout: time.Second}, tr, logger.NewNop())

	_, err := client.Request(context.Background(), url+"/api/items", Options{})
	require.Error(t, err)

	span := recorder.Ended()[0]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, err.Error(), attrs(span)[tracer.AttrError].AsString())
}

func TestRequestTimeoutFinalizesSpan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	tr, recorder := newTestTracer(t)
	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, tr, logger.NewNop())

	_, err := client.Request(context.Background(), "/slow", Options{})
	require.Error(t, err)

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Error, recorder.Ended()[0].Status().Code)
}

func TestRequestLimiterHonoursCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	tr, recorder := newTestTracer(t)

	client := NewClientWithFetcher(tr, fetcher, logger.NewNop()).
		WithLimiter(rate.NewLimiter(rate.Limit(1), 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Request(ctx, "/api/items", Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, codes.Error, recorder.Ended()[0].Status().Code)
}

func TestRequestNotifiesObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	tr, _ := newTestTracer(t)

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(NewResponse(http.StatusOK, nil, []byte("[1,2]")), nil)

	var ops []observability.OperationContext
	client := NewClientWithFetcher(tr, fetcher, logger.NewNop()).
		WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
			ops = append(ops, op)
		}))

	_, err := client.Request(context.Background(), "/api/items", Options{Method: "GET"})
	require.NoError(t, err)

	require.Len(t, ops, 1)
	assert.Equal(t, "httpclient", ops[0].Component)
	assert.Equal(t, "GET", ops[0].Operation)
	assert.Equal(t, "/api/items", ops[0].Resource)
	assert.Equal(t, int64(5), ops[0].Size)
	assert.Equal(t, http.StatusOK, ops[0].Metadata["status_code"])
}

func TestResponseDecoding(t *testing.T) {
	res := NewResponse(http.StatusOK, nil, []byte(`[{"value":"bike A"}]`))

	var items []struct {
		Value string `json:"value"`
	}
	require.NoError(t, res.JSON(&items))
	assert.Equal(t, "bike A", items[0].Value)

	bad := NewResponse(http.StatusOK, nil, []byte("not json"))
	assert.Error(t, bad.JSON(&items))
	assert.True(t, strings.HasPrefix(bad.Text(), "not"))
}
