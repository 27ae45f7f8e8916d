package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/observability"
	"github.com/Aleph-Alpha/spantrace/v1/tracer"
)

// Span attribute keys set on every request span.
const (
	AttrRequestMethod      = "request.method"
	AttrRequestURL         = "request.url"
	AttrResponseStatusCode = "response.status_code"
)

// Client performs HTTP requests inside a child span and propagates the trace
// to the receiving service through the traceparent header.
type Client struct {
	tracer   *tracer.Tracer
	fetcher  Fetcher
	limiter  *rate.Limiter
	logger   logger.Logger
	observer observability.Observer
}

// NewClient builds a Client over a RestyFetcher configured from cfg.
func NewClient(cfg Config, t *tracer.Tracer, log logger.Logger) *Client {
	c := NewClientWithFetcher(t, NewRestyFetcher(cfg), log)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// NewClientWithFetcher builds a Client over any Fetcher.
func NewClientWithFetcher(t *tracer.Tracer, f Fetcher, log logger.Logger) *Client {
	return &Client{tracer: t, fetcher: f, logger: log}
}

// WithLimiter sets a rate limiter waited on before every request.
// It returns the same instance for chaining.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// WithObserver attaches an observer notified once per request.
// It returns the same instance for chaining.
func (c *Client) WithObserver(o observability.Observer) *Client {
	c.observer = o
	return c
}

// Request issues a request to url inside a span named "Request: <METHOD> <url>".
//
// The span carries request.method, request.url and, once the call resolves,
// response.status_code. The traceparent header is computed from that span,
// so the receiving service continues the trace as its child.
//
// Any HTTP status is returned as a Response; deciding that a status is a
// failure is up to the caller. Transport errors are returned unchanged after
// the span recorded them.
//
// Example:
//
//	res, err := client.Request(ctx, "/api/items?limit=5&q=bicycle", httpclient.Options{})
//	if err != nil {
//	    return err
//	}
//	if res.StatusCode >= 400 {
//	    // caller-defined failure handling
//	}
func (c *Client) Request(ctx context.Context, url string, opts Options) (*Response, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	res, err := tracer.RunInSpan(ctx, c.tracer, fmt.Sprintf("Request: %s %s", method, url),
		func(ctx context.Context, span *tracer.Span) (*Response, error) {
			span.SetAttributes(map[string]interface{}{
				AttrRequestMethod: method,
				AttrRequestURL:    url,
			})

			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return nil, err
				}
			}

			res, err := c.fetcher.Fetch(ctx, FetchRequest{
				Method: method,
				URL:    url,
				Header: requestHeader(ctx, opts.Headers),
				Body:   opts.Body,
			})
			if err != nil {
				return nil, err
			}

			span.SetAttribute(AttrResponseStatusCode, res.StatusCode)
			return res, nil
		})

	c.observe(method, url, start, res, err)
	if err != nil {
		c.logger.WarnWithContext(ctx, "request failed", err, map[string]interface{}{
			"method": method,
			"url":    url,
		})
		return nil, err
	}

	c.logger.DebugWithContext(ctx, "request completed", nil, map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": res.StatusCode,
	})
	return res, nil
}

// requestHeader merges caller headers with the traceparent of the span in ctx.
// A caller-supplied traceparent, in any letter case, is dropped.
func requestHeader(ctx context.Context, headers map[string]string) http.Header {
	header := make(http.Header, len(headers)+1)
	for key, value := range headers {
		if strings.EqualFold(key, tracer.TraceParentHeader) {
			continue
		}
		header.Set(key, value)
	}
	if traceParent, ok := tracer.TraceParent(ctx); ok {
		header.Set(tracer.TraceParentHeader, traceParent)
	}
	return header
}

func (c *Client) observe(method, url string, start time.Time, res *Response, err error) {
	if c.observer == nil {
		return
	}

	op := observability.OperationContext{
		Component: "httpclient",
		Operation: method,
		Resource:  url,
		Duration:  time.Since(start),
		Error:     err,
	}
	if res != nil {
		op.Size = int64(len(res.body))
		op.Metadata = map[string]interface{}{"status_code": res.StatusCode}
	}
	c.observer.ObserveOperation(op)
}

// Close releases resources held by the fetcher, if it has any.
func (c *Client) Close() error {
	if closer, ok := c.fetcher.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
