package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// Options describes one request. Zero values mean GET without headers or body.
type Options struct {
	// Method defaults to GET.
	Method string

	// Headers are sent as given, except traceparent which is always replaced
	// by the value derived from the request span.
	Headers map[string]string

	// Body is passed to the fetcher untouched: string, []byte, io.Reader, or
	// any value the fetcher encodes as JSON.
	Body interface{}
}

// FetchRequest is what the Client hands to a Fetcher.
type FetchRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   interface{}
}

// Fetcher performs the network call. It returns an error only for transport
// failures; any HTTP status, including >= 400, is a successful fetch.
//
//go:generate mockgen -source=types.go -destination=mock_fetcher.go -package=httpclient
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (*Response, error)
}

// Response is the raw result of a request. The body is fully read; decoding
// is left to the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	body       []byte
}

// NewResponse builds a Response, mainly for Fetcher implementations and tests.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	if header == nil {
		header = http.Header{}
	}
	return &Response{StatusCode: statusCode, Header: header, body: body}
}

// Bytes returns the raw body.
func (r *Response) Bytes() []byte {
	return r.body
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.body, v)
}
