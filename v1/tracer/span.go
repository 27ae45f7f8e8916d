package tracer

import (
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the handle a unit of work receives from RunInSpan.
//
// It exposes everything a unit of work may do to its span except ending it:
// the scope that created the span is the only one allowed to finalize it.
// A status set through SetStatus is applied when the span is finalized; a
// failing unit of work always ends with codes.Error.
type Span struct {
	span trace.Span

	mu          sync.Mutex
	status      codes.Code
	description string
	statusSet   bool

	endOnce sync.Once
}

func newSpan(span trace.Span) *Span {
	return &Span{span: span}
}

// SetAttributes adds typed attributes. See Tracer.SetAttributes for the
// supported value types.
func (s *Span) SetAttributes(attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}
	s.span.SetAttributes(toAttributes(attrs)...)
}

// SetAttribute adds a single attribute.
func (s *Span) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

// AddEvent records a named event with optional attributes.
func (s *Span) AddEvent(name string, attrs map[string]interface{}) {
	s.span.AddEvent(name, trace.WithAttributes(toAttributes(attrs)...))
}

// SetStatus records the status the span ends with when the unit of work
// returns without error.
func (s *Span) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
	s.description = description
	s.statusSet = true
}

// Status returns the status recorded so far, codes.Unset if none.
func (s *Span) Status() (codes.Code, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.description
}

// SpanContext returns the identifiers of the span.
func (s *Span) SpanContext() trace.SpanContext {
	return s.span.SpanContext()
}

// TraceID returns the canonical 32 hex character trace identifier.
func (s *Span) TraceID() string {
	return s.span.SpanContext().TraceID().String()
}

// SpanID returns the canonical 16 hex character span identifier.
func (s *Span) SpanID() string {
	return s.span.SpanContext().SpanID().String()
}

// TraceParent returns the propagation header value for this span.
func (s *Span) TraceParent() string {
	return FormatTraceParent(s.span.SpanContext())
}

// finish applies the final status and ends the underlying span. Only the first
// call has an effect.
func (s *Span) finish(err error) {
	s.endOnce.Do(func() {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
			attrs := []attribute.KeyValue{attribute.String(AttrError, err.Error())}
			if stack := errorStack(err); stack != "" {
				attrs = append(attrs, attribute.String(AttrErrorStack, stack))
			}
			s.span.SetAttributes(attrs...)
		} else {
			code, description := s.Status()
			if code == codes.Unset {
				code = codes.Ok
			}
			s.span.SetStatus(code, description)
		}
		s.span.End()
	})
}
