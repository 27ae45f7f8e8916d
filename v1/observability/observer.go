// Package observability defines the hook through which tracer, httpclient and
// items report finished operations to metrics or any other sink.
//
// Components call Observer.ObserveOperation once per completed operation. A nil
// observer is always allowed and means "do nothing".
package observability

import "time"

// Observer receives a notification for every completed operation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component is the package that performed the operation, e.g. "tracer" or "httpclient".
	Component string

	// Operation is the span name or HTTP method.
	Operation string

	// Resource is the primary target, e.g. a request URL.
	Resource string

	// SubResource carries additional context such as a search term.
	SubResource string

	Duration time.Duration
	Error    error

	// Size is a payload size in bytes, 0 when unknown.
	Size int64

	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

// Multi fans a notification out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	filtered := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return ObserverFunc(func(ctx OperationContext) {
		for _, o := range filtered {
			o.ObserveOperation(ctx)
		}
	})
}
