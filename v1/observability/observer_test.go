package observability

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func TestObserverFunc(t *testing.T) {
	var got OperationContext
	obs := ObserverFunc(func(ctx OperationContext) { got = ctx })

	obs.ObserveOperation(OperationContext{Component: "tracer", Operation: "submit fetch"})

	if got.Component != "tracer" || got.Operation != "submit fetch" {
		t.Fatalf("unexpected operation %#v", got)
	}
}

func TestMultiSkipsNilAndFansOut(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	errBoom := errors.New("boom")

	Multi(a, nil, b).ObserveOperation(OperationContext{
		Component: "httpclient",
		Duration:  5 * time.Millisecond,
		Error:     errBoom,
	})

	for i, r := range []*recordingObserver{a, b} {
		if len(r.ops) != 1 {
			t.Fatalf("observer %d: expected 1 operation, got %d", i, len(r.ops))
		}
		if !errors.Is(r.ops[0].Error, errBoom) {
			t.Fatalf("observer %d: expected error to be forwarded", i)
		}
	}
}
