package tracer

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Attribute keys written by RunInSpan on failure.
const (
	AttrError      = "app.error"
	AttrErrorStack = "app.error.stack"
)

// ErrUnitOfWorkExited finalizes a span whose unit of work called runtime.Goexit
// instead of returning.
var ErrUnitOfWorkExited = errors.New("tracer: unit of work exited")

// PanicError describes a panic that escaped a unit of work. It is only used to
// annotate the span; the original panic value is re-raised unchanged.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// errorStack returns a printable stack for err, or "" when none was captured.
func errorStack(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}
