// Package errors provides structured error handling for layer lifecycles.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPrecondition indicates a caller contract breach, such as updating
	// a released handle or mounting without a container.
	KindPrecondition
	// KindDomain indicates the imperative instance rejected a create or
	// mutator call (for example invalid geometry).
	KindDomain
	// KindAttach indicates a container refused to attach or detach a layer.
	KindAttach
	// KindPanic classifies a PanicError.
	KindPanic
	// KindBuild classifies a BuildError.
	KindBuild
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindDomain:
		return "domain"
	case KindAttach:
		return "attach"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// LayerError represents a structured lifecycle error.
type LayerError struct {
	// Op is the operation that failed (e.g., "layer.Mount").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Layer is the handle or token id involved, if any.
	Layer string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LayerError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("%s [%s] layer=%s: %v", e.Op, e.Kind, e.Layer, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *LayerError) Unwrap() error {
	return e.Err
}

// New builds a LayerError stamped with the current time.
func New(op string, kind ErrorKind, layer string, err error) *LayerError {
	return &LayerError{
		Op:        op,
		Kind:      kind,
		Layer:     layer,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// KindOf classifies err: the kind of the outermost LayerError in its chain,
// KindPanic for a recovered panic, KindBuild for a build failure, and
// KindUnknown otherwise.
func KindOf(err error) ErrorKind {
	var le *LayerError
	var pe *PanicError
	var be *BuildError
	switch {
	case stderrors.As(err, &le):
		return le.Kind
	case stderrors.As(err, &pe):
		return KindPanic
	case stderrors.As(err, &be):
		return KindBuild
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "layer.Unmount").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BuildError represents a failure during widget build.
type BuildError struct {
	// Widget is the type name of the widget that failed.
	Widget string
	// Element is the element type (StatelessElement, StatefulElement, etc.).
	Element string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Build(): %v", e.Widget, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Build(): %v", e.Widget, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Build()", e.Widget)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the framework.
type ErrorHandler interface {
	// HandleError is called when a lifecycle operation fails.
	HandleError(err *LayerError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a widget build fails.
	HandleBuildError(err *BuildError)
}
