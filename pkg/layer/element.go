package layer

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Element pairs an imperative instance with the Context its descendants
// receive.
type Element[I any] struct {
	Instance I
	Context  Context
}

// NewElement pairs instance with the inherited context unchanged. Use it for
// layers that do not host children.
func NewElement[I any](instance I, ctx Context) Element[I] {
	return Element[I]{Instance: instance, Context: ctx}
}

// NewContainerElement pairs instance with a context whose container is the
// instance itself, so descendants attach to it.
func NewContainerElement[I Container](instance I, ctx Context) Element[I] {
	return Element[I]{Instance: instance, Context: ctx.WithContainer(instance)}
}

// CreateFunc allocates one new instance from props. It must not attach the
// instance anywhere.
type CreateFunc[P, I any] func(props P, ctx Context) (Element[I], error)

// UpdateFunc mutates instance to match props. Implementations compare props
// with prev one attribute at a time and only call the mutators whose
// attribute changed.
type UpdateFunc[P, I any] func(instance I, props, prev P) error

// Factory is the capability pair a wrapped object type supplies.
type Factory[P, I any] struct {
	Create CreateFunc[P, I]
	// Update may be nil for instances that never change after creation.
	Update UpdateFunc[P, I]
	// Equal decides whether Update runs at all. Nil compares props
	// structurally, unexported fields included, and skips func values: event
	// handlers follow the latest props without an Update, so a fresh closure
	// alone is not a change.
	Equal func(a, b P) bool
}

var defaultEqual = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().Type().Kind() == reflect.Func
	}, cmp.Ignore()),
}

func (f Factory[P, I]) equal(a, b P) bool {
	if f.Equal != nil {
		return f.Equal(a, b)
	}
	return cmp.Equal(a, b, defaultEqual...)
}
