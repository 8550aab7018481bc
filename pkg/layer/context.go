package layer

import (
	"maps"
	"reflect"
	"slices"
)

// Key names a Context entry.
type Key string

// ContainerKey names the container new layers attach to.
const ContainerKey Key = "container"

// Container accepts and removes layers. A Container is itself a valid
// ContainerKey value, so containers nest.
type Container interface {
	AddLayer(layer any) error
	RemoveLayer(layer any) error
}

// Context is an immutable set of values threaded down the tree. The zero
// Context is empty and ready to use.
//
// A Context is never modified after construction: deriving one copies the
// parent's entries, so siblings deriving from the same parent never observe
// each other's overrides.
type Context struct {
	values map[Key]any
}

// NewContext returns a Context holding a copy of values.
func NewContext(values map[Key]any) Context {
	if len(values) == 0 {
		return Context{}
	}
	return Context{values: maps.Clone(values)}
}

// DeriveChildContext returns a new Context equal to parent with overrides
// applied. parent is left untouched.
func DeriveChildContext(parent Context, overrides map[Key]any) Context {
	if len(overrides) == 0 {
		return parent
	}
	values := make(map[Key]any, len(parent.values)+len(overrides))
	maps.Copy(values, parent.values)
	maps.Copy(values, overrides)
	return Context{values: values}
}

// Value returns the entry for key.
func (c Context) Value(key Key) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Container returns the current attachment point, if one is set.
func (c Context) Container() (Container, bool) {
	v, ok := c.values[ContainerKey]
	if !ok {
		return nil, false
	}
	container, ok := v.(Container)
	return container, ok && container != nil
}

// WithContainer derives a Context whose ContainerKey is container.
func (c Context) WithContainer(container Container) Context {
	return DeriveChildContext(c, map[Key]any{ContainerKey: container})
}

// Keys returns the entry names in sorted order.
func (c Context) Keys() []Key {
	return slices.Sorted(maps.Keys(c.values))
}

// Len returns the number of entries.
func (c Context) Len() int {
	return len(c.values)
}

// Equal reports whether both contexts hold the same entries. Values are
// compared by identity for pointers and by value for comparable types;
// values that cannot be compared never match.
func (c Context) Equal(other Context) bool {
	if len(c.values) != len(other.values) {
		return false
	}
	for key, v := range c.values {
		w, ok := other.values[key]
		if !ok || !sameValue(v, w) {
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
