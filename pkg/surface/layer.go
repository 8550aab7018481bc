package surface

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
)

var (
	// ErrNotLayer is returned when a container is handed something that is
	// not a surface layer.
	ErrNotLayer = errors.New("surface: not a layer")
	// ErrAlreadyAdded is returned when a layer already has a container.
	ErrAlreadyAdded = errors.New("surface: layer already added")
	// ErrNotFound is returned when removing a layer the container does not hold.
	ErrNotFound = errors.New("surface: layer not in container")
	// ErrDisposed is returned by containers after Dispose.
	ErrDisposed = errors.New("surface: container disposed")
)

var nextID atomic.Uint64

func newID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, nextID.Add(1))
}

// Layer is an object a Map or Group can hold.
type Layer interface {
	ID() string
	// Parent returns the ID of the holding container, or "" when detached.
	Parent() string
	base() *layerBase
}

// parentNode is implemented by containers to receive events bubbling up
// from their layers.
type parentNode interface {
	ID() string
	propagate(ev Event)
}

type layerBase struct {
	evented
	id     string
	parent parentNode
}

func (l *layerBase) ID() string {
	return l.id
}

func (l *layerBase) Parent() string {
	if l.parent == nil {
		return ""
	}
	return l.parent.ID()
}

func (l *layerBase) base() *layerBase {
	return l
}

// Fire delivers ev to the layer's listeners and bubbles it to its container.
func (l *layerBase) Fire(eventType EventType, payload any) {
	l.fire(Event{Type: eventType, Target: l.id, Payload: payload})
}

func (l *layerBase) fire(ev Event) {
	l.notify(ev)
	if l.parent != nil {
		l.parent.propagate(ev)
	}
}

// layerList is the bookkeeping shared by Map and Group.
type layerList struct {
	layers   []Layer
	disposed bool
}

func (c *layerList) add(owner parentNode, value any) error {
	if c.disposed {
		return ErrDisposed
	}
	layer, ok := value.(Layer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotLayer, value)
	}
	base := layer.base()
	if base.parent != nil {
		return fmt.Errorf("%w: %s in %s", ErrAlreadyAdded, base.id, base.parent.ID())
	}
	base.parent = owner
	c.layers = append(c.layers, layer)
	base.fire(Event{Type: EventAdd, Target: base.id, Container: owner.ID()})
	return nil
}

func (c *layerList) remove(owner parentNode, value any) error {
	if c.disposed {
		return ErrDisposed
	}
	layer, ok := value.(Layer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotLayer, value)
	}
	index := slices.Index(c.layers, layer)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, layer.ID())
	}
	base := layer.base()
	base.fire(Event{Type: EventRemove, Target: base.id, Container: owner.ID()})
	base.parent = nil
	c.layers = slices.Delete(c.layers, index, index+1)
	return nil
}

func (c *layerList) snapshot() []Layer {
	return slices.Clone(c.layers)
}
