package layer

import (
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-drift/layerkit/pkg/errors"
)

var (
	// ErrReleased is the cause of the precondition panic raised when a
	// released handle is acquired again.
	ErrReleased = stderrors.New("handle already released")
	// ErrNoContainer is returned by Mount when the context names no container.
	ErrNoContainer = stderrors.New("no container in context")
	// ErrDetached is returned by Unmount for a token that was already used.
	ErrDetached = stderrors.New("token already detached")
)

// Handle keeps one Element alive across any number of re-evaluations of the
// same declarative identity.
//
// The first Acquire creates the element. Later calls run the factory's
// Update only when props differ from the last props acquired. Those are
// recorded even when Update fails, since the mutators that ran before the
// failure are not undone: the next diff runs against what was attempted.
// After Release the handle is dead: acquiring it again is a programming
// error and panics.
type Handle[P, I any] struct {
	id        string
	factory   Factory[P, I]
	element   Element[I]
	lastProps P
	created   bool
	released  bool
}

// NewHandle returns an empty handle for factory.
func NewHandle[P, I any](factory Factory[P, I]) *Handle[P, I] {
	return &Handle[P, I]{
		id:      uuid.NewString(),
		factory: factory,
	}
}

// ID identifies the handle in logs and errors.
func (h *Handle[P, I]) ID() string {
	return h.id
}

// Acquire reconciles the handle against props. ctx is only consulted by the
// first, creating call.
func (h *Handle[P, I]) Acquire(props P, ctx Context) error {
	if h.released {
		panic(errors.New("layer.Acquire", errors.KindPrecondition, h.id, ErrReleased))
	}

	if !h.created {
		element, err := h.factory.Create(props, ctx)
		if err != nil {
			return errors.New("layer.Create", errors.KindDomain, h.id, err)
		}
		h.element = element
		h.lastProps = props
		h.created = true
		Logger().Debug("layer created", zap.String("handle", h.id))
		return nil
	}

	if h.factory.equal(props, h.lastProps) {
		return nil
	}
	prev := h.lastProps
	h.lastProps = props
	if h.factory.Update != nil {
		if err := h.factory.Update(h.element.Instance, props, prev); err != nil {
			return errors.New("layer.Update", errors.KindDomain, h.id, err)
		}
	}
	Logger().Debug("layer updated", zap.String("handle", h.id))
	return nil
}

// Element returns the current element. It is the zero Element before the
// first successful Acquire and after Release.
func (h *Handle[P, I]) Element() Element[I] {
	return h.element
}

// Props returns the props of the last Acquire that created or updated the
// instance, including one whose Update failed.
func (h *Handle[P, I]) Props() P {
	return h.lastProps
}

// Created reports whether the instance exists.
func (h *Handle[P, I]) Created() bool {
	return h.created && !h.released
}

// Released reports whether Release has been called.
func (h *Handle[P, I]) Released() bool {
	return h.released
}

// Release drops the handle's references to its instance. It is idempotent.
func (h *Handle[P, I]) Release() {
	if h.released {
		return
	}
	h.released = true
	h.element = Element[I]{}
	var zero P
	h.lastProps = zero
	Logger().Debug("layer released", zap.String("handle", h.id))
}
