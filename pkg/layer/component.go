package layer

import (
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/go-drift/layerkit/pkg/core"
	"github.com/go-drift/layerkit/pkg/errors"
)

// component is what a leaf or container factory closes over. Its id is part
// of every widget key, so two components over the same prop and instance
// types never share an identity.
type component[P, I any] struct {
	id        string
	factory   Factory[P, I]
	container bool
}

func newComponent[P, I any](factory Factory[P, I], container bool) *component[P, I] {
	return &component[P, I]{
		id:        uuid.NewString(),
		factory:   factory,
		container: container,
	}
}

type componentKey struct {
	component string
	key       any
}

type layerWidget[P, I any] struct {
	core.StatefulBase
	component *component[P, I]
	props     P
	key       any
	children  []core.Widget
}

func (w layerWidget[P, I]) Key() any {
	return componentKey{component: w.component.id, key: w.key}
}

func (w layerWidget[P, I]) CreateState() core.State {
	return &layerState[P, I]{}
}

// layerState composes the two lifecycles of one identity: the handle
// (created, then updated any number of times) and the attachment (mounted
// once after the first successful build, unmounted once on dispose).
type layerState[P, I any] struct {
	core.StateBase
	handle *Handle[P, I]
	token  *Token
	events eventBinding
}

func (s *layerState[P, I]) Build(ctx core.BuildContext) core.Widget {
	w := ctx.Widget().(layerWidget[P, I])
	inherited := ContextOf(ctx)

	if s.handle == nil {
		s.handle = NewHandle(w.component.factory)
		s.OnDispose(s.handle.Release)
	}
	acquired := true
	if err := s.handle.Acquire(w.props, inherited); err != nil {
		report(err)
		if !s.handle.Created() {
			return nil
		}
		// A failed update leaves the instance mounted with its children.
		// Handlers stay bound to the props of the last successful render.
		acquired = false
	}

	element := s.handle.Element()
	if s.token == nil {
		token, err := Mount(element, inherited)
		if err != nil {
			report(err)
			return nil
		}
		s.token = token
		s.OnDispose(s.detach)
	}
	if acquired {
		s.events.sync(element.Instance, w.props)
	}

	if !w.component.container {
		return nil
	}
	return Provider{
		Context: element.Context,
		Child:   core.Fragment{Children: w.children},
	}
}

// detach unbinds handlers and removes the instance from its pinned
// container. It runs before the handle is released.
func (s *layerState[P, I]) detach() {
	s.events.clear()
	if err := Unmount(s.token); err != nil {
		report(err)
	}
	s.token = nil
}

func report(err error) {
	var le *errors.LayerError
	if !stderrors.As(err, &le) {
		le = errors.New("layer.Build", errors.KindUnknown, "", err)
	}
	errors.Report(le)
}

// LeafComponent builds widgets for a layer type that hosts no children.
// The widgets render nothing themselves; all output comes from the
// instance.
type LeafComponent[P, I any] struct {
	component *component[P, I]
}

// NewLeafComponent returns a leaf component for factory.
func NewLeafComponent[P, I any](factory Factory[P, I]) *LeafComponent[P, I] {
	return &LeafComponent[P, I]{component: newComponent(factory, false)}
}

// CreateLeafComponent returns a leaf component for the create/update pair.
func CreateLeafComponent[P, I any](create CreateFunc[P, I], update UpdateFunc[P, I]) *LeafComponent[P, I] {
	return NewLeafComponent(Factory[P, I]{Create: create, Update: update})
}

// New returns a positional widget for props.
func (c *LeafComponent[P, I]) New(props P) core.Widget {
	return c.Keyed(nil, props)
}

// Keyed returns a widget whose identity follows key among its siblings.
// key must be comparable.
func (c *LeafComponent[P, I]) Keyed(key any, props P) core.Widget {
	return layerWidget[P, I]{component: c.component, props: props, key: key}
}

// ContainerComponent builds widgets for a layer type that hosts children.
// Children are built under the context returned by Create, so a Create that
// uses NewContainerElement makes them attach to this layer.
type ContainerComponent[P, I any] struct {
	component *component[P, I]
}

// NewContainerComponent returns a container component for factory.
func NewContainerComponent[P, I any](factory Factory[P, I]) *ContainerComponent[P, I] {
	return &ContainerComponent[P, I]{component: newComponent(factory, true)}
}

// CreateContainerComponent returns a container component for the
// create/update pair.
func CreateContainerComponent[P, I any](create CreateFunc[P, I], update UpdateFunc[P, I]) *ContainerComponent[P, I] {
	return NewContainerComponent(Factory[P, I]{Create: create, Update: update})
}

// New returns a positional widget for props and children.
func (c *ContainerComponent[P, I]) New(props P, children ...core.Widget) core.Widget {
	return c.Keyed(nil, props, children...)
}

// Keyed returns a widget whose identity follows key among its siblings.
func (c *ContainerComponent[P, I]) Keyed(key any, props P, children ...core.Widget) core.Widget {
	return layerWidget[P, I]{component: c.component, props: props, key: key, children: children}
}
