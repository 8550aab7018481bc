package layer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// PathProps is implemented by props that carry path styling.
type PathProps[O any] interface {
	PathOptions() O
}

// Styled is implemented by instances whose style can change in place.
type Styled[O any] interface {
	SetStyle(options O) error
}

// PathFactory extends factory so that a change of path options alone calls
// SetStyle on the instance, after the factory's own Update. Options are
// compared structurally; nil and empty collections are equal.
func PathFactory[P PathProps[O], I Styled[O], O any](factory Factory[P, I]) Factory[P, I] {
	update := factory.Update
	factory.Update = func(instance I, props, prev P) error {
		if update != nil {
			if err := update(instance, props, prev); err != nil {
				return err
			}
		}
		next := props.PathOptions()
		if cmp.Equal(next, prev.PathOptions(), cmpopts.EquateEmpty()) {
			return nil
		}
		return instance.SetStyle(next)
	}
	return factory
}

// CreatePathComponent returns a leaf component whose style follows the
// props' path options.
func CreatePathComponent[P PathProps[O], I Styled[O], O any](create CreateFunc[P, I], update UpdateFunc[P, I]) *LeafComponent[P, I] {
	return NewLeafComponent(PathFactory[P, I, O](Factory[P, I]{Create: create, Update: update}))
}

// CreatePathContainerComponent is CreatePathComponent for layers hosting
// children.
func CreatePathContainerComponent[P PathProps[O], I Styled[O], O any](create CreateFunc[P, I], update UpdateFunc[P, I]) *ContainerComponent[P, I] {
	return NewContainerComponent(PathFactory[P, I, O](Factory[P, I]{Create: create, Update: update}))
}
