// Package ellipse binds surface ellipses to layer components.
package ellipse

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-drift/layerkit/pkg/layer"
	"github.com/go-drift/layerkit/pkg/surface"
)

// Props describe an ellipse.
type Props struct {
	Center  surface.LatLng
	Radii   surface.Radii
	Tilt    float64
	Options surface.PathOptions
	// Handlers are bound while the ellipse is mounted. They are not part
	// of the compared attributes.
	Handlers layer.Handlers
}

func (p Props) PathOptions() surface.PathOptions {
	return p.Options
}

func (p Props) EventHandlers() layer.Handlers {
	return p.Handlers
}

// Create allocates a detached ellipse.
func Create(props Props, ctx layer.Context) (layer.Element[*surface.Ellipse], error) {
	e, err := surface.NewEllipse(props.Center, props.Radii, props.Tilt, props.Options)
	if err != nil {
		return layer.Element[*surface.Ellipse]{}, err
	}
	return layer.NewElement(e, ctx), nil
}

// Update calls one mutator per changed geometric attribute. Style changes
// are applied by the path factory.
func Update(e *surface.Ellipse, props, prev Props) error {
	if props.Center != prev.Center {
		if err := e.SetCenter(props.Center); err != nil {
			return err
		}
	}
	if props.Radii != prev.Radii {
		if err := e.SetRadii(props.Radii); err != nil {
			return err
		}
	}
	if props.Tilt != prev.Tilt {
		if err := e.SetTilt(props.Tilt); err != nil {
			return err
		}
	}
	return nil
}

// Equal compares the attributes Update and SetStyle act on, by value.
func Equal(a, b Props) bool {
	return a.Center == b.Center &&
		a.Radii == b.Radii &&
		a.Tilt == b.Tilt &&
		cmp.Equal(a.Options, b.Options, cmpopts.EquateEmpty())
}

// Factory is the create/update pair with style handling.
var Factory = layer.PathFactory[Props, *surface.Ellipse, surface.PathOptions](layer.Factory[Props, *surface.Ellipse]{
	Create: Create,
	Update: Update,
	Equal:  Equal,
})

// Ellipse builds ellipse widgets.
var Ellipse = layer.NewLeafComponent(Factory)
