package scene

import (
	"github.com/go-drift/layerkit/pkg/core"
	"github.com/go-drift/layerkit/pkg/ellipse"
	"github.com/go-drift/layerkit/pkg/group"
	"github.com/go-drift/layerkit/pkg/layer"
	"github.com/go-drift/layerkit/pkg/surface"
)

// Widget returns the frame's layers as siblings keyed by node id.
func (f Frame) Widget() core.Widget {
	return core.Fragment{Children: widgets(f.Nodes)}
}

func widgets(nodes []Node) []core.Widget {
	out := make([]core.Widget, 0, len(nodes))
	for _, node := range nodes {
		if w := node.Widget(); w != nil {
			out = append(out, w)
		}
	}
	return out
}

// Widget returns the node as a keyed layer widget, or nil for an unknown
// kind. Call it on validated nodes only.
func (n Node) Widget() core.Widget {
	switch n.Kind {
	case KindEllipse:
		return ellipse.Ellipse.Keyed(n.ID, n.EllipseProps())
	case KindGroup:
		return group.Group.Keyed(n.ID, group.Props{}, widgets(n.Children)...)
	}
	return nil
}

// EllipseProps converts an ellipse node.
func (n Node) EllipseProps() ellipse.Props {
	var props ellipse.Props
	if len(n.Center) == 2 {
		props.Center = surface.LatLng{Lat: n.Center[0], Lng: n.Center[1]}
	}
	if len(n.Radii) == 2 {
		props.Radii = surface.Radii{SemiMajor: n.Radii[0], SemiMinor: n.Radii[1]}
	}
	props.Tilt = n.Tilt
	props.Options = n.Options
	return props
}

// Player shows frames one after another on a container.
type Player struct {
	container layer.Container
	tree      *core.Tree
	shown     int
}

// NewPlayer returns a player drawing into container.
func NewPlayer(container layer.Container) *Player {
	return &Player{container: container, tree: core.NewTree()}
}

// Show reconciles the surface against frame.
func (p *Player) Show(frame Frame) {
	p.tree.Pump(layer.Root(p.container, frame.Widget()))
	p.shown++
}

// Shown returns how many frames have been shown.
func (p *Player) Shown() int {
	return p.shown
}

// Close removes everything the player attached.
func (p *Player) Close() {
	p.tree.Pump(nil)
}
