// Package group binds surface groups to container components, so layers
// declared inside a group attach to it.
package group

import (
	"github.com/go-drift/layerkit/pkg/layer"
	"github.com/go-drift/layerkit/pkg/surface"
)

// Props describe a group. Groups have no mutable attributes.
type Props struct{}

// Create allocates a detached group and makes it the container for its
// children.
func Create(_ Props, ctx layer.Context) (layer.Element[*surface.Group], error) {
	return layer.NewContainerElement(surface.NewGroup(), ctx), nil
}

// Group builds group widgets.
var Group = layer.CreateContainerComponent[Props, *surface.Group](Create, nil)
