package testing

import (
	"fmt"

	"github.com/go-drift/layerkit/pkg/surface"
)

// firer is implemented by every surface layer that emits events.
type firer interface {
	Fire(eventType surface.EventType, payload any)
}

// Click fires a click event on the first layer matched by finder.
func (t *LayerTester) Click(finder Finder) error {
	return t.ClickWith(finder, nil)
}

// ClickWith fires a click event carrying payload on the first layer matched
// by finder.
func (t *LayerTester) ClickWith(finder Finder, payload any) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Click: finder matched no layers: %s", finder.Description())
	}
	target, ok := result.First().(firer)
	if !ok {
		return fmt.Errorf("Click: layer %s cannot fire events", result.First().ID())
	}
	target.Fire(surface.EventClick, payload)
	return nil
}
