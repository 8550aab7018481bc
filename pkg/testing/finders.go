package testing

import (
	"fmt"
	"reflect"

	"github.com/go-drift/layerkit/pkg/surface"
)

// Finder locates layers on the surface.
type Finder interface {
	// Evaluate returns all matching layers under m (depth-first pre-order,
	// attach order among siblings).
	Evaluate(m *surface.Map) []surface.Layer
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	layers []surface.Layer
	finder Finder
}

// Find evaluates finder against the tester's map.
func (t *LayerTester) Find(finder Finder) FinderResult {
	return FinderResult{layers: finder.Evaluate(t.surface), finder: finder}
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() surface.Layer {
	if len(r.layers) == 0 {
		panic(fmt.Sprintf("Finder found no layers: %s", r.description()))
	}
	return r.layers[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() surface.Layer {
	if len(r.layers) == 0 {
		return nil
	}
	return r.layers[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) surface.Layer {
	if index < 0 || index >= len(r.layers) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.layers), r.description()))
	}
	return r.layers[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []surface.Layer {
	return r.layers
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.layers)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.layers) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type typeFinder struct {
	layerType reflect.Type
}

func (f *typeFinder) Evaluate(m *surface.Map) []surface.Layer {
	return collectMatches(m, func(l surface.Layer) bool {
		return reflect.TypeOf(l) == f.layerType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.layerType)
}

// ByType returns a finder that matches layers of type T, such as
// *surface.Ellipse.
func ByType[T surface.Layer]() Finder {
	return &typeFinder{layerType: reflect.TypeFor[T]()}
}

type idFinder struct {
	id string
}

func (f *idFinder) Evaluate(m *surface.Map) []surface.Layer {
	return collectMatches(m, func(l surface.Layer) bool {
		return l.ID() == f.id
	})
}

func (f *idFinder) Description() string {
	return fmt.Sprintf("ByID(%q)", f.id)
}

// ByID returns a finder that matches the layer with the given surface id.
func ByID(id string) Finder {
	return &idFinder{id: id}
}

type parentFinder struct {
	parent string
}

func (f *parentFinder) Evaluate(m *surface.Map) []surface.Layer {
	return collectMatches(m, func(l surface.Layer) bool {
		return l.Parent() == f.parent
	})
}

func (f *parentFinder) Description() string {
	return fmt.Sprintf("ByParent(%q)", f.parent)
}

// ByParent returns a finder that matches the layers attached directly to the
// container with the given id.
func ByParent(id string) Finder {
	return &parentFinder{parent: id}
}

type predicateFinder struct {
	fn   func(surface.Layer) bool
	desc string
}

func (f *predicateFinder) Evaluate(m *surface.Map) []surface.Layer {
	return collectMatches(m, f.fn)
}

func (f *predicateFinder) Description() string {
	return fmt.Sprintf("Where(%s)", f.desc)
}

// Where returns a finder that matches layers satisfying fn.
func Where(desc string, fn func(surface.Layer) bool) Finder {
	return &predicateFinder{fn: fn, desc: desc}
}

func collectMatches(m *surface.Map, match func(surface.Layer) bool) []surface.Layer {
	var out []surface.Layer
	var walk func(layers []surface.Layer)
	walk = func(layers []surface.Layer) {
		for _, l := range layers {
			if match(l) {
				out = append(out, l)
			}
			if g, ok := l.(*surface.Group); ok {
				walk(g.Layers())
			}
		}
	}
	walk(m.Layers())
	return out
}
