package testing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-drift/layerkit/pkg/core"
	"github.com/go-drift/layerkit/pkg/errors"
	"github.com/go-drift/layerkit/pkg/layer"
	"github.com/go-drift/layerkit/pkg/surface"
)

// LayerTester mounts widgets over an in-memory surface map and records
// everything that happens to it.
type LayerTester struct {
	tree    *core.Tree
	surface *surface.Map
	events  []surface.Event
	trace   []surface.Event
	reports *reportCollector
	aliases map[string]string
	counts  map[string]int
	stopObs func()
	restore errors.ErrorHandler
	cleaned bool
}

// NewLayerTester creates a tester with an empty map. It installs an error
// handler collecting reports; call Cleanup when done, or use
// NewLayerTesterWithT instead.
func NewLayerTester() *LayerTester {
	t := &LayerTester{
		tree:    core.NewTree(),
		surface: surface.NewMap(),
		reports: &reportCollector{},
		aliases: make(map[string]string),
		counts:  make(map[string]int),
	}
	t.alias(t.surface.ID())
	t.stopObs = t.surface.Observe(func(ev surface.Event) {
		t.alias(ev.Target)
		t.events = append(t.events, ev)
		t.trace = append(t.trace, ev)
	})
	t.restore = errors.SetHandler(t.reports)
	return t
}

// NewLayerTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewLayerTesterWithT(t testing.TB) *LayerTester {
	tester := NewLayerTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and restores the error handler that was
// installed before the tester. It is safe to call more than once.
func (t *LayerTester) Cleanup() {
	if t.cleaned {
		return
	}
	t.cleaned = true
	t.tree.Teardown()
	t.stopObs()
	errors.SetHandler(t.restore)
}

// PumpWidget reconciles the tree against widget, attached to the tester's
// map. Unlike remounting, identities that survive keep their layers.
func (t *LayerTester) PumpWidget(widget core.Widget) {
	t.tree.Pump(layer.Root(t.surface, widget))
}

// Pump flushes builds scheduled since the last frame, such as SetState.
func (t *LayerTester) Pump() {
	t.tree.Flush()
}

// Unmount removes the whole tree.
func (t *LayerTester) Unmount() {
	t.tree.Pump(nil)
}

// Map returns the surface the widgets draw on.
func (t *LayerTester) Map() *surface.Map {
	return t.surface
}

// RootElement returns the root element of the mounted tree.
func (t *LayerTester) RootElement() core.Element {
	return t.tree.Root()
}

// Events returns the events observed since the last TakeEvents.
func (t *LayerTester) Events() []surface.Event {
	return t.events
}

// TakeEvents returns the events observed since the last call and clears
// them. The full history stays available to snapshots.
func (t *LayerTester) TakeEvents() []surface.Event {
	events := t.events
	t.events = nil
	return events
}

// EventTypes returns the types of the pending events, in order.
func (t *LayerTester) EventTypes() []surface.EventType {
	types := make([]surface.EventType, 0, len(t.events))
	for _, ev := range t.events {
		types = append(types, ev.Type)
	}
	return types
}

// Reports returns the layer errors reported while the tester was active.
func (t *LayerTester) Reports() []*errors.LayerError {
	return t.reports.errs
}

// BuildErrors returns the build panics recovered while the tester was active.
func (t *LayerTester) BuildErrors() []*errors.BuildError {
	return t.reports.builds
}

// Alias returns the stable name of a layer or map id, such as "ellipse#0".
func (t *LayerTester) Alias(id string) string {
	if a, ok := t.aliases[id]; ok {
		return a
	}
	return id
}

func (t *LayerTester) alias(id string) string {
	if id == "" {
		return ""
	}
	if a, ok := t.aliases[id]; ok {
		return a
	}
	kind := id
	if i := strings.LastIndexByte(id, '-'); i > 0 {
		kind = id[:i]
	}
	n := t.counts[kind]
	t.counts[kind] = n + 1
	a := fmt.Sprintf("%s#%d", kind, n)
	t.aliases[id] = a
	return a
}

// reportCollector records reports instead of logging them.
type reportCollector struct {
	errs   []*errors.LayerError
	panics []*errors.PanicError
	builds []*errors.BuildError
}

func (c *reportCollector) HandleError(err *errors.LayerError) {
	c.errs = append(c.errs, err)
}

func (c *reportCollector) HandlePanic(err *errors.PanicError) {
	c.panics = append(c.panics, err)
}

func (c *reportCollector) HandleBuildError(err *errors.BuildError) {
	c.builds = append(c.builds, err)
}
