package surface

// Map is the root container of a surface. It is not safe for concurrent
// use; callers serialize access the way a UI thread does.
type Map struct {
	layerList
	id        string
	observers evented
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{id: newID("map")}
}

func (m *Map) ID() string {
	return m.id
}

// AddLayer attaches layer to the map.
func (m *Map) AddLayer(layer any) error {
	return m.add(m, layer)
}

// RemoveLayer detaches layer from the map.
func (m *Map) RemoveLayer(layer any) error {
	return m.remove(m, layer)
}

// Layers returns the layers attached directly to the map.
func (m *Map) Layers() []Layer {
	return m.snapshot()
}

// HasLayer reports whether layer is attached directly to the map.
func (m *Map) HasLayer(layer Layer) bool {
	return layer != nil && layer.Parent() == m.id
}

// Observe registers fn for every event fired on any layer under the map.
func (m *Map) Observe(fn func(Event)) (off func()) {
	offs := make([]func(), 0, len(allEvents))
	for _, eventType := range allEvents {
		offs = append(offs, m.observers.On(string(eventType), func(event any) {
			fn(event.(Event))
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// Dispose makes every later AddLayer and RemoveLayer fail with ErrDisposed.
func (m *Map) Dispose() {
	m.disposed = true
}

// Disposed reports whether Dispose was called.
func (m *Map) Disposed() bool {
	return m.disposed
}

func (m *Map) propagate(ev Event) {
	m.observers.notify(ev)
}

var allEvents = []EventType{
	EventAdd, EventRemove, EventCenter, EventRadii, EventTilt, EventStyle, EventClick,
}

// Group is a layer that holds other layers. Adding a Group to a Map and
// layers to the Group nests them; events from the Group's layers bubble
// through it.
type Group struct {
	layerBase
	children layerList
}

// NewGroup creates an empty, detached group.
func NewGroup() *Group {
	return &Group{layerBase: layerBase{id: newID("group")}}
}

// AddLayer attaches layer to the group.
func (g *Group) AddLayer(layer any) error {
	return g.children.add(g, layer)
}

// RemoveLayer detaches layer from the group.
func (g *Group) RemoveLayer(layer any) error {
	return g.children.remove(g, layer)
}

// Layers returns the layers attached directly to the group.
func (g *Group) Layers() []Layer {
	return g.children.snapshot()
}

// Dispose makes every later AddLayer and RemoveLayer fail with ErrDisposed.
func (g *Group) Dispose() {
	g.children.disposed = true
}

func (g *Group) propagate(ev Event) {
	if g.parent != nil {
		g.parent.propagate(ev)
	}
}
