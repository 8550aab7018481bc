package core

import (
	"reflect"
	"time"

	"github.com/go-drift/layerkit/pkg/errors"
)

type elementBase struct {
	widget     Widget
	parent     Element
	depth      int
	slot       any
	buildOwner *BuildOwner
	dirty      bool
	self       Element
	mounted    bool
}

func (e *elementBase) Widget() Widget {
	return e.widget
}

func (e *elementBase) Depth() int {
	return e.depth
}

func (e *elementBase) MarkNeedsBuild() {
	if e.dirty {
		return
	}
	e.dirty = true
	if e.buildOwner != nil && e.self != nil {
		e.buildOwner.ScheduleBuild(e.self)
	}
}

func (e *elementBase) parentElement() Element {
	return e.parent
}

func (e *elementBase) setSelf(self Element) {
	e.self = self
}

func (e *elementBase) setWidget(widget Widget) {
	e.widget = widget
}

func (e *elementBase) setBuildOwner(owner *BuildOwner) {
	e.buildOwner = owner
}

func (e *elementBase) isMounted() bool {
	return e.mounted
}

func (e *elementBase) mountBase(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.mounted = true
	e.dirty = true
}

func (e *elementBase) FindAncestor(predicate func(Element) bool) Element {
	current := e.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		if base, ok := current.(interface{ parentElement() Element }); ok {
			current = base.parentElement()
		} else {
			break
		}
	}
	return nil
}

// DependOnInherited walks up the element tree to find the nearest
// InheritedElement hosting a widget of the requested type.
func (e *elementBase) DependOnInherited(inheritedType reflect.Type) any {
	found := e.FindAncestor(func(candidate Element) bool {
		inherited, ok := candidate.(*InheritedElement)
		if !ok {
			return false
		}
		widgetType := reflect.TypeOf(inherited.widget)
		return widgetType == inheritedType ||
			(widgetType.Kind() == reflect.Pointer && widgetType.Elem() == inheritedType)
	})
	if found == nil {
		return nil
	}
	inherited := found.(*InheritedElement)
	inherited.AddDependent(e.self)
	return inherited.widget
}

// safeBuild executes a build function with panic recovery.
// If the build panics, it reports the error and builds nothing.
func (e *elementBase) safeBuild(buildFn func() Widget) (built Widget) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportBuildError(&errors.BuildError{
				Widget:     reflect.TypeOf(e.widget).String(),
				Element:    reflect.TypeOf(e.self).String(),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			built = nil
		}
	}()
	return buildFn()
}

// StatelessElement hosts a StatelessWidget.
type StatelessElement struct {
	elementBase
	child Element
}

// NewStatelessElement creates a StatelessElement.
// The widget and build owner are set later by the framework during inflation.
func NewStatelessElement() *StatelessElement {
	return &StatelessElement{}
}

func (e *StatelessElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
}

func (e *StatelessElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	widget := e.widget.(StatelessWidget)
	built := e.safeBuild(func() Widget {
		return widget.Build(e)
	})
	e.child = updateChild(e.child, built, e, e.buildOwner)
}

func (e *StatelessElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// StatefulElement hosts a StatefulWidget and its State.
type StatefulElement struct {
	elementBase
	child Element
	state State
}

// NewStatefulElement creates a StatefulElement.
// The widget and build owner are set later by the framework during inflation.
func NewStatefulElement() *StatefulElement {
	return &StatefulElement{}
}

// State returns the hosted state, or nil before mount.
func (e *StatefulElement) State() State {
	return e.state
}

func (e *StatefulElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	widget := e.widget.(StatefulWidget)
	e.state = widget.CreateState()
	if setter, ok := e.state.(interface{ setElement(*StatefulElement) }); ok {
		setter.setElement(e)
	}
	e.state.InitState()
	e.RebuildIfNeeded()
}

func (e *StatefulElement) Update(newWidget Widget) {
	oldWidget := e.widget.(StatefulWidget)
	e.widget = newWidget
	e.state.DidUpdateWidget(oldWidget)
	e.dirty = true
	e.RebuildIfNeeded()
}

// Unmount tears down the subtree before disposing the state, so
// descendants always release their resources before their ancestor does.
func (e *StatefulElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	if e.state != nil {
		e.state.Dispose()
	}
}

func (e *StatefulElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeBuild(func() Widget {
		return e.state.Build(e)
	})
	e.child = updateChild(e.child, built, e, e.buildOwner)
}

func (e *StatefulElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// FragmentElement hosts a Fragment: an ordered list of children with no
// output of its own.
type FragmentElement struct {
	elementBase
	children []Element
}

// NewFragmentElement creates a FragmentElement.
func NewFragmentElement() *FragmentElement {
	return &FragmentElement{}
}

func (e *FragmentElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.RebuildIfNeeded()
}

func (e *FragmentElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.dirty = true
	e.RebuildIfNeeded()
}

// Unmount releases children last-to-first.
func (e *FragmentElement) Unmount() {
	e.mounted = false
	for i := len(e.children) - 1; i >= 0; i-- {
		e.children[i].Unmount()
	}
	e.children = nil
}

func (e *FragmentElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	e.children = updateChildren(e.children, e.widget.(Fragment).Children, e, e.buildOwner)
}

func (e *FragmentElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

// updateChild reconciles one child slot. An element updated in place
// rebuilds before updateChild returns, so a parent's whole subtree settles
// within its own rebuild.
func updateChild(existing Element, widget Widget, parent Element, owner *BuildOwner) Element {
	if widget == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdateWidget(existing.Widget(), widget) {
		existing.Update(widget)
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	element := inflateWidget(widget, owner)
	element.Mount(parent, nil)
	return element
}

// childKey identifies a child among its siblings by type, key and its
// position among siblings sharing that type and key. Keyed children
// therefore match wherever they move, and unkeyed children match by their
// position among unkeyed siblings of the same type. Keys must be comparable.
type childKey struct {
	typ   reflect.Type
	key   any
	index int
}

type childKeyer map[childKey]int

func (counts childKeyer) next(widget Widget) childKey {
	k := childKey{typ: reflect.TypeOf(widget), key: widget.Key()}
	k.index = counts[k]
	counts[childKey{typ: k.typ, key: k.key}] = k.index + 1
	return k
}

// updateChildren reconciles a child list. Elements whose identity is gone
// are unmounted before new ones are mounted.
func updateChildren(existing []Element, widgets []Widget, parent Element, owner *BuildOwner) []Element {
	old := make(map[childKey]Element, len(existing))
	keys := childKeyer{}
	for _, child := range existing {
		old[keys.next(child.Widget())] = child
	}

	matched := make([]Element, len(widgets))
	kept := make(map[Element]bool, len(existing))
	keys = childKeyer{}
	for i, widget := range widgets {
		if widget == nil {
			continue
		}
		k := keys.next(widget)
		if child, ok := old[k]; ok {
			matched[i] = child
			kept[child] = true
			delete(old, k)
		}
	}

	for i := len(existing) - 1; i >= 0; i-- {
		if !kept[existing[i]] {
			existing[i].Unmount()
		}
	}

	updated := make([]Element, 0, len(widgets))
	for i, widget := range widgets {
		if widget == nil {
			continue
		}
		child := updateChild(matched[i], widget, parent, owner)
		if child != nil {
			updated = append(updated, child)
		}
	}
	return updated
}

func canUpdateWidget(existing Widget, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

func inflateWidget(widget Widget, owner *BuildOwner) Element {
	if widget == nil {
		return nil
	}
	element := widget.CreateElement()
	if setter, ok := element.(interface{ setWidget(Widget) }); ok {
		setter.setWidget(widget)
	}
	if setter, ok := element.(interface{ setBuildOwner(*BuildOwner) }); ok {
		setter.setBuildOwner(owner)
	}
	if setter, ok := element.(interface{ setSelf(Element) }); ok {
		setter.setSelf(element)
	}
	return element
}

// Visit walks the subtree rooted at element depth-first, parents before
// children. Returning false from visitor skips that element's children.
func Visit(element Element, visitor func(Element) bool) {
	if element == nil {
		return
	}
	if !visitor(element) {
		return
	}
	element.VisitChildren(func(child Element) bool {
		Visit(child, visitor)
		return true
	})
}
