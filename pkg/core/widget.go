package core

import "reflect"

// Widget is an immutable description of part of the tree.
type Widget interface {
	CreateElement() Element
	// Key distinguishes siblings of the same type. Nil means positional.
	Key() any
}

// Element is the instantiation of a Widget at a particular location in the tree.
type Element interface {
	BuildContext
	Mount(parent Element, slot any)
	Update(newWidget Widget)
	Unmount()
	RebuildIfNeeded()
	MarkNeedsBuild()
	Depth() int
	VisitChildren(visitor func(Element) bool)
}

// BuildContext is the handle widgets use to read their surroundings during build.
type BuildContext interface {
	Widget() Widget
	FindAncestor(predicate func(Element) bool) Element
	// DependOnInherited returns the nearest ancestor InheritedWidget of the
	// given type and registers the caller for rebuild when it changes.
	DependOnInherited(inheritedType reflect.Type) any
}

// StatelessWidget builds its child purely from its own configuration.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget owns a State that survives rebuilds of the same identity.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// State is the mutable half of a StatefulWidget.
type State interface {
	InitState()
	Build(ctx BuildContext) Widget
	SetState(fn func())
	Dispose()
	DidChangeDependencies()
	DidUpdateWidget(oldWidget StatefulWidget)
}

// InheritedWidget exposes a value to every descendant.
type InheritedWidget interface {
	Widget
	ChildWidget() Widget
	// UpdateShouldNotify reports whether dependents must rebuild.
	UpdateShouldNotify(oldWidget InheritedWidget) bool
}

// Disposable is implemented by resources released with their state.
type Disposable interface {
	Dispose()
}
