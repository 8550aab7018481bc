// Package core provides the widget and element framework that hosts layer
// components.
//
// Widgets are immutable descriptions re-created on every build. Elements are
// the long-lived instantiation of a widget at a position in the tree: an
// element survives rebuilds as long as the widget at its position keeps the
// same type and key, and is unmounted exactly once when that identity leaves
// the tree.
//
// # Core Types
//
// StatelessWidget builds purely from its configuration. StatefulWidget owns a
// State whose InitState, DidUpdateWidget and Dispose bracket the identity's
// lifetime. InheritedWidget exposes a value to descendants, which read it with
// [BuildContext.DependOnInherited] and rebuild when it changes.
//
// # Ordering
//
// A parent builds before its children mount, and a parent's subtree is
// unmounted before the parent's own state is disposed. An element updated by
// its parent rebuilds immediately; SetState and inherited changes schedule a
// rebuild for the next flush instead. Work scheduled for an element that is
// unmounted before that flush is dropped.
//
// # Driving a tree
//
//	tree := core.NewTree()
//	tree.Pump(app)      // mount
//	tree.Pump(nextApp)  // reconcile
//	tree.Teardown()     // unmount everything
package core
