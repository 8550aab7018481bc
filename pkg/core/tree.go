package core

// Tree owns a root element and drives it frame by frame.
//
// Pump reuses the root element when the new widget has the same type and
// key, so identities below it survive across frames.
type Tree struct {
	owner *BuildOwner
	root  Element
}

// NewTree creates an empty tree with its own BuildOwner.
func NewTree() *Tree {
	return &Tree{owner: NewBuildOwner()}
}

// Owner returns the tree's BuildOwner.
func (t *Tree) Owner() *BuildOwner {
	return t.owner
}

// Root returns the root element, or nil if nothing is mounted.
func (t *Tree) Root() Element {
	return t.root
}

// Pump reconciles the root against widget and flushes all pending builds.
// A nil widget tears the tree down.
func (t *Tree) Pump(widget Widget) {
	t.root = updateChild(t.root, widget, nil, t.owner)
	t.owner.FlushBuild()
}

// Flush rebuilds elements scheduled since the last frame.
func (t *Tree) Flush() {
	t.owner.FlushBuild()
}

// Teardown unmounts the whole tree. Safe to call more than once.
func (t *Tree) Teardown() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
}
