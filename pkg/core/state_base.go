package core

import "github.com/go-drift/layerkit/pkg/errors"

// StateBase is embedded by states to get SetState and cleanup registration.
//
//	type layerState struct {
//	    core.StateBase
//	    handle *Handle
//	}
//
// States that embed it and do not override Dispose release everything
// registered with OnDispose when their element unmounts.
type StateBase struct {
	element   *StatefulElement
	disposers []func()
	disposed  bool
}

func (s *StateBase) setElement(element *StatefulElement) {
	s.element = element
}

// Element returns the element hosting this state, or nil before mount.
func (s *StateBase) Element() *StatefulElement {
	return s.element
}

// SetState runs fn and schedules a rebuild of the hosting element. It is a
// no-op after Dispose. Like every build-time call it must stay on the
// goroutine driving the tree.
func (s *StateBase) SetState(fn func()) {
	if s.disposed {
		return
	}
	if fn != nil {
		fn()
	}
	if s.element != nil {
		s.element.MarkNeedsBuild()
	}
}

// OnDispose registers cleanup to run when the state is disposed. Cleanups
// run in reverse registration order. Registering after disposal runs
// cleanup at once.
func (s *StateBase) OnDispose(cleanup func()) {
	if cleanup == nil {
		return
	}
	if s.disposed {
		s.runDisposer(cleanup)
		return
	}
	s.disposers = append(s.disposers, cleanup)
}

// Dispose runs the registered cleanups once. A cleanup that panics is
// reported as a PanicError and the remaining ones still run. States that
// override Dispose must call s.StateBase.Dispose().
func (s *StateBase) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for i := len(s.disposers) - 1; i >= 0; i-- {
		s.runDisposer(s.disposers[i])
	}
	s.disposers = nil
}

func (s *StateBase) runDisposer(cleanup func()) {
	defer errors.Recover("core.Dispose")
	cleanup()
}

func (s *StateBase) InitState() {}

func (s *StateBase) Build(ctx BuildContext) Widget {
	return nil
}

func (s *StateBase) DidChangeDependencies() {}

func (s *StateBase) DidUpdateWidget(oldWidget StatefulWidget) {}
