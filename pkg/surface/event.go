package surface

import "fmt"

// EventType names what happened to a layer.
type EventType string

const (
	EventAdd    EventType = "add"
	EventRemove EventType = "remove"
	EventCenter EventType = "center"
	EventRadii  EventType = "radii"
	EventTilt   EventType = "tilt"
	EventStyle  EventType = "style"
	EventClick  EventType = "click"
)

// Event is delivered to listeners as the argument of their handler.
type Event struct {
	Type EventType
	// Target is the ID of the layer the event happened to.
	Target string
	// Container is the ID of the container for add and remove events.
	Container string
	Payload   any
}

func (e Event) String() string {
	if e.Container != "" {
		return fmt.Sprintf("%s %s -> %s", e.Type, e.Target, e.Container)
	}
	if e.Payload != nil {
		return fmt.Sprintf("%s %s %v", e.Type, e.Target, e.Payload)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Target)
}

type listener struct {
	handler func(event any)
}

// evented holds listeners keyed by event type.
type evented struct {
	listeners map[string][]*listener
}

// On registers handler for eventType and returns a function removing it.
// Handlers receive an Event.
func (e *evented) On(eventType string, handler func(event any)) (off func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{handler: handler}
	e.listeners[eventType] = append(e.listeners[eventType], l)
	return func() {
		list := e.listeners[eventType]
		for i, candidate := range list {
			if candidate == l {
				e.listeners[eventType] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns how many handlers are registered for eventType.
func (e *evented) ListenerCount(eventType string) int {
	return len(e.listeners[eventType])
}

func (e *evented) notify(ev Event) {
	for _, l := range e.listeners[string(ev.Type)] {
		l.handler(ev)
	}
}
