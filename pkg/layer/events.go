package layer

// Handlers maps an event type to the function handling it.
type Handlers map[string]func(event any)

// Evented is implemented by instances that emit events. On returns a
// function that removes the listener.
type Evented interface {
	On(eventType string, handler func(event any)) (off func())
}

// HandlersProps is implemented by props that carry event handlers.
type HandlersProps interface {
	EventHandlers() Handlers
}

// eventBinding keeps one listener per event type on a mounted instance.
// Listeners dispatch to the handlers of the latest props, so changing a
// handler function never rebinds; only adding or removing a type does.
type eventBinding struct {
	current Handlers
	bound   map[string]func()
}

func (b *eventBinding) sync(instance, props any) {
	target, ok := instance.(Evented)
	if !ok {
		return
	}
	source, ok := props.(HandlersProps)
	if !ok {
		return
	}
	b.current = source.EventHandlers()

	for eventType, off := range b.bound {
		if _, keep := b.current[eventType]; !keep {
			off()
			delete(b.bound, eventType)
		}
	}
	for eventType := range b.current {
		if _, done := b.bound[eventType]; done {
			continue
		}
		if b.bound == nil {
			b.bound = make(map[string]func())
		}
		b.bound[eventType] = target.On(eventType, func(event any) {
			if handler := b.current[eventType]; handler != nil {
				handler(event)
			}
		})
	}
}

func (b *eventBinding) clear() {
	for _, off := range b.bound {
		off()
	}
	b.bound = nil
	b.current = nil
}
