// Package layer binds declarative widgets to long-lived imperative layers.
//
// A wrapped layer type supplies only a create/update pair. The package
// supplies the rest, once, for every type:
//
//   - [Context] carries the current attachment point down the tree as an
//     immutable value. [DeriveChildContext] copies; nothing is mutated.
//   - [Handle] creates the instance on the first build of an identity and
//     afterwards runs Update only when props changed.
//   - [Mount] and [Unmount] attach and detach the instance exactly once per
//     identity. The [Token] pins the container chosen at mount time.
//   - [LeafComponent] and [ContainerComponent] compose the three into
//     widgets. A container re-provides the context returned by its Create,
//     so its children attach to it rather than to its own container.
//
// # Defining a layer type
//
//	var Circle = layer.CreateLeafComponent(
//	    func(p CircleProps, ctx layer.Context) (layer.Element[*surface.Circle], error) {
//	        c, err := surface.NewCircle(p.Center, p.Radius)
//	        return layer.NewElement(c, ctx), err
//	    },
//	    func(c *surface.Circle, p, prev CircleProps) error {
//	        if p.Radius != prev.Radius {
//	            return c.SetRadius(p.Radius)
//	        }
//	        return nil
//	    },
//	)
//
//	tree.Pump(layer.Root(m, Circle.New(CircleProps{Radius: 10})))
//
// # Ordering
//
// Create precedes every Update of an identity, and every Update precedes its
// Unmount. A container mounts before its children and unmounts after them.
// Work scheduled for an identity that leaves the tree before the next flush
// is dropped; its detach still runs once.
//
// # Errors
//
// Create and Update failures are returned by [Handle.Acquire] as
// [errors.KindDomain]; attach and detach failures as [errors.KindAttach].
// Inside a component they are reported through [errors.Report] and abort
// that identity's build; siblings are unaffected.
package layer
