package layer

import (
	"reflect"

	"github.com/go-drift/layerkit/pkg/core"
)

// Provider makes Context available to every layer below it.
// The nearest Provider wins.
type Provider struct {
	core.InheritedBase
	Context Context
	Child   core.Widget
}

func (p Provider) ChildWidget() core.Widget {
	return p.Child
}

// UpdateShouldNotify rebuilds dependents only when an entry changed.
func (p Provider) UpdateShouldNotify(old core.InheritedWidget) bool {
	return !p.Context.Equal(old.(Provider).Context)
}

// Root provides a context whose container is container.
func Root(container Container, child core.Widget) Provider {
	return Provider{
		Context: NewContext(map[Key]any{ContainerKey: container}),
		Child:   child,
	}
}

var providerType = reflect.TypeOf(Provider{})

// ContextOf returns the Context of the nearest Provider above ctx and
// registers ctx for rebuild when it changes. Without a Provider it returns
// the empty Context.
func ContextOf(ctx core.BuildContext) Context {
	if p, ok := ctx.DependOnInherited(providerType).(Provider); ok {
		return p.Context
	}
	return Context{}
}
