package layer

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-drift/layerkit/pkg/errors"
)

// Token records one attachment: which layer went into which container.
// Unmount uses it to detach from exactly that container, even if the
// context has since moved on.
type Token struct {
	id        string
	container Container
	layer     any
	attached  bool
}

// ID identifies the attachment in logs and errors.
func (t *Token) ID() string {
	return t.id
}

// Container returns the container pinned at mount time.
func (t *Token) Container() Container {
	return t.container
}

// Layer returns the attached instance.
func (t *Token) Layer() any {
	return t.layer
}

// Attached reports whether the token has not been unmounted yet.
func (t *Token) Attached() bool {
	return t.attached
}

// Mount attaches element's instance to the container named by ctx. ctx must
// be the context the element inherited, not the one it exposes to its
// descendants. Failures are returned as is; nothing is retried.
func Mount[I any](element Element[I], ctx Context) (*Token, error) {
	container, ok := ctx.Container()
	if !ok {
		return nil, errors.New("layer.Mount", errors.KindPrecondition, "", ErrNoContainer)
	}
	token := &Token{
		id:        uuid.NewString(),
		container: container,
		layer:     element.Instance,
	}
	if err := container.AddLayer(element.Instance); err != nil {
		return nil, errors.New("layer.Mount", errors.KindAttach, token.id, err)
	}
	token.attached = true
	Logger().Debug("layer mounted", zap.String("token", token.id))
	return token, nil
}

// Unmount detaches the layer recorded by token from its pinned container.
// A token detaches at most once: the token is spent even when the container
// rejects the removal.
func Unmount(token *Token) error {
	if token == nil || !token.attached {
		id := ""
		if token != nil {
			id = token.id
		}
		return errors.New("layer.Unmount", errors.KindPrecondition, id, ErrDetached)
	}
	token.attached = false
	if err := token.container.RemoveLayer(token.layer); err != nil {
		return errors.New("layer.Unmount", errors.KindAttach, token.id, err)
	}
	Logger().Debug("layer unmounted", zap.String("token", token.id))
	return nil
}
