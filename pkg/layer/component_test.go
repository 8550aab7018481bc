package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-drift/layerkit/pkg/core"
	"github.com/go-drift/layerkit/pkg/errors"
)

type captureErrors struct {
	errors.LogHandler
	errs []*errors.LayerError
}

func (h *captureErrors) HandleError(err *errors.LayerError) {
	h.errs = append(h.errs, err)
}

func captureReports(t *testing.T) *captureErrors {
	t.Helper()
	h := &captureErrors{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func TestLeafComponent_CreatesOnceAcrossFrames(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()

	for range 5 {
		tree.Pump(Root(root, leaf.New(fakeProps{Name: "a", Size: 1, Tags: []string{"x"}})))
	}

	assert.Equal(t, 1, rec.creates)
	assert.Empty(t, rec.updates)
	assert.Equal(t, []any{rec.last()}, root.added)
	assert.Empty(t, root.removed)
}

func TestLeafComponent_UpdatesInPlace(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()

	tree.Pump(Root(root, leaf.New(fakeProps{Name: "a", Size: 1})))
	tree.Pump(Root(root, leaf.New(fakeProps{Name: "a", Size: 7})))

	assert.Equal(t, 1, rec.creates)
	require.Len(t, rec.updates, 1)
	assert.Equal(t, 7, rec.last().size)
	assert.Equal(t, []string{"size"}, rec.last().mutations)
	assert.Len(t, root.added, 1)
	assert.Empty(t, root.removed)
}

func TestLeafComponent_DetachesFromPinnedContainer(t *testing.T) {
	first, second := newFakeContainer("first", nil), newFakeContainer("second", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	props := fakeProps{Name: "a"}

	tree.Pump(Root(first, leaf.New(props)))
	for range 3 {
		tree.Pump(Root(second, leaf.New(props)))
	}
	tree.Pump(nil)

	instance := rec.last()
	assert.Equal(t, 1, rec.creates)
	assert.Equal(t, []any{instance}, first.added)
	assert.Equal(t, []any{instance}, first.removed)
	assert.Empty(t, second.added)
	assert.Empty(t, second.removed)
}

func TestContainerComponent_ChildrenAttachToContainerInstance(t *testing.T) {
	var journal []string
	root := newFakeContainer("R", &journal)
	outer := &recorder{journal: &journal}
	inner := &recorder{journal: &journal}
	group := NewContainerComponent(outer.factory(true))
	leaf := NewLeafComponent(inner.factory(false))
	tree := core.NewTree()

	tree.Pump(Root(root, group.New(fakeProps{Name: "C"}, leaf.New(fakeProps{Name: "E"}))))

	assert.Equal(t, []string{"add C -> R", "add E -> C"}, journal)
	got, ok := inner.contexts[0].Container()
	require.True(t, ok)
	assert.Same(t, outer.last(), got)

	tree.Pump(nil)

	assert.Equal(t, []string{
		"add C -> R",
		"add E -> C",
		"remove E -> C",
		"remove C -> R",
	}, journal)
}

func TestContainerComponent_PassesDerivedContextDown(t *testing.T) {
	root := newFakeContainer("root", nil)
	inner := &recorder{}
	pane := CreateContainerComponent[fakeProps, *fakeLayer](func(props fakeProps, ctx Context) (Element[*fakeLayer], error) {
		l := &fakeLayer{fakeContainer: fakeContainer{name: props.Name}}
		derived := DeriveChildContext(ctx, map[Key]any{"pane": props.Name})
		return NewContainerElement(l, derived), nil
	}, nil)
	leaf := NewLeafComponent(inner.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()

	tree.Pump(Root(root, pane.New(fakeProps{Name: "markers"}, leaf.New(fakeProps{Name: "E"}))))

	require.Len(t, inner.contexts, 1)
	v, ok := inner.contexts[0].Value("pane")
	require.True(t, ok)
	assert.Equal(t, "markers", v)
	c, _ := inner.contexts[0].Container()
	assert.Equal(t, "markers", c.(*fakeLayer).name)
}

func TestContainerComponent_FailedUpdateKeepsChildren(t *testing.T) {
	var journal []string
	root := newFakeContainer("R", &journal)
	outer := &recorder{journal: &journal}
	inner := &recorder{journal: &journal}
	group := NewContainerComponent(outer.factory(true))
	leaf := NewLeafComponent(inner.factory(false))
	reports := captureReports(t)
	tree := core.NewTree()
	defer tree.Teardown()

	frame := func(size int) core.Widget {
		return Root(root, group.New(fakeProps{Name: "C", Size: size}, leaf.New(fakeProps{Name: "E"})))
	}
	tree.Pump(frame(1))
	tree.Pump(frame(-1))

	require.Len(t, reports.errs, 1)
	assert.Equal(t, errors.KindDomain, reports.errs[0].Kind)
	assert.ErrorIs(t, reports.errs[0], errNegative)
	assert.Equal(t, []string{"add C -> R", "add E -> C"}, journal)

	tree.Pump(frame(2))
	assert.Equal(t, 2, outer.last().size)
	assert.Equal(t, 1, inner.creates)
}

func TestComponents_DoNotShareIdentity(t *testing.T) {
	root := newFakeContainer("root", nil)
	recA, recB := &recorder{}, &recorder{}
	a := NewLeafComponent(recA.factory(false))
	b := NewLeafComponent(recB.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()
	props := fakeProps{Name: "same"}

	tree.Pump(Root(root, core.FragmentOf(a.New(props))))
	tree.Pump(Root(root, core.FragmentOf(b.New(props))))

	assert.Equal(t, 1, recA.creates)
	assert.Equal(t, 1, recB.creates)
	assert.Equal(t, []any{recA.last()}, root.removed)
	assert.Empty(t, recB.updates)
}

func TestLeafComponent_PositionalSiblingsKeepIdentity(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()

	frame := func(first, second int) core.Widget {
		return Root(root, core.FragmentOf(
			leaf.New(fakeProps{Name: "one", Size: first}),
			leaf.New(fakeProps{Name: "two", Size: second}),
		))
	}
	tree.Pump(frame(1, 2))
	tree.Pump(frame(1, 3))

	assert.Equal(t, 2, rec.creates)
	assert.Equal(t, []fakeProps{{Name: "two", Size: 3}}, rec.updates)
	assert.Empty(t, root.removed)
}

func TestLeafComponent_KeyedReorderKeepsInstances(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()
	a, b := fakeProps{Name: "a"}, fakeProps{Name: "b"}

	tree.Pump(Root(root, core.FragmentOf(leaf.Keyed("a", a), leaf.Keyed("b", b))))
	tree.Pump(Root(root, core.FragmentOf(leaf.Keyed("b", b), leaf.Keyed("a", a))))
	tree.Pump(Root(root, core.FragmentOf(leaf.Keyed("a", a))))

	assert.Equal(t, 2, rec.creates)
	assert.Empty(t, rec.updates)
	require.Len(t, root.removed, 1)
	assert.Equal(t, "b", root.removed[0].(*fakeLayer).name)
}

func TestLeafComponent_CreateErrorLeavesSiblingsAlone(t *testing.T) {
	root := newFakeContainer("root", nil)
	bad := &recorder{createErr: errNegative}
	good := &recorder{}
	broken := NewLeafComponent(bad.factory(false))
	fine := NewLeafComponent(good.factory(false))
	reports := captureReports(t)
	tree := core.NewTree()
	defer tree.Teardown()

	tree.Pump(Root(root, core.FragmentOf(broken.New(fakeProps{}), fine.New(fakeProps{Name: "ok"}))))

	require.Len(t, reports.errs, 1)
	assert.Equal(t, errors.KindDomain, reports.errs[0].Kind)
	assert.Equal(t, "layer.Create", reports.errs[0].Op)
	assert.Equal(t, []any{good.last()}, root.added)
}

func TestLeafComponent_WithoutContainerReportsPrecondition(t *testing.T) {
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	reports := captureReports(t)
	tree := core.NewTree()

	tree.Pump(leaf.New(fakeProps{Name: "orphan"}))
	tree.Pump(nil)

	require.NotEmpty(t, reports.errs)
	assert.Equal(t, errors.KindPrecondition, reports.errs[0].Kind)
	assert.ErrorIs(t, reports.errs[0], ErrNoContainer)
	assert.Empty(t, rec.last().added)
}

func TestLeafComponent_RemovalDropsPendingUpdate(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()

	var state *holderState
	h := holder{
		build:   func(props fakeProps) core.Widget { return leaf.New(props) },
		initial: fakeProps{Name: "a", Size: 1},
		onState: func(s *holderState) { state = s },
	}
	tree.Pump(Root(root, core.FragmentOf(h)))
	require.NotNil(t, state)

	state.SetState(func() { state.props.Size = 2 })
	tree.Pump(Root(root, core.FragmentOf()))

	assert.Empty(t, rec.updates)
	assert.Equal(t, 1, rec.last().size)
	assert.Equal(t, []any{rec.last()}, root.removed)
}

func TestLeafComponent_BindsEventHandlers(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()
	defer tree.Teardown()

	var got []string
	frame := func(handlers Handlers) core.Widget {
		return Root(root, leaf.New(fakeProps{Name: "a", Handlers: handlers}))
	}

	tree.Pump(frame(Handlers{"click": func(e any) { got = append(got, "first "+e.(string)) }}))
	instance := rec.last()
	require.Equal(t, 1, instance.listenerCount())
	instance.emit("click", "1")

	tree.Pump(frame(Handlers{"click": func(e any) { got = append(got, "second "+e.(string)) }}))
	assert.Equal(t, 1, instance.listenerCount())
	instance.emit("click", "2")

	tree.Pump(frame(nil))
	assert.Zero(t, instance.listenerCount())
	instance.emit("click", "3")

	tree.Pump(frame(Handlers{"click": func(any) {}}))
	tree.Pump(nil)
	assert.Zero(t, instance.listenerCount())

	assert.Equal(t, []string{"first 1", "second 2"}, got)
}

func TestPathFactory_StyleOnlyChangeCallsSetStyle(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(PathFactory[fakeProps, *fakeLayer, string](rec.factory(false)))
	tree := core.NewTree()
	defer tree.Teardown()

	tree.Pump(Root(root, leaf.New(fakeProps{Name: "a", Style: "blue"})))
	tree.Pump(Root(root, leaf.New(fakeProps{Name: "a", Style: "red"})))
	assert.Equal(t, []string{"style"}, rec.last().mutations)
	assert.Equal(t, "red", rec.last().style)

	tree.Pump(Root(root, leaf.New(fakeProps{Name: "a", Style: "red", Size: 4})))
	assert.Equal(t, []string{"style", "size"}, rec.last().mutations)
}

func TestComponent_LogsLifecycle(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(observed))
	defer SetLogger(nil)

	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()

	tree.Pump(Root(root, leaf.New(fakeProps{Size: 1})))
	tree.Pump(Root(root, leaf.New(fakeProps{Size: 2})))
	tree.Pump(nil)

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{
		"layer created",
		"layer mounted",
		"layer updated",
		"layer unmounted",
		"layer released",
	}, messages)
}

func TestLeafComponent_FailedUpdateKeepsHandlers(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	reports := captureReports(t)
	tree := core.NewTree()
	defer tree.Teardown()

	var got []string
	frame := func(size int, name string) core.Widget {
		return Root(root, leaf.New(fakeProps{Size: size, Handlers: Handlers{
			"click": func(any) { got = append(got, name) },
		}}))
	}

	tree.Pump(frame(1, "first"))
	tree.Pump(frame(-1, "rejected"))
	require.Len(t, reports.errs, 1)
	rec.last().emit("click", nil)

	tree.Pump(frame(2, "fixed"))
	rec.last().emit("click", nil)

	assert.Equal(t, []string{"first", "fixed"}, got)
	assert.Equal(t, 2, rec.last().size)
}

func TestLeafComponent_NewHandlersAloneDoNotUpdate(t *testing.T) {
	root := newFakeContainer("root", nil)
	rec := &recorder{}
	leaf := CreateLeafComponent(rec.create(false), rec.update)
	tree := core.NewTree()
	defer tree.Teardown()

	var got []int
	for i := range 3 {
		tree.Pump(Root(root, leaf.New(fakeProps{Size: 1, Handlers: Handlers{
			"click": func(any) { got = append(got, i) },
		}})))
	}
	rec.last().emit("click", nil)

	assert.Empty(t, rec.updates)
	assert.Equal(t, []int{2}, got)
}

func TestLeafComponent_PanickingContainerStillReleases(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(observed))
	defer SetLogger(nil)
	panics := &capturePanics{}
	errors.SetHandler(panics)
	defer errors.SetHandler(nil)

	root := &panickingContainer{}
	rec := &recorder{}
	leaf := NewLeafComponent(rec.factory(false))
	tree := core.NewTree()

	tree.Pump(Root(root, leaf.New(fakeProps{Name: "a"})))
	tree.Pump(nil)

	require.Len(t, panics.panics, 1)
	assert.Equal(t, "core.Dispose", panics.panics[0].Op)
	assert.Equal(t, 1, logs.FilterMessage("layer released").Len())
}

type panickingContainer struct{}

func (panickingContainer) AddLayer(any) error    { return nil }
func (panickingContainer) RemoveLayer(any) error { panic("container gone") }

type capturePanics struct {
	errors.LogHandler
	panics []*errors.PanicError
}

func (h *capturePanics) HandlePanic(err *errors.PanicError) {
	h.panics = append(h.panics, err)
}
