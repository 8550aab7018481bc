package layer

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/layerkit/pkg/errors"
)

func TestHandle_CreatesOnceForUnchangedProps(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	ctx := NewContext(map[Key]any{ContainerKey: newFakeContainer("root", nil)})
	props := fakeProps{Name: "a", Size: 1, Tags: []string{"x"}}

	for range 10 {
		require.NoError(t, h.Acquire(props, ctx))
	}

	assert.Equal(t, 1, rec.creates)
	assert.Empty(t, rec.updates)
	assert.True(t, h.Created())
	assert.Same(t, rec.last(), h.Element().Instance)
}

func TestHandle_UpdatesOnlyChangedAttribute(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	require.NoError(t, h.Acquire(fakeProps{Name: "a", Size: 1, Tags: []string{"x"}}, Context{}))

	next := fakeProps{Name: "a", Size: 2, Tags: []string{"x"}}
	require.NoError(t, h.Acquire(next, Context{}))

	require.Len(t, rec.updates, 1)
	assert.Equal(t, next, rec.updates[0])
	assert.Equal(t, []string{"size"}, rec.last().mutations)
	assert.Equal(t, next, h.Props())
}

func TestHandle_ReallocatedEqualValuesAreNotAChange(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	require.NoError(t, h.Acquire(fakeProps{Tags: []string{"x", "y"}}, Context{}))

	require.NoError(t, h.Acquire(fakeProps{Tags: []string{"x", "y"}}, Context{}))

	assert.Empty(t, rec.updates)
}

func TestHandle_CustomEqualGatesUpdate(t *testing.T) {
	rec := &recorder{}
	factory := rec.factory(false)
	factory.Equal = func(a, b fakeProps) bool { return a.Size == b.Size }
	h := NewHandle(factory)
	require.NoError(t, h.Acquire(fakeProps{Size: 1, Name: "a"}, Context{}))

	require.NoError(t, h.Acquire(fakeProps{Size: 1, Name: "renamed"}, Context{}))
	assert.Empty(t, rec.updates)

	require.NoError(t, h.Acquire(fakeProps{Size: 3}, Context{}))
	assert.Len(t, rec.updates, 1)
}

func TestHandle_NilUpdateStillRecordsProps(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(Factory[fakeProps, *fakeLayer]{Create: rec.create(false)})
	require.NoError(t, h.Acquire(fakeProps{Size: 1}, Context{}))

	require.NoError(t, h.Acquire(fakeProps{Size: 2}, Context{}))

	assert.Equal(t, 2, h.Props().Size)
	assert.Empty(t, rec.last().mutations)
}

func TestHandle_CreateErrorPropagates(t *testing.T) {
	cause := stderrors.New("invalid geometry")
	rec := &recorder{createErr: cause}
	h := NewHandle(rec.factory(false))

	err := h.Acquire(fakeProps{}, Context{})

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, errors.KindDomain, errors.KindOf(err))
	assert.False(t, h.Created())

	rec.createErr = nil
	require.NoError(t, h.Acquire(fakeProps{}, Context{}))
	assert.Equal(t, 2, rec.creates)
}

func TestHandle_FailedUpdateRecordsAttemptedProps(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	orig := fakeProps{Size: 1, Tags: []string{"x"}}
	require.NoError(t, h.Acquire(orig, Context{}))
	instance := rec.last()

	// Tags apply, then the size is rejected.
	bad := fakeProps{Size: -1, Tags: []string{"y"}}
	err := h.Acquire(bad, Context{})
	assert.ErrorIs(t, err, errNegative)
	assert.Equal(t, errors.KindDomain, errors.KindOf(err))
	assert.Equal(t, []string{"y"}, instance.tags)
	assert.Equal(t, bad, h.Props())

	require.NoError(t, h.Acquire(bad, Context{}))
	assert.Len(t, rec.updates, 1, "identical rejected props are not retried")

	require.NoError(t, h.Acquire(orig, Context{}))
	assert.Equal(t, []string{"x"}, instance.tags)
	assert.Equal(t, 1, instance.size)
	assert.Equal(t, []string{"tags", "tags", "size"}, instance.mutations)
}

func TestHandle_DefaultEqualSkipsFuncs(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	props := func() fakeProps {
		return fakeProps{Size: 1, Handlers: Handlers{"click": func(any) {}}}
	}
	require.NoError(t, h.Acquire(props(), Context{}))

	for range 3 {
		require.NoError(t, h.Acquire(props(), Context{}))
	}
	assert.Empty(t, rec.updates)

	next := props()
	next.Size = 2
	require.NoError(t, h.Acquire(next, Context{}))
	assert.Len(t, rec.updates, 1)
}

type unexportedProps struct {
	size    int
	onClick func()
}

func TestFactory_DefaultEqualComparesUnexportedFields(t *testing.T) {
	var f Factory[unexportedProps, *fakeLayer]

	assert.True(t, f.equal(unexportedProps{size: 1, onClick: func() {}}, unexportedProps{size: 1}))
	assert.False(t, f.equal(unexportedProps{size: 1}, unexportedProps{size: 2}))
}

func TestHandle_AcquireAfterReleasePanics(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	require.NoError(t, h.Acquire(fakeProps{}, Context{}))
	h.Release()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(*errors.LayerError)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, errors.KindPrecondition, err.Kind)
		assert.ErrorIs(t, err, ErrReleased)
		assert.Equal(t, h.ID(), err.Layer)
		assert.Empty(t, rec.updates)
	}()
	_ = h.Acquire(fakeProps{Size: 5}, Context{})
}

func TestHandle_ReleaseDropsInstance(t *testing.T) {
	rec := &recorder{}
	h := NewHandle(rec.factory(false))
	require.NoError(t, h.Acquire(fakeProps{Size: 1}, Context{}))

	h.Release()
	h.Release()

	assert.True(t, h.Released())
	assert.False(t, h.Created())
	assert.Nil(t, h.Element().Instance)
	assert.Zero(t, h.Props().Size)
}

func TestHandle_IDsAreUnique(t *testing.T) {
	rec := &recorder{}
	a, b := NewHandle(rec.factory(false)), NewHandle(rec.factory(false))
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
