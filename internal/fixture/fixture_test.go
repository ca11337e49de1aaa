package fixture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/inject"
	"github.com/granito-source/concordion/internal/platform"
)

type clock struct{ now string }

type reportFixture struct {
	Clock *clock `inject:""`
}

type failingFixture struct {
	Clock *clock `inject:""`
}

func (failingFixture) AfterInject() error { return errors.New("clock not set") }

func define[T any](l *classpath.Loader) *classpath.Type {
	return l.MustDefine(classpath.Of[T]())
}

func TestPlain(t *testing.T) {
	l := classpath.NewLoader("test")
	obj, err := Plain{}.CreateFixtureObject(define[reportFixture](l))
	require.NoError(t, err)
	require.IsType(t, &reportFixture{}, obj)
	assert.Nil(t, obj.(*reportFixture).Clock)
}

func TestPlain_NotInstantiable(t *testing.T) {
	typ := classpath.NewLoader("test").MustDefine(classpath.TypeSpec{Package: "spec", Name: "AbstractFixture"})
	_, err := Plain{}.CreateFixtureObject(typ)
	require.Error(t, err)
	assert.True(t, platform.IsConstructionError(err))
	assert.Contains(t, err.Error(), "spec.AbstractFixture")
}

func TestContainer(t *testing.T) {
	l := classpath.NewLoader("app")
	c := &clock{now: "noon"}
	inject.Register(l, inject.NewContainer().MustProvide(c))

	obj, err := Container{}.CreateFixtureObject(define[reportFixture](l))
	require.NoError(t, err)
	assert.Same(t, c, obj.(*reportFixture).Clock)
}

func TestContainer_NoContainer(t *testing.T) {
	l := classpath.NewLoader("app")
	_, err := Container{}.CreateFixtureObject(define[reportFixture](l))
	require.Error(t, err)
	assert.True(t, platform.IsConstructionError(err))
	assert.ErrorIs(t, err, inject.ErrNoContainer)
}

func TestLifecycle(t *testing.T) {
	l := classpath.NewLoader("app")
	c := &clock{now: "noon"}
	inject.Register(l, inject.NewContainer().MustProvide(c))

	obj, err := Lifecycle{}.CreateFixtureObject(define[reportFixture](l))
	require.NoError(t, err)
	assert.Same(t, c, obj.(*reportFixture).Clock)
}

func TestLifecycle_PreparationFailureIsWrapped(t *testing.T) {
	l := classpath.NewLoader("app")
	inject.Register(l, inject.NewContainer().MustProvide(&clock{}))

	_, err := Lifecycle{}.CreateFixtureObject(define[failingFixture](l))
	require.Error(t, err)
	assert.True(t, platform.IsConstructionError(err))
	assert.Contains(t, err.Error(), "clock not set")
}

func TestFactoryFunc(t *testing.T) {
	want := &reportFixture{}
	f := FactoryFunc(func(*classpath.Type) (any, error) { return want, nil })
	got, err := f.CreateFixtureObject(nil)
	require.NoError(t, err)
	assert.Same(t, want, got)
}
