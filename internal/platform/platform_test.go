package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granito-source/concordion/internal/classpath"
)

func TestUniqueID_AppendAndString(t *testing.T) {
	root := ForEngine("concordion")
	spec := root.Append(SegmentSpecification, "spec.DemoFixture")
	example := spec.Append(SegmentExample, "greeting")

	assert.Equal(t, "engine:concordion", root.String())
	assert.Equal(t, "engine:concordion/specification:spec.DemoFixture/example:greeting", example.String())
	assert.Equal(t, "concordion", example.EngineID())
	assert.Equal(t, Segment{Type: SegmentExample, Value: "greeting"}, example.Last())
	assert.Len(t, root.Segments(), 1, "Append must not mutate the receiver")
}

func TestUniqueID_Equal(t *testing.T) {
	a := ForEngine("x").Append("s", "1")
	b := ForEngine("x").Append("s", "1")
	c := ForEngine("x").Append("s", "2")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(ForEngine("x")))
	assert.True(t, UniqueID{}.IsZero())
	assert.Equal(t, "", UniqueID{}.EngineID())
	assert.Equal(t, Segment{}, UniqueID{}.Last())
}

func newNode(name string, kind Kind) *BaseDescriptor {
	return NewBaseDescriptor(ForEngine("e").Append("n", name), name, kind, nil)
}

func TestBaseDescriptor_AddChildSetsParent(t *testing.T) {
	root := newNode("root", KindContainer)
	child := newNode("child", KindTest)

	root.AddChild(child)

	require.Len(t, root.Children(), 1)
	assert.Same(t, root, root.Children()[0].Parent())
	assert.Same(t, root, Root(child))
}

func TestBaseDescriptor_AddChildIsIdempotent(t *testing.T) {
	root := newNode("root", KindContainer)
	child := newNode("child", KindTest)

	root.AddChild(child)
	root.AddChild(child)

	assert.Len(t, root.Children(), 1)
}

func TestBaseDescriptor_AddChildKeepsPreviousParent(t *testing.T) {
	first := newNode("first", KindContainer)
	second := newNode("second", KindContainer)
	child := newNode("child", KindTest)

	first.AddChild(child)
	second.AddChild(child)

	assert.Len(t, first.Children(), 1)
	assert.Len(t, second.Children(), 1)
	assert.Same(t, second, child.Parent(), "the latest parent is reported")

	first.RemoveChild(child)
	assert.Same(t, second, child.Parent(), "removal from a stale parent keeps the current one")
}

func TestBaseDescriptor_ReplaceChildren(t *testing.T) {
	root := newNode("root", KindContainer)
	a := newNode("a", KindTest)
	b := newNode("b", KindTest)
	root.AddChild(a)

	root.ReplaceChildren(b)

	require.Len(t, root.Children(), 1)
	assert.Same(t, b, root.Children()[0])
	assert.Same(t, root, b.Parent())
	assert.Nil(t, a.Parent())
}

func TestBaseDescriptor_RemoveChildren(t *testing.T) {
	root := newNode("root", KindContainer)
	a := newNode("a", KindTest)
	b := newNode("b", KindTest)
	root.AddChild(a)
	root.AddChild(b)

	root.RemoveChild(a)
	assert.Nil(t, a.Parent())
	assert.Len(t, root.Children(), 1)

	root.RemoveChildren()
	assert.Empty(t, root.Children())
	assert.Nil(t, b.Parent())
}

func TestWalk_DepthFirstInOrder(t *testing.T) {
	root := newNode("root", KindContainer)
	a := newNode("a", KindContainer)
	a1 := newNode("a1", KindTest)
	b := newNode("b", KindTest)
	root.AddChild(a)
	a.AddChild(a1)
	root.AddChild(b)

	var names []string
	Walk(root, func(d Descriptor) { names = append(names, d.DisplayName()) })

	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
}

func TestKindAndStatusStrings(t *testing.T) {
	assert.Equal(t, "container", KindContainer.String())
	assert.Equal(t, "test", KindTest.String())
	assert.Equal(t, "container-and-test", KindContainerAndTest.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "successful", StatusSuccessful.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "aborted", StatusAborted.String())
	assert.Equal(t, "unknown", Status(0).String())
}

func TestDiscoveryRequest_DeduplicatesSelectors(t *testing.T) {
	l := classpath.NewLoader("host")
	demo := l.MustDefine(classpath.TypeSpec{Package: "spec", Name: "DemoFixture"})

	req := NewDiscoveryRequest(l,
		SelectPackage("spec"),
		SelectClass(demo),
		SelectPackage("spec"),
		SelectClass(demo),
		ClassSelector{},
		nil,
	)

	assert.Len(t, req.Selectors(), 2)
	require.Len(t, req.ClassSelectors(), 1)
	assert.Same(t, demo, req.ClassSelectors()[0].Type)
	require.Len(t, req.PackageSelectors(), 1)
	assert.Equal(t, "spec", req.PackageSelectors()[0].Package)
	assert.Same(t, l, req.Loader())
}

func TestNewExecutionRequest_Defaults(t *testing.T) {
	req := NewExecutionRequest(newNode("root", KindContainer), nil, nil)

	assert.IsType(t, NopListener{}, req.Listener)
	assert.NotNil(t, req.Properties)
}

func TestLoadEngines(t *testing.T) {
	l := classpath.NewLoader("host")
	RegisterEngine(l, func(loader *classpath.Loader) Engine { return nil })
	engines, err := LoadEngines(l)
	require.NoError(t, err)
	assert.Len(t, engines, 1)

	l.RegisterService(EngineService, "not a factory")
	_, err = LoadEngines(l)
	assert.Error(t, err)
}

func TestError_Taxonomy(t *testing.T) {
	cause := errors.New("io failure")
	err := NewDiscoveryError("spec.DemoFixture", cause)

	assert.Contains(t, err.Error(), "spec.DemoFixture")
	assert.Contains(t, err.Error(), "DISCOVERY_FAILED")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDiscoveryError(err))
	assert.False(t, IsBootstrapError(err))

	wrapped := errors.Join(errors.New("context"), NewBootstrapError("no startup context", nil))
	assert.True(t, IsBootstrapError(wrapped))
	assert.Equal(t, "BOOTSTRAP_FAILED: no startup context", NewBootstrapError("no startup context", nil).Error())

	assert.True(t, IsConstructionError(NewConstructionError("x", cause)))
	assert.True(t, HasCode(NewDirectUseError("nope"), ErrCodeDirectUse))
	assert.False(t, HasCode(cause, ErrCodeDirectUse))
}

type recordingListener struct {
	events []string
}

func (r *recordingListener) ExecutionStarted(d Descriptor) {
	r.events = append(r.events, "start "+d.DisplayName())
}

func (r *recordingListener) ExecutionSkipped(d Descriptor, reason string) {
	r.events = append(r.events, "skip "+d.DisplayName()+" "+reason)
}

func (r *recordingListener) ExecutionFinished(d Descriptor, res Result) {
	r.events = append(r.events, "finish "+d.DisplayName()+" "+res.Status.String())
}

func TestMultiAndSyncListener(t *testing.T) {
	a, b := &recordingListener{}, &recordingListener{}
	l := NewSyncListener(MultiListener{a, b})
	d := newNode("n", KindTest)

	l.ExecutionStarted(d)
	l.ExecutionSkipped(d, "why")
	l.ExecutionFinished(d, Failed(errors.New("x")))

	want := []string{"start n", "skip n why", "finish n failed"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}
