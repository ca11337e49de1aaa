package tree

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/hierarchical"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/specification"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingFixture struct {
	mu  sync.Mutex
	ran []string
}

func (f *recordingFixture) RunExample(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = append(f.ran, name)
	if name == "broken" {
		return errors.New("expected [1] but was [2]")
	}
	return nil
}

type fixtures struct {
	loader   *classpath.Loader
	objects  []*recordingFixture
	examples map[string][]string
}

func newFixtures() *fixtures {
	f := &fixtures{
		loader: classpath.NewLoader("host"),
		examples: map[string][]string{
			"spec.DemoFixture":           {"greeting"},
			"spec.PartialMatchesFixture": {"a", "b", "c"},
			"spec.SpikeTest":             {"broken", "fine"},
		},
	}
	define := func(name string, markers ...string) {
		f.loader.MustDefine(classpath.TypeSpec{
			Package: "spec",
			Name:    name,
			Markers: markers,
			New: func() any {
				obj := &recordingFixture{}
				f.objects = append(f.objects, obj)
				return obj
			},
		})
	}
	define("DemoFixture", platform.MarkerFixture)
	define("PartialMatchesFixture", platform.MarkerFixture)
	define("UnmarkedFixture")
	define("SpikeTest", platform.MarkerFixture)
	return f
}

func (f *fixtures) locator() specification.Locator {
	return specification.LocatorFunc(func(t *classpath.Type) ([]string, error) {
		names, ok := f.examples[t.Name()]
		if !ok {
			return nil, errors.New("specification not found")
		}
		return names, nil
	})
}

func (f *fixtures) load(t *testing.T, name string) *classpath.Type {
	t.Helper()
	typ, err := f.loader.Load(name)
	require.NoError(t, err)
	return typ
}

func (f *fixtures) builder(opts ...Option) *Builder {
	return New(platform.EngineIDDefault, append([]Option{WithLocator(f.locator()), WithLogger(discard)}, opts...)...)
}

func rootID() platform.UniqueID {
	return platform.ForEngine(platform.EngineIDDefault)
}

func TestDiscover_SingleFixture(t *testing.T) {
	f := newFixtures()
	b := f.builder()

	root, err := b.Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectClass(f.load(t, "spec.DemoFixture"))), rootID())
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, root.DisplayName())
	require.Len(t, root.Children(), 1)
	spec := root.Children()[0]
	assert.Equal(t, "Demo", spec.DisplayName())
	assert.Equal(t, "engine:concordion/specification:spec.DemoFixture", spec.UniqueID().String())

	require.Len(t, spec.Children(), 1)
	example := spec.Children()[0]
	assert.True(t, strings.HasSuffix(example.UniqueID().String(), ":greeting"))
	assert.Equal(t, platform.KindTest, example.Kind())
}

func TestDiscover_ExamplesInLocatorOrder(t *testing.T) {
	f := newFixtures()
	root, err := f.builder().Discover(
		platform.NewDiscoveryRequest(f.loader, platform.SelectClass(f.load(t, "spec.PartialMatchesFixture"))), rootID())
	require.NoError(t, err)

	spec := root.Children()[0]
	require.Len(t, spec.Children(), 3)
	for i, suffix := range []string{":a", ":b", ":c"} {
		assert.True(t, strings.HasSuffix(spec.Children()[i].UniqueID().String(), suffix),
			"child %d: %s", i, spec.Children()[i].UniqueID())
	}
}

func TestDiscover_PackageSkipsIneligible(t *testing.T) {
	f := newFixtures()
	root, err := f.builder().Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectPackage("spec")), rootID())
	require.NoError(t, err)

	var names []string
	for _, c := range root.Children() {
		names = append(names, c.(*SpecificationDescriptor).Fixture().Name())
	}
	assert.Equal(t, []string{"spec.DemoFixture", "spec.PartialMatchesFixture", "spec.SpikeTest"}, names)
}

func TestDiscover_NoFixtures(t *testing.T) {
	f := newFixtures()
	root, err := f.builder().Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectPackage("empty")), rootID())
	require.NoError(t, err)
	assert.Empty(t, root.Children())
}

func TestDiscover_ExplicitAndPackageSelectionYieldOneChild(t *testing.T) {
	f := newFixtures()
	root, err := f.builder().Discover(platform.NewDiscoveryRequest(f.loader,
		platform.SelectClass(f.load(t, "spec.SpikeTest")),
		platform.SelectPackage("spec"),
	), rootID())
	require.NoError(t, err)

	require.Len(t, root.Children(), 3)
	assert.Equal(t, "Spike", root.Children()[0].DisplayName(), "explicit selections come first")
}

func TestDiscover_RetrievalErrorAbortsDiscovery(t *testing.T) {
	f := newFixtures()
	delete(f.examples, "spec.PartialMatchesFixture")

	var calls []string
	locator := specification.LocatorFunc(func(t *classpath.Type) ([]string, error) {
		calls = append(calls, t.Name())
		return f.locator().ExampleNames(t)
	})

	root, err := f.builder(WithLocator(locator)).Discover(
		platform.NewDiscoveryRequest(f.loader, platform.SelectPackage("spec")), rootID())
	require.Error(t, err)
	assert.Nil(t, root)
	assert.True(t, platform.IsDiscoveryError(err))
	assert.Contains(t, err.Error(), "spec.PartialMatchesFixture")
	assert.Contains(t, err.Error(), "specification not found")
	assert.Equal(t, []string{"spec.DemoFixture", "spec.PartialMatchesFixture"}, calls)
}

func TestDiscover_SpecificationsAreCachedAcrossCalls(t *testing.T) {
	f := newFixtures()
	b := f.builder()
	req := platform.NewDiscoveryRequest(f.loader, platform.SelectClass(f.load(t, "spec.PartialMatchesFixture")))

	first, err := b.Discover(req, rootID())
	require.NoError(t, err)
	firstSpec := first.Children()[0]
	firstExample := firstSpec.Children()[0]

	second, err := b.Discover(req, rootID())
	require.NoError(t, err)
	secondSpec := second.Children()[0]

	assert.Same(t, firstSpec, secondSpec)
	assert.Equal(t, 1, b.Cache().Len())
	assert.NotSame(t, firstExample, secondSpec.Children()[0], "examples are rebuilt")
	assert.Equal(t, firstExample.UniqueID(), secondSpec.Children()[0].UniqueID())
	assert.Len(t, secondSpec.Children(), 3)
}

func TestDiscover_RediscoveryAttachesToEveryRoot(t *testing.T) {
	f := newFixtures()
	b := f.builder()
	req := platform.NewDiscoveryRequest(f.loader, platform.SelectClass(f.load(t, "spec.DemoFixture")))

	first, err := b.Discover(req, platform.ForEngine("first"))
	require.NoError(t, err)
	second, err := b.Discover(req, platform.ForEngine("second"))
	require.NoError(t, err)

	require.Len(t, first.Children(), 1, "the earlier root keeps the cached specification")
	require.Len(t, second.Children(), 1)
	spec := second.Children()[0]
	assert.Same(t, first.Children()[0], spec)
	assert.Same(t, second, spec.Parent())
	assert.Equal(t, "engine:first/specification:spec.DemoFixture", spec.UniqueID().String(),
		"the id is fixed when the specification is first created")
}

func TestDiscover_ConcurrentCallsEachReturnFullRoots(t *testing.T) {
	f := newFixtures()
	b := f.builder()
	fixtureType := f.load(t, "spec.PartialMatchesFixture")
	req := platform.NewDiscoveryRequest(f.loader, platform.SelectClass(fixtureType))

	const n = 16
	roots := make([]platform.Descriptor, n)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			root, err := b.Discover(req, rootID())
			roots[i] = root
			return err
		})
	}
	require.NoError(t, g.Wait())

	cached, ok := b.Cache().Get(fixtureType)
	require.True(t, ok)
	for i, root := range roots {
		require.Len(t, root.Children(), 1, "root %d", i)
		spec := root.Children()[0]
		assert.Same(t, cached, spec, "root %d", i)
		assert.Len(t, spec.Children(), 3, "root %d", i)
	}
	assert.Equal(t, 1, b.Cache().Len())
}

func TestAppend_PrerequisiteRunsBeforeEachAppend(t *testing.T) {
	f := newFixtures()
	var calls atomic.Int32
	b := f.builder(WithPrerequisite(func() error {
		calls.Add(1)
		return nil
	}))

	_, err := b.Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectPackage("spec")), rootID())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	failing := f.builder(WithPrerequisite(func() error { return errors.New("runtime down") }))
	_, err = failing.Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectPackage("spec")), rootID())
	assert.EqualError(t, err, "runtime down")
	assert.Zero(t, failing.Cache().Len())
}

func TestDiscover_AdjustRunsBeforeEligibility(t *testing.T) {
	f := newFixtures()
	other := classpath.NewLoader("other")
	remapped := other.MustDefine(classpath.TypeSpec{
		Package: "spec",
		Name:    "UnmarkedFixture",
		Markers: []string{platform.MarkerFixture},
	})
	f.examples["spec.UnmarkedFixture"] = []string{"x"}

	b := f.builder(WithAdjust(func(c *classpath.Type) (*classpath.Type, error) {
		if c.Name() == "spec.UnmarkedFixture" {
			return remapped, nil
		}
		return c, nil
	}))
	root, err := b.Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectClass(f.load(t, "spec.UnmarkedFixture"))), rootID())
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	assert.Same(t, remapped, root.Children()[0].(*SpecificationDescriptor).Fixture())

	failing := f.builder(WithAdjust(func(*classpath.Type) (*classpath.Type, error) {
		return nil, classpath.ErrTypeNotFound
	}))
	_, err = failing.Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectPackage("spec")), rootID())
	assert.ErrorIs(t, err, classpath.ErrTypeNotFound)
}

type statusRecorder struct {
	mu       sync.Mutex
	finished map[string]platform.Status
	skipped  []string
}

func newStatusRecorder() *statusRecorder {
	return &statusRecorder{finished: make(map[string]platform.Status)}
}

func (r *statusRecorder) ExecutionStarted(platform.Descriptor) {}

func (r *statusRecorder) ExecutionSkipped(d platform.Descriptor, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, d.UniqueID().String())
}

func (r *statusRecorder) ExecutionFinished(d platform.Descriptor, res platform.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[d.UniqueID().String()] = res.Status
}

func TestExecute_RunsExamplesOnOneFixtureObjectPerSpecification(t *testing.T) {
	f := newFixtures()
	b := f.builder()
	root, err := b.Discover(platform.NewDiscoveryRequest(f.loader,
		platform.SelectClass(f.load(t, "spec.PartialMatchesFixture")),
		platform.SelectClass(f.load(t, "spec.SpikeTest")),
	), rootID())
	require.NoError(t, err)

	rec := newStatusRecorder()
	require.NoError(t, b.Execute(platform.NewExecutionRequest(root, rec, nil)))

	require.Len(t, f.objects, 2)
	assert.Equal(t, []string{"a", "b", "c"}, f.objects[0].ran)
	assert.Equal(t, []string{"broken", "fine"}, f.objects[1].ran)

	spike := "engine:concordion/specification:spec.SpikeTest"
	assert.Equal(t, platform.StatusFailed, rec.finished[spike+"/example:broken"])
	assert.Equal(t, platform.StatusSuccessful, rec.finished[spike+"/example:fine"])
	assert.Equal(t, platform.StatusSuccessful, rec.finished[spike])
}

func TestExecute_ConstructionFailureSkipsExamples(t *testing.T) {
	f := newFixtures()
	broken := f.loader.MustDefine(classpath.TypeSpec{
		Package: "broken",
		Name:    "AbstractFixture",
		Markers: []string{platform.MarkerFixture},
	})
	f.examples[broken.Name()] = []string{"one", "two"}
	b := f.builder()

	root, err := b.Discover(platform.NewDiscoveryRequest(f.loader, platform.SelectClass(broken)), rootID())
	require.NoError(t, err, "construction failures surface at execution, not discovery")

	rec := newStatusRecorder()
	require.NoError(t, b.Execute(platform.NewExecutionRequest(root, rec, nil)))

	spec := "engine:concordion/specification:broken.AbstractFixture"
	assert.Equal(t, platform.StatusFailed, rec.finished[spec])
	assert.Equal(t, []string{spec + "/example:one", spec + "/example:two"}, rec.skipped)
}

func TestExecute_WithoutDiscovery(t *testing.T) {
	f := newFixtures()
	assert.NoError(t, f.builder().Execute(platform.NewExecutionRequest(nil, nil, nil)))
}

func TestExampleDescriptor_WithoutFixtureObject(t *testing.T) {
	spec := NewRootDescriptor(rootID(), "root")
	ex := NewExampleDescriptor(spec, "lonely")
	assert.Equal(t, "engine:concordion/example:lonely", ex.UniqueID().String())
	assert.ErrorIs(t, ex.Execute(&hierarchical.Context{}), ErrNoFixture)
}
