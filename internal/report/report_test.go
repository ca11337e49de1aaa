package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/engines/plain"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/samples"
	"github.com/granito-source/concordion/internal/testutil"
	"github.com/granito-source/concordion/internal/tree"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// discoverDemoAndSpike discovers two sample fixtures with the plain
// engine.
func discoverDemoAndSpike(t *testing.T) (platform.Engine, platform.Descriptor) {
	t.Helper()
	l := classpath.NewLoader("host").Install(
		samples.Install,
		plain.Install(tree.WithLocator(samples.Locator()), tree.WithLogger(testutil.DiscardLogger())),
	)
	engines, err := platform.LoadEngines(l)
	require.NoError(t, err)
	demo, err := l.Load("spec.DemoFixture")
	require.NoError(t, err)
	spike, err := l.Load("spec.SpikeFixture")
	require.NoError(t, err)

	e := engines[0]
	root, err := e.Discover(platform.NewDiscoveryRequest(l, platform.SelectClass(demo), platform.SelectClass(spike)),
		platform.ForEngine(e.ID()))
	require.NoError(t, err)
	return e, root
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
}

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"strings", []string{"b", "a"}, `["b","a"]`},
		{"sorted keys", map[string]any{"zebra": 1, "alpha": 2, "beta": 3}, `{"alpha":2,"beta":3,"zebra":1}`},
		{"nested", map[string]any{"z": map[string]any{"b": 1, "a": 2}, "a": []any{"x", false}},
			`{"a":["x",false],"z":{"a":2,"b":1}}`},
		{"nfc", "Cafe\u0301", "\"Caf\u00e9\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.ErrorContains(t, err, "null is forbidden")
	_, err = MarshalCanonical(map[string]any{"f": 1.5})
	assert.ErrorContains(t, err, `object["f"]: floats are forbidden`)
	_, err = MarshalCanonical(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
}

func TestTreeSnapshot_Golden(t *testing.T) {
	_, root := discoverDemoAndSpike(t)

	data, err := MarshalCanonical(TreeSnapshot(root))
	require.NoError(t, err)
	newGolden(t).Assert(t, "tree_demo_spike", data)
}

func TestWriteTree_Golden(t *testing.T) {
	_, root := discoverDemoAndSpike(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, root))
	newGolden(t).Assert(t, "tree_demo_spike_text", buf.Bytes())
}

func TestTraceSnapshot_Golden(t *testing.T) {
	e, root := discoverDemoAndSpike(t)
	trace := NewTrace(nil)

	require.NoError(t, e.Execute(platform.NewExecutionRequest(root, trace, nil)))

	data, err := MarshalCanonical(TraceSnapshot(trace))
	require.NoError(t, err)
	newGolden(t).Assert(t, "trace_demo_spike", data)
}

func TestTrace_CountsAndSummary(t *testing.T) {
	e, root := discoverDemoAndSpike(t)
	clock := NewClock()
	for range 100 {
		clock.Next()
	}
	trace := NewTrace(clock)

	require.NoError(t, e.Execute(platform.NewExecutionRequest(root, trace, nil)))

	assert.Equal(t, Counts{Tests: 3, Successful: 2, Failed: 1}, trace.Counts())
	assert.False(t, trace.Counts().OK())
	events := trace.Events()
	require.Len(t, events, 12)
	assert.Equal(t, int64(101), events[0].Seq)
	assert.Equal(t, int64(112), events[11].Seq)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, trace))
	assert.Equal(t,
		"tests: 3, successful: 2, failed: 1, aborted: 0, skipped: 0\n"+
			"  FAILED engine:concordion/specification:spec.SpikeFixture/example:broken: "+
			"example \"broken\": expected [Hello Johnny!] but was [Hello John!]\n",
		buf.String())
}

func TestTrace_SkippedAndContainerFailures(t *testing.T) {
	root := platform.NewBaseDescriptor(platform.ForEngine("e"), "root", platform.KindContainer, nil)
	spec := platform.NewBaseDescriptor(root.UniqueID().Append("specification", "s"), "s", platform.KindContainer, nil)
	example := platform.NewBaseDescriptor(spec.UniqueID().Append("example", "x"), "x", platform.KindTest, nil)
	trace := NewTrace(nil)

	trace.ExecutionStarted(spec)
	trace.ExecutionSkipped(example, "engine:e/specification:s failed")
	trace.ExecutionFinished(spec, platform.Failed(errors.New("cannot construct")))

	assert.Equal(t, Counts{Tests: 1, Skipped: 1}, trace.Counts())
	assert.True(t, trace.Counts().OK())
	failures := trace.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "engine:e/specification:s", failures[0].ID)
	assert.Equal(t, "cannot construct", failures[0].Error)
}
