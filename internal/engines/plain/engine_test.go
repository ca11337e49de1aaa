package plain

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/samples"
	"github.com/granito-source/concordion/internal/testutil"
	"github.com/granito-source/concordion/internal/tree"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEngine(t *testing.T) (*classpath.Loader, platform.Engine) {
	t.Helper()
	l := classpath.NewLoader("host").Install(
		samples.Install,
		Install(tree.WithLocator(samples.Locator()), tree.WithLogger(discard)),
	)
	engines, err := platform.LoadEngines(l)
	require.NoError(t, err)
	require.Len(t, engines, 1)
	return l, engines[0]
}

func TestEngine_ID(t *testing.T) {
	_, e := newEngine(t)
	assert.Equal(t, platform.EngineIDDefault, e.ID())
}

func TestEngine_DiscoverPackageSkipsIneligible(t *testing.T) {
	l, e := newEngine(t)
	root, err := e.Discover(platform.NewDiscoveryRequest(l, platform.SelectPackage(samples.PackageSpec)),
		platform.ForEngine(e.ID()))
	require.NoError(t, err)

	assert.Equal(t, Title, root.DisplayName())
	var names []string
	for _, c := range root.Children() {
		names = append(names, c.DisplayName())
	}
	assert.Equal(t, []string{"Demo", "Partial Matches", "Spike"}, names)
}

func TestEngine_DiscoverAndExecute(t *testing.T) {
	l, e := newEngine(t)
	demo, err := l.Load("spec.DemoFixture")
	require.NoError(t, err)

	root, err := e.Discover(platform.NewDiscoveryRequest(l, platform.SelectClass(demo)), platform.ForEngine(e.ID()))
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	examples := root.Children()[0].Children()
	require.Len(t, examples, 1)
	assert.Equal(t, "engine:concordion/specification:spec.DemoFixture/example:greeting", examples[0].UniqueID().String())

	rec := testutil.NewRecorder()
	require.NoError(t, e.Execute(platform.NewExecutionRequest(root, rec, nil)))
	assert.Equal(t, platform.StatusSuccessful, rec.Status(examples[0].UniqueID().String()))
}

func TestEngine_DoesNotSelectARunner(t *testing.T) {
	l, _ := newEngine(t)
	_, ok := l.Properties().Get("concordion.runner.concordion")
	assert.False(t, ok)
}
