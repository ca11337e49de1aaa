package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granito-source/concordion/internal/bootstrap"
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/engines/app"
	"github.com/granito-source/concordion/internal/engines/legacy"
	"github.com/granito-source/concordion/internal/engines/lifecycle"
	"github.com/granito-source/concordion/internal/engines/plain"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/samples"
	"github.com/granito-source/concordion/internal/testutil"
	"github.com/granito-source/concordion/internal/tree"
)

func hostLoader(t *testing.T) *classpath.Loader {
	t.Helper()
	logger := testutil.DiscardLogger()
	treeOpts := []tree.Option{tree.WithLocator(samples.Locator()), tree.WithLogger(logger)}
	builder := &bootstrap.Builder{ProjectRoot: t.TempDir(), Logger: logger}
	builder.Installers = []classpath.Installer{
		samples.Install,
		plain.Install(treeOpts...),
		lifecycle.Install(treeOpts...),
		app.Install(builder, app.WithLogger(logger), app.WithTreeOptions(treeOpts...)),
		legacy.Install(legacy.WithLocator(samples.Locator()), legacy.WithLogger(logger)),
	}
	return classpath.NewLoader("host").Install(builder.Installers...)
}

func allPackages(l *classpath.Loader) *platform.DiscoveryRequest {
	return platform.NewDiscoveryRequest(l,
		platform.SelectPackage(samples.PackageSpec),
		platform.SelectPackage(samples.PackageLifecycle),
		platform.SelectPackage(samples.PackageApp),
		platform.SelectPackage(samples.PackageLegacy),
	)
}

func ids(engines []platform.Engine) []string {
	out := make([]string, len(engines))
	for i, e := range engines {
		out[i] = e.ID()
	}
	return out
}

func TestLauncher_Engines(t *testing.T) {
	l := hostLoader(t)

	all, err := New(l).Engines()
	require.NoError(t, err)
	assert.Equal(t, []string{
		platform.EngineIDDefault,
		platform.EngineIDLifecycle,
		platform.EngineIDApp,
		platform.EngineIDLegacy,
	}, ids(all))

	some, err := New(l, WithEngines(platform.EngineIDLegacy, platform.EngineIDDefault)).Engines()
	require.NoError(t, err)
	assert.Equal(t, []string{platform.EngineIDDefault, platform.EngineIDLegacy}, ids(some))

	_, err = New(l, WithEngines("junit-jupiter")).Engines()
	assert.ErrorContains(t, err, `unknown engine "junit-jupiter"`)
}

func TestLauncher_RunEveryEngine(t *testing.T) {
	l := hostLoader(t)
	rec := testutil.NewRecorder()

	plan, err := New(l, WithLogger(testutil.DiscardLogger())).Run(allPackages(l), rec)
	require.NoError(t, err)

	require.Len(t, plan.Roots, 4)
	for i, root := range plan.Roots {
		assert.Equal(t, "engine:"+plan.Engines[i].ID(), root.UniqueID().String())
	}
	// spec: greeting, partial-match, no-match, people, broken; lifecycle:
	// greeting; app: greeting, port, greeting; legacy: one test
	assert.Equal(t, 10, plan.Tests())

	for _, id := range []string{
		"engine:concordion/specification:spec.DemoFixture/example:greeting",
		"engine:concordion-lifecycle/specification:spec/lifecycle.GreetingFixture/example:greeting",
		"engine:concordion-app/specification:spec/app.DemoFixture/example:port",
		"engine:concordion-app/specification:spec/app.SpikeFixture/example:greeting",
		"engine:concordion-legacy/class:spec/legacy.DemoFixture",
	} {
		assert.Equal(t, platform.StatusSuccessful, rec.Status(id), id)
	}
	assert.Equal(t, platform.StatusFailed,
		rec.Status("engine:concordion/specification:spec.SpikeFixture/example:broken"))
}

func TestLauncher_EmptyRootsStillExecute(t *testing.T) {
	l := hostLoader(t)
	rec := testutil.NewRecorder()

	plan, err := New(l).Run(platform.NewDiscoveryRequest(l, platform.SelectPackage(samples.PackageLegacy)), rec)
	require.NoError(t, err)

	assert.Empty(t, plan.Roots[0].Children())
	assert.Equal(t, platform.StatusSuccessful, rec.Status("engine:concordion"))
	// the unresolved app facade executes nothing
	assert.Zero(t, rec.Status("engine:concordion-app"))
}

func TestLauncher_DiscoveryFailureStops(t *testing.T) {
	l := classpath.NewLoader("host").Install(
		samples.Install,
		plain.Install(tree.WithLocator(testutil.StaticLocator{}), tree.WithLogger(testutil.DiscardLogger())),
	)

	_, err := New(l).Discover(platform.NewDiscoveryRequest(l, platform.SelectPackage(samples.PackageSpec)))
	require.Error(t, err)
	assert.True(t, platform.IsDiscoveryError(err))
	assert.Contains(t, err.Error(), "discover with concordion")
}
