package platform

// Engine identifiers.
const (
	// EngineIDDefault is the plain tree engine.
	EngineIDDefault = "concordion"
	// EngineIDLifecycle prepares fixtures through the test lifecycle.
	EngineIDLifecycle = "concordion-lifecycle"
	// EngineIDApp runs fixtures inside a bootstrapped application runtime.
	EngineIDApp = "concordion-app"
	// EngineIDLegacy is the single-level runner fixtures may opt into.
	EngineIDLegacy = "concordion-legacy"
)

// Markers carried by fixture types and loaders.
const (
	// MarkerFixture tags fixtures of the default engine.
	MarkerFixture = "concordion.fixture"
	// MarkerLifecycleFixture tags fixtures prepared by the test lifecycle.
	MarkerLifecycleFixture = "concordion.lifecycle.fixture"
	// MarkerAppFixture tags fixtures that need the application runtime.
	MarkerAppFixture = "concordion.app.fixture"
	// MarkerLegacy asks for the legacy single-level runner.
	MarkerLegacy = "concordion.runwith.legacy"
	// MarkerRuntime tags the loader of a bootstrapped application runtime.
	MarkerRuntime = "concordion.runtime"
)
