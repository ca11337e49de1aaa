// Package app runs fixtures inside a bootstrapped application runtime.
//
// Engine is the stable facade registered under platform.EngineIDApp. On
// first discovery it checks whether it already lives in a runtime loader
// (platform.MarkerRuntime). If so it creates a RuntimeEngine in place.
// Otherwise it looks for one fixture carrying platform.MarkerAppFixture
// among the selections. Without one it stays unresolved and returns an
// empty root. With one it bootstraps the runtime, launches the
// application, resolves the Engine registered in the runtime loader by
// identifier and hands it the runtime Handle. Every later call is
// forwarded to the resolved engine.
//
// RuntimeEngine is the tree engine living in the runtime loader. It is
// reachable only through delegation; calling its ID method panics.
package app
