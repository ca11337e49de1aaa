// Package bootstrap starts the isolated application runtime fixtures of
// the app engine run in.
//
// A Bootstrapper assembles a StartupAction for a fixture: a child loader
// marked platform.MarkerRuntime, populated by the application's
// installers, plus the command that launches the application. A
// Coordinator runs the action at most once: it allocates an ephemeral
// port, exports it as the http.test-port override, points any REST test
// client of the runtime at it, and launches the application. The
// Coordinator is handed to the engine living in the runtime loader as an
// opaque Handle through HandleAware.
//
// The launched application is never stopped; it ends with the process.
package bootstrap
