package bootstrap

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/restclient"
)

// HandleService is the loader service kind a Handle may be registered
// under, for engines created directly in a runtime loader.
const HandleService = "concordion.bootstrap.handle"

// Handle is the view of a bootstrapped runtime shared by the host and the
// runtime loaders.
type Handle interface {
	// Loader is the runtime's class-loading context.
	Loader() *classpath.Loader
	// EnsureRunning launches the application unless already running.
	EnsureRunning() error
	// Port is the allocated port, 0 before launch.
	Port() int
}

// HandleAware is implemented by components receiving the Handle of the
// runtime they live in.
type HandleAware interface {
	SetHandle(h Handle)
}

// Coordinator launches a StartupAction exactly once.
//
// Thread-safety: all methods are safe for concurrent use. EnsureRunning is
// a single critical section; concurrent callers block until the first
// attempt completes and then observe its outcome.
type Coordinator struct {
	action StartupAction
	intN   IntN
	logger *slog.Logger

	mu       sync.Mutex
	attempts int
	launched bool
	port     int
	app      Application
	err      error
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithIntN sets the random source of port allocation.
func WithIntN(intN IntN) CoordinatorOption {
	return func(c *Coordinator) { c.intN = intN }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator creates a coordinator for action. A nil action makes
// every EnsureRunning fail.
func NewCoordinator(action StartupAction, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{action: action, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Loader implements Handle.
func (c *Coordinator) Loader() *classpath.Loader {
	if c.action == nil {
		return nil
	}
	return c.action.Loader()
}

// Port implements Handle.
func (c *Coordinator) Port() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port
}

// Application returns the launched application, nil before launch.
func (c *Coordinator) Application() Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.app
}

// Attempts returns how many launches were attempted.
func (c *Coordinator) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// EnsureRunning implements Handle. A failed launch is not retried.
func (c *Coordinator) EnsureRunning() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.launched {
		return c.err
	}
	if c.action == nil {
		return platform.NewBootstrapError("no startup context", nil)
	}

	c.attempts++
	c.launched = true
	port := AllocatePort(c.intN)
	c.action.OverrideConfig(map[string]string{PortProperty: strconv.Itoa(port)})
	configureRESTClient(c.action.Loader(), port, c.logger)

	app, err := c.action.Run()
	if err != nil {
		c.err = platform.NewBootstrapError("unable to launch application", err)
		c.logger.Error("application launch failed", "loader", c.action.Loader().Name(), "error", err)
		return c.err
	}

	c.port = port
	c.app = app
	c.logger.Info("application running",
		"loader", c.action.Loader().Name(),
		"port", port,
	)
	return nil
}

// configureRESTClient points the runtime's REST test client at port. It is
// optional: a missing client, a failing one or a panicking one is ignored.
func configureRESTClient(loader *classpath.Loader, port int, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("rest client not configured", "port", port, "panic", fmt.Sprint(r))
		}
	}()

	for _, svc := range loader.Services(restclient.Service) {
		if pc, ok := svc.(restclient.PortConfigurer); ok {
			pc.SetPort(port)
		}
	}
}

// RegisterHandle installs h in loader under HandleService.
func RegisterHandle(loader *classpath.Loader, h Handle) {
	loader.RegisterService(HandleService, h)
}

// LookupHandle returns the Handle registered in loader.
func LookupHandle(loader *classpath.Loader) (Handle, bool) {
	svc, ok := loader.Service(HandleService)
	if !ok {
		return nil, false
	}
	h, ok := svc.(Handle)
	return h, ok
}
