// Package restclient is the REST test client fixtures use to talk to the
// bootstrapped application. Its base URL follows the port allocated at
// bootstrap.
package restclient

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"resty.dev/v3"

	"github.com/granito-source/concordion/internal/classpath"
)

// Service is the loader service kind the client is registered under.
const Service = "concordion.restclient"

// DefaultHost is the host the application listens on.
const DefaultHost = "localhost"

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// PortConfigurer is implemented by helpers whose target port is decided
// at bootstrap.
type PortConfigurer interface {
	SetPort(port int)
}

// Client wraps a resty client with a mutable port.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	host string

	mu   sync.RWMutex
	port int
	rc   *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHost sets the target host. Default: DefaultHost.
func WithHost(host string) Option {
	return func(c *Client) { c.host = host }
}

// New creates a client. The port is unset until SetPort is called.
func New(opts ...Option) *Client {
	c := &Client{host: DefaultHost}
	for _, opt := range opts {
		opt(c)
	}
	c.rc = resty.New().SetTimeout(DefaultTimeout)
	return c
}

// SetPort implements PortConfigurer.
func (c *Client) SetPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.port = port
	c.rc.SetBaseURL(c.baseURL())
}

// Port returns the configured port, 0 when unset.
func (c *Client) Port() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.port
}

// BaseURL returns the URL requests are resolved against.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL()
}

func (c *Client) baseURL() string {
	return "http://" + net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// R starts a request against the application.
func (c *Client) R() (*resty.Request, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.port == 0 {
		return nil, fmt.Errorf("rest client for %s: port not configured", c.host)
	}
	return c.rc.R(), nil
}

// Get fetches path and returns the response body.
func (c *Client) Get(path string) (int, string, error) {
	req, err := c.R()
	if err != nil {
		return 0, "", err
	}
	resp, err := req.Get(path)
	if err != nil {
		return 0, "", fmt.Errorf("GET %s: %w", path, err)
	}
	return resp.StatusCode(), resp.String(), nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.rc.Close()
}

// Register installs c as the REST client of loader.
func Register(loader *classpath.Loader, c PortConfigurer) {
	loader.RegisterService(Service, c)
}

// Lookup returns the REST client of loader.
func Lookup(loader *classpath.Loader) (*Client, bool) {
	svc, ok := loader.Service(Service)
	if !ok {
		return nil, false
	}
	c, ok := svc.(*Client)
	return c, ok
}
