package testsupport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"

	"github.com/karloscodes/p13"
	"github.com/karloscodes/p13/resolver"
)

// TestServerOptions configures test server creation.
type TestServerOptions struct {
	// Fs is the document root filesystem. Defaults to an empty NewDocRoot.
	Fs afero.Fs

	// Config overrides NewTestConfig. Ignored when ServerConfig.Config is set.
	Config *TestConfig

	// Route mounting function
	RouteMountFunc func(*p13.Server)

	// Custom server configuration (optional)
	ServerConfig *p13.ServerConfig

	// Disable middleware for simpler testing
	DisableMiddleware bool
}

// TestServer wraps a p13 server for testing.
type TestServer struct {
	t      testing.TB
	Server *p13.Server
	App    *fiber.App
	Fs     afero.Fs
	Logger p13.Logger
	Config *TestConfig
}

// NewTestServer creates a test server resolving against an in-memory
// document root.
func NewTestServer(t testing.TB, opts ...TestServerOptions) *TestServer {
	t.Helper()

	var options TestServerOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	fs := options.Fs
	if fs == nil {
		fs = NewDocRoot(t)
	}
	serverCfg := options.ServerConfig
	if serverCfg == nil {
		serverCfg = p13.DefaultServerConfig()
	}

	// Config and Logger given on ServerConfig are kept; Config then stays nil
	// on the returned TestServer.
	config := options.Config
	if serverCfg.Config == nil {
		if config == nil {
			config = NewTestConfig()
		}
		serverCfg.Config = config
	} else {
		config = nil
	}
	if serverCfg.Logger == nil {
		serverCfg.Logger = p13.NewSlogAdapter(NewTestLogger())
	}
	if serverCfg.Prober == nil {
		serverCfg.Prober = resolver.NewFSProber(fs)
	}

	if options.DisableMiddleware {
		serverCfg.EnableRequestLogger = false
		serverCfg.EnableHelmet = false
	}

	server, err := p13.NewServer(serverCfg)
	if err != nil {
		t.Fatalf("testsupport: failed to create test server: %v", err)
	}

	if options.RouteMountFunc != nil {
		options.RouteMountFunc(server)
	}

	return &TestServer{
		t:      t,
		Server: server,
		App:    server.App(),
		Fs:     fs,
		Logger: serverCfg.Logger,
		Config: config,
	}
}

// Request performs a test request and returns the response.
func (ts *TestServer) Request(method, target string, body ...string) *http.Response {
	ts.t.Helper()

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = strings.NewReader(body[0])
	}

	req := httptest.NewRequest(method, target, bodyReader)
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.App.Test(req, -1)
	if err != nil {
		ts.t.Fatalf("testsupport: request failed: %v", err)
	}

	return resp
}

// Get performs a GET request.
func (ts *TestServer) Get(target string) *http.Response {
	return ts.Request(http.MethodGet, target)
}

// Post performs a POST request with JSON body.
func (ts *TestServer) Post(target, body string) *http.Response {
	return ts.Request(http.MethodPost, target, body)
}

// ReadBody reads and closes the response body.
func ReadBody(t testing.TB, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("testsupport: read body: %v", err)
	}
	return string(b)
}
