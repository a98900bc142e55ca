package p13_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karloscodes/p13"
	"github.com/karloscodes/p13/config"
	"github.com/karloscodes/p13/middleware"
	"github.com/karloscodes/p13/resolver"
	"github.com/karloscodes/p13/testsupport"
)

var (
	_ p13.Config                = (*config.Config)(nil)
	_ p13.LogConfigProvider     = (*config.Config)(nil)
	_ p13.RoutingConfigProvider = (*config.Config)(nil)
	_ p13.DefaultsProvider      = (*config.Config)(nil)

	_ p13.RoutingConfigProvider = (*testsupport.TestConfig)(nil)
	_ p13.DefaultsProvider      = (*testsupport.TestConfig)(nil)
)

type echoed struct {
	Target     p13.Target          `json:"target"`
	Resolution resolver.Resolution `json:"resolution"`
}

func echo(ctx *p13.Context) error {
	return ctx.JSON(fiber.Map{"target": ctx.Target, "resolution": ctx.Resolution})
}

func decode(t *testing.T, resp *http.Response) echoed {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out echoed
	require.NoError(t, json.Unmarshal([]byte(testsupport.ReadBody(t, resp)), &out))
	return out
}

func shopServer(t *testing.T, mount func(*p13.Server), opts ...testsupport.TestServerOptions) *testsupport.TestServer {
	t.Helper()

	var o testsupport.TestServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Fs == nil {
		o.Fs = testsupport.NewDocRoot(t, "shop/public/index.php", "shop/app/modules/blog/")
	}
	o.RouteMountFunc = mount
	o.DisableMiddleware = true
	return testsupport.NewTestServer(t, o)
}

func TestServer_DispatchesExplicitFrontController(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("", "products", p13.Actions{"show": echo}))
	})

	out := decode(t, ts.Get("/shop/public/index.php/products/show/42?color=red"))

	assert.Equal(t, p13.Target{Controller: "products", Method: "show", Args: []string{"42"}}, out.Target)
	assert.Equal(t, "shop", out.Resolution.InstallSubdirectory)
	assert.Equal(t, "products/show/42", out.Resolution.ResourcePath)
	assert.Equal(t, map[string]string{"color": "red"}, out.Resolution.Query)
}

func TestServer_DispatchesPrettyURL(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("", "products", p13.Actions{"show": echo}))
	})

	out := decode(t, ts.Get("/shop/products/show/42"))

	assert.Equal(t, "shop", out.Resolution.InstallSubdirectory)
	assert.Equal(t, []string{"42"}, out.Target.Args)
}

func TestServer_AppliesDefaults(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("", "default", p13.Actions{"index": echo}))
		require.NoError(t, s.Register("", "products", p13.Actions{"index": echo}))
	})

	tests := []struct {
		path string
		want p13.Target
	}{
		{"/shop/public/index.php", p13.Target{Controller: "default", Method: "index", Args: []string{}}},
		{"/shop/", p13.Target{Controller: "default", Method: "index", Args: []string{}}},
		{"/shop/products", p13.Target{Controller: "products", Method: "index", Args: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out := decode(t, ts.Get(tt.path))
			assert.Equal(t, tt.want, out.Target)
		})
	}
}

func TestServer_DefaultModule(t *testing.T) {
	cfg := testsupport.NewTestConfig()
	cfg.DefaultModule = "site"

	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("site", "default", p13.Actions{"index": echo}))
	}, testsupport.TestServerOptions{Config: cfg})

	out := decode(t, ts.Get("/shop/"))
	assert.Equal(t, "site", out.Target.Module)
	assert.Empty(t, out.Resolution.Module)
}

func TestServer_RegisteredModule(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("admin", "users", p13.Actions{"edit": echo}))
	})

	out := decode(t, ts.Get("/shop/public/index.php/admin/users/edit/3"))

	assert.Equal(t, p13.Target{Module: "admin", Controller: "users", Method: "edit", Args: []string{"3"}}, out.Target)
}

func TestServer_ModuleDirectory(t *testing.T) {
	cfg := testsupport.NewTestConfig()
	cfg.ModulesDirectory = testsupport.DocumentRoot + "/shop/app/modules"

	ts := shopServer(t, nil, testsupport.TestServerOptions{
		Config: cfg,
		ServerConfig: &p13.ServerConfig{
			Fallback: echo,
		},
	})

	out := decode(t, ts.Get("/shop/blog/posts/view/7"))

	assert.Equal(t, "blog", out.Resolution.Module)
	assert.Equal(t, p13.Target{Module: "blog", Controller: "posts", Method: "view", Args: []string{"7"}}, out.Target)
}

func TestServer_RelativeModulesDirFollowsInstallRoot(t *testing.T) {
	cfg := &config.Config{
		Environment:       config.Test,
		DocumentRoot:      testsupport.DocumentRoot,
		FrontController:   "public/index.php",
		ModulesDirectory:  "app/modules",
		DefaultController: "default",
		DefaultMethod:     "index",
	}
	logger := p13.NewSlogAdapter(testsupport.NewTestLogger())

	ts := shopServer(t, nil, testsupport.TestServerOptions{
		ServerConfig: &p13.ServerConfig{
			Config:   cfg,
			Logger:   logger,
			Fallback: echo,
		},
	})
	assert.Same(t, logger, ts.Logger)
	assert.Nil(t, ts.Config)

	out := decode(t, ts.Get("/shop/blog/posts/view/7"))

	assert.Equal(t, "shop", out.Resolution.InstallSubdirectory)
	assert.Equal(t, "blog", out.Resolution.Module)
	assert.Equal(t, p13.Target{Module: "blog", Controller: "posts", Method: "view", Args: []string{"7"}}, out.Target)
}

func TestServer_NotFound(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("", "products", p13.Actions{"show": echo}))
	})

	t.Run("unknown controller", func(t *testing.T) {
		resp := ts.Get("/shop/orders/list")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, testsupport.ReadBody(t, resp), "controller not found")
	})

	t.Run("unknown action", func(t *testing.T) {
		resp := ts.Get("/shop/products/delete/1")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, testsupport.ReadBody(t, resp), "action not found")
	})
}

func TestServer_Fallback(t *testing.T) {
	ts := shopServer(t, nil, testsupport.TestServerOptions{
		ServerConfig: &p13.ServerConfig{
			Fallback: func(ctx *p13.Context) error {
				return ctx.Status(http.StatusTeapot).SendString(ctx.Target.String())
			},
		},
	})

	resp := ts.Get("/shop/products/show")
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "products.show", testsupport.ReadBody(t, resp))
}

func TestServer_ContextAccessors(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("", "search", p13.Actions{
			"run": func(ctx *p13.Context) error {
				same, ok := p13.FromFiber(ctx.Ctx)
				require.True(t, ok)
				assert.Same(t, ctx, same)

				first, _ := ctx.Arg(0)
				_, missing := ctx.Arg(5)
				q, _ := ctx.Param("q")
				return ctx.JSON(fiber.Map{"first": first, "missing": missing, "q": q})
			},
		}))
	})

	resp := ts.Get("/shop/search/run/books?q=go+lang")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(testsupport.ReadBody(t, resp)), &body))
	assert.Equal(t, "books", body["first"])
	assert.Equal(t, false, body["missing"])
	assert.Equal(t, "go lang", body["q"])
}

func TestServer_HealthCheck(t *testing.T) {
	ts := shopServer(t, nil)

	resp := ts.Get("/_health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, testsupport.ReadBody(t, resp))
}

func TestServer_RecoversPanics(t *testing.T) {
	ts := shopServer(t, func(s *p13.Server) {
		require.NoError(t, s.Register("", "boom", p13.Actions{
			"index": func(*p13.Context) error { panic("kaboom") },
		}))
	})

	resp := ts.Get("/shop/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := p13.NewServer(nil)
	assert.Error(t, err)

	_, err = p13.NewServer(&p13.ServerConfig{Logger: p13.NewSlogAdapter(testsupport.NewTestLogger())})
	assert.ErrorContains(t, err, "runtime config")

	_, err = p13.NewServer(&p13.ServerConfig{Config: testsupport.NewTestConfig()})
	assert.ErrorContains(t, err, "logger")
}

func TestNewApplication(t *testing.T) {
	mounted := false
	app, err := p13.NewApplication(p13.ApplicationOptions{
		Config: testsupport.NewTestConfig(),
		Logger: p13.NewSlogAdapter(testsupport.NewTestLogger()),
		ServerConfig: &p13.ServerConfig{
			Prober: resolver.NewFSProber(testsupport.NewDocRoot(t)),
		},
		RouteMountFunc: func(s *p13.Server) {
			mounted = true
			require.NoError(t, s.Register("", "default", p13.Actions{"index": echo}))
		},
	})
	require.NoError(t, err)
	assert.True(t, mounted)

	resp, err := app.Server.App().Test(httptest.NewRequest(http.MethodGet, "/public/index.php", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RateLimiter(t *testing.T) {
	ts := shopServer(t, nil, testsupport.TestServerOptions{
		ServerConfig: &p13.ServerConfig{
			Fallback:          echo,
			EnableHealthCheck: true,
			EnableRateLimiter: true,
			RateLimiterOptions: []middleware.RateLimiterOption{
				middleware.WithMax(1),
				middleware.WithDuration(time.Minute),
			},
		},
	})

	assert.Equal(t, http.StatusOK, ts.Get("/shop/products/show/1").StatusCode)

	resp := ts.Get("/shop/products/show/1")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Contains(t, testsupport.ReadBody(t, resp), "rate limit exceeded")

	for range 3 {
		assert.Equal(t, http.StatusOK, ts.Get("/_health").StatusCode)
	}
}
