package p13

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/karloscodes/p13/middleware"
	"github.com/karloscodes/p13/resolver"
	"github.com/karloscodes/p13/urlparts"
)

// ServerConfig provides server configuration with sensible defaults.
type ServerConfig struct {
	// Core dependencies (required)
	Config Config
	Logger Logger

	// Fiber configuration
	ErrorHandler   fiber.ErrorHandler
	Concurrency    int
	ProxyHeader    string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// Prober answers filesystem questions for the resolver.
	// Defaults to the operating system filesystem.
	Prober resolver.Prober

	// Modules decides which first path segments are modules. Defaults to
	// the configured modules directory plus every module with registered
	// controllers.
	Modules resolver.Modules

	// ResolverOptions are applied after the options derived from Config.
	ResolverOptions []resolver.Option

	// Defaults fills in missing route pieces. Nil reads them from Config.
	Defaults *Defaults

	// Fallback handles requests whose controller or action is not
	// registered. Nil answers 404.
	Fallback HandlerFunc

	// Middleware configuration
	EnableRequestID     bool
	EnableRecover       bool
	EnableHelmet        bool
	EnableRequestLogger bool
	EnableHealthCheck   bool
	EnableRateLimiter   bool

	// RateLimiterOptions tune the limiter when EnableRateLimiter is set.
	RateLimiterOptions []middleware.RateLimiterOption
}

// DefaultServerConfig returns a configuration with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Concurrency:  256 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		EnableRequestID:     true,
		EnableRecover:       true,
		EnableHelmet:        true,
		EnableRequestLogger: true,
		EnableHealthCheck:   true,
	}
}

// Server is a front controller: every request is resolved and dispatched
// to a registered controller action.
type Server struct {
	app          *fiber.App
	cfg          *ServerConfig
	registry     *Registry
	defaults     Defaults
	resolverOpts []resolver.Option
}

// NewServer creates a new p13 server with the provided configuration.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("p13: config is required")
	}
	if cfg.Config == nil {
		return nil, fmt.Errorf("p13: runtime config is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("p13: logger is required")
	}

	fiberCfg := fiber.Config{
		DisableDefaultDate:    true,
		DisableStartupMessage: true,
		Concurrency:           cfg.Concurrency,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
	}
	if cfg.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.ProxyHeader
	}
	if len(cfg.TrustedProxies) > 0 {
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = cfg.TrustedProxies
	}
	if cfg.ErrorHandler != nil {
		fiberCfg.ErrorHandler = cfg.ErrorHandler
	} else {
		fiberCfg.ErrorHandler = DefaultErrorHandler(cfg.Logger, cfg.Config.IsDevelopment())
	}

	s := &Server{
		app:      fiber.New(fiberCfg),
		cfg:      cfg,
		registry: NewRegistry(),
	}

	if cfg.Defaults != nil {
		s.defaults = *cfg.Defaults
	} else {
		s.defaults = DefaultsFrom(cfg.Config)
	}
	s.resolverOpts = s.buildResolverOptions(slogFor(cfg.Logger))

	s.setupGlobalMiddleware()
	if cfg.EnableHealthCheck {
		s.app.Get("/_health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
	}
	s.app.Use(s.dispatch)

	return s, nil
}

// setupGlobalMiddleware applies standard middleware to all routes.
func (s *Server) setupGlobalMiddleware() {
	if s.cfg.EnableRequestID {
		s.app.Use(requestid.New())
	}
	if s.cfg.EnableRecover {
		s.app.Use(middleware.Recover(s.cfg.Logger))
	}
	if s.cfg.EnableHelmet {
		s.app.Use(middleware.Helmet())
	}
	if s.cfg.EnableRequestLogger {
		s.app.Use(middleware.RequestLogger(s.cfg.Logger, StatusCode))
	}
	if s.cfg.EnableRateLimiter {
		s.app.Use(middleware.RateLimiter(s.cfg.RateLimiterOptions...))
	}
}

// buildResolverOptions derives the per-request resolver options once.
func (s *Server) buildResolverOptions(logger *slog.Logger) []resolver.Option {
	prober := s.cfg.Prober
	if prober == nil {
		prober = resolver.NewOSProber()
	}

	var docRoot, frontController, modulesDir string
	if rc, ok := s.cfg.Config.(RoutingConfigProvider); ok {
		docRoot = rc.GetDocumentRoot()
		frontController = rc.GetFrontController()
		modulesDir = rc.GetModulesDirectory()
	}

	opts := []resolver.Option{
		resolver.WithDocumentRoot(docRoot),
		resolver.WithFrontController(frontController),
		resolver.WithProber(prober),
		resolver.WithLogger(logger),
	}
	if s.cfg.Modules != nil {
		opts = append(opts, resolver.WithModules(s.cfg.Modules))
	} else {
		// A relative modules directory is found under each request's install root.
		opts = append(opts, resolver.WithModules(s.registry), resolver.WithModulesDir(modulesDir))
	}
	return append(opts, s.cfg.ResolverOptions...)
}

// dispatch resolves the request URL and runs the matching action.
// Each request gets its own Resolver.
func (s *Server) dispatch(c *fiber.Ctx) error {
	u := urlparts.FromRequest(c.Protocol(), c.Hostname(), c.OriginalURL())
	res := resolver.New(u, s.resolverOpts...).Resolve()
	target := s.defaults.Apply(res)

	c.Locals(middleware.RouteKey, target.String())
	ctx := &Context{
		Ctx:        c,
		Logger:     s.cfg.Logger,
		Config:     s.cfg.Config,
		Resolution: res,
		Target:     target,
	}
	c.Locals(contextKey, ctx)

	handler, err := s.registry.Lookup(target)
	if err != nil {
		if s.cfg.Fallback != nil {
			return s.cfg.Fallback(ctx)
		}
		return err
	}
	return handler(ctx)
}

// Register adds a controller under module and name. Use an empty module
// for controllers outside any module.
func (s *Server) Register(module, name string, c Controller) error {
	return s.registry.Register(module, name, c)
}

// Registry returns the controller registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// App returns the underlying Fiber application for advanced usage.
func (s *Server) App() *fiber.App {
	return s.app
}

// GetLogger returns the logger.
func (s *Server) GetLogger() Logger {
	return s.cfg.Logger
}

// Start starts the HTTP server on the configured port.
func (s *Server) Start() error {
	port := s.cfg.Config.GetPort()
	s.cfg.Logger.Info("Server started and ready to accept requests", "port", port)
	return s.app.Listen(":" + port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() error {
	go func() {
		if err := s.Start(); err != nil {
			s.cfg.Logger.Error("Server error", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
