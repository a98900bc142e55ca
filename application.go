package p13

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// Application wires together configuration, logging and the HTTP server.
// It manages the complete lifecycle of a p13 web application.
type Application struct {
	Config Config
	Logger Logger
	Server *Server
}

// ApplicationOptions configure application bootstrapping.
type ApplicationOptions struct {
	// Core dependencies (required)
	Config Config
	Logger Logger

	// Server configuration
	ServerConfig *ServerConfig

	// RouteMountFunc registers controllers on the server.
	RouteMountFunc func(*Server)
}

// NewApplication constructs a p13 application.
func NewApplication(opts ApplicationOptions) (*Application, error) {
	serverCfg := opts.ServerConfig
	if serverCfg == nil {
		serverCfg = DefaultServerConfig()
	}

	serverCfg.Config = opts.Config
	serverCfg.Logger = opts.Logger

	server, err := NewServer(serverCfg)
	if err != nil {
		return nil, err
	}

	if opts.RouteMountFunc != nil {
		opts.RouteMountFunc(server)
	}

	return &Application{
		Config: opts.Config,
		Logger: opts.Logger,
		Server: server,
	}, nil
}

// Start launches the HTTP server.
func (a *Application) Start() error {
	return a.Server.Start()
}

// StartAsync launches the HTTP server asynchronously.
func (a *Application) StartAsync() error {
	return a.Server.StartAsync()
}

// Shutdown gracefully stops the server.
func (a *Application) Shutdown(ctx context.Context) error {
	return a.Server.Shutdown(ctx)
}

// Run starts the application and waits for termination signals.
// It handles graceful shutdown with a default timeout of 10 seconds.
func (a *Application) Run() error {
	return a.RunWithTimeout(10 * time.Second)
}

// RunWithTimeout starts the application and waits for SIGINT or SIGTERM.
// It handles graceful shutdown with the specified timeout.
func (a *Application) RunWithTimeout(timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx, timeout)
}

// RunContext serves until ctx is done, then shuts down within timeout.
// A server that fails to start ends the run with its error.
func (a *Application) RunContext(ctx context.Context, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	serverDone := make(chan struct{})

	g.Go(func() error {
		defer close(serverDone)
		return a.Start()
	})

	g.Go(func() error {
		select {
		case <-serverDone:
			return nil
		case <-gctx.Done():
		}

		a.Logger.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := a.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Graceful shutdown failed", "error", err)
			return err
		}

		a.Logger.Info("Shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
