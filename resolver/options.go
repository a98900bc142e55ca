package resolver

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultFrontController is the entry file used when none is configured.
const DefaultFrontController = "public/index.php"

// Options configures a Resolver.
type Options struct {
	// FrontController is the entry file path relative to the install root.
	FrontController string

	// DocumentRoot is the directory the web server serves from.
	DocumentRoot string

	// Prober answers directory and file existence questions.
	Prober Prober

	// Modules names modules that need no directory.
	Modules Modules

	// ModulesDir treats its subdirectories as modules. A relative ModulesDir
	// is taken from the install root: DocumentRoot joined with the install
	// subdirectory.
	ModulesDir string

	// Logger receives probe traces at debug level.
	Logger *slog.Logger
}

// Option is a functional option for configuring a Resolver.
type Option func(*Options)

// WithFrontController sets the entry file path, e.g. "public/index.php".
func WithFrontController(path string) Option {
	return func(o *Options) {
		o.FrontController = path
	}
}

// WithDocumentRoot sets the directory install subdirectories are probed under.
func WithDocumentRoot(dir string) Option {
	return func(o *Options) {
		o.DocumentRoot = dir
	}
}

// WithProber sets the filesystem prober.
func WithProber(p Prober) Option {
	return func(o *Options) {
		o.Prober = p
	}
}

// WithModules sets a module lookup. It is consulted in addition to the
// modules directory.
func WithModules(m Modules) Option {
	return func(o *Options) {
		o.Modules = m
	}
}

// WithModulesDir treats every directory under dir as a module, probed with
// the resolver's prober. A relative dir such as "app/modules" is found under
// the resolved install root.
func WithModulesDir(dir string) Option {
	return func(o *Options) {
		o.ModulesDir = dir
	}
}

// WithLogger sets the logger used for probe traces.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func applyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	o.FrontController = normalizeFrontController(o.FrontController)
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Modules == nil {
		o.Modules = noModules{}
	}
	return o
}

// normalizeFrontController converts path to a clean relative slash path.
func normalizeFrontController(path string) string {
	path = strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
	path = strings.Join(splitSegments(path), "/")
	if path == "" {
		return DefaultFrontController
	}
	return path
}
