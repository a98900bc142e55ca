// Package resolver maps a request URL onto the resource a front controller
// should serve: the install subdirectory, the resource path, and the
// module/controller/method/args route.
//
// The path grammar is [module/]controller[/method[/arg...]]. Nothing in the
// URL tells a module from a controller, so the first segment is a module
// only when a module of that name exists. The install subdirectory is found
// either from an explicit front-controller segment in the URL or by walking
// the document root until the front controller file turns up.
//
// Every value is derived on first access and kept for the lifetime of the
// Resolver. A Resolver belongs to one request and is not safe for
// concurrent use.
package resolver

import (
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/karloscodes/p13/urlparts"
)

// Resolver derives the route of a single request URL.
type Resolver struct {
	url  *urlparts.Components
	opts Options
	path string

	subdirectory memo
	resource     memo
	module       memo
	controller   memo
	method       memo

	args     []string
	argsDone bool

	// remaining holds the segments not yet consumed by the last stage.
	remaining []string
}

type memo struct {
	value string
	ok    bool
	done  bool
}

// New creates a Resolver for u.
func New(u *urlparts.Components, opts ...Option) *Resolver {
	if u == nil {
		u = urlparts.Parse("")
	}
	return &Resolver{
		url:  u,
		opts: applyOptions(opts...),
		path: cleanPath(u.Path()),
	}
}

// URL returns the parsed URL being resolved.
func (r *Resolver) URL() *urlparts.Components { return r.url }

// FrontController returns the normalised front controller path.
func (r *Resolver) FrontController() string { return r.opts.FrontController }

// InstallSubdirectory returns the slash-separated directory, relative to the
// document root, the application is installed in. It is absent when the
// application sits at the root or the front controller could not be found.
func (r *Resolver) InstallSubdirectory() (string, bool) {
	if !r.subdirectory.done {
		v, ok := installSubdirectory(r.path, r.opts.FrontController, r.opts.DocumentRoot, r.opts.Prober, r.opts.Logger)
		r.subdirectory = memo{value: v, ok: ok, done: true}
	}
	return r.subdirectory.value, r.subdirectory.ok
}

// ResourcePath returns the path with the install subdirectory and front
// controller removed.
func (r *Resolver) ResourcePath() (string, bool) {
	if !r.resource.done {
		sub, hasSub := r.InstallSubdirectory()
		v, ok := resourcePath(r.path, sub, hasSub, r.opts.FrontController)
		r.resource = memo{value: v, ok: ok, done: true}
		r.remaining = splitSegments(v)
	}
	return r.resource.value, r.resource.ok
}

// Module returns the first resource segment when it names an existing module.
func (r *Resolver) Module() (string, bool) {
	if !r.module.done {
		r.ResourcePath()
		v, ok, rest := splitModule(r.remaining, r.modules())
		if ok {
			r.opts.Logger.Debug("module resolved", slog.String("module", v))
		}
		r.module = memo{value: v, ok: ok, done: true}
		r.remaining = rest
	}
	return r.module.value, r.module.ok
}

// modules combines the configured lookup with the modules directory, bound
// to the install root once the subdirectory is known.
func (r *Resolver) modules() Modules {
	if r.opts.ModulesDir == "" || r.opts.Prober == nil {
		return r.opts.Modules
	}
	root := r.opts.ModulesDir
	if !filepath.IsAbs(root) {
		sub, _ := r.InstallSubdirectory()
		root = fsPath(r.opts.DocumentRoot, sub, root)
	}
	return anyModules{r.opts.Modules, ModuleDir{Prober: r.opts.Prober, Root: root}}
}

// Controller returns the segment after the module, if any.
func (r *Resolver) Controller() (string, bool) {
	if !r.controller.done {
		r.Module()
		v, ok, rest := splitHead(r.remaining)
		r.controller = memo{value: v, ok: ok, done: true}
		r.remaining = rest
	}
	return r.controller.value, r.controller.ok
}

// Method returns the segment after the controller, if any.
func (r *Resolver) Method() (string, bool) {
	if !r.method.done {
		r.Controller()
		v, ok, rest := splitHead(r.remaining)
		r.method = memo{value: v, ok: ok, done: true}
		r.remaining = rest
	}
	return r.method.value, r.method.ok
}

// Args returns the segments after the method. The result is never nil and
// callers may modify it.
func (r *Resolver) Args() []string {
	if !r.argsDone {
		r.Method()
		r.args = append(make([]string, 0, len(r.remaining)), r.remaining...)
		r.remaining = nil
		r.argsDone = true
	}
	return slices.Clone(r.args)
}

// Resolution is a snapshot of everything a Resolver derived.
// Absent values are empty strings.
type Resolution struct {
	InstallSubdirectory string            `json:"install_subdirectory,omitempty"`
	ResourcePath        string            `json:"resource_path,omitempty"`
	Module              string            `json:"module,omitempty"`
	Controller          string            `json:"controller,omitempty"`
	Method              string            `json:"method,omitempty"`
	Args                []string          `json:"args"`
	Query               map[string]string `json:"query"`
	Fragment            string            `json:"fragment,omitempty"`
}

// Resolve runs every stage and returns the result.
func (r *Resolver) Resolve() Resolution {
	res := Resolution{
		Args:     r.Args(),
		Query:    r.url.Query(),
		Fragment: r.url.Fragment(),
	}
	res.InstallSubdirectory, _ = r.InstallSubdirectory()
	res.ResourcePath, _ = r.ResourcePath()
	res.Module, _ = r.Module()
	res.Controller, _ = r.Controller()
	res.Method, _ = r.Method()
	return res
}
