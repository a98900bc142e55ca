package p13

import (
	"fmt"
	"sync"

	"github.com/karloscodes/p13/resolver"
)

// Defaults fills the route pieces a URL left out.
type Defaults struct {
	// Module is used only when the URL named neither a module nor a controller.
	Module string

	// Controller is used when the URL named no controller.
	Controller string

	// Method is used when the URL named no method.
	Method string
}

// DefaultsFrom reads dispatch defaults from cfg when it provides them.
// Otherwise the controller defaults to "default" and the method to "index".
func DefaultsFrom(cfg Config) Defaults {
	d := Defaults{Controller: "default", Method: "index"}
	if p, ok := cfg.(DefaultsProvider); ok {
		d.Module = p.GetDefaultModule()
		if v := p.GetDefaultController(); v != "" {
			d.Controller = v
		}
		if v := p.GetDefaultMethod(); v != "" {
			d.Method = v
		}
	}
	return d
}

// Apply turns a resolution into a dispatch target.
func (d Defaults) Apply(res resolver.Resolution) Target {
	t := Target{
		Module:     res.Module,
		Controller: res.Controller,
		Method:     res.Method,
		Args:       append([]string{}, res.Args...),
	}
	if t.Controller == "" {
		t.Controller = d.Controller
		if t.Module == "" {
			t.Module = d.Module
		}
	}
	if t.Method == "" {
		t.Method = d.Method
	}
	return t
}

// Target is the controller action a request dispatches to.
type Target struct {
	Module     string   `json:"module,omitempty"`
	Controller string   `json:"controller"`
	Method     string   `json:"method"`
	Args       []string `json:"args"`
}

func (t Target) String() string {
	if t.Module == "" {
		return t.Controller + "." + t.Method
	}
	return t.Module + "/" + t.Controller + "." + t.Method
}

// Controller exposes named actions.
type Controller interface {
	// Action returns the handler for the method name, if any.
	Action(name string) (HandlerFunc, bool)
}

// Actions is a Controller backed by a map of method name to handler.
type Actions map[string]HandlerFunc

var _ Controller = Actions(nil)

func (a Actions) Action(name string) (HandlerFunc, bool) {
	h, ok := a[name]
	return h, ok && h != nil
}

type controllerKey struct {
	module string
	name   string
}

// Registry maps module and controller names to controllers.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	controllers map[controllerKey]Controller
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[controllerKey]Controller)}
}

// Register adds c under module and name. An empty module registers a
// controller outside any module. Registering a name twice replaces the
// earlier controller.
func (r *Registry) Register(module, name string, c Controller) error {
	if name == "" {
		return fmt.Errorf("p13: register: controller name is required")
	}
	if c == nil {
		return fmt.Errorf("p13: register %q: controller is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[controllerKey{module: module, name: name}] = c
	return nil
}

// Lookup returns the handler for t.
func (r *Registry) Lookup(t Target) (HandlerFunc, error) {
	r.mu.RLock()
	c, ok := r.controllers[controllerKey{module: t.Module, name: t.Controller}]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrControllerNotFound, t)
	}
	h, ok := c.Action(t.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, t)
	}
	return h, nil
}

// Exists reports whether any controller is registered under the module
// name, so a Registry can tell the resolver which segments are modules.
func (r *Registry) Exists(module string) bool {
	if module == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for k := range r.controllers {
		if k.module == module {
			return true
		}
	}
	return false
}

var _ resolver.Modules = (*Registry)(nil)
