package resolver

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Prober answers existence questions about the document root.
// Anything that cannot be confirmed, including I/O errors, reads as false.
type Prober interface {
	IsDir(path string) bool
	IsFile(path string) bool
}

// FSProber probes an afero filesystem.
type FSProber struct {
	fs afero.Fs
}

// NewFSProber creates a prober over fs.
func NewFSProber(fs afero.Fs) *FSProber {
	return &FSProber{fs: fs}
}

// NewOSProber creates a prober over the real filesystem.
func NewOSProber() *FSProber {
	return NewFSProber(afero.NewOsFs())
}

// IsDir reports whether path is an existing directory.
func (p *FSProber) IsDir(path string) bool {
	ok, err := afero.IsDir(p.fs, path)
	return err == nil && ok
}

// IsFile reports whether path exists and is not a directory.
func (p *FSProber) IsFile(path string) bool {
	info, err := p.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Modules decides whether a path segment names an application module.
type Modules interface {
	Exists(name string) bool
}

// ModuleDir treats every directory directly under Root as a module.
type ModuleDir struct {
	Prober Prober
	Root   string
}

// Exists reports whether Root/name is a directory.
func (m ModuleDir) Exists(name string) bool {
	if m.Prober == nil || !validModuleName(name) {
		return false
	}
	return m.Prober.IsDir(filepath.Join(m.Root, name))
}

// ModuleSet is a fixed set of module names.
type ModuleSet map[string]struct{}

// NewModuleSet builds a ModuleSet from names.
func NewModuleSet(names ...string) ModuleSet {
	set := make(ModuleSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Exists reports whether name is in the set.
func (s ModuleSet) Exists(name string) bool {
	if !validModuleName(name) {
		return false
	}
	_, ok := s[name]
	return ok
}

// anyModules reports a module as existing when any of its lookups does.
type anyModules []Modules

func (m anyModules) Exists(name string) bool {
	for _, mod := range m {
		if mod.Exists(name) {
			return true
		}
	}
	return false
}

// noModules is used when no module lookup was configured.
type noModules struct{}

func (noModules) Exists(string) bool { return false }

// validModuleName rejects segments that would escape the modules root.
func validModuleName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
