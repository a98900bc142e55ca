package testsupport

import (
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// DocumentRoot is where NewTestConfig places the document root.
const DocumentRoot = "/srv/www"

// TestConfig implements p13.Config and the routing and defaults providers
// for testing.
type TestConfig struct {
	Port              string
	DocumentRoot      string
	FrontController   string
	ModulesDirectory  string
	DefaultModule     string
	DefaultController string
	DefaultMethod     string
}

// NewTestConfig creates a test configuration with sensible defaults.
func NewTestConfig() *TestConfig {
	return &TestConfig{
		Port:              "0", // Random port
		DocumentRoot:      DocumentRoot,
		FrontController:   "public/index.php",
		DefaultController: "default",
		DefaultMethod:     "index",
	}
}

func (c *TestConfig) IsDevelopment() bool { return false }
func (c *TestConfig) IsProduction() bool  { return false }
func (c *TestConfig) IsTest() bool        { return true }
func (c *TestConfig) GetPort() string     { return c.Port }

func (c *TestConfig) GetDocumentRoot() string     { return c.DocumentRoot }
func (c *TestConfig) GetFrontController() string  { return c.FrontController }
func (c *TestConfig) GetModulesDirectory() string { return c.ModulesDirectory }

func (c *TestConfig) GetDefaultModule() string     { return c.DefaultModule }
func (c *TestConfig) GetDefaultController() string { return c.DefaultController }
func (c *TestConfig) GetDefaultMethod() string     { return c.DefaultMethod }

// NewTestLogger creates a slog.Logger that discards all output.
// Use this for tests where you don't need to verify log messages.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewDocRoot builds an in-memory filesystem holding entries under
// DocumentRoot. Entries ending in "/" are directories, the rest are empty
// files whose parent directories are created as needed.
//
//	fs := testsupport.NewDocRoot(t, "shop/public/index.php", "shop/app/modules/admin/")
func NewDocRoot(t testing.TB, entries ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(DocumentRoot, 0o755); err != nil {
		t.Fatalf("testsupport: create document root: %v", err)
	}
	for _, e := range entries {
		full := path.Join(DocumentRoot, e)
		if strings.HasSuffix(e, "/") {
			if err := fs.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("testsupport: mkdir %s: %v", full, err)
			}
			continue
		}
		if err := fs.MkdirAll(path.Dir(full), 0o755); err != nil {
			t.Fatalf("testsupport: mkdir %s: %v", path.Dir(full), err)
		}
		if err := afero.WriteFile(fs, full, nil, 0o644); err != nil {
			t.Fatalf("testsupport: write %s: %v", full, err)
		}
	}
	return fs
}
