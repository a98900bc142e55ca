package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOP_ENV", "test")

	cfg, err := Load("shop")
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.AppName)
	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel, "test env raises the default log level")
	assert.Equal(t, "public/index.php", cfg.FrontController)
	assert.Equal(t, "default", cfg.DefaultController)
	assert.Equal(t, "index", cfg.DefaultMethod)
	assert.Empty(t, cfg.DefaultModule)
	assert.True(t, filepath.IsAbs(cfg.DocumentRoot))
}

func TestLoad_FromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SHOP_ENV", "development")
	t.Setenv("SHOP_PORT", "9090")
	t.Setenv("SHOP_LOG_LEVEL", "debug")
	t.Setenv("SHOP_DOCUMENT_ROOT", root)
	t.Setenv("SHOP_FRONT_CONTROLLER", "web/app.php")
	t.Setenv("SHOP_MODULES_DIR", "modules")
	t.Setenv("SHOP_DEFAULT_MODULE", "store")
	t.Setenv("SHOP_DEFAULT_CONTROLLER", "home")
	t.Setenv("SHOP_DEFAULT_METHOD", "show")
	t.Setenv("SHOP_DEBUG", "true")

	cfg, err := Load("Shop")
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "9090", cfg.GetPort())
	assert.Equal(t, "debug", cfg.GetLogLevel())
	assert.Equal(t, root, cfg.GetDocumentRoot())
	assert.Equal(t, "web/app.php", cfg.GetFrontController())
	assert.Equal(t, "modules", cfg.GetModulesDirectory(), "relative modules dirs are resolved per install root")
	assert.Equal(t, "store", cfg.GetDefaultModule())
	assert.Equal(t, "home", cfg.GetDefaultController())
	assert.Equal(t, "show", cfg.GetDefaultMethod())
	assert.True(t, cfg.Debug)
}

func TestLoad_EmptyAppName(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.GetAppName())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown environment",
			env:  map[string]string{"SHOP_ENV": "staging"},
			want: `invalid SHOP_ENV value "staging"`,
		},
		{
			name: "absolute front controller",
			env:  map[string]string{"SHOP_ENV": "test", "SHOP_FRONT_CONTROLLER": "/public/index.php"},
			want: "SHOP_FRONT_CONTROLLER must be relative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("shop")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateCollectsProblems(t *testing.T) {
	cfg := &Config{envPrefix: "SHOP", Environment: "staging", FrontController: ""}

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOP_ENV")
	assert.Contains(t, err.Error(), "SHOP_FRONT_CONTROLLER must not be empty")
	assert.Contains(t, err.Error(), "SHOP_DEFAULT_CONTROLLER must not be empty")
}

func TestConfig_EnvironmentChecks(t *testing.T) {
	tests := []struct {
		env                    string
		dev, prod, isTestValue bool
	}{
		{Development, true, false, false},
		{Production, false, true, false},
		{Test, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Environment: tt.env}
			assert.Equal(t, tt.dev, cfg.IsDevelopment())
			assert.Equal(t, tt.prod, cfg.IsProduction())
			assert.Equal(t, tt.isTestValue, cfg.IsTest())
		})
	}
}

func TestConfig_ModulesDirectory(t *testing.T) {
	cfg := &Config{DocumentRoot: "/srv/www", ModulesDirectory: "app/modules"}
	assert.Equal(t, "app/modules", cfg.GetModulesDirectory(), "not joined to the document root")

	cfg.ModulesDirectory = "/opt/modules"
	assert.Equal(t, "/opt/modules", cfg.GetModulesDirectory())

	cfg.ModulesDirectory = ""
	assert.Empty(t, cfg.GetModulesDirectory())
}
