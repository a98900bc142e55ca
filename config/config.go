package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment constants.
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// Config provides common configuration for p13 applications.
// Apps can embed this struct and add their own fields.
type Config struct {
	// AppName is the application name, used for the env var prefix and log filename.
	AppName string `mapstructure:"appname"`

	// Environment: development, production, or test.
	Environment string `mapstructure:"environment"`

	// Port for the HTTP server.
	Port string `mapstructure:"port"`

	// Debug enables debug mode.
	Debug bool `mapstructure:"debug"`

	// Logging configuration.
	LogLevel       string `mapstructure:"loglevel"`
	LogsDirectory  string `mapstructure:"logsdirectory"`
	LogsMaxSizeMB  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeDays int    `mapstructure:"logsmaxageindays"`

	// Routing. DocumentRoot is where install subdirectories are probed.
	// FrontController is the entry file relative to the install root.
	// ModulesDirectory holds one subdirectory per module; a relative value
	// is taken from the install root, not the document root.
	DocumentRoot     string `mapstructure:"documentroot"`
	FrontController  string `mapstructure:"frontcontroller"`
	ModulesDirectory string `mapstructure:"modulesdirectory"`

	// Dispatch defaults used when the URL leaves a piece of the route out.
	DefaultModule     string `mapstructure:"defaultmodule"`
	DefaultController string `mapstructure:"defaultcontroller"`
	DefaultMethod     string `mapstructure:"defaultmethod"`

	// Internal: the env var prefix (derived from AppName).
	envPrefix string
}

// Load creates a new Config for the given app name.
// It reads from environment variables prefixed with the uppercase app name.
// Example: Load("intranet") reads INTRANET_ENV, INTRANET_PORT, etc.
func Load(appName string) (*Config, error) {
	v := viper.New()

	appName = strings.ToLower(strings.TrimSpace(appName))
	if appName == "" {
		appName = "app"
	}
	prefix := strings.ToUpper(appName)

	// Read .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	setDefaults(v, appName)

	v.SetEnvPrefix(prefix)
	bindEnvVars(v, prefix)

	cfg := &Config{envPrefix: prefix}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.DocumentRoot = cfg.resolveDocumentRoot()
	cfg.ensureDirectories()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, appName string) {
	v.SetDefault("appname", appName)
	v.SetDefault("environment", Production)
	v.SetDefault("port", "8080")
	v.SetDefault("debug", false)

	v.SetDefault("loglevel", "error")
	v.SetDefault("logsdirectory", "storage/logs")
	v.SetDefault("logsmaxsizeinmb", 20)
	v.SetDefault("logsmaxbackups", 10)
	v.SetDefault("logsmaxageindays", 30)

	v.SetDefault("documentroot", ".")
	v.SetDefault("frontcontroller", "public/index.php")
	v.SetDefault("modulesdirectory", "app/modules")

	v.SetDefault("defaultmodule", "")
	v.SetDefault("defaultcontroller", "default")
	v.SetDefault("defaultmethod", "index")
}

func bindEnvVars(v *viper.Viper, prefix string) {
	v.BindEnv("environment", prefix+"_ENV")
	v.BindEnv("port", prefix+"_PORT")
	v.BindEnv("loglevel", prefix+"_LOG_LEVEL")
	v.BindEnv("logsdirectory", prefix+"_LOGS_DIR")
	v.BindEnv("debug", prefix+"_DEBUG")
	v.BindEnv("documentroot", prefix+"_DOCUMENT_ROOT")
	v.BindEnv("frontcontroller", prefix+"_FRONT_CONTROLLER")
	v.BindEnv("modulesdirectory", prefix+"_MODULES_DIR")
	v.BindEnv("defaultmodule", prefix+"_DEFAULT_MODULE")
	v.BindEnv("defaultcontroller", prefix+"_DEFAULT_CONTROLLER")
	v.BindEnv("defaultmethod", prefix+"_DEFAULT_METHOD")
}

func (c *Config) validate() error {
	var problems []string

	// Adjust log level for development
	if c.LogLevel == "" || c.LogLevel == "error" {
		if c.IsDevelopment() || c.IsTest() {
			c.LogLevel = "info"
		}
	}

	switch c.Environment {
	case Development, Production, Test:
	default:
		problems = append(problems, fmt.Sprintf("invalid %s_ENV value %q", c.envPrefix, c.Environment))
	}

	fc := filepath.ToSlash(strings.TrimSpace(c.FrontController))
	switch {
	case fc == "":
		problems = append(problems, fmt.Sprintf("%s_FRONT_CONTROLLER must not be empty", c.envPrefix))
	case strings.HasPrefix(fc, "/") || filepath.IsAbs(c.FrontController):
		problems = append(problems, fmt.Sprintf("%s_FRONT_CONTROLLER must be relative to the install root, got %q", c.envPrefix, c.FrontController))
	}

	if c.DefaultController == "" {
		problems = append(problems, fmt.Sprintf("%s_DEFAULT_CONTROLLER must not be empty", c.envPrefix))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// resolveDocumentRoot makes the document root absolute so probes do not
// depend on the working directory of later calls.
func (c *Config) resolveDocumentRoot() string {
	root := c.DocumentRoot
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return abs
}

func (c *Config) ensureDirectories() {
	if c.LogsDirectory == "" || !c.IsProduction() {
		return
	}
	if err := os.MkdirAll(c.LogsDirectory, 0o755); err != nil {
		log.Printf("config: failed to create directory %q: %v", c.LogsDirectory, err)
	}
}

// Environment checks.

func (c *Config) IsDevelopment() bool { return c.Environment == Development }
func (c *Config) IsProduction() bool  { return c.Environment == Production }
func (c *Config) IsTest() bool        { return c.Environment == Test }

// p13 interface implementations.

func (c *Config) GetPort() string { return c.Port }

// LogConfigProvider implementation.

func (c *Config) GetLogLevel() string     { return c.LogLevel }
func (c *Config) GetLogDirectory() string { return c.LogsDirectory }
func (c *Config) GetLogMaxSizeMB() int    { return c.LogsMaxSizeMB }
func (c *Config) GetLogMaxBackups() int   { return c.LogsMaxBackups }
func (c *Config) GetLogMaxAgeDays() int   { return c.LogsMaxAgeDays }
func (c *Config) GetAppName() string      { return c.AppName }

// RoutingConfigProvider implementation.

func (c *Config) GetDocumentRoot() string     { return c.DocumentRoot }
func (c *Config) GetFrontController() string  { return c.FrontController }
func (c *Config) GetModulesDirectory() string { return c.ModulesDirectory }

// Dispatch defaults.

func (c *Config) GetDefaultModule() string     { return c.DefaultModule }
func (c *Config) GetDefaultController() string { return c.DefaultController }
func (c *Config) GetDefaultMethod() string     { return c.DefaultMethod }
