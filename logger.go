package p13

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the logger.
type LogConfig struct {
	// Level is the minimum log level. Defaults based on environment:
	// - Development: "info"
	// - Test: "info"
	// - Production: "error"
	// Can be overridden via LOG_LEVEL env var or this field.
	Level string

	// Directory for log files. Only used in production.
	// Defaults to "logs" in the current directory.
	Directory string

	// MaxSizeMB is the max size in megabytes before rotation.
	// Defaults to 100.
	MaxSizeMB int

	// MaxBackups is the max number of old log files to keep.
	// Defaults to 3.
	MaxBackups int

	// MaxAgeDays is the max age in days before a log file is deleted.
	// Defaults to 28.
	MaxAgeDays int

	// AppName is used in the log filename. Defaults to "app".
	AppName string
}

// LogConfigProvider allows configuration objects to provide log settings directly.
// Implement this interface on your config type to avoid manual LogConfig mapping.
type LogConfigProvider interface {
	GetLogLevel() string
	GetLogDirectory() string
	GetLogMaxSizeMB() int
	GetLogMaxBackups() int
	GetLogMaxAgeDays() int
	GetAppName() string
}

// LogConfigFromProvider creates a LogConfig from a LogConfigProvider.
func LogConfigFromProvider(p LogConfigProvider) *LogConfig {
	return &LogConfig{
		Level:      p.GetLogLevel(),
		Directory:  p.GetLogDirectory(),
		MaxSizeMB:  p.GetLogMaxSizeMB(),
		MaxBackups: p.GetLogMaxBackups(),
		MaxAgeDays: p.GetLogMaxAgeDays(),
		AppName:    p.GetAppName(),
	}
}

// NewLogger creates a configured slog.Logger based on the environment.
//
// If cfg implements LogConfigProvider, log settings are extracted automatically.
// Otherwise, provide explicit logCfg or use defaults.
//
// Development and Test:
//   - Logs to stdout only
//   - Uses tint colored text output
//   - Default level: info
//
// Production:
//   - Logs to both stdout and rotating file
//   - Uses JSON format
//   - Default level: error
//   - Files rotated via lumberjack
func NewLogger(cfg Config, logCfg *LogConfig) *slog.Logger {
	return newLogger(cfg, logCfg, os.Stdout)
}

func newLogger(cfg Config, logCfg *LogConfig, stdout io.Writer) *slog.Logger {
	if logCfg == nil {
		if provider, ok := cfg.(LogConfigProvider); ok {
			logCfg = LogConfigFromProvider(provider)
		} else {
			logCfg = &LogConfig{}
		}
	}

	level := resolveLogLevel(cfg, logCfg.Level)

	if cfg.IsDevelopment() || cfg.IsTest() {
		return newDevLogger(stdout, level)
	}
	return newProdLogger(stdout, level, logCfg)
}

// resolveLogLevel determines the log level from config, env, or defaults.
func resolveLogLevel(cfg Config, configLevel string) slog.Level {
	levelStr := configLevel

	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		levelStr = envLevel
	}

	if levelStr == "" {
		if cfg.IsDevelopment() || cfg.IsTest() {
			levelStr = "info"
		} else {
			levelStr = "error"
		}
	}

	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newDevLogger creates a colored console logger for development/test.
func newDevLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		AddSource:  level == slog.LevelDebug,
		NoColor:    !isTerminal(w),
	}))
}

// newProdLogger creates a JSON logger that writes to stdout and file.
func newProdLogger(stdout io.Writer, level slog.Level, logCfg *LogConfig) *slog.Logger {
	appName := logCfg.AppName
	if appName == "" {
		appName = "app"
	}

	dir := logCfg.Directory
	if dir == "" {
		dir = "logs"
	}

	maxSize := logCfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}

	maxBackups := logCfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	maxAge := logCfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 28
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		// Fall back to stdout only if we can't create the directory
		return slog.New(slog.NewJSONHandler(stdout, opts))
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, appName+".log"),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(io.MultiWriter(stdout, rotator), opts))
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
