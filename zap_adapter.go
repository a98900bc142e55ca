package p13

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter wraps zap.Logger to implement the p13 Logger interface.
type ZapAdapter struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewZapAdapter creates a Logger adapter from a zap.Logger.
func NewZapAdapter(logger *zap.Logger) Logger {
	return &ZapAdapter{
		logger: logger,
		sugar:  logger.Sugar(),
	}
}

func (a *ZapAdapter) Debug(msg string, keysAndValues ...any) {
	a.sugar.Debugw(msg, keysAndValues...)
}

func (a *ZapAdapter) Info(msg string, keysAndValues ...any) {
	a.sugar.Infow(msg, keysAndValues...)
}

func (a *ZapAdapter) Warn(msg string, keysAndValues ...any) {
	a.sugar.Warnw(msg, keysAndValues...)
}

func (a *ZapAdapter) Error(msg string, keysAndValues ...any) {
	a.sugar.Errorw(msg, keysAndValues...)
}

// Underlying returns the wrapped *zap.Logger.
// Use this when you need the concrete logger type.
func (a *ZapAdapter) Underlying() *zap.Logger {
	return a.logger
}

// slogLevel maps the zap core's minimum level onto slog.
func (a *ZapAdapter) slogLevel() slog.Level {
	switch zapcore.LevelOf(a.logger.Core()) {
	case zapcore.DebugLevel:
		return slog.LevelDebug
	case zapcore.InfoLevel:
		return slog.LevelInfo
	case zapcore.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
