package p13

import (
	"context"
	"log/slog"
)

// slogFor returns a *slog.Logger that writes through l. The resolver traces
// probes with slog, so loggers that are not slog underneath get a bridge.
func slogFor(l Logger) *slog.Logger {
	switch a := l.(type) {
	case nil:
		return slog.New(slog.DiscardHandler)
	case *SlogAdapter:
		return a.Underlying()
	case *ZapAdapter:
		return slog.New(&bridgeHandler{logger: l, level: a.slogLevel()})
	default:
		return slog.New(&bridgeHandler{logger: l, level: slog.LevelDebug})
	}
}

// bridgeHandler forwards slog records to a Logger.
type bridgeHandler struct {
	logger Logger
	level  slog.Level
	attrs  []any
	group  string
}

func (h *bridgeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *bridgeHandler) Handle(_ context.Context, r slog.Record) error {
	kv := make([]any, 0, len(h.attrs)+2*r.NumAttrs())
	kv = append(kv, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		kv = append(kv, h.key(a.Key), a.Value.Resolve().Any())
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, kv...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, kv...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, kv...)
	default:
		h.logger.Debug(r.Message, kv...)
	}
	return nil
}

func (h *bridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]any(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.key(a.Key), a.Value.Resolve().Any())
	}
	return &next
}

func (h *bridgeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.key(name)
	return &next
}

func (h *bridgeHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
