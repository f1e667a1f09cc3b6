package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler sends each record to every sink whose level admits it. The
// service uses it to write the terminal log and the rolling file together.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler combines sinks into one handler.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

// Enabled reports whether any sink accepts level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle writes r to every sink enabled for its level. A failing sink does
// not stop the others; all failures are returned together.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler signature
	var errs []error

	for _, sink := range h.sinks {
		if !sink.Enabled(ctx, r.Level) {
			continue
		}

		if err := sink.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// WithAttrs implements slog.Handler.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

// WithGroup implements slog.Handler.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = fn(sink)
	}

	return &MultiHandler{sinks: sinks}
}
