package logging

import (
	"context"
	"log/slog"
)

// Attribute keys the request middleware adds to every request logger.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
	KeyUser          = "user"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the request logger stored in ctx, or the default
// logger when there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}

	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}

	return defaultLogger
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithRequestID tags the request logger with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withAttr(ctx, KeyRequestID, requestID)
}

// WithCorrelationID tags the request logger with the correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return withAttr(ctx, KeyCorrelationID, correlationID)
}

// WithTraceID tags the request logger with the OpenTelemetry trace ID so log
// lines can be joined with spans.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withAttr(ctx, KeyTraceID, traceID)
}

// WithUser tags the request logger with the authenticated username. Legacy
// API-key requests have no user and are never tagged.
func WithUser(ctx context.Context, username string) context.Context {
	return withAttr(ctx, KeyUser, username)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	if value == "" {
		return ctx
	}

	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// SetDefault replaces the fallback logger and the slog default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
