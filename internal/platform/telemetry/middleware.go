package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

// TraceIDHeader carries the trace ID back to the caller.
const TraceIDHeader = "X-Trace-ID"

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(InstrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware records request metrics, echoes the trace ID and adds it to the
// request logger.
// It must run after TracingMiddleware so the span already exists.
//
// Metrics are labelled with the route template, never the raw path, so
// API keys embedded in legacy paths do not become label values.
func Middleware() gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
			traceID := span.SpanContext().TraceID().String()

			c.Header(TraceIDHeader, traceID)

			ctx = logging.WithTraceID(ctx, traceID)
			c.Request = c.Request.WithContext(ctx)
		}

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)

		if metrics != nil {
			metrics.activeRequests.Add(ctx, 1, metric.WithAttributes(method, route))
			defer metrics.activeRequests.Add(ctx, -1, metric.WithAttributes(method, route))
		}

		c.Next()

		if metrics != nil {
			attrs := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
			metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
			metrics.requestTotal.Add(ctx, 1, attrs)
		}
	}
}

// TracingMiddleware returns the otelgin tracing middleware.
// Spans are named after the route template for the same reason as metric labels.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithSpanNameFormatter(func(c *gin.Context) string {
			if route := c.FullPath(); route != "" {
				return c.Request.Method + " " + route
			}

			return c.Request.Method
		}),
	)
}
