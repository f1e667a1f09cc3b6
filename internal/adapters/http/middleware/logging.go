package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

// Logging logs one line per completed request. Requests under any of
// skipPrefixes, typically "/-/", are not logged.
//
// The route template is logged next to the raw path. The raw path of a
// legacy route contains an API key and is masked by the redacting handler.
func Logging(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo

		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}

		if id, ok := GetIdentity(c); ok {
			attrs = append(attrs, slog.String("user", id.Username))
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logging.FromContext(c.Request.Context()).LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}
