package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

// Recovery turns a handler panic into a logged 500. It should be the first
// middleware so that it also covers the others.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logging.FromContext(c.Request.Context()).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("route", c.FullPath()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			abortWithCode(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "an internal error occurred")
		}()

		c.Next()
	}
}
