package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
)

// Timeout puts a deadline on the request context. Handlers observe it through
// their storage and directory calls; the error mapping answers an expired
// deadline with 504. Paths under skipPrefixes get no deadline.
func Timeout(timeout time.Duration, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		for _, p := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// MaxBodySize rejects request bodies larger than limit bytes. Declared
// oversized bodies are refused up front; others fail when read past limit.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			abortWithCode(c, http.StatusRequestEntityTooLarge, dto.ErrorCodeTooLarge, "request body too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
