// Package middleware provides the gin middleware of the quotefault HTTP server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

// Correlation headers. A request ID names one request; a correlation ID is
// carried across every service taking part in the same operation.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

// RequestID adopts the caller's X-Request-ID or mints one, echoes it and
// adds it to the request logger.
func RequestID() gin.HandlerFunc {
	return propagateID(HeaderRequestID, ContextKeyRequestID, logging.WithRequestID)
}

// CorrelationID does the same as RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return propagateID(HeaderCorrelationID, ContextKeyCorrelationID, logging.WithCorrelationID)
}

// GetRequestID returns the request ID, or "" before RequestID ran.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "" before CorrelationID ran.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func propagateID(header, key string, enrich func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}
