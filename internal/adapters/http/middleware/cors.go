package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 10 * time.Minute

// CORS lets browsers on allowOrigin call the API-key routes and answers
// their preflight requests. An empty origin or "*" admits any origin.
// Credentials are never allowed; the key travels in the path.
func CORS(allowOrigin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:              []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type"},
		MaxAge:                    corsMaxAge,
		OptionsResponseStatusCode: http.StatusNoContent,
	}

	if allowOrigin == "" || allowOrigin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{allowOrigin}
	}

	return cors.New(cfg)
}
