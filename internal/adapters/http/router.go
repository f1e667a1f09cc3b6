package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotefault/internal/adapters/sso"
	"github.com/jsamuelsen/quotefault/internal/platform/telemetry"
)

// Paths shared by the router and the login flow.
const (
	LoginPath  = "/auth/login"
	LogoutPath = "/logout"

	// probePrefix holds the operational endpoints, which are neither logged
	// nor given a request deadline.
	probePrefix = "/-/"
)

// DefaultRequestTimeout bounds a request when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds what SetupRouter mounts. Nil handlers are skipped.
type RouterConfig struct {
	ServiceName string

	Timeout         time.Duration
	MaxBodySize     int64
	CORSAllowOrigin string

	// Identity gates the session routes; Keys gates the legacy routes.
	Identity middleware.IdentitySource
	Keys     middleware.KeyAuthenticator

	Health  *handlers.HealthHandler
	Index   *handlers.IndexHandler
	Legacy  *handlers.LegacyHandler
	Quotes  *handlers.QuoteHandler
	Members *handlers.MemberHandler

	// SSO serves /auth/* and /logout when auth.mode is oidc.
	SSO *sso.Handler
}

// SetupRouter registers the middleware chain and every route family.
//
// Middleware runs in this order:
//  1. Recovery
//  2. Request and correlation IDs
//  3. Tracing, then request metrics
//  4. Logging (skips /-/)
//  5. Request deadline (skips /-/)
//  6. Body size limit
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(probePrefix),
		middleware.Timeout(timeout, probePrefix),
		middleware.MaxBodySize(cfg.MaxBodySize),
	)

	if cfg.Health != nil {
		cfg.Health.Register(engine.Group("/-"))
	}

	if cfg.Index != nil {
		engine.GET("/", cfg.Index.Index)
	}

	loginPath := ""

	if cfg.SSO != nil {
		cfg.SSO.Register(engine.Group("/auth"))
		engine.GET(LogoutPath, cfg.SSO.Logout)

		loginPath = LoginPath
	} else {
		engine.GET(LogoutPath, func(c *gin.Context) { c.Redirect(http.StatusFound, "/") })
	}

	if cfg.Identity != nil {
		session := engine.Group("/", middleware.RequireIdentity(cfg.Identity, loginPath))

		if cfg.Quotes != nil {
			cfg.Quotes.Register(session)
		}

		if cfg.Members != nil {
			cfg.Members.Register(session)
		}
	}

	if cfg.Legacy != nil && cfg.Keys != nil {
		cors := middleware.CORS(cfg.CORSAllowOrigin)

		engine.OPTIONS("/:key/*rest", cors)
		cfg.Legacy.Register(engine.Group("/:key", cors, middleware.RequireAPIKey(cfg.Keys)))
	}
}
