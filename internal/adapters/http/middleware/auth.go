package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

const (
	// ContextKeyIdentity holds the domain.Identity of a session-gated request.
	ContextKeyIdentity = "identity"

	// ContextKeyAPIKey holds the *domain.APIKey of a key-gated request.
	ContextKeyAPIKey = "api_key"

	// Gateway headers used when auth.mode is header.
	DefaultUsernameHeader = "X-User-ID"
	DefaultSubjectHeader  = "X-User-Subject"
)

// IdentitySource resolves the caller of a request. A nil identity with a nil
// error means the request is anonymous.
type IdentitySource interface {
	Identify(c *gin.Context) (*domain.Identity, error)
}

// HeaderIdentity trusts identity headers set by an authenticating gateway.
type HeaderIdentity struct {
	UsernameHeader string
	SubjectHeader  string
}

// Identify implements IdentitySource.
func (h HeaderIdentity) Identify(c *gin.Context) (*domain.Identity, error) {
	usernameHeader := h.UsernameHeader
	if usernameHeader == "" {
		usernameHeader = DefaultUsernameHeader
	}

	subjectHeader := h.SubjectHeader
	if subjectHeader == "" {
		subjectHeader = DefaultSubjectHeader
	}

	username := strings.TrimSpace(c.GetHeader(usernameHeader))
	if username == "" {
		return nil, nil //nolint:nilnil // anonymous is not an error
	}

	return &domain.Identity{Username: username, Subject: c.GetHeader(subjectHeader)}, nil
}

// RequireIdentity admits requests with an identity from src and stores it
// under ContextKeyIdentity. Anonymous requests get 403, except browser GETs
// which are sent to loginPath when one is configured.
func RequireIdentity(src IdentitySource, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := src.Identify(c)
		if err != nil {
			logging.FromContext(c.Request.Context()).Error("resolving identity",
				slog.String("error", err.Error()),
			)
			abortWithCode(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "an internal error occurred")

			return
		}

		if id == nil || id.Username == "" {
			if loginPath != "" && c.Request.Method == http.MethodGet &&
				strings.Contains(c.GetHeader("Accept"), "text/html") {
				c.Redirect(http.StatusFound, loginPath)
				c.Abort()

				return
			}

			abortWithCode(c, http.StatusForbidden, dto.ErrorCodeUnauthenticated, "authentication required")

			return
		}

		c.Set(ContextKeyIdentity, *id)

		c.Request = c.Request.WithContext(logging.WithUser(c.Request.Context(), id.Username))

		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireIdentity.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(ContextKeyIdentity)
	if !ok {
		return domain.Identity{}, false
	}

	id, ok := v.(domain.Identity)

	return id, ok
}

// KeyAuthenticator validates API keys.
type KeyAuthenticator interface {
	AuthenticateKey(ctx context.Context, key string) (*domain.APIKey, error)
}

// RequireAPIKey admits requests whose :key path parameter is a valid API key.
func RequireAPIKey(auth KeyAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := auth.AuthenticateKey(c.Request.Context(), c.Param("key"))

		switch {
		case err == nil:
			c.Set(ContextKeyAPIKey, key)
			c.Next()
		case domain.IsUnauthenticated(err):
			abortWithCode(c, http.StatusForbidden, dto.ErrorCodeUnauthenticated, "invalid API key")
		default:
			logging.FromContext(c.Request.Context()).Error("checking api key",
				slog.String("error", err.Error()),
			)
			abortWithCode(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "an internal error occurred")
		}
	}
}

func abortWithCode(c *gin.Context, status int, code, message string) {
	resp := dto.NewErrorResponse(code, message)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		resp.TraceID = span.SpanContext().TraceID().String()
	}

	c.AbortWithStatusJSON(status, resp)
}
