package sso

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

const (
	stateCookie = "quotefault_oidc_state"

	// Seconds the browser has to come back from the provider.
	stateMaxAge = 300
)

// Handler serves the login, callback and logout endpoints.
type Handler struct {
	provider IdentityProvider
	sessions *Sessions
}

// NewHandler creates the login flow handler.
func NewHandler(provider IdentityProvider, sessions *Sessions) *Handler {
	return &Handler{provider: provider, sessions: sessions}
}

// Register mounts login and callback under rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
}

// Login sends the browser to the identity provider.
func (h *Handler) Login(c *gin.Context) {
	state := uuid.NewString()
	nonce := uuid.NewString()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state+"."+nonce, stateMaxAge, "/", "", h.sessions.cfg.Secure, true)

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state, nonce))
}

// Callback completes the code flow and starts a session.
func (h *Handler) Callback(c *gin.Context) {
	logger := logging.FromContext(c.Request.Context())

	raw, _ := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/", "", h.sessions.cfg.Secure, true)

	state, nonce, ok := strings.Cut(raw, ".")
	if !ok || !sameString(state, c.Query("state")) {
		logger.Warn("login callback state mismatch")
		reject(c, "login state mismatch")

		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("identity provider refused login", slog.String("error", errParam))
		reject(c, "login refused by identity provider")

		return
	}

	claims, err := h.provider.Exchange(c.Request.Context(), c.Query("code"), nonce)
	if err != nil {
		logger.Warn("login exchange failed", slog.String("error", err.Error()))
		reject(c, "login failed")

		return
	}

	_, err = h.sessions.Start(c, claims)
	if err != nil {
		logger.Error("starting session", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred"))

		return
	}

	logger.Info("user logged in", slog.String("user", claims.Username))
	c.Redirect(http.StatusFound, "/")
}

// Logout ends the session and returns to the index page.
func (h *Handler) Logout(c *gin.Context) {
	err := h.sessions.End(c)
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("ending session", slog.String("error", err.Error()))
	}

	c.Redirect(http.StatusFound, "/")
}

func reject(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeUnauthenticated, message))
}

func sameString(a, b string) bool {
	return a != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
