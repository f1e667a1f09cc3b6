package sso

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/platform/config"
	"github.com/jsamuelsen/quotefault/internal/ports"
)

// Sessions binds login sessions to a browser cookie.
type Sessions struct {
	store ports.SessionStore
	cfg   config.SessionConfig
	now   func() time.Time
}

// NewSessions creates a cookie session manager.
func NewSessions(store ports.SessionStore, cfg config.SessionConfig) *Sessions {
	if store == nil {
		panic("sso: session store is required")
	}

	return &Sessions{store: store, cfg: cfg, now: time.Now}
}

// Start records a session for claims and sets the session cookie.
func (s *Sessions) Start(c *gin.Context, claims *Claims) (*domain.Session, error) {
	now := s.now().UTC()

	sess := &domain.Session{
		ID:        uuid.NewString(),
		Subject:   claims.Subject,
		Username:  claims.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}

	err := s.store.Create(c.Request.Context(), sess)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.setCookie(c, sess.ID, int(s.cfg.TTL/time.Second))

	return sess, nil
}

// Identify returns the identity of the session named by the request cookie.
// A request without a live session yields a nil identity and no error.
func (s *Sessions) Identify(c *gin.Context) (*domain.Identity, error) {
	id, err := c.Cookie(s.cfg.CookieName)
	if err != nil || id == "" {
		return nil, nil //nolint:nilnil // anonymous is not an error
	}

	sess, err := s.store.Get(c.Request.Context(), id)
	if domain.IsNotFound(err) {
		s.setCookie(c, "", -1)
		return nil, nil //nolint:nilnil // anonymous is not an error
	}

	if err != nil {
		return nil, err
	}

	if sess.Expired(s.now()) {
		return nil, nil //nolint:nilnil // anonymous is not an error
	}

	identity := sess.Identity()

	return &identity, nil
}

// End deletes the current session, if any, and clears the cookie.
func (s *Sessions) End(c *gin.Context) error {
	id, err := c.Cookie(s.cfg.CookieName)
	if errors.Is(err, http.ErrNoCookie) || id == "" {
		return nil
	}

	s.setCookie(c, "", -1)

	return s.store.Delete(c.Request.Context(), id)
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, value, maxAge, "/", "", s.cfg.Secure, true)
}
