package sso

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/mocks"
	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]domain.Session)}
}

func (m *memStore) Create(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = *s

	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.NewNotFoundError("session", id)
	}

	return &s, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)

	return nil
}

type fakeProvider struct {
	claims    *Claims
	err       error
	gotCode   string
	gotNonce  string
	lastState string
}

func (p *fakeProvider) AuthCodeURL(state, nonce string) string {
	p.lastState = state
	return "https://idp.example.com/auth?state=" + url.QueryEscape(state) + "&nonce=" + url.QueryEscape(nonce)
}

func (p *fakeProvider) Exchange(_ context.Context, code, nonce string) (*Claims, error) {
	p.gotCode = code
	p.gotNonce = nonce

	return p.claims, p.err
}

var testSessionConfig = config.SessionConfig{CookieName: "quotefault_session", TTL: time.Hour}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func newRouter(provider IdentityProvider, sessions *Sessions) *gin.Engine {
	h := NewHandler(provider, sessions)

	router := gin.New()
	h.Register(router.Group("/auth"))
	router.GET("/logout", h.Logout)
	router.GET("/whoami", func(c *gin.Context) {
		id, err := sessions.Identify(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}

		if id == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}

		c.String(http.StatusOK, id.Username)
	})

	return router
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://idp.example.com/auth"))

	state := cookieNamed(w.Result().Cookies(), stateCookie)
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)

	return state
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fakeProvider{claims: &Claims{Subject: "sub-1", Username: "alice"}}
	router := newRouter(provider, NewSessions(store, testSessionConfig))

	state := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state="+provider.lastState, nil)
	req.AddCookie(state)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "abc", provider.gotCode)
	assert.Equal(t, strings.SplitN(state.Value, ".", 2)[1], provider.gotNonce)

	session := cookieNamed(w.Result().Cookies(), testSessionConfig.CookieName)
	require.NotNil(t, session)
	require.Len(t, store.sessions, 1)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(session)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "alice", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(session)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, store.sessions)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(session)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestCallbackRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    func(state string) string
		noCookie bool
		err      error
	}{
		{name: "missing state cookie", query: func(s string) string { return "code=abc&state=" + s }, noCookie: true},
		{name: "state mismatch", query: func(string) string { return "code=abc&state=forged" }},
		{name: "provider error", query: func(s string) string { return "error=access_denied&state=" + s }},
		{name: "exchange failure", query: func(s string) string { return "code=abc&state=" + s }, err: errors.New("bad code")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMemStore()
			provider := &fakeProvider{claims: &Claims{Username: "alice"}, err: tt.err}
			router := newRouter(provider, NewSessions(store, testSessionConfig))

			state := login(t, router)

			req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+tt.query(provider.lastState), nil)
			if !tt.noCookie {
				req.AddCookie(state)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
			assert.Empty(t, store.sessions)
		})
	}
}

func TestCallbackSessionStoreFailure(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSessionStore(t)
	store.EXPECT().Create(mock.Anything, mock.Anything).Return(errors.New("db down"))

	provider := &fakeProvider{claims: &Claims{Username: "alice"}}
	router := newRouter(provider, NewSessions(store, testSessionConfig))

	state := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state="+provider.lastState, nil)
	req.AddCookie(state)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSessionsIdentify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := newMemStore()
	_ = store.Create(context.Background(), &domain.Session{
		ID: "live", Username: "alice", Subject: "sub-1", ExpiresAt: now.Add(time.Minute),
	})
	_ = store.Create(context.Background(), &domain.Session{
		ID: "stale", Username: "bob", ExpiresAt: now.Add(-time.Minute),
	})

	sessions := NewSessions(store, testSessionConfig)
	sessions.now = func() time.Time { return now }

	tests := []struct {
		name   string
		cookie string
		want   *domain.Identity
	}{
		{name: "live session", cookie: "live", want: &domain.Identity{Username: "alice", Subject: "sub-1"}},
		{name: "expired session", cookie: "stale"},
		{name: "unknown session", cookie: "gone"},
		{name: "no cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			if tt.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: tt.cookie})
			}

			got, err := sessions.Identify(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if tt.cookie == "gone" {
				cleared := cookieNamed(w.Result().Cookies(), testSessionConfig.CookieName)
				require.NotNil(t, cleared)
				assert.Negative(t, cleared.MaxAge)
			}
		})
	}
}

func TestNewSessions_NilStore(t *testing.T) {
	assert.Panics(t, func() { NewSessions(nil, testSessionConfig) })
}
