package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotefault/internal/adapters/persistence"
	"github.com/jsamuelsen/quotefault/internal/app"
	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

var epoch = time.Date(2023, 6, 15, 9, 0, 0, 0, time.UTC)

// memberDirectory is an in-memory ports.Directory.
type memberDirectory struct {
	members map[string]domain.Member
}

func (d *memberDirectory) GetMember(_ context.Context, username string) (*domain.Member, error) {
	m, ok := d.members[username]
	if !ok {
		return nil, domain.NewNotFoundError("member", username)
	}

	return &m, nil
}

func (d *memberDirectory) ListGroupMembers(_ context.Context, group string) ([]domain.Member, error) {
	var out []domain.Member

	for _, m := range d.members {
		if m.InGroup(group) {
			out = append(out, m)
		}
	}

	return out, nil
}

// stepClock advances a minute every time it is read.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Minute)

	return c.now
}

// testEnv runs the handlers over an in-memory database and directory.
type testEnv struct {
	quoteRepo *persistence.QuoteRepository
	quotes    *app.QuoteService
	members   *app.MemberService
	auth      *app.AuthService
	router    *gin.Engine
	key       string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	db, err := persistence.Open(context.Background(), &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}, logger)
	require.NoError(t, err)

	t.Cleanup(func() { _ = persistence.Close(db) })

	dir := &memberDirectory{members: map[string]domain.Member{
		"alice": {Username: "alice", DisplayName: "Alice A", Groups: []string{"member"}},
		"bob":   {Username: "bob", DisplayName: "Bob B", Groups: []string{"member"}},
		"mod":   {Username: "mod", DisplayName: "Mod M", Groups: []string{"member", "rtp"}},
	}}

	cache := app.NewMembershipCache(app.MembershipCacheConfig{
		Directory:   dir,
		MemberGroup: "member",
		Logger:      logger,
	})
	members := app.NewMemberService(app.MemberServiceConfig{
		Directory:       dir,
		Cache:           cache,
		MemberGroup:     "member",
		PrivilegedGroup: "rtp",
		Logger:          logger,
	})
	auth := app.NewAuthService(app.AuthServiceConfig{
		Keys:    persistence.NewAPIKeyRepository(db),
		Members: members,
		Logger:  logger,
	})

	clock := &stepClock{now: epoch}

	env := &testEnv{
		quoteRepo: persistence.NewQuoteRepository(db),
		members:   members,
		auth:      auth,
	}

	env.quotes = app.NewQuoteService(app.QuoteServiceConfig{
		Quotes:  env.quoteRepo,
		Votes:   persistence.NewVoteRepository(db),
		Members: members,
		Auth:    auth,
		Clock:   clock.Now,
		Logger:  logger,
	})

	key, err := auth.GenerateKey(context.Background(), "alice", "tests")
	require.NoError(t, err)

	env.key = key.Hash

	router := gin.New()

	session := router.Group("/", middleware.RequireIdentity(middleware.HeaderIdentity{}, ""))
	NewQuoteHandler(env.quotes, 10).Register(session)
	NewMemberHandler(members, auth).Register(session)

	NewLegacyHandler(env.quotes).Register(router.Group("/:key", middleware.RequireAPIKey(auth)))

	env.router = router

	return env
}

// seed stores a quote directly, bypassing the submission rules.
func (e *testEnv) seed(t *testing.T, submitter, speaker, text string, at time.Time) int64 {
	t.Helper()

	q := &domain.Quote{Submitter: submitter, Speaker: speaker, Text: text, QuoteTime: at}
	require.NoError(t, e.quoteRepo.Create(context.Background(), q))

	return q.ID
}

// do sends a request as user, or anonymously when user is empty. A non-nil
// body is sent as JSON.
func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if user != "" {
		req.Header.Set(middleware.DefaultUsernameHeader, user)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

// legacy sends a request to an API key route with the environment's key.
func (e *testEnv) legacy(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	return e.do(t, method, "/"+e.key+path, "", body)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func requireNone(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `"none"`, w.Body.String())
}
