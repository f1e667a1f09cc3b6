package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

// fakeConn answers searches from canned results and remembers the last request.
type fakeConn struct {
	bindErr   error
	searchErr error
	entries   []*ldap.Entry

	lastFilter string
	lastBase   string
	closed     bool
}

func (f *fakeConn) Bind(string, string) error { return f.bindErr }

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.lastFilter = req.Filter
	f.lastBase = req.BaseDN

	if f.searchErr != nil {
		return nil, f.searchErr
	}

	return &ldap.SearchResult{Entries: f.entries}, nil
}

func (f *fakeConn) SearchWithPaging(req *ldap.SearchRequest, _ uint32) (*ldap.SearchResult, error) {
	return f.Search(req)
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func testConfig() *config.DirectoryConfig {
	return &config.DirectoryConfig{
		URL:          "ldap://directory.test:389",
		BindDN:       "cn=svc,dc=example,dc=com",
		UsersBaseDN:  "cn=users,dc=example,dc=com",
		GroupsBaseDN: "cn=groups,dc=example,dc=com",
		MemberGroup:  "member",
		Timeout:      5 * time.Second,
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   2,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	}
}

func newTestClient(t *testing.T, fc *fakeConn, dialErr error) (*Client, *atomic.Int32) {
	t.Helper()

	var dials atomic.Int32

	c, err := newClient(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), func(context.Context) (conn, error) {
		dials.Add(1)

		if dialErr != nil {
			return nil, dialErr
		}

		return fc, nil
	})
	require.NoError(t, err)

	return c, &dials
}

func userEntry(uid, cn string, groups ...string) *ldap.Entry {
	return ldap.NewEntry("uid="+uid+",cn=users,dc=example,dc=com", map[string][]string{
		"uid":      {uid},
		"cn":       {cn},
		"memberOf": groups,
	})
}

func TestClient_GetMember(t *testing.T) {
	fc := &fakeConn{entries: []*ldap.Entry{
		userEntry("alice", "Alice A",
			"cn=member,cn=groups,dc=example,dc=com",
			"cn=rtp,cn=groups,dc=example,dc=com",
			"not a dn",
		),
	}}
	c, _ := newTestClient(t, fc, nil)

	m, err := c.GetMember(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, &domain.Member{Username: "alice", DisplayName: "Alice A", Groups: []string{"member", "rtp"}}, m)
	assert.True(t, m.InGroup("rtp"))
	assert.Equal(t, "(uid=alice)", fc.lastFilter)
	assert.Equal(t, "cn=users,dc=example,dc=com", fc.lastBase)
	assert.True(t, fc.closed)
}

func TestClient_GetMember_EscapesFilter(t *testing.T) {
	fc := &fakeConn{}
	c, _ := newTestClient(t, fc, nil)

	_, err := c.GetMember(context.Background(), "*)(uid=*")
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, `(uid=\2a\29\28uid=\2a)`, fc.lastFilter)
}

func TestClient_GetMember_NotFound(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConn
	}{
		{name: "no entries", conn: &fakeConn{}},
		{name: "no such object", conn: &fakeConn{searchErr: ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("gone"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.conn, nil)

			_, err := c.GetMember(context.Background(), "ghost")
			assert.True(t, domain.IsNotFound(err))
			assert.Equal(t, circuitClosed, c.breaker.current(), "a miss is not a failure")
		})
	}
}

func TestClient_ListGroupMembers(t *testing.T) {
	fc := &fakeConn{entries: []*ldap.Entry{
		userEntry("carol", "Carol C"),
		userEntry("alice", "Alice A"),
	}}
	c, _ := newTestClient(t, fc, nil)

	members, err := c.ListGroupMembers(context.Background(), "member")
	require.NoError(t, err)

	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Username)
	assert.Equal(t, "carol", members[1].Username)
	assert.Equal(t, "(memberOf=cn=member,cn=groups,dc=example,dc=com)", fc.lastFilter)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		conn    *fakeConn
		dialErr error
		reason  string
	}{
		{name: "dial", dialErr: errors.New("connection refused"), reason: "dial: connection refused"},
		{name: "bind", conn: &fakeConn{bindErr: errors.New("invalid credentials")}, reason: "bind: invalid credentials"},
		{name: "search", conn: &fakeConn{searchErr: ldap.NewError(ldap.LDAPResultBusy, errors.New("busy"))}, reason: "search: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.conn, tt.dialErr)

			_, err := c.ListGroupMembers(context.Background(), "member")
			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err))

			var ue *domain.UnavailableError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, "directory", ue.Service)
			assert.Contains(t, ue.Reason, tt.reason)
		})
	}
}

func TestClient_CircuitOpensAndRejects(t *testing.T) {
	c, dials := newTestClient(t, nil, errors.New("connection refused"))
	ctx := context.Background()

	for range 2 {
		_, err := c.GetMember(ctx, "alice")
		require.True(t, domain.IsUnavailable(err))
	}

	require.Equal(t, circuitOpen, c.breaker.current())

	_, err := c.GetMember(ctx, "alice")
	require.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, int32(2), dials.Load(), "no dial while open")

	assert.Error(t, c.Check(ctx))
}

func TestClient_CanceledContext(t *testing.T) {
	c, dials := newTestClient(t, &fakeConn{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetMember(ctx, "alice")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, dials.Load())
}

func TestClient_Check(t *testing.T) {
	c, dials := newTestClient(t, &fakeConn{}, nil)

	assert.Equal(t, "directory", c.Name())
	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, int32(1), dials.Load())
}

func TestGroupName(t *testing.T) {
	tests := []struct {
		dn   string
		want string
		ok   bool
	}{
		{"cn=rtp,cn=groups,cn=accounts,dc=csh,dc=rit,dc=edu", "rtp", true},
		{"CN=Eboard,OU=Groups,DC=example,DC=com", "Eboard", true},
		{`cn=a\,b,cn=groups`, "a,b", true},
		{"", "", false},
		{"garbage", "", false},
	}

	for _, tt := range tests {
		got, ok := groupName(tt.dn)
		assert.Equal(t, tt.ok, ok, tt.dn)
		assert.Equal(t, tt.want, got, tt.dn)
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)

	c, err := New(testConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, c.dial)
}
