package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/mocks"
)

var fixedNow = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDirectory is an in-memory directory that counts calls.
// While gate is open (non-nil and not closed) every call blocks on it.
type fakeDirectory struct {
	mu      sync.Mutex
	members map[string]*domain.Member
	listErr error
	gate    chan struct{}

	listCalls atomic.Int32
	getCalls  atomic.Int32
}

func newFakeDirectory(members ...*domain.Member) *fakeDirectory {
	d := &fakeDirectory{members: make(map[string]*domain.Member)}
	for _, m := range members {
		d.members[m.Username] = m
	}

	return d
}

func (d *fakeDirectory) hold() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gate = make(chan struct{})
}

func (d *fakeDirectory) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gate != nil {
		close(d.gate)
		d.gate = nil
	}
}

func (d *fakeDirectory) wait(ctx context.Context) error {
	d.mu.Lock()
	gate := d.gate
	d.mu.Unlock()

	if gate == nil {
		return nil
	}

	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *fakeDirectory) setListErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listErr = err
}

func (d *fakeDirectory) add(m *domain.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.members[m.Username] = m
}

func (d *fakeDirectory) GetMember(ctx context.Context, username string) (*domain.Member, error) {
	d.getCalls.Add(1)

	err := d.wait(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.members[username]
	if !ok {
		return nil, domain.NewNotFoundError("member", username)
	}

	return cloneMember(m), nil
}

func (d *fakeDirectory) ListGroupMembers(ctx context.Context, group string) ([]domain.Member, error) {
	d.listCalls.Add(1)

	err := d.wait(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listErr != nil {
		return nil, d.listErr
	}

	var out []domain.Member

	for _, m := range d.members {
		if m.InGroup(group) {
			out = append(out, *cloneMember(m))
		}
	}

	return out, nil
}

// fixture wires the application services over mocks.
type fixture struct {
	quotes *mocks.MockQuoteRepository
	votes  *mocks.MockVoteRepository
	keys   *mocks.MockAPIKeyRepository
	dir    *mocks.MockDirectory

	cache   *MembershipCache
	members *MemberService
	auth    *AuthService
	svc     *QuoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		quotes: mocks.NewMockQuoteRepository(t),
		votes:  mocks.NewMockVoteRepository(t),
		keys:   mocks.NewMockAPIKeyRepository(t),
		dir:    mocks.NewMockDirectory(t),
	}

	f.cache = NewMembershipCache(MembershipCacheConfig{
		Directory:   f.dir,
		MemberGroup: "member",
		Logger:      discardLogger(),
	})
	f.members = NewMemberService(MemberServiceConfig{
		Directory:       f.dir,
		Cache:           f.cache,
		MemberGroup:     "member",
		PrivilegedGroup: "rtp",
		Logger:          discardLogger(),
	})
	f.auth = NewAuthService(AuthServiceConfig{
		Keys:    f.keys,
		Members: f.members,
		Logger:  discardLogger(),
	})
	f.svc = NewQuoteService(QuoteServiceConfig{
		Quotes:  f.quotes,
		Votes:   f.votes,
		Members: f.members,
		Auth:    f.auth,
		Clock:   func() time.Time { return fixedNow },
		Logger:  discardLogger(),
	})

	return f
}

func member(username string, groups ...string) *domain.Member {
	return &domain.Member{Username: username, DisplayName: username + " display", Groups: groups}
}
