package app

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/ports"
)

// DefaultMemberCacheCapacity bounds the per-username cache when no capacity is configured.
const DefaultMemberCacheCapacity = 8192

// Cache names used as metric labels.
const (
	cacheAllMembers = "all_members"
	cacheMember     = "member"
)

// cacheState is the lifecycle of the all-members value.
type cacheState int

const (
	stateEmpty cacheState = iota
	statePopulating
	stateReady
)

// String implements fmt.Stringer.
func (s cacheState) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case statePopulating:
		return "populating"
	case stateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// population is one in-flight directory listing. done is closed once
// members and err are final.
type population struct {
	done    chan struct{}
	members map[string]string
	err     error
}

func (p *population) wait(ctx context.Context) (map[string]string, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if p.err != nil {
		return nil, p.err
	}

	return maps.Clone(p.members), nil
}

// cacheMetrics are the Prometheus counters for the membership cache.
type cacheMetrics struct {
	lookups *prometheus.CounterVec
	fetches *prometheus.CounterVec
	entries prometheus.GaugeFunc
}

func newCacheMetrics(reg prometheus.Registerer, size func() int) *cacheMetrics {
	factory := promauto.With(reg)

	return &cacheMetrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotefault",
			Subsystem: "member_cache",
			Name:      "lookups_total",
			Help:      "Membership cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotefault",
			Subsystem: "member_cache",
			Name:      "directory_fetches_total",
			Help:      "Directory calls made to fill the membership cache.",
		}, []string{"cache", "outcome"}),
		entries: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "quotefault",
			Subsystem: "member_cache",
			Name:      "entries",
			Help:      "Members held in the per-username cache.",
		}, func() float64 { return float64(size()) }),
	}
}

func (m *cacheMetrics) lookup(cache, result string) {
	m.lookups.WithLabelValues(cache, result).Inc()
}

func (m *cacheMetrics) fetch(cache string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.fetches.WithLabelValues(cache, outcome).Inc()
}

// MembershipCacheConfig contains the dependencies of a MembershipCache.
type MembershipCacheConfig struct {
	Directory   ports.Directory
	MemberGroup string

	// Capacity bounds the per-username cache. Zero selects DefaultMemberCacheCapacity.
	Capacity int

	// Registerer receives the cache metrics. Nil registers nowhere.
	Registerer prometheus.Registerer

	Logger *slog.Logger
}

// MembershipCache memoizes directory lookups.
//
// The all-members listing is a single value moving through Empty, Populating
// and Ready. At most one listing is in flight; callers arriving while it runs
// wait for it and share its result, and a failed listing returns the cache to
// Empty. Per-username lookups are kept in an LRU and deduplicated per key.
//
// Purge bumps a generation counter so lookups that began before the purge
// never write their results back.
type MembershipCache struct {
	dir    ports.Directory
	group  string
	logger *slog.Logger

	mu      sync.Mutex
	gen     uint64
	state   cacheState
	all     map[string]string
	pending *population

	members *lru.Cache[string, *domain.Member]
	flight  singleflight.Group
	metrics *cacheMetrics
}

// NewMembershipCache creates an empty cache.
func NewMembershipCache(cfg MembershipCacheConfig) *MembershipCache {
	if cfg.Directory == nil {
		panic("membership cache requires a directory")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultMemberCacheCapacity
	}

	members, err := lru.New[string, *domain.Member](cfg.Capacity)
	if err != nil {
		panic("membership cache: " + err.Error())
	}

	c := &MembershipCache{
		dir:     cfg.Directory,
		group:   cfg.MemberGroup,
		logger:  cfg.Logger,
		members: members,
	}
	c.metrics = newCacheMetrics(cfg.Registerer, c.Len)

	return c
}

// AllMembers returns a copy of the username to display name mapping of the
// member group, listing the directory only when the cache is empty.
func (c *MembershipCache) AllMembers(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()

	switch c.state {
	case stateReady:
		all := maps.Clone(c.all)
		c.mu.Unlock()
		c.metrics.lookup(cacheAllMembers, "hit")

		return all, nil

	case statePopulating:
		p := c.pending
		c.mu.Unlock()
		c.metrics.lookup(cacheAllMembers, "shared")

		return p.wait(ctx)

	case stateEmpty:
	}

	p := &population{done: make(chan struct{})}
	c.state = statePopulating
	c.pending = p
	gen := c.gen
	c.mu.Unlock()

	c.metrics.lookup(cacheAllMembers, "miss")

	// The listing outlives the caller that started it so waiters are not
	// failed by someone else's cancellation.
	go c.populate(context.WithoutCancel(ctx), gen, p)

	return p.wait(ctx)
}

func (c *MembershipCache) populate(ctx context.Context, gen uint64, p *population) {
	members, err := c.dir.ListGroupMembers(ctx, c.group)
	c.metrics.fetch(cacheAllMembers, err)

	var all map[string]string

	if err == nil {
		all = make(map[string]string, len(members))
		for _, m := range members {
			all[m.Username] = m.DisplayName
		}
	}

	c.mu.Lock()

	if c.gen == gen && c.pending == p {
		c.pending = nil

		if err != nil {
			c.state = stateEmpty
		} else {
			c.state = stateReady
			c.all = all
		}
	}

	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "listing directory members failed",
			slog.String("group", c.group),
			slog.Any("error", err),
		)
	}

	p.members, p.err = all, err
	close(p.done)
}

// Member returns the directory entry for username.
// Missing members are reported as domain.ErrNotFound and are not cached.
func (c *MembershipCache) Member(ctx context.Context, username string) (*domain.Member, error) {
	if m, ok := c.members.Get(username); ok {
		c.metrics.lookup(cacheMember, "hit")
		return cloneMember(m), nil
	}

	c.metrics.lookup(cacheMember, "miss")

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	key := strconv.FormatUint(gen, 10) + "/" + username

	ch := c.flight.DoChan(key, func() (any, error) {
		// A flight for this key may have just finished.
		if m, ok := c.members.Peek(username); ok {
			return m, nil
		}

		m, err := c.dir.GetMember(context.WithoutCancel(ctx), username)
		c.metrics.fetch(cacheMember, err)

		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.members.Add(username, m)
		}
		c.mu.Unlock()

		return m, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		m, _ := res.Val.(*domain.Member)

		return cloneMember(m), nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Purge empties both caches.
func (c *MembershipCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.state = stateEmpty
	c.all = nil
	c.pending = nil
	c.members.Purge()
}

// Len returns the number of cached members. It backs the entries gauge.
func (c *MembershipCache) Len() int {
	return c.members.Len()
}

func (c *MembershipCache) currentState() cacheState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func cloneMember(m *domain.Member) *domain.Member {
	if m == nil {
		return nil
	}

	out := *m
	out.Groups = slices.Clone(m.Groups)

	return &out
}
