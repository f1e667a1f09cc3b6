// Package directory reads members and groups from the organization's LDAP server.
package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/platform/config"
	"github.com/jsamuelsen/quotefault/internal/platform/telemetry"
)

const (
	serviceName = "directory"

	// groupPageSize is the paging control size for group listings.
	groupPageSize = 500
)

var memberAttributes = []string{"uid", "cn", "memberOf"}

// conn is the subset of *ldap.Conn the client uses.
type conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchWithPaging(req *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	Close() error
}

type dialFunc func(ctx context.Context) (conn, error)

// Client implements ports.Directory and ports.HealthChecker over LDAP.
//
// Every call dials, binds as the service account and closes the connection
// afterwards. Transport failures come back as *domain.UnavailableError and
// are never retried.
type Client struct {
	cfg     config.DirectoryConfig
	dial    dialFunc
	breaker *breaker
	logger  *slog.Logger
	tracer  trace.Tracer

	callDuration metric.Float64Histogram
	callTotal    metric.Int64Counter
}

// New creates a directory client.
func New(cfg *config.DirectoryConfig, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("directory config is required")
	}

	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("directory url: %w", err)
	}

	c, err := newClient(cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	c.dial = c.dialLDAP

	return c, nil
}

func newClient(cfg *config.DirectoryConfig, logger *slog.Logger, dial dialFunc) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "directory"))

	meter := otel.Meter(telemetry.InstrumentationName + "/directory")

	callDuration, err := meter.Float64Histogram(
		"directory.client.call.duration",
		metric.WithDescription("Duration of directory calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	callTotal, err := meter.Int64Counter(
		"directory.client.call.total",
		metric.WithDescription("Total number of directory calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call counter: %w", err)
	}

	b := newBreaker(cfg.CircuitBreaker)
	b.onChange = func(from, to circuitState) {
		logger.Warn("directory circuit changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}

	return &Client{
		cfg:          *cfg,
		dial:         dial,
		breaker:      b,
		logger:       logger,
		tracer:       telemetry.Tracer("directory"),
		callDuration: callDuration,
		callTotal:    callTotal,
	}, nil
}

// GetMember looks a member up by uid.
func (c *Client) GetMember(ctx context.Context, username string) (*domain.Member, error) {
	var member *domain.Member

	err := c.do(ctx, "get_member", func(l conn) error {
		req := c.searchRequest(c.cfg.UsersBaseDN, fmt.Sprintf("(uid=%s)", ldap.EscapeFilter(username)), 1)

		res, err := l.Search(req)

		switch {
		case ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject):
			return domain.NewNotFoundError("member", username)
		case err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded):
			return unavailable("search", err)
		case res == nil || len(res.Entries) == 0:
			return domain.NewNotFoundError("member", username)
		}

		m := entryMember(res.Entries[0])
		member = &m

		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// ListGroupMembers returns every member of group, ordered by username.
func (c *Client) ListGroupMembers(ctx context.Context, group string) ([]domain.Member, error) {
	var members []domain.Member

	err := c.do(ctx, "list_group_members", func(l conn) error {
		groupDN := "cn=" + group + "," + c.cfg.GroupsBaseDN
		req := c.searchRequest(c.cfg.UsersBaseDN, fmt.Sprintf("(memberOf=%s)", ldap.EscapeFilter(groupDN)), 0)

		res, err := l.SearchWithPaging(req, groupPageSize)
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil
		}

		if err != nil {
			return unavailable("search", err)
		}

		members = make([]domain.Member, 0, len(res.Entries))
		for _, e := range res.Entries {
			members = append(members, entryMember(e))
		}

		slices.SortFunc(members, func(a, b domain.Member) int {
			return strings.Compare(a.Username, b.Username)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return members, nil
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string {
	return serviceName
}

// Check implements ports.HealthChecker by binding as the service account.
func (c *Client) Check(ctx context.Context) error {
	return c.do(ctx, "ping", func(conn) error { return nil })
}

func (c *Client) searchRequest(baseDN, filter string, sizeLimit int) *ldap.SearchRequest {
	return ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		sizeLimit,
		int(c.cfg.Timeout/time.Second),
		false,
		filter,
		memberAttributes,
		nil,
	)
}

// do runs fn on a freshly bound connection, guarded by the circuit breaker.
func (c *Client) do(ctx context.Context, op string, fn func(conn) error) error {
	ctx, span := c.tracer.Start(ctx, "directory."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "ldap"),
			attribute.String("ldap.operation", op),
		),
	)
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !c.breaker.allow() {
		c.record(ctx, op, "rejected", start)
		span.SetStatus(codes.Error, "circuit open")

		return domain.NewUnavailableError(serviceName, "circuit open")
	}

	err := c.call(ctx, fn)
	failed := domain.IsUnavailable(err)
	c.breaker.done(failed)

	switch {
	case err == nil:
		c.record(ctx, op, "ok", start)
	case domain.IsNotFound(err):
		c.record(ctx, op, "not_found", start)
	default:
		c.record(ctx, op, "error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "directory call failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}

	return err
}

func (c *Client) call(ctx context.Context, fn func(conn) error) error {
	l, err := c.dial(ctx)
	if err != nil {
		return unavailable("dial", err)
	}

	defer func() { _ = l.Close() }()

	err = l.Bind(c.cfg.BindDN, c.cfg.BindPassword)
	if err != nil {
		return unavailable("bind", err)
	}

	return fn(l)
}

func (c *Client) record(ctx context.Context, op, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)

	c.callDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.callTotal.Add(ctx, 1, attrs)
}

func (c *Client) dialLDAP(ctx context.Context) (conn, error) {
	d := &net.Dialer{Timeout: c.cfg.Timeout}
	if deadline, ok := ctx.Deadline(); ok {
		d.Deadline = deadline
	}

	l, err := ldap.DialURL(c.cfg.URL, ldap.DialWithDialer(d))
	if err != nil {
		return nil, err
	}

	l.SetTimeout(c.cfg.Timeout)

	if c.cfg.StartTLS {
		u, _ := url.Parse(c.cfg.URL)

		err = l.StartTLS(&tls.Config{ServerName: u.Hostname(), MinVersion: tls.VersionTLS12})
		if err != nil {
			_ = l.Close()
			return nil, err
		}
	}

	return l, nil
}

func unavailable(step string, err error) error {
	return domain.NewUnavailableError(serviceName, step+": "+err.Error())
}

func entryMember(e *ldap.Entry) domain.Member {
	m := domain.Member{
		Username:    e.GetAttributeValue("uid"),
		DisplayName: e.GetAttributeValue("cn"),
	}

	for _, dn := range e.GetAttributeValues("memberOf") {
		if g, ok := groupName(dn); ok {
			m.Groups = append(m.Groups, g)
		}
	}

	return m
}

// groupName returns the value of the first RDN of a group DN, so
// "cn=rtp,cn=groups,dc=example,dc=com" becomes "rtp".
func groupName(dn string) (string, bool) {
	parsed, err := ldap.ParseDN(dn)
	if err != nil || len(parsed.RDNs) == 0 || len(parsed.RDNs[0].Attributes) == 0 {
		return "", false
	}

	return parsed.RDNs[0].Attributes[0].Value, true
}
