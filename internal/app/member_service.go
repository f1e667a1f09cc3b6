package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/ports"
)

// MemberService answers directory questions for the rest of the application.
type MemberService struct {
	dir             ports.Directory
	cache           *MembershipCache
	memberGroup     string
	privilegedGroup string
	logger          *slog.Logger
}

// MemberServiceConfig contains the dependencies of a MemberService.
type MemberServiceConfig struct {
	Directory       ports.Directory
	Cache           *MembershipCache
	MemberGroup     string
	PrivilegedGroup string
	Logger          *slog.Logger
}

// NewMemberService creates a member service.
func NewMemberService(cfg MemberServiceConfig) *MemberService {
	if cfg.Directory == nil {
		panic("member service requires a directory")
	}

	if cfg.Cache == nil {
		panic("member service requires a membership cache")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &MemberService{
		dir:             cfg.Directory,
		cache:           cfg.Cache,
		memberGroup:     cfg.MemberGroup,
		privilegedGroup: cfg.PrivilegedGroup,
		logger:          cfg.Logger,
	}
}

// ListMembers lists the member group straight from the directory.
func (s *MemberService) ListMembers(ctx context.Context) (map[string]string, error) {
	members, err := s.dir.ListGroupMembers(ctx, s.memberGroup)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	out := make(map[string]string, len(members))
	for _, m := range members {
		out[m.Username] = m.DisplayName
	}

	return out, nil
}

// ListMembersCached lists the member group through the membership cache.
func (s *MemberService) ListMembersCached(ctx context.Context) (map[string]string, error) {
	members, err := s.cache.AllMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cached members: %w", err)
	}

	return members, nil
}

// InvalidateCache empties the membership cache on behalf of actor.
// Only privileged members may do so; anyone else gets a domain.ForbiddenError
// and the cache is left as it was.
func (s *MemberService) InvalidateCache(ctx context.Context, actor string) error {
	ok, err := s.IsPrivileged(ctx, actor)
	if err != nil {
		return err
	}

	if !ok {
		s.logger.WarnContext(ctx, "refused membership cache invalidation",
			slog.String("actor", actor),
		)

		return domain.NewForbiddenError("invalidate member cache", "requires the "+s.privilegedGroup+" group")
	}

	s.cache.Purge()

	s.logger.InfoContext(ctx, "membership cache invalidated", slog.String("actor", actor))

	return nil
}

// IsPrivileged reports whether username belongs to the privileged group.
// Users unknown to the directory are not privileged.
func (s *MemberService) IsPrivileged(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}

	m, err := s.cache.Member(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("checking privileges of %s: %w", username, err)
	}

	return m.InGroup(s.privilegedGroup), nil
}

// IsKnownMember reports whether the directory has an entry for username.
// The directory is always asked so that new members can be quoted at once.
func (s *MemberService) IsKnownMember(ctx context.Context, username string) (bool, error) {
	_, err := s.dir.GetMember(ctx, username)
	if err == nil {
		return true, nil
	}

	if domain.IsNotFound(err) {
		return false, nil
	}

	return false, fmt.Errorf("looking up %s: %w", username, err)
}
