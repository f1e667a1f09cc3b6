package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/ports"
)

// apiKeyBytes is the entropy of a legacy API key; it is rendered as twice as many hex characters.
const apiKeyBytes = 10

// Limits on API key metadata.
const (
	maxKeyReasonLength = 120
	maxKeyHashLength   = 64
)

// AuthService holds the API key scheme and the ownership rules for quotes.
type AuthService struct {
	keys    ports.APIKeyRepository
	members *MemberService
	random  io.Reader
	logger  *slog.Logger
}

// AuthServiceConfig contains the dependencies of an AuthService.
type AuthServiceConfig struct {
	Keys    ports.APIKeyRepository
	Members *MemberService

	// Random is the key entropy source. Nil selects crypto/rand.
	Random io.Reader

	Logger *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Keys == nil {
		panic("auth service requires an API key repository")
	}

	if cfg.Members == nil {
		panic("auth service requires a member service")
	}

	if cfg.Random == nil {
		cfg.Random = rand.Reader
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &AuthService{
		keys:    cfg.Keys,
		members: cfg.Members,
		random:  cfg.Random,
		logger:  cfg.Logger,
	}
}

// AuthenticateKey resolves a legacy API key.
// Unknown keys yield a domain.UnauthenticatedError.
func (s *AuthService) AuthenticateKey(ctx context.Context, key string) (*domain.APIKey, error) {
	if key == "" || len(key) > maxKeyHashLength {
		return nil, domain.NewUnauthenticatedError("api_key", "invalid API key")
	}

	found, err := s.keys.FindByHash(ctx, key)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthenticatedError("api_key", "invalid API key")
		}

		return nil, fmt.Errorf("looking up API key: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(found.Hash), []byte(key)) != 1 {
		return nil, domain.NewUnauthenticatedError("api_key", "invalid API key")
	}

	return found, nil
}

// GenerateKey mints a key for owner. An owner holds at most one key per reason;
// asking again yields a domain.ConflictError.
func (s *AuthService) GenerateKey(ctx context.Context, owner, reason string) (*domain.APIKey, error) {
	reason = strings.TrimSpace(reason)

	switch {
	case owner == "":
		return nil, domain.NewUnauthenticatedError("session", "no identity")
	case reason == "":
		return nil, domain.NewValidationError("reason", "a reason is required")
	case len(reason) > maxKeyReasonLength:
		return nil, domain.NewValidationErrorWithValue("reason",
			fmt.Sprintf("must be at most %d characters", maxKeyReasonLength), len(reason))
	}

	exists, err := s.keys.Exists(ctx, owner, reason)
	if err != nil {
		return nil, fmt.Errorf("checking existing keys: %w", err)
	}

	if exists {
		return nil, domain.NewConflictError("api_key", "there's already a key with this reason for this user")
	}

	hash, err := s.newKey()
	if err != nil {
		return nil, err
	}

	key := &domain.APIKey{Hash: hash, Owner: owner, Reason: reason}

	err = s.keys.Create(ctx, key)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "API key generated",
		slog.String("owner", owner),
		slog.String("reason", reason),
	)

	return key, nil
}

// CanModify reports whether actor may edit or delete q: its submitter or a
// privileged member may.
func (s *AuthService) CanModify(ctx context.Context, actor string, q *domain.Quote) (bool, error) {
	if actor == "" {
		return false, nil
	}

	if actor == q.Submitter {
		return true, nil
	}

	return s.members.IsPrivileged(ctx, actor)
}

func (s *AuthService) newKey() (string, error) {
	buf := make([]byte, apiKeyBytes)

	_, err := io.ReadFull(s.random, buf)
	if err != nil {
		return "", fmt.Errorf("generating API key: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
