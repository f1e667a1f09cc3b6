// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Every method takes a context first, returns domain types, and reports
// failures with the domain error types (ErrNotFound, ErrConflict, ...).
package ports

import (
	"context"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

// QuoteRepository persists quotes.
type QuoteRepository interface {
	// Create stores q and assigns its ID.
	// Returns domain.ErrConflict if the quote text is already stored.
	Create(ctx context.Context, q *domain.Quote) error

	// GetByID returns domain.ErrNotFound if no quote has id.
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)

	// Find returns quotes matching filter, newest first.
	// A nil page returns every match.
	Find(ctx context.Context, filter domain.QuoteFilter, page *domain.Page) ([]domain.Quote, error)

	// ExistsByText reports whether a quote with exactly this text is stored.
	ExistsByText(ctx context.Context, text string) (bool, error)

	// Update saves the mutable fields of q.
	// Returns domain.ErrNotFound if the quote no longer exists.
	Update(ctx context.Context, q *domain.Quote) error

	// Delete physically removes the quote. Votes referencing it are kept.
	// Returns domain.ErrNotFound if no quote has id.
	Delete(ctx context.Context, id int64) error
}

// VoteRepository persists votes.
type VoteRepository interface {
	// ForQuotes returns all votes on any of the given quotes.
	ForQuotes(ctx context.Context, quoteIDs []int64) ([]domain.Vote, error)

	// Upsert records v, replacing the voter's previous vote on the same quote.
	Upsert(ctx context.Context, v *domain.Vote) error
}

// APIKeyRepository persists legacy API keys.
type APIKeyRepository interface {
	// Create stores key and assigns its ID.
	// Returns domain.ErrConflict if the owner already has a key for the reason.
	Create(ctx context.Context, key *domain.APIKey) error

	// FindByHash returns domain.ErrNotFound if no key has hash.
	FindByHash(ctx context.Context, hash string) (*domain.APIKey, error)

	// Exists reports whether owner already holds a key for reason.
	Exists(ctx context.Context, owner, reason string) (bool, error)
}

// SessionStore persists single sign-on sessions.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error

	// Get returns domain.ErrNotFound if the session is unknown or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete is a no-op for unknown sessions.
	Delete(ctx context.Context, id string) error
}

// Directory is the read-only organizational member directory.
//
// Implementations must map transport failures to domain.ErrUnavailable and
// must not retry.
type Directory interface {
	// GetMember returns domain.ErrNotFound if no member has username.
	GetMember(ctx context.Context, username string) (*domain.Member, error)

	// ListGroupMembers returns every member of group.
	ListGroupMembers(ctx context.Context, group string) ([]domain.Member, error)
}
