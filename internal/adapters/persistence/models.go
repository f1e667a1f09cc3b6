package persistence

import (
	"time"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

type quoteRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Submitter string    `gorm:"size:80;not null;index"`
	Quote     string    `gorm:"size:200;not null;uniqueIndex"`
	Speaker   string    `gorm:"size:50;not null;index"`
	QuoteTime time.Time `gorm:"not null;index"`
}

func (quoteRecord) TableName() string { return "quotes" }

func quoteFromDomain(q *domain.Quote) quoteRecord {
	return quoteRecord{
		ID:        q.ID,
		Submitter: q.Submitter,
		Quote:     q.Text,
		Speaker:   q.Speaker,
		QuoteTime: q.QuoteTime.UTC(),
	}
}

func (r *quoteRecord) toDomain() domain.Quote {
	return domain.Quote{
		ID:        r.ID,
		Submitter: r.Submitter,
		Text:      r.Quote,
		Speaker:   r.Speaker,
		QuoteTime: r.QuoteTime.UTC(),
	}
}

// voteRecord has no foreign key to quotes; votes outlive deleted quotes.
type voteRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	QuoteID     int64     `gorm:"not null;uniqueIndex:idx_votes_quote_voter,priority:1"`
	Voter       string    `gorm:"size:50;not null;uniqueIndex:idx_votes_quote_voter,priority:2"`
	Direction   int       `gorm:"not null"`
	UpdatedTime time.Time `gorm:"not null"`
}

func (voteRecord) TableName() string { return "votes" }

func (r *voteRecord) toDomain() domain.Vote {
	return domain.Vote{
		ID:          r.ID,
		QuoteID:     r.QuoteID,
		Voter:       r.Voter,
		Direction:   r.Direction,
		UpdatedTime: r.UpdatedTime.UTC(),
	}
}

type apiKeyRecord struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Hash   string `gorm:"size:64;not null;uniqueIndex"`
	Owner  string `gorm:"size:80;not null;uniqueIndex:idx_api_keys_owner_reason,priority:1"`
	Reason string `gorm:"size:120;not null;uniqueIndex:idx_api_keys_owner_reason,priority:2"`
}

func (apiKeyRecord) TableName() string { return "api_keys" }

func (r *apiKeyRecord) toDomain() *domain.APIKey {
	return &domain.APIKey{ID: r.ID, Hash: r.Hash, Owner: r.Owner, Reason: r.Reason}
}

type sessionRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Subject   string    `gorm:"size:255;not null"`
	Username  string    `gorm:"size:80;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (sessionRecord) TableName() string { return "sessions" }

func (r *sessionRecord) toDomain() *domain.Session {
	return &domain.Session{
		ID:        r.ID,
		Subject:   r.Subject,
		Username:  r.Username,
		CreatedAt: r.CreatedAt.UTC(),
		ExpiresAt: r.ExpiresAt.UTC(),
	}
}
