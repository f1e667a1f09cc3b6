package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

// SessionStore implements ports.SessionStore.
type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionStore creates a session store.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Create implements ports.SessionStore. Expired sessions are swept on the way.
func (s *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	_, err := s.DeleteExpired(ctx)
	if err != nil {
		return err
	}

	rec := sessionRecord{
		ID:        sess.ID,
		Subject:   sess.Subject,
		Username:  sess.Username,
		CreatedAt: sess.CreatedAt.UTC(),
		ExpiresAt: sess.ExpiresAt.UTC(),
	}

	err = s.db.WithContext(ctx).Create(&rec).Error
	if err != nil {
		return mapError(err, "session", "")
	}

	return nil
}

// Get implements ports.SessionStore.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var rec sessionRecord

	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, s.now().UTC()).
		Take(&rec).Error
	if err != nil {
		return nil, mapError(err, "session", "")
	}

	return rec.toDomain(), nil
}

// Delete implements ports.SessionStore.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&sessionRecord{}).Error
	if err != nil {
		return mapError(err, "session", "")
	}

	return nil
}

// DeleteExpired removes sessions past their expiry and reports how many went.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&sessionRecord{})
	if res.Error != nil {
		return 0, mapError(res.Error, "session", "")
	}

	return res.RowsAffected, nil
}
