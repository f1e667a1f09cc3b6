package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

// APIKeyRepository implements ports.APIKeyRepository.
type APIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates an API key repository.
func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create implements ports.APIKeyRepository.
func (r *APIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	rec := apiKeyRecord{Hash: key.Hash, Owner: key.Owner, Reason: key.Reason}

	err := r.db.WithContext(ctx).Create(&rec).Error
	if err != nil {
		return mapError(err, "api_key", "")
	}

	key.ID = rec.ID

	return nil
}

// FindByHash implements ports.APIKeyRepository.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*domain.APIKey, error) {
	var rec apiKeyRecord

	err := r.db.WithContext(ctx).Where("hash = ?", hash).Take(&rec).Error
	if err != nil {
		return nil, mapError(err, "api_key", "")
	}

	return rec.toDomain(), nil
}

// Exists implements ports.APIKeyRepository.
func (r *APIKeyRepository) Exists(ctx context.Context, owner, reason string) (bool, error) {
	var n int64

	err := r.db.WithContext(ctx).Model(&apiKeyRecord{}).
		Where("owner = ? AND reason = ?", owner, reason).
		Count(&n).Error
	if err != nil {
		return false, mapError(err, "api_key", "")
	}

	return n > 0, nil
}
