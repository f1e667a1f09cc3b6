package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

// VoteRepository implements ports.VoteRepository.
type VoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a vote repository.
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// ForQuotes implements ports.VoteRepository.
func (r *VoteRepository) ForQuotes(ctx context.Context, quoteIDs []int64) ([]domain.Vote, error) {
	if len(quoteIDs) == 0 {
		return nil, nil
	}

	var recs []voteRecord

	err := r.db.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Order("id").Find(&recs).Error
	if err != nil {
		return nil, mapError(err, "vote", "")
	}

	votes := make([]domain.Vote, len(recs))
	for i := range recs {
		votes[i] = recs[i].toDomain()
	}

	return votes, nil
}

// Upsert implements ports.VoteRepository using the (quote_id, voter) unique index.
func (r *VoteRepository) Upsert(ctx context.Context, v *domain.Vote) error {
	rec := voteRecord{
		QuoteID:     v.QuoteID,
		Voter:       v.Voter,
		Direction:   v.Direction,
		UpdatedTime: v.UpdatedTime.UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quote_id"}, {Name: "voter"}},
		DoUpdates: clause.AssignmentColumns([]string{"direction", "updated_time"}),
	}).Create(&rec).Error
	if err != nil {
		return mapError(err, "vote", "")
	}

	if rec.ID != 0 {
		v.ID = rec.ID
	}

	return nil
}
