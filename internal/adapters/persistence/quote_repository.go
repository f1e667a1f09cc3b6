package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

// likeEscaper escapes LIKE wildcards so user input only ever matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// QuoteRepository implements ports.QuoteRepository.
type QuoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a quote repository.
func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create implements ports.QuoteRepository.
func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	rec := quoteFromDomain(q)
	rec.ID = 0

	err := r.db.WithContext(ctx).Create(&rec).Error
	if err != nil {
		return mapError(err, "quote", "")
	}

	q.ID = rec.ID

	return nil
}

// GetByID implements ports.QuoteRepository.
func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	var rec quoteRecord

	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		return nil, mapError(err, "quote", domain.FormatID(id))
	}

	q := rec.toDomain()

	return &q, nil
}

// Find implements ports.QuoteRepository.
func (r *QuoteRepository) Find(ctx context.Context, filter domain.QuoteFilter, page *domain.Page) ([]domain.Quote, error) {
	tx := applyQuoteFilter(r.db.WithContext(ctx).Model(&quoteRecord{}), filter).
		Order("quote_time DESC").
		Order("id DESC")

	if page != nil {
		start, end := page.Bounds()
		tx = tx.Offset(start).Limit(end - start)
	}

	var recs []quoteRecord

	err := tx.Find(&recs).Error
	if err != nil {
		return nil, mapError(err, "quote", "")
	}

	quotes := make([]domain.Quote, len(recs))
	for i := range recs {
		quotes[i] = recs[i].toDomain()
	}

	return quotes, nil
}

// ExistsByText implements ports.QuoteRepository.
func (r *QuoteRepository) ExistsByText(ctx context.Context, text string) (bool, error) {
	var n int64

	err := r.db.WithContext(ctx).Model(&quoteRecord{}).Where("quote = ?", text).Count(&n).Error
	if err != nil {
		return false, mapError(err, "quote", "")
	}

	return n > 0, nil
}

// Update implements ports.QuoteRepository. Only the text and speaker are written.
func (r *QuoteRepository) Update(ctx context.Context, q *domain.Quote) error {
	res := r.db.WithContext(ctx).Model(&quoteRecord{}).
		Where("id = ?", q.ID).
		Updates(map[string]any{"quote": q.Text, "speaker": q.Speaker})
	if res.Error != nil {
		return mapError(res.Error, "quote", domain.FormatID(q.ID))
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("quote", domain.FormatID(q.ID))
	}

	return nil
}

// Delete implements ports.QuoteRepository.
func (r *QuoteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&quoteRecord{})
	if res.Error != nil {
		return mapError(res.Error, "quote", domain.FormatID(id))
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("quote", domain.FormatID(id))
	}

	return nil
}

// applyQuoteFilter adds the criteria of f to tx. Every listing goes through
// here so the legacy and session routes cannot drift apart.
func applyQuoteFilter(tx *gorm.DB, f domain.QuoteFilter) *gorm.DB {
	if f.ID != nil {
		return tx.Where("id = ?", *f.ID)
	}

	if f.From != nil {
		tx = tx.Where("quote_time >= ?", f.From.UTC())
	}

	if f.To != nil {
		tx = tx.Where("quote_time < ?", f.To.UTC())
	}

	tx = applyMatch(tx, "submitter", f.Submitter)
	tx = applyMatch(tx, "speaker", f.Speaker)
	tx = applyMatch(tx, "quote", f.Quote)

	return tx
}

func applyMatch(tx *gorm.DB, column string, m domain.Match) *gorm.DB {
	if !m.IsSet() {
		return tx
	}

	if m.Mode == domain.MatchContains {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(m.Value)) + "%"

		return tx.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}

	return tx.Where(column+" = ?", m.Value)
}
