package persistence

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotefault/internal/domain"
)

// isDuplicateKey reports whether err is a unique constraint violation.
// Postgres errors are translated by gorm; the pure-Go SQLite driver only
// reports the constraint in its message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// mapError converts gorm errors into domain errors.
func mapError(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(entity, id)
	case isDuplicateKey(err):
		return &domain.ConflictError{Entity: entity, Reason: "already exists", Details: err.Error()}
	default:
		return fmt.Errorf("%s store: %w", entity, err)
	}
}
