package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the PostgreSQL error code raised when an insert loses a
// race against a unique index.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err was caused by a unique constraint.
// It understands both the postgres driver error and gorm's translated
// ErrDuplicatedKey, plus the SQLite message shape used by the test stores.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
