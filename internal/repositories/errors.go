package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It wraps the driver error text for logs.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrStaleState is returned when a compare-and-set update finds the row
	// no longer in the expected state.
	ErrStaleState = errors.New("record changed state concurrently")

	// ErrCapacityExceeded is returned when a shift's filled count cannot be
	// incremented without exceeding its required count.
	ErrCapacityExceeded = errors.New("shift capacity exceeded")
)

// isUniqueViolation recognises unique constraint failures from lib/pq,
// gorm's translated error and SQLite.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateError maps driver and gorm errors onto the repository sentinels.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint != "" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, action, pqErr.Constraint)
		}
		return fmt.Errorf("%w: %s", ErrDuplicateKey, action)
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, action, err)
}
