package repository

import (
	"time"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
)

// OTPRepository persists one-time codes. Mutations must be atomic per row:
// attempt increments and consume/supersede are single guarded UPDATEs, never a
// read-modify-write from the caller.
type OTPRepository interface {
	// CreateSuperseding inserts a new code and consumes any prior live code for
	// the same (userID, purpose) within one transaction.
	CreateSuperseding(code *entity.OTPCode) error

	GetLatestActive(userID uint, purpose string) (*entity.OTPCode, error)

	// IncrementAttempts atomically bumps attempt_count and returns the new value.
	IncrementAttempts(id uint) (int, error)

	MarkConsumed(id uint) error

	// DeleteExpired removes codes whose expiry is older than the cutoff.
	// Used by the periodic cleanup job.
	DeleteExpired(cutoff time.Time) (int64, error)
}
