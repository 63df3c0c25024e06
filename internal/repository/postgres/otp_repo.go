package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

type OTPRepo struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) *OTPRepo {
	return &OTPRepo{db: db}
}

// CreateSuperseding consumes any prior live code for (user_id, purpose) and
// inserts the new one in a single transaction, so at most one live row exists
// per pair at any point.
func (r *OTPRepo) CreateSuperseding(code *entity.OTPCode) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&entity.OTPCode{}).
			Where("user_id = ? AND purpose = ? AND consumed_at IS NULL", code.UserID, code.Purpose).
			Update("consumed_at", now).Error; err != nil {
			return fmt.Errorf("failed to supersede previous otp codes: %w", err)
		}
		return tx.Create(code).Error
	})
}

func (r *OTPRepo) GetLatestActive(userID uint, purpose string) (*entity.OTPCode, error) {
	var code entity.OTPCode
	err := r.db.
		Where("user_id = ? AND purpose = ? AND consumed_at IS NULL", userID, purpose).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest active otp code: %w", err)
	}
	return &code, nil
}

// IncrementAttempts bumps attempt_count atomically and reads back the new
// value, so two concurrent wrong guesses cannot both observe a stale count.
func (r *OTPRepo) IncrementAttempts(id uint) (int, error) {
	var updated entity.OTPCode
	err := r.db.Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("attempt_count", gorm.Expr("attempt_count + 1")).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment otp attempts: %w", err)
	}
	return updated.AttemptCount, nil
}

// MarkConsumed invalidates the code. The consumed_at IS NULL guard makes the
// call a no-op when another request already consumed it.
func (r *OTPRepo) MarkConsumed(id uint) error {
	now := time.Now()
	result := r.db.Model(&entity.OTPCode{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// DeleteExpired removes codes whose expiry is older than the cutoff.
func (r *OTPRepo) DeleteExpired(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("expires_at < ?", cutoff).
		Delete(&entity.OTPCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired otp codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}
