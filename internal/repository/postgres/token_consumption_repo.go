package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// TokenConsumptionRepo реализует repository.TokenConsumptionRepository
type TokenConsumptionRepo struct {
	db *gorm.DB
}

// NewTokenConsumptionRepo создает новый репозиторий потребленных setup-токенов
func NewTokenConsumptionRepo(db *gorm.DB) *TokenConsumptionRepo {
	return &TokenConsumptionRepo{db: db}
}

// IsConsumed проверяет, был ли токен уже использован
func (r *TokenConsumptionRepo) IsConsumed(ctx context.Context, jti string) (bool, error) {
	var record entity.TokenConsumption
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token consumption: %w", err)
	}
	return true, nil
}

// MarkConsumed записывает факт использования токена. Одиночный INSERT с
// ON CONFLICT DO NOTHING: из конкурирующих вызовов ровно один вставляет строку,
// остальные получают apperrors.ErrConflict. Никакого check-then-insert.
func (r *TokenConsumptionRepo) MarkConsumed(ctx context.Context, jti string, userID uint, tokenType string) error {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO token_consumptions (jti, user_id, token_type, consumed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (jti) DO NOTHING
	`, jti, userID, tokenType, time.Now())

	if result.Error != nil {
		return fmt.Errorf("failed to mark token consumed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
