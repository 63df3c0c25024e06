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

// RegistrationRepo реализует repository.RegistrationRepository
type RegistrationRepo struct {
	db *gorm.DB
}

// NewRegistrationRepo создает новый репозиторий записей в программы
func NewRegistrationRepo(db *gorm.DB) *RegistrationRepo {
	return &RegistrationRepo{db: db}
}

// CreateWithCapacityCheck вставляет запись под блокировкой строки программы,
// чтобы два конкурирующих запроса не заняли одно последнее место.
func (r *RegistrationRepo) CreateWithCapacityCheck(reg *entity.Registration, capacity int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var program entity.Program
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&program, reg.ProgramID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&entity.Registration{}).
			Where("program_id = ? AND status <> ?", reg.ProgramID, entity.RegistrationCancelled).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active registrations: %w", err)
		}
		if active >= int64(capacity) {
			return apperrors.ErrConflict
		}

		return tx.Create(reg).Error
	})
}

// GetByID возвращает запись по ID
func (r *RegistrationRepo) GetByID(id uint) (*entity.Registration, error) {
	var reg entity.Registration
	err := r.db.First(&reg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// ListByProgram возвращает записи программы
func (r *RegistrationRepo) ListByProgram(programID uint) ([]entity.Registration, error) {
	var regs []entity.Registration
	err := r.db.Where("program_id = ?", programID).Order("created_at ASC").Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// ListByParent возвращает записи семейного аккаунта
func (r *RegistrationRepo) ListByParent(parentID uint) ([]entity.Registration, error) {
	var regs []entity.Registration
	err := r.db.Where("parent_id = ?", parentID).Order("created_at DESC").Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// CountActiveByProgram возвращает число активных записей программы
func (r *RegistrationRepo) CountActiveByProgram(programID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Registration{}).
		Where("program_id = ? AND status <> ?", programID, entity.RegistrationCancelled).
		Count(&count).Error
	return count, err
}

// UpdateStatus обновляет статус записи
func (r *RegistrationRepo) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&entity.Registration{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePaymentStatus обновляет статус оплаты записи
func (r *RegistrationRepo) UpdatePaymentStatus(id uint, paymentStatus string) error {
	result := r.db.Model(&entity.Registration{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_status": paymentStatus,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CheckoutSessionRepo реализует repository.CheckoutSessionRepository
type CheckoutSessionRepo struct {
	db *gorm.DB
}

// NewCheckoutSessionRepo создает новый репозиторий платежных сессий
func NewCheckoutSessionRepo(db *gorm.DB) *CheckoutSessionRepo {
	return &CheckoutSessionRepo{db: db}
}

// Create создает платежную сессию
func (r *CheckoutSessionRepo) Create(session *entity.CheckoutSession) error {
	return r.db.Create(session).Error
}

// GetByProviderRef возвращает сессию по идентификатору провайдера
func (r *CheckoutSessionRepo) GetByProviderRef(providerRef string) (*entity.CheckoutSession, error) {
	var session entity.CheckoutSession
	err := r.db.Where("provider_ref = ?", providerRef).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// MarkCompleted идемпотентно завершает сессию. Guard по статусу делает повторный
// вызов no-op: возвращается false без изменения строки.
func (r *CheckoutSessionRepo) MarkCompleted(id uint) (bool, error) {
	now := time.Now()
	result := r.db.Model(&entity.CheckoutSession{}).
		Where("id = ? AND status = ?", id, entity.CheckoutOpen).
		Updates(map[string]interface{}{
			"status":       entity.CheckoutCompleted,
			"completed_at": &now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
