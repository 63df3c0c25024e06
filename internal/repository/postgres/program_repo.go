package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// SeasonRepo реализует repository.SeasonRepository
type SeasonRepo struct {
	db *gorm.DB
}

// NewSeasonRepo создает новый репозиторий сезонов
func NewSeasonRepo(db *gorm.DB) *SeasonRepo {
	return &SeasonRepo{db: db}
}

// Create создает новый сезон
func (r *SeasonRepo) Create(season *entity.Season) error {
	return r.db.Create(season).Error
}

// GetByID возвращает сезон по ID
func (r *SeasonRepo) GetByID(id uint) (*entity.Season, error) {
	var season entity.Season
	err := r.db.First(&season, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &season, nil
}

// ListByClub возвращает сезоны клуба, новые первыми
func (r *SeasonRepo) ListByClub(clubID uint) ([]entity.Season, error) {
	var seasons []entity.Season
	err := r.db.Where("club_id = ?", clubID).Order("starts_on DESC").Find(&seasons).Error
	if err != nil {
		return nil, err
	}
	return seasons, nil
}

// Update обновляет сезон
func (r *SeasonRepo) Update(season *entity.Season) error {
	return r.db.Save(season).Error
}

// SetActive активирует сезон и деактивирует остальные сезоны клуба в одной транзакции
func (r *SeasonRepo) SetActive(clubID, seasonID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Season{}).
			Where("club_id = ? AND id <> ?", clubID, seasonID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate seasons: %w", err)
		}
		result := tx.Model(&entity.Season{}).
			Where("club_id = ? AND id = ?", clubID, seasonID).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// ProgramRepo реализует repository.ProgramRepository
type ProgramRepo struct {
	db *gorm.DB
}

// NewProgramRepo создает новый репозиторий программ
func NewProgramRepo(db *gorm.DB) *ProgramRepo {
	return &ProgramRepo{db: db}
}

// Create создает новую программу
func (r *ProgramRepo) Create(program *entity.Program) error {
	return r.db.Create(program).Error
}

// GetByID возвращает программу по ID
func (r *ProgramRepo) GetByID(id uint) (*entity.Program, error) {
	var program entity.Program
	err := r.db.First(&program, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// ListBySeason возвращает программы сезона
func (r *ProgramRepo) ListBySeason(seasonID uint) ([]entity.Program, error) {
	var programs []entity.Program
	err := r.db.Where("season_id = ?", seasonID).Order("name ASC").Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

// Update обновляет программу
func (r *ProgramRepo) Update(program *entity.Program) error {
	return r.db.Save(program).Error
}

// Delete удаляет программу
func (r *ProgramRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Program{}, id).Error
}
