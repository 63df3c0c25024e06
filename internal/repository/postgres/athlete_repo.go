package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// AthleteRepo реализует repository.AthleteRepository
type AthleteRepo struct {
	db *gorm.DB
}

// NewAthleteRepo создает новый репозиторий атлетов
func NewAthleteRepo(db *gorm.DB) *AthleteRepo {
	return &AthleteRepo{db: db}
}

// Create создает нового атлета
func (r *AthleteRepo) Create(athlete *entity.Athlete) error {
	return r.db.Create(athlete).Error
}

// GetByID возвращает атлета по ID
func (r *AthleteRepo) GetByID(id uint) (*entity.Athlete, error) {
	var athlete entity.Athlete
	err := r.db.First(&athlete, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

// ListByParent возвращает атлетов семейного аккаунта
func (r *AthleteRepo) ListByParent(parentID uint) ([]entity.Athlete, error) {
	var athletes []entity.Athlete
	err := r.db.Where("parent_id = ?", parentID).Order("first_name ASC").Find(&athletes).Error
	if err != nil {
		return nil, err
	}
	return athletes, nil
}

// Update обновляет информацию об атлете
func (r *AthleteRepo) Update(athlete *entity.Athlete) error {
	return r.db.Save(athlete).Error
}

// Delete удаляет атлета
func (r *AthleteRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Athlete{}, id).Error
}
