package repository

import "github.com/yourusername/skiclub-api/internal/domain/entity"

// AthleteRepository определяет методы для работы с атлетами
type AthleteRepository interface {
	Create(athlete *entity.Athlete) error
	GetByID(id uint) (*entity.Athlete, error)
	ListByParent(parentID uint) ([]entity.Athlete, error)
	Update(athlete *entity.Athlete) error
	Delete(id uint) error
}
