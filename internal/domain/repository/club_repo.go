package repository

import "github.com/yourusername/skiclub-api/internal/domain/entity"

// ClubRepository определяет методы для работы с клубами
type ClubRepository interface {
	Create(club *entity.Club) error
	GetByID(id uint) (*entity.Club, error)
	GetBySlug(slug string) (*entity.Club, error)
	Update(club *entity.Club) error
	List(limit, offset int) ([]entity.Club, error)
}
