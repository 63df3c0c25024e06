package repository

import "github.com/yourusername/skiclub-api/internal/domain/entity"

// SeasonRepository определяет методы для работы с сезонами
type SeasonRepository interface {
	Create(season *entity.Season) error
	GetByID(id uint) (*entity.Season, error)
	ListByClub(clubID uint) ([]entity.Season, error)
	Update(season *entity.Season) error
	// SetActive активирует сезон и деактивирует остальные сезоны клуба в одной транзакции
	SetActive(clubID, seasonID uint) error
}

// ProgramRepository определяет методы для работы с программами
type ProgramRepository interface {
	Create(program *entity.Program) error
	GetByID(id uint) (*entity.Program, error)
	ListBySeason(seasonID uint) ([]entity.Program, error)
	Update(program *entity.Program) error
	Delete(id uint) error
}
