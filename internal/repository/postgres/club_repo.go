package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// ClubRepo реализует repository.ClubRepository
type ClubRepo struct {
	db *gorm.DB
}

// NewClubRepo создает новый репозиторий клубов
func NewClubRepo(db *gorm.DB) *ClubRepo {
	return &ClubRepo{db: db}
}

// Create создает новый клуб
func (r *ClubRepo) Create(club *entity.Club) error {
	return r.db.Create(club).Error
}

// GetByID возвращает клуб по ID
func (r *ClubRepo) GetByID(id uint) (*entity.Club, error) {
	var club entity.Club
	err := r.db.First(&club, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}

// GetBySlug возвращает клуб по slug
func (r *ClubRepo) GetBySlug(slug string) (*entity.Club, error) {
	var club entity.Club
	err := r.db.Where("slug = ?", slug).First(&club).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}

// Update обновляет информацию о клубе
func (r *ClubRepo) Update(club *entity.Club) error {
	return r.db.Save(club).Error
}

// List возвращает список клубов с пагинацией
func (r *ClubRepo) List(limit, offset int) ([]entity.Club, error) {
	var clubs []entity.Club
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&clubs).Error
	if err != nil {
		return nil, err
	}
	return clubs, nil
}
