package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ClubService предоставляет методы для управления клубами
type ClubService struct {
	clubRepo repository.ClubRepository
}

// NewClubService создает новый сервис клубов
func NewClubService(clubRepo repository.ClubRepository) (*ClubService, error) {
	if clubRepo == nil {
		return nil, fmt.Errorf("ClubRepository is required for ClubService")
	}
	return &ClubService{clubRepo: clubRepo}, nil
}

// CreateClub создает новый клуб
func (s *ClubService) CreateClub(name, slug, city string) (*entity.Club, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug must be lowercase letters, digits and hyphens", apperrors.ErrValidation)
	}

	club := &entity.Club{
		Name:     name,
		Slug:     slug,
		City:     strings.TrimSpace(city),
		IsActive: true,
	}
	if err := s.clubRepo.Create(club); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

// GetClub возвращает клуб по ID
func (s *ClubService) GetClub(id uint) (*entity.Club, error) {
	return s.clubRepo.GetByID(id)
}

// ListClubs возвращает список клубов с пагинацией
func (s *ClubService) ListClubs(limit, offset int) ([]entity.Club, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.clubRepo.List(limit, offset)
}
