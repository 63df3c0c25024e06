package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// ProgramInput содержит данные для создания или обновления программы
type ProgramInput struct {
	Name        string
	Discipline  string
	Description string
	MinAge      int
	MaxAge      int
	Capacity    int
	PriceCents  int64
	Currency    string
	CoachID     *uint
}

// ProgramService предоставляет методы для управления сезонами и программами клуба
type ProgramService struct {
	seasonRepo  repository.SeasonRepository
	programRepo repository.ProgramRepository
}

// NewProgramService создает новый сервис программ
func NewProgramService(seasonRepo repository.SeasonRepository, programRepo repository.ProgramRepository) (*ProgramService, error) {
	if seasonRepo == nil {
		return nil, fmt.Errorf("SeasonRepository is required for ProgramService")
	}
	if programRepo == nil {
		return nil, fmt.Errorf("ProgramRepository is required for ProgramService")
	}
	return &ProgramService{seasonRepo: seasonRepo, programRepo: programRepo}, nil
}

// CreateSeason создает новый сезон клуба
func (s *ProgramService) CreateSeason(clubID uint, name string, startsOn, endsOn time.Time) (*entity.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: season name is required", apperrors.ErrValidation)
	}
	if !endsOn.After(startsOn) {
		return nil, fmt.Errorf("%w: season must end after it starts", apperrors.ErrValidation)
	}

	season := &entity.Season{
		ClubID:   clubID,
		Name:     name,
		StartsOn: startsOn,
		EndsOn:   endsOn,
	}
	if err := s.seasonRepo.Create(season); err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return season, nil
}

// ListSeasons возвращает сезоны клуба
func (s *ProgramService) ListSeasons(clubID uint) ([]entity.Season, error) {
	return s.seasonRepo.ListByClub(clubID)
}

// ActivateSeason делает сезон текущим для клуба
func (s *ProgramService) ActivateSeason(clubID, seasonID uint) error {
	return s.seasonRepo.SetActive(clubID, seasonID)
}

// CreateProgram создает программу в сезоне
func (s *ProgramService) CreateProgram(clubID, seasonID uint, input ProgramInput) (*entity.Program, error) {
	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return nil, err
	}
	if season.ClubID != clubID {
		return nil, apperrors.ErrForbidden
	}
	if err := validateProgramInput(&input); err != nil {
		return nil, err
	}

	program := &entity.Program{
		ClubID:      clubID,
		SeasonID:    seasonID,
		Name:        input.Name,
		Discipline:  input.Discipline,
		Description: input.Description,
		MinAge:      input.MinAge,
		MaxAge:      input.MaxAge,
		Capacity:    input.Capacity,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		CoachID:     input.CoachID,
	}
	if err := s.programRepo.Create(program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return program, nil
}

// GetProgram возвращает программу по ID
func (s *ProgramService) GetProgram(id uint) (*entity.Program, error) {
	return s.programRepo.GetByID(id)
}

// ListPrograms возвращает программы сезона
func (s *ProgramService) ListPrograms(seasonID uint) ([]entity.Program, error) {
	return s.programRepo.ListBySeason(seasonID)
}

// UpdateProgram обновляет программу
func (s *ProgramService) UpdateProgram(clubID, programID uint, input ProgramInput) (*entity.Program, error) {
	program, err := s.programRepo.GetByID(programID)
	if err != nil {
		return nil, err
	}
	if program.ClubID != clubID {
		return nil, apperrors.ErrForbidden
	}
	if err := validateProgramInput(&input); err != nil {
		return nil, err
	}

	program.Name = input.Name
	program.Discipline = input.Discipline
	program.Description = input.Description
	program.MinAge = input.MinAge
	program.MaxAge = input.MaxAge
	program.Capacity = input.Capacity
	program.PriceCents = input.PriceCents
	program.Currency = input.Currency
	program.CoachID = input.CoachID

	if err := s.programRepo.Update(program); err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return program, nil
}

func validateProgramInput(input *ProgramInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: program name is required", apperrors.ErrValidation)
	}
	if !entity.IsValidDiscipline(input.Discipline) {
		return fmt.Errorf("%w: unknown discipline %q", apperrors.ErrValidation, input.Discipline)
	}
	if input.MinAge < 3 || input.MaxAge > 21 || input.MinAge > input.MaxAge {
		return fmt.Errorf("%w: invalid age range", apperrors.ErrValidation)
	}
	if input.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidation)
	}
	if input.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}
	return nil
}
