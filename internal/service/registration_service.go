package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// AthleteInput содержит данные атлета
type AthleteInput struct {
	FirstName string
	LastName  string
	BirthDate time.Time
	Notes     string
}

// RegistrationService предоставляет методы для управления атлетами и их записями в программы
type RegistrationService struct {
	athleteRepo      repository.AthleteRepository
	programRepo      repository.ProgramRepository
	registrationRepo repository.RegistrationRepository
}

// NewRegistrationService создает новый сервис записей
func NewRegistrationService(
	athleteRepo repository.AthleteRepository,
	programRepo repository.ProgramRepository,
	registrationRepo repository.RegistrationRepository,
) (*RegistrationService, error) {
	if athleteRepo == nil {
		return nil, fmt.Errorf("AthleteRepository is required for RegistrationService")
	}
	if programRepo == nil {
		return nil, fmt.Errorf("ProgramRepository is required for RegistrationService")
	}
	if registrationRepo == nil {
		return nil, fmt.Errorf("RegistrationRepository is required for RegistrationService")
	}
	return &RegistrationService{
		athleteRepo:      athleteRepo,
		programRepo:      programRepo,
		registrationRepo: registrationRepo,
	}, nil
}

// AddAthlete добавляет атлета в семейный аккаунт
func (s *RegistrationService) AddAthlete(parentID, clubID uint, input AthleteInput) (*entity.Athlete, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.FirstName == "" || input.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", apperrors.ErrValidation)
	}
	if input.BirthDate.IsZero() || input.BirthDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: birth_date is invalid", apperrors.ErrValidation)
	}

	athlete := &entity.Athlete{
		ClubID:    clubID,
		ParentID:  parentID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		BirthDate: input.BirthDate,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := s.athleteRepo.Create(athlete); err != nil {
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}
	return athlete, nil
}

// ListAthletes возвращает атлетов семейного аккаунта
func (s *RegistrationService) ListAthletes(parentID uint) ([]entity.Athlete, error) {
	return s.athleteRepo.ListByParent(parentID)
}

// Register записывает атлета в программу. Возраст проверяется на дату начала
// сезона программы не требуется — достаточно текущей даты; вместимость
// программы проверяется в транзакции репозитория.
func (s *RegistrationService) Register(parentID, athleteID, programID uint) (*entity.Registration, error) {
	athlete, err := s.athleteRepo.GetByID(athleteID)
	if err != nil {
		return nil, err
	}
	if athlete.ParentID != parentID {
		return nil, apperrors.ErrForbidden
	}

	program, err := s.programRepo.GetByID(programID)
	if err != nil {
		return nil, err
	}
	if program.ClubID != athlete.ClubID {
		return nil, apperrors.ErrForbidden
	}
	if !program.AgeEligible(athlete.AgeAt(time.Now())) {
		return nil, fmt.Errorf("%w: athlete age is outside %d-%d", ErrAgeIneligible, program.MinAge, program.MaxAge)
	}

	reg := &entity.Registration{
		ClubID:        program.ClubID,
		ProgramID:     programID,
		AthleteID:     athleteID,
		ParentID:      parentID,
		Status:        entity.RegistrationPending,
		PaymentStatus: entity.PaymentUnpaid,
	}
	if err := s.registrationRepo.CreateWithCapacityCheck(reg, program.Capacity); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrProgramFull
		}
		if strings.Contains(err.Error(), "idx_registrations_program_athlete") {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	log.Printf("[RegistrationService] athlete=%d registered to program=%d", athleteID, programID)
	return reg, nil
}

// ListByParent возвращает записи семейного аккаунта
func (s *RegistrationService) ListByParent(parentID uint) ([]entity.Registration, error) {
	return s.registrationRepo.ListByParent(parentID)
}

// ListByProgram возвращает записи программы (для тренерского/админ портала)
func (s *RegistrationService) ListByProgram(programID uint) ([]entity.Registration, error) {
	return s.registrationRepo.ListByProgram(programID)
}

// Cancel отменяет запись. Родитель может отменить только свою запись.
func (s *RegistrationService) Cancel(parentID, registrationID uint, isStaff bool) error {
	reg, err := s.registrationRepo.GetByID(registrationID)
	if err != nil {
		return err
	}
	if !isStaff && reg.ParentID != parentID {
		return apperrors.ErrForbidden
	}
	if reg.Status == entity.RegistrationCancelled {
		return nil
	}
	return s.registrationRepo.UpdateStatus(registrationID, entity.RegistrationCancelled)
}

// Confirm подтверждает запись (персонал клуба)
func (s *RegistrationService) Confirm(registrationID uint) error {
	reg, err := s.registrationRepo.GetByID(registrationID)
	if err != nil {
		return err
	}
	if reg.Status == entity.RegistrationCancelled {
		return apperrors.ErrConflict
	}
	return s.registrationRepo.UpdateStatus(registrationID, entity.RegistrationConfirmed)
}

// RosterEntry представляет строку ростера программы для экспорта
type RosterEntry struct {
	AthleteFirstName string
	AthleteLastName  string
	Age              int
	Status           string
	PaymentStatus    string
	RegisteredAt     time.Time
}

// Roster собирает ростер программы для отображения и экспорта
func (s *RegistrationService) Roster(programID uint) ([]RosterEntry, error) {
	regs, err := s.registrationRepo.ListByProgram(programID)
	if err != nil {
		return nil, err
	}

	entries := make([]RosterEntry, 0, len(regs))
	now := time.Now()
	for _, reg := range regs {
		if reg.Status == entity.RegistrationCancelled {
			continue
		}
		athlete, err := s.athleteRepo.GetByID(reg.AthleteID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, RosterEntry{
			AthleteFirstName: athlete.FirstName,
			AthleteLastName:  athlete.LastName,
			Age:              athlete.AgeAt(now),
			Status:           reg.Status,
			PaymentStatus:    reg.PaymentStatus,
			RegisteredAt:     reg.CreatedAt,
		})
	}
	return entries, nil
}
