package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев для unit-тестов сервисного слоя
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID uint, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) ListByClub(clubID uint, limit, offset int) ([]entity.User, error) {
	args := m.Called(clubID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// MockClubRepository реализует repository.ClubRepository
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) Create(club *entity.Club) error {
	args := m.Called(club)
	return args.Error(0)
}

func (m *MockClubRepository) GetByID(id uint) (*entity.Club, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Club), args.Error(1)
}

func (m *MockClubRepository) GetBySlug(slug string) (*entity.Club, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Club), args.Error(1)
}

func (m *MockClubRepository) Update(club *entity.Club) error {
	args := m.Called(club)
	return args.Error(0)
}

func (m *MockClubRepository) List(limit, offset int) ([]entity.Club, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Club), args.Error(1)
}

// MockOTPRepository реализует repository.OTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) CreateSuperseding(code *entity.OTPCode) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockOTPRepository) GetLatestActive(userID uint, purpose string) (*entity.OTPCode, error) {
	args := m.Called(userID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OTPCode), args.Error(1)
}

func (m *MockOTPRepository) IncrementAttempts(id uint) (int, error) {
	args := m.Called(id)
	return args.Int(0), args.Error(1)
}

func (m *MockOTPRepository) MarkConsumed(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOTPRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenConsumptionRepository реализует repository.TokenConsumptionRepository
type MockTokenConsumptionRepository struct {
	mock.Mock
}

func (m *MockTokenConsumptionRepository) IsConsumed(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenConsumptionRepository) MarkConsumed(ctx context.Context, jti string, userID uint, tokenType string) error {
	args := m.Called(ctx, jti, userID, tokenType)
	return args.Error(0)
}

// MockLockoutRepository реализует repository.LockoutRepository
type MockLockoutRepository struct {
	mock.Mock
}

func (m *MockLockoutRepository) IncrementFailures(ctx context.Context, userID uint, window time.Duration) (int64, error) {
	args := m.Called(ctx, userID, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLockoutRepository) FailureState(ctx context.Context, userID uint) (int64, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockLockoutRepository) ClearFailures(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAthleteRepository реализует repository.AthleteRepository
type MockAthleteRepository struct {
	mock.Mock
}

func (m *MockAthleteRepository) Create(athlete *entity.Athlete) error {
	args := m.Called(athlete)
	return args.Error(0)
}

func (m *MockAthleteRepository) GetByID(id uint) (*entity.Athlete, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) ListByParent(parentID uint) ([]entity.Athlete, error) {
	args := m.Called(parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) Update(athlete *entity.Athlete) error {
	args := m.Called(athlete)
	return args.Error(0)
}

func (m *MockAthleteRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockProgramRepository реализует repository.ProgramRepository
type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) Create(program *entity.Program) error {
	args := m.Called(program)
	return args.Error(0)
}

func (m *MockProgramRepository) GetByID(id uint) (*entity.Program, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Program), args.Error(1)
}

func (m *MockProgramRepository) ListBySeason(seasonID uint) ([]entity.Program, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Program), args.Error(1)
}

func (m *MockProgramRepository) Update(program *entity.Program) error {
	args := m.Called(program)
	return args.Error(0)
}

func (m *MockProgramRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockRegistrationRepository реализует repository.RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) CreateWithCapacityCheck(reg *entity.Registration, capacity int) error {
	args := m.Called(reg, capacity)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetByID(id uint) (*entity.Registration, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByProgram(programID uint) ([]entity.Registration, error) {
	args := m.Called(programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByParent(parentID uint) ([]entity.Registration, error) {
	args := m.Called(parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) CountActiveByProgram(programID uint) (int64, error) {
	args := m.Called(programID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegistrationRepository) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockRegistrationRepository) UpdatePaymentStatus(id uint, paymentStatus string) error {
	args := m.Called(id, paymentStatus)
	return args.Error(0)
}

// MockCheckoutSessionRepository реализует repository.CheckoutSessionRepository
type MockCheckoutSessionRepository struct {
	mock.Mock
}

func (m *MockCheckoutSessionRepository) Create(session *entity.CheckoutSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockCheckoutSessionRepository) GetByProviderRef(providerRef string) (*entity.CheckoutSession, error) {
	args := m.Called(providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutSessionRepository) MarkCompleted(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOTPCode(ctx context.Context, toEmail, code, purpose, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, code, purpose, idempotencyKey)
	return args.Error(0)
}

func (m *MockEmailService) SendSetupInvitation(ctx context.Context, toEmail, setupURL, role, clubName, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, setupURL, role, clubName, idempotencyKey)
	return args.Error(0)
}
