package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

const testPepper = "test-pepper"

func createTestOTPService(otpRepo *MockOTPRepository, lockoutRepo *MockLockoutRepository) *OTPService {
	lockoutService := &LockoutService{
		lockoutRepo: lockoutRepo,
		threshold:   10,
		window:      time.Hour,
	}
	return &OTPService{
		otpRepo:        otpRepo,
		lockoutService: lockoutService,
		codeLength:     6,
		codeTTL:        15 * time.Minute,
		resendCooldown: 60 * time.Second,
		maxAttempts:    5,
		codePepper:     testPepper,
	}
}

// activeOTPRecord builds a live record whose hash matches the given plaintext.
func activeOTPRecord(userID uint, purpose, contact, code string) *entity.OTPCode {
	salt := "0123456789abcdef0123456789abcdef"
	return &entity.OTPCode{
		ID:           1,
		UserID:       userID,
		Purpose:      purpose,
		Contact:      contact,
		CodeHash:     hashOTPCode(code, salt, testPepper),
		CodeSalt:     salt,
		ExpiresAt:    time.Now().Add(10 * time.Minute),
		AttemptCount: 0,
		MaxAttempts:  5,
		LastSentAt:   time.Now().Add(-5 * time.Minute),
	}
}

func TestOTPService_Generate_StoresHashNotPlaintext(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(nil, apperrors.ErrNotFound)

	var stored *entity.OTPCode
	mockOTPRepo.On("CreateSuperseding", mock.AnythingOfType("*entity.OTPCode")).
		Run(func(args mock.Arguments) {
			stored = args.Get(0).(*entity.OTPCode)
		}).
		Return(nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	code, err := svc.Generate(context.Background(), 1, entity.OTPPurposeEmailVerification, "user@example.com")

	require.NoError(t, err)
	assert.Len(t, code, 6)
	require.NotNil(t, stored)
	assert.NotEqual(t, code, stored.CodeHash, "plaintext must never be persisted")
	assert.NotEmpty(t, stored.CodeSalt)
	assert.Equal(t, hashOTPCode(code, stored.CodeSalt, testPepper), stored.CodeHash)
	assert.Equal(t, 5, stored.MaxAttempts)
	assert.Equal(t, "user@example.com", stored.Contact)
	mockOTPRepo.AssertExpectations(t)
}

func TestOTPService_Generate_UnknownPurpose(t *testing.T) {
	svc := createTestOTPService(new(MockOTPRepository), new(MockLockoutRepository))

	_, err := svc.Generate(context.Background(), 1, "magic_link", "user@example.com")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOTPService_Generate_ResendCooldown(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)

	recent := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "123456")
	recent.LastSentAt = time.Now().Add(-10 * time.Second)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(recent, nil)

	svc := createTestOTPService(mockOTPRepo, new(MockLockoutRepository))

	_, err := svc.Generate(context.Background(), 1, entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrResendCooldown)
	mockOTPRepo.AssertNotCalled(t, "CreateSuperseding", mock.Anything)
}

func TestOTPService_Verify_Success_ConsumesAndResetsLockout(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	record := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "654321")

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(0), time.Time{}, nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(record, nil)
	mockOTPRepo.On("MarkConsumed", uint(1)).Return(nil)
	mockLockoutRepo.On("ClearFailures", mock.Anything, uint(1)).Return(nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	result, err := svc.Verify(context.Background(), 1, "654321", entity.OTPPurposeEmailVerification, "user@example.com")

	require.NoError(t, err)
	assert.True(t, result.Success)
	mockOTPRepo.AssertExpectations(t)
	mockLockoutRepo.AssertExpectations(t)
}

func TestOTPService_Verify_WrongCode_CountsAttempt(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	record := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "654321")

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(0), time.Time{}, nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(record, nil)
	mockOTPRepo.On("IncrementAttempts", uint(1)).Return(1, nil)
	mockLockoutRepo.On("IncrementFailures", mock.Anything, uint(1), time.Hour).
		Return(int64(1), nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	result, err := svc.Verify(context.Background(), 1, "000000", entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrInvalidCode)
	require.NotNil(t, result.AttemptsRemaining)
	assert.Equal(t, 4, *result.AttemptsRemaining)
	mockOTPRepo.AssertNotCalled(t, "MarkConsumed", mock.Anything)
	mockOTPRepo.AssertExpectations(t)
	mockLockoutRepo.AssertExpectations(t)
}

func TestOTPService_Verify_FifthWrongAttempt_InvalidatesCode(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	record := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "654321")
	record.AttemptCount = 4

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(4), time.Now().Add(30*time.Minute), nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(record, nil)
	mockOTPRepo.On("IncrementAttempts", uint(1)).Return(5, nil)
	mockLockoutRepo.On("IncrementFailures", mock.Anything, uint(1), time.Hour).
		Return(int64(5), nil)
	mockOTPRepo.On("MarkConsumed", uint(1)).Return(nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	result, err := svc.Verify(context.Background(), 1, "000000", entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrTooManyAttempts)
	require.NotNil(t, result.AttemptsRemaining)
	assert.Equal(t, 0, *result.AttemptsRemaining)
	mockOTPRepo.AssertExpectations(t)
}

func TestOTPService_Verify_CorrectCodeAfterExhaustion(t *testing.T) {
	// The code was invalidated by the attempt cap, so even the right digits no
	// longer find an active record.
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(5), time.Now().Add(30*time.Minute), nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(nil, apperrors.ErrNotFound)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	_, err := svc.Verify(context.Background(), 1, "654321", entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrNoActiveCode)
}

func TestOTPService_Verify_Expired_LazyInvalidation(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	record := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "654321")
	record.ExpiresAt = time.Now().Add(-time.Minute)

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(0), time.Time{}, nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(record, nil)
	mockOTPRepo.On("MarkConsumed", uint(1)).Return(nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	_, err := svc.Verify(context.Background(), 1, "654321", entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrCodeExpired)
	mockOTPRepo.AssertCalled(t, "MarkConsumed", uint(1))
}

func TestOTPService_Verify_ContactMismatch(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	record := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "654321")

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(0), time.Time{}, nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(record, nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	_, err := svc.Verify(context.Background(), 1, "654321", entity.OTPPurposeEmailVerification, "other@example.com")

	assert.ErrorIs(t, err, ErrContactMismatch)
	mockOTPRepo.AssertNotCalled(t, "IncrementAttempts", mock.Anything)
	mockOTPRepo.AssertNotCalled(t, "MarkConsumed", mock.Anything)
}

func TestOTPService_Verify_Locked(t *testing.T) {
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	resetAt := time.Now().Add(45 * time.Minute)
	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(10), resetAt, nil)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	result, err := svc.Verify(context.Background(), 1, "654321", entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrLocked)
	assert.True(t, result.Locked)
	require.NotNil(t, result.ResetAt)
	assert.Equal(t, resetAt, *result.ResetAt)
	mockOTPRepo.AssertNotCalled(t, "GetLatestActive", mock.Anything, mock.Anything)
}

func TestOTPService_Verify_ConcurrentConsume(t *testing.T) {
	// The guarded UPDATE already spent the row; the loser observes a conflict
	// and reports no active code.
	mockOTPRepo := new(MockOTPRepository)
	mockLockoutRepo := new(MockLockoutRepository)

	record := activeOTPRecord(1, entity.OTPPurposeEmailVerification, "user@example.com", "654321")

	mockLockoutRepo.On("FailureState", mock.Anything, uint(1)).
		Return(int64(0), time.Time{}, nil)
	mockOTPRepo.On("GetLatestActive", uint(1), entity.OTPPurposeEmailVerification).
		Return(record, nil)
	mockOTPRepo.On("MarkConsumed", uint(1)).Return(apperrors.ErrConflict)

	svc := createTestOTPService(mockOTPRepo, mockLockoutRepo)

	_, err := svc.Verify(context.Background(), 1, "654321", entity.OTPPurposeEmailVerification, "user@example.com")

	assert.ErrorIs(t, err, ErrNoActiveCode)
}
