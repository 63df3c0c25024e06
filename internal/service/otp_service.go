package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// OTPResult is the outcome of a verification attempt. AttemptsRemaining is set
// for attempt-limited failures so the client can show a concrete count without
// leaking the code or its hash. Locked failures carry the lockout reset time.
type OTPResult struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	AttemptsRemaining *int       `json:"attempts_remaining,omitempty"`
	Locked            bool       `json:"locked,omitempty"`
	ResetAt           *time.Time `json:"reset_at,omitempty"`
}

// OTPService generates and verifies short numeric codes scoped to a user, a
// purpose and a delivery contact. Only a salted, peppered hash of the code is
// stored; the plaintext is returned once for out-of-band delivery.
type OTPService struct {
	otpRepo        repository.OTPRepository
	lockoutService *LockoutService
	codeLength     int
	codeTTL        time.Duration
	resendCooldown time.Duration
	maxAttempts    int
	codePepper     string
}

func NewOTPService(
	otpRepo repository.OTPRepository,
	lockoutService *LockoutService,
	codeTTL time.Duration,
	resendCooldown time.Duration,
	maxAttempts int,
	codePepper string,
) (*OTPService, error) {
	if otpRepo == nil {
		return nil, fmt.Errorf("otp repository is required")
	}
	if lockoutService == nil {
		return nil, fmt.Errorf("lockout service is required")
	}
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	if resendCooldown <= 0 {
		resendCooldown = 60 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &OTPService{
		otpRepo:        otpRepo,
		lockoutService: lockoutService,
		codeLength:     6,
		codeTTL:        codeTTL,
		resendCooldown: resendCooldown,
		maxAttempts:    maxAttempts,
		codePepper:     codePepper,
	}, nil
}

// Generate issues a fresh code for (userID, purpose), superseding any prior
// live code for the pair. The returned plaintext is never persisted.
func (s *OTPService) Generate(ctx context.Context, userID uint, purpose, contact string) (string, error) {
	if !entity.IsValidOTPPurpose(purpose) {
		return "", fmt.Errorf("%w: unknown otp purpose %q", apperrors.ErrValidation, purpose)
	}
	if contact == "" {
		return "", fmt.Errorf("%w: contact is required", apperrors.ErrValidation)
	}

	now := time.Now()
	latest, err := s.otpRepo.GetLatestActive(userID, purpose)
	if err == nil && latest != nil {
		if now.Before(latest.LastSentAt.Add(s.resendCooldown)) {
			return "", fmt.Errorf("%w: please wait before requesting a new code", ErrResendCooldown)
		}
	}

	code, err := generateNumericCode(s.codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	salt, err := generateCodeSalt()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp salt: %w", err)
	}

	record := &entity.OTPCode{
		UserID:       userID,
		Purpose:      purpose,
		Contact:      contact,
		CodeHash:     hashOTPCode(code, salt, s.codePepper),
		CodeSalt:     salt,
		ExpiresAt:    now.Add(s.codeTTL),
		AttemptCount: 0,
		MaxAttempts:  s.maxAttempts,
		LastSentAt:   now,
	}
	if err := s.otpRepo.CreateSuperseding(record); err != nil {
		return "", fmt.Errorf("failed to store otp code: %w", err)
	}

	return code, nil
}

// Verify checks a submitted code against the live entry for (userID, purpose).
// The caller validates the code format before calling; the verifier itself is
// length-agnostic. Each failure counts against both the per-code attempt cap
// and the rolling lockout window; success resets the window.
func (s *OTPService) Verify(ctx context.Context, userID uint, code, purpose, contact string) (*OTPResult, error) {
	if !entity.IsValidOTPPurpose(purpose) {
		return nil, fmt.Errorf("%w: unknown otp purpose %q", apperrors.ErrValidation, purpose)
	}

	lockout, err := s.lockoutService.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !lockout.Allowed {
		resetAt := lockout.ResetAt
		return &OTPResult{
			Success: false,
			Message: "too many failed attempts, try again later",
			Locked:  true,
			ResetAt: &resetAt,
		}, ErrLocked
	}

	record, err := s.otpRepo.GetLatestActive(userID, purpose)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &OTPResult{Success: false, Message: "no active code"}, ErrNoActiveCode
		}
		return nil, err
	}

	now := time.Now()
	if record.IsExpired(now) {
		// Expired-but-present rows are treated as absent; invalidate lazily.
		_ = s.otpRepo.MarkConsumed(record.ID)
		return &OTPResult{Success: false, Message: "code expired"}, ErrCodeExpired
	}
	if record.Contact != contact {
		// Cross-channel replay: a code delivered to one contact must not
		// verify a different one.
		return &OTPResult{Success: false, Message: "contact mismatch"}, ErrContactMismatch
	}

	expectedHash := hashOTPCode(code, record.CodeSalt, s.codePepper)
	if subtle.ConstantTimeCompare([]byte(expectedHash), []byte(record.CodeHash)) != 1 {
		attempts, incErr := s.otpRepo.IncrementAttempts(record.ID)
		if incErr != nil {
			return nil, incErr
		}
		if lockErr := s.lockoutService.RecordFailure(ctx, userID); lockErr != nil {
			return nil, lockErr
		}

		remaining := record.MaxAttempts - attempts
		if remaining <= 0 {
			remaining = 0
			_ = s.otpRepo.MarkConsumed(record.ID)
			return &OTPResult{
				Success:           false,
				Message:           "code invalidated after too many attempts",
				AttemptsRemaining: &remaining,
			}, ErrTooManyAttempts
		}
		return &OTPResult{
			Success:           false,
			Message:           "invalid code",
			AttemptsRemaining: &remaining,
		}, ErrInvalidCode
	}

	// Single use: consume before reporting success. A concurrent duplicate
	// submit loses the guarded UPDATE and is rejected.
	if err := s.otpRepo.MarkConsumed(record.ID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return &OTPResult{Success: false, Message: "no active code"}, ErrNoActiveCode
		}
		return nil, fmt.Errorf("failed to consume otp code: %w", err)
	}
	if err := s.lockoutService.Reset(ctx, userID); err != nil {
		return nil, err
	}

	return &OTPResult{Success: true, Message: "code verified"}, nil
}

func generateNumericCode(length int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

func generateCodeSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashOTPCode(code, salt, pepper string) string {
	sum := sha256.Sum256([]byte(pepper + ":" + salt + ":" + code))
	return hex.EncodeToString(sum[:])
}
