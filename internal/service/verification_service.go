package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// VerificationService owns the OTP-backed flows: email confirmation and
// password reset. It resolves the delivery contact, asks OTPService for a
// code and hands the plaintext to the email channel exactly once.
type VerificationService struct {
	userRepo       repository.UserRepository
	otpService     *OTPService
	emailService   EmailService
	minPasswordLen int
}

func NewVerificationService(
	userRepo repository.UserRepository,
	otpService *OTPService,
	emailService EmailService,
	minPasswordLen int,
) (*VerificationService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if otpService == nil {
		return nil, fmt.Errorf("otp service is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	if minPasswordLen <= 0 {
		minPasswordLen = 12
	}
	return &VerificationService{
		userRepo:       userRepo,
		otpService:     otpService,
		emailService:   emailService,
		minPasswordLen: minPasswordLen,
	}, nil
}

// SendEmailVerification issues and delivers a code for confirming the
// account's email address. Already-verified accounts are a no-op.
func (s *VerificationService) SendEmailVerification(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.EmailVerifiedAt != nil {
		return nil
	}

	code, err := s.otpService.Generate(ctx, user.ID, entity.OTPPurposeEmailVerification, user.Email)
	if err != nil {
		return err
	}

	idempotencyKey := fmt.Sprintf("email-verify:%d:%d", user.ID, time.Now().Unix())
	if err := s.emailService.SendOTPCode(ctx, user.Email, code, entity.OTPPurposeEmailVerification, idempotencyKey); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// ConfirmEmail verifies the submitted code and flags the address verified.
func (s *VerificationService) ConfirmEmail(ctx context.Context, userID uint, code string) (*OTPResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerifiedAt != nil {
		return &OTPResult{Success: true, Message: "email already verified"}, nil
	}

	result, err := s.otpService.Verify(ctx, userID, code, entity.OTPPurposeEmailVerification, user.Email)
	if err != nil {
		return result, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateProfile(userID, map[string]interface{}{
		"email_verified_at": &now,
	}); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	return result, nil
}

// RequestPasswordReset issues a reset code for the account behind email.
// Unknown addresses are reported as success so the endpoint does not reveal
// which emails have accounts.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[VerificationService] password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := s.otpService.Generate(ctx, user.ID, entity.OTPPurposePasswordReset, user.Email)
	if err != nil {
		if errors.Is(err, ErrResendCooldown) {
			// Swallowed for the same reason: the response must not differ.
			return nil
		}
		return err
	}

	idempotencyKey := fmt.Sprintf("pwd-reset:%d:%d", user.ID, time.Now().Unix())
	if err := s.emailService.SendOTPCode(ctx, user.Email, code, entity.OTPPurposePasswordReset, idempotencyKey); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword exchanges a valid reset code for a new credential.
func (s *VerificationService) ResetPassword(ctx context.Context, email, code, newPassword string) (*OTPResult, error) {
	if len(newPassword) < s.minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrWeakPassword, s.minPasswordLen)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &OTPResult{Success: false, Message: "no active code"}, ErrNoActiveCode
		}
		return nil, err
	}

	result, err := s.otpService.Verify(ctx, user.ID, code, entity.OTPPurposePasswordReset, user.Email)
	if err != nil {
		return result, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, string(hashed)); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	log.Printf("[VerificationService] password reset completed for user id=%d", user.ID)
	return result, nil
}
