package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
	"github.com/yourusername/skiclub-api/pkg/auth"
)

// LoginResult содержит результат входа. Если для роли включена двухфакторная
// проверка, AccessToken пуст и TwoFactorRequired=true: клиент должен завершить
// вход кодом из письма.
type LoginResult struct {
	AccessToken       string       `json:"access_token,omitempty"`
	ExpiresIn         int          `json:"expires_in,omitempty"`
	TwoFactorRequired bool         `json:"two_factor_required,omitempty"`
	User              *entity.User `json:"user,omitempty"`
}

// AuthService предоставляет методы для входа в порталы
type AuthService struct {
	userRepo          repository.UserRepository
	jwtService        *auth.JWTService
	otpService        *OTPService
	emailService      EmailService
	twoFactorForStaff bool
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	otpService *OTPService,
	emailService EmailService,
	twoFactorForStaff bool,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if otpService == nil {
		return nil, fmt.Errorf("OTPService is required for AuthService")
	}
	if emailService == nil {
		return nil, fmt.Errorf("EmailService is required for AuthService")
	}
	return &AuthService{
		userRepo:          userRepo,
		jwtService:        jwtService,
		otpService:        otpService,
		emailService:      emailService,
		twoFactorForStaff: twoFactorForStaff,
	}, nil
}

// Login проверяет учетные данные. Для персонала при включенной двухфакторной
// проверке отправляет код и не выдает токен до CompleteTwoFactor.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsSetupCompleted() {
		// Аккаунт приглашен, но пароль еще не установлен
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if s.twoFactorForStaff && user.IsStaff() {
		code, err := s.otpService.Generate(ctx, user.ID, entity.OTPPurposeTwoFactorLogin, user.Email)
		if err != nil && !errors.Is(err, ErrResendCooldown) {
			return nil, err
		}
		if err == nil {
			idempotencyKey := fmt.Sprintf("2fa:%d:%d", user.ID, time.Now().Unix())
			if sendErr := s.emailService.SendOTPCode(ctx, user.Email, code, entity.OTPPurposeTwoFactorLogin, idempotencyKey); sendErr != nil {
				return nil, fmt.Errorf("failed to send 2fa code: %w", sendErr)
			}
		}
		return &LoginResult{TwoFactorRequired: true}, nil
	}

	return s.issueToken(user)
}

// CompleteTwoFactor завершает вход персонала кодом из письма. Вместе с ошибкой
// возвращает результат проверки кода, чтобы обработчик мог отдать клиенту
// attempts_remaining и reset_at.
func (s *AuthService) CompleteTwoFactor(ctx context.Context, email, code string) (*LoginResult, *OTPResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	otpResult, err := s.otpService.Verify(ctx, user.ID, code, entity.OTPPurposeTwoFactorLogin, user.Email)
	if err != nil {
		return nil, otpResult, err
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, otpResult, err
	}
	return result, otpResult, nil
}

func (s *AuthService) issueToken(user *entity.User) (*LoginResult, error) {
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	log.Printf("[AuthService] пользователь ID=%d (%s) вошел в систему", user.ID, user.Email)
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int(s.jwtService.TokenTTL().Seconds()),
		User:        user,
	}, nil
}
