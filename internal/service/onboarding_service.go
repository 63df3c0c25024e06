package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
	"github.com/yourusername/skiclub-api/pkg/auth"
)

// SetupPrincipal is what a valid, unconsumed setup token resolves to.
type SetupPrincipal struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	ClubID *uint  `json:"club_id,omitempty"`
}

// InviteInput содержит данные приглашения нового сотрудника или родителя
type InviteInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	ClubID    *uint
}

// OnboardingService sequences the credential bootstrap flow: verify invitation
// token, collect password, atomically burn the token, set the credential, mark
// the profile completed.
type OnboardingService struct {
	userRepo        repository.UserRepository
	clubRepo        repository.ClubRepository
	consumptionRepo repository.TokenConsumptionRepository
	tokenService    *auth.SetupTokenService
	emailService    EmailService

	setupTokenTTL  time.Duration
	minPasswordLen int
	portalBaseURL  string
}

func NewOnboardingService(
	userRepo repository.UserRepository,
	clubRepo repository.ClubRepository,
	consumptionRepo repository.TokenConsumptionRepository,
	tokenService *auth.SetupTokenService,
	emailService EmailService,
	setupTokenTTL time.Duration,
	minPasswordLen int,
	portalBaseURL string,
) (*OnboardingService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if clubRepo == nil {
		return nil, fmt.Errorf("club repository is required")
	}
	if consumptionRepo == nil {
		return nil, fmt.Errorf("token consumption repository is required")
	}
	if tokenService == nil {
		return nil, fmt.Errorf("setup token service is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	if setupTokenTTL <= 0 {
		setupTokenTTL = 72 * time.Hour
	}
	if minPasswordLen <= 0 {
		minPasswordLen = 12
	}

	return &OnboardingService{
		userRepo:        userRepo,
		clubRepo:        clubRepo,
		consumptionRepo: consumptionRepo,
		tokenService:    tokenService,
		emailService:    emailService,
		setupTokenTTL:   setupTokenTTL,
		minPasswordLen:  minPasswordLen,
		portalBaseURL:   strings.TrimRight(portalBaseURL, "/"),
	}, nil
}

// Invite creates a pending account, issues a setup token for it and emails the
// setup link. Re-inviting a pending account issues a fresh token; a completed
// account is rejected.
func (s *OnboardingService) Invite(ctx context.Context, input InviteInput) (*entity.User, error) {
	input.Email = entity.NormalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	tokenType, err := tokenTypeForRole(input.Role)
	if err != nil {
		return nil, err
	}
	if input.Role != entity.RoleOwner && input.ClubID == nil {
		return nil, fmt.Errorf("%w: club_id is required for role %s", apperrors.ErrValidation, input.Role)
	}

	clubName := ""
	if input.ClubID != nil {
		club, err := s.clubRepo.GetByID(*input.ClubID)
		if err != nil {
			return nil, err
		}
		clubName = club.Name
	}

	user, err := s.userRepo.GetByEmail(input.Email)
	switch {
	case err == nil:
		if user.IsSetupCompleted() {
			return nil, fmt.Errorf("%w: account already active", ErrEmailTaken)
		}
		// Pending account: fall through and re-issue the token.
	case errors.Is(err, apperrors.ErrNotFound):
		user = &entity.User{
			Email:     input.Email,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Role:      input.Role,
			ClubID:    input.ClubID,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create invited user: %w", err)
		}
	default:
		return nil, err
	}

	token, err := s.tokenService.Issue(user.ID, user.Email, tokenType, user.ClubID, s.setupTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue setup token: %w", err)
	}

	setupURL := fmt.Sprintf("%s/setup?token=%s", s.portalBaseURL, url.QueryEscape(token))
	idempotencyKey := fmt.Sprintf("invite:%d:%d", user.ID, time.Now().Unix())
	if err := s.emailService.SendSetupInvitation(ctx, user.Email, setupURL, user.Role, clubName, idempotencyKey); err != nil {
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}

	log.Printf("[OnboardingService] invited user id=%d email=%s role=%s", user.ID, user.Email, user.Role)
	return user, nil
}

// VerifySetupToken resolves a token to its principal. Read-only and
// idempotent: it may be called any number of times before consumption.
func (s *OnboardingService) VerifySetupToken(ctx context.Context, token string) (*SetupPrincipal, error) {
	claims, user, err := s.checkToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &SetupPrincipal{
		UserID: claims.UserID,
		Email:  user.Email,
		Role:   user.Role,
		ClubID: user.ClubID,
	}, nil
}

// SetupPassword burns the token and sets the credential. The consumption
// record is written BEFORE the credential: if the process dies in between, the
// token is already unusable and an operator can retry the credential write
// safely. The reverse order would leave a spendable token after a partial
// success.
func (s *OnboardingService) SetupPassword(ctx context.Context, userID uint, token, password string) error {
	// Tokens may be replayed against this endpoint directly, so all of the
	// verification checks run again here.
	claims, _, err := s.checkToken(ctx, token)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return fmt.Errorf("%w: token issued for another account", ErrTokenMismatch)
	}
	if len(password) < s.minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrWeakPassword, s.minPasswordLen)
	}

	if err := s.consumptionRepo.MarkConsumed(ctx, claims.ID, claims.UserID, claims.TokenType); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return ErrTokenAlreadyUsed
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"setup_completed_at": &now,
		// The setup link was delivered to this address, so the email is
		// verified as a side effect.
		"email_verified_at": &now,
	}
	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return fmt.Errorf("failed to mark profile completed: %w", err)
	}

	log.Printf("[OnboardingService] setup completed for user id=%d", userID)
	return nil
}

// checkToken runs the shared verification sequence: codec, replay guard,
// profile state.
func (s *OnboardingService) checkToken(ctx context.Context, token string) (*auth.SetupTokenClaims, *entity.User, error) {
	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return nil, nil, err
	}

	consumed, err := s.consumptionRepo.IsConsumed(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if consumed {
		return nil, nil, ErrTokenAlreadyUsed
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	// A completed profile makes any outstanding token semantically spent, even
	// one that was never formally consumed (e.g. issued twice).
	if user.IsSetupCompleted() {
		return nil, nil, ErrSetupAlreadyCompleted
	}

	return claims, user, nil
}

func tokenTypeForRole(role string) (string, error) {
	switch role {
	case entity.RoleAdmin:
		return auth.TokenTypeAdminSetup, nil
	case entity.RoleCoach:
		return auth.TokenTypeCoachSetup, nil
	case entity.RoleParent:
		return auth.TokenTypeParentSetup, nil
	}
	return "", fmt.Errorf("%w: role %q cannot be invited", apperrors.ErrValidation, role)
}
