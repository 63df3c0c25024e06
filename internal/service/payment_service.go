package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/domain/repository"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// CheckoutProvider создает платежную сессию у внешнего провайдера и возвращает
// ссылку для редиректа. Протокол провайдера не входит в зону ответственности
// этого сервиса.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, providerRef string, amountCents int64, currency, description string) (redirectURL string, err error)
}

// NoopCheckoutProvider используется в разработке: возвращает локальную ссылку
// без обращения к провайдеру.
type NoopCheckoutProvider struct {
	BaseURL string
}

func (p *NoopCheckoutProvider) CreateSession(ctx context.Context, providerRef string, amountCents int64, currency, description string) (string, error) {
	log.Printf("[CheckoutProvider] noop session ref=%s amount=%d %s", providerRef, amountCents, currency)
	return fmt.Sprintf("%s/checkout/%s", p.BaseURL, providerRef), nil
}

// PaymentService управляет платежными сессиями для записей в программы
type PaymentService struct {
	registrationRepo repository.RegistrationRepository
	programRepo      repository.ProgramRepository
	sessionRepo      repository.CheckoutSessionRepository
	provider         CheckoutProvider
}

// NewPaymentService создает новый платежный сервис
func NewPaymentService(
	registrationRepo repository.RegistrationRepository,
	programRepo repository.ProgramRepository,
	sessionRepo repository.CheckoutSessionRepository,
	provider CheckoutProvider,
) (*PaymentService, error) {
	if registrationRepo == nil {
		return nil, fmt.Errorf("RegistrationRepository is required for PaymentService")
	}
	if programRepo == nil {
		return nil, fmt.Errorf("ProgramRepository is required for PaymentService")
	}
	if sessionRepo == nil {
		return nil, fmt.Errorf("CheckoutSessionRepository is required for PaymentService")
	}
	if provider == nil {
		return nil, fmt.Errorf("CheckoutProvider is required for PaymentService")
	}
	return &PaymentService{
		registrationRepo: registrationRepo,
		programRepo:      programRepo,
		sessionRepo:      sessionRepo,
		provider:         provider,
	}, nil
}

// CreateCheckout создает платежную сессию для записи и возвращает ссылку для редиректа
func (s *PaymentService) CreateCheckout(ctx context.Context, parentID, registrationID uint) (*entity.CheckoutSession, error) {
	reg, err := s.registrationRepo.GetByID(registrationID)
	if err != nil {
		return nil, err
	}
	if reg.ParentID != parentID {
		return nil, apperrors.ErrForbidden
	}
	if reg.Status == entity.RegistrationCancelled {
		return nil, apperrors.ErrConflict
	}
	if reg.PaymentStatus == entity.PaymentPaid {
		return nil, apperrors.ErrConflict
	}

	program, err := s.programRepo.GetByID(reg.ProgramID)
	if err != nil {
		return nil, err
	}

	providerRef := uuid.NewString()
	redirectURL, err := s.provider.CreateSession(ctx, providerRef, program.PriceCents, program.Currency, program.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	session := &entity.CheckoutSession{
		ClubID:         reg.ClubID,
		RegistrationID: registrationID,
		ProviderRef:    providerRef,
		RedirectURL:    redirectURL,
		AmountCents:    program.PriceCents,
		Currency:       program.Currency,
		Status:         entity.CheckoutOpen,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to store checkout session: %w", err)
	}

	if err := s.registrationRepo.UpdatePaymentStatus(registrationID, entity.PaymentProcessing); err != nil {
		return nil, err
	}

	return session, nil
}

// CompleteCheckout отмечает сессию оплаченной по уведомлению провайдера.
// Идемпотентен: повторное уведомление по той же сессии — no-op.
func (s *PaymentService) CompleteCheckout(ctx context.Context, providerRef string) error {
	session, err := s.sessionRepo.GetByProviderRef(providerRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	completed, err := s.sessionRepo.MarkCompleted(session.ID)
	if err != nil {
		return err
	}
	if !completed {
		// Уже завершена ранее
		return nil
	}

	if err := s.registrationRepo.UpdatePaymentStatus(session.RegistrationID, entity.PaymentPaid); err != nil {
		return err
	}

	log.Printf("[PaymentService] checkout completed ref=%s registration=%d", providerRef, session.RegistrationID)
	return nil
}
