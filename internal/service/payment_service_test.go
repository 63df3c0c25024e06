package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

func createTestPaymentService(
	regRepo *MockRegistrationRepository,
	programRepo *MockProgramRepository,
	sessionRepo *MockCheckoutSessionRepository,
) *PaymentService {
	return &PaymentService{
		registrationRepo: regRepo,
		programRepo:      programRepo,
		sessionRepo:      sessionRepo,
		provider:         &NoopCheckoutProvider{BaseURL: "http://localhost:8080"},
	}
}

func TestPaymentService_CreateCheckout_Success(t *testing.T) {
	mockRegRepo := new(MockRegistrationRepository)
	mockProgramRepo := new(MockProgramRepository)
	mockSessionRepo := new(MockCheckoutSessionRepository)

	mockRegRepo.On("GetByID", uint(9)).Return(&entity.Registration{
		ID: 9, ClubID: 3, ProgramID: 5, ParentID: 1,
		Status: entity.RegistrationPending, PaymentStatus: entity.PaymentUnpaid,
	}, nil)
	mockProgramRepo.On("GetByID", uint(5)).Return(testProgram(5, 3), nil)
	mockSessionRepo.On("Create", mock.AnythingOfType("*entity.CheckoutSession")).Return(nil)
	mockRegRepo.On("UpdatePaymentStatus", uint(9), entity.PaymentProcessing).Return(nil)

	svc := createTestPaymentService(mockRegRepo, mockProgramRepo, mockSessionRepo)

	session, err := svc.CreateCheckout(context.Background(), 1, 9)

	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutOpen, session.Status)
	assert.Equal(t, int64(50000), session.AmountCents)
	assert.NotEmpty(t, session.ProviderRef)
	assert.Contains(t, session.RedirectURL, session.ProviderRef)
	mockSessionRepo.AssertExpectations(t)
	mockRegRepo.AssertExpectations(t)
}

func TestPaymentService_CreateCheckout_ForeignRegistration(t *testing.T) {
	mockRegRepo := new(MockRegistrationRepository)

	mockRegRepo.On("GetByID", uint(9)).Return(&entity.Registration{
		ID: 9, ParentID: 99, Status: entity.RegistrationPending,
	}, nil)

	svc := createTestPaymentService(mockRegRepo, new(MockProgramRepository), new(MockCheckoutSessionRepository))

	_, err := svc.CreateCheckout(context.Background(), 1, 9)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPaymentService_CreateCheckout_AlreadyPaid(t *testing.T) {
	mockRegRepo := new(MockRegistrationRepository)

	mockRegRepo.On("GetByID", uint(9)).Return(&entity.Registration{
		ID: 9, ParentID: 1, Status: entity.RegistrationConfirmed, PaymentStatus: entity.PaymentPaid,
	}, nil)

	svc := createTestPaymentService(mockRegRepo, new(MockProgramRepository), new(MockCheckoutSessionRepository))

	_, err := svc.CreateCheckout(context.Background(), 1, 9)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPaymentService_CompleteCheckout_MarksPaid(t *testing.T) {
	mockRegRepo := new(MockRegistrationRepository)
	mockSessionRepo := new(MockCheckoutSessionRepository)

	mockSessionRepo.On("GetByProviderRef", "ref-1").Return(&entity.CheckoutSession{
		ID: 4, RegistrationID: 9, ProviderRef: "ref-1", Status: entity.CheckoutOpen,
	}, nil)
	mockSessionRepo.On("MarkCompleted", uint(4)).Return(true, nil)
	mockRegRepo.On("UpdatePaymentStatus", uint(9), entity.PaymentPaid).Return(nil)

	svc := createTestPaymentService(mockRegRepo, new(MockProgramRepository), mockSessionRepo)

	require.NoError(t, svc.CompleteCheckout(context.Background(), "ref-1"))
	mockRegRepo.AssertExpectations(t)
}

func TestPaymentService_CompleteCheckout_DuplicateNotificationIsNoop(t *testing.T) {
	mockRegRepo := new(MockRegistrationRepository)
	mockSessionRepo := new(MockCheckoutSessionRepository)

	mockSessionRepo.On("GetByProviderRef", "ref-1").Return(&entity.CheckoutSession{
		ID: 4, RegistrationID: 9, ProviderRef: "ref-1", Status: entity.CheckoutCompleted,
	}, nil)
	mockSessionRepo.On("MarkCompleted", uint(4)).Return(false, nil)

	svc := createTestPaymentService(mockRegRepo, new(MockProgramRepository), mockSessionRepo)

	require.NoError(t, svc.CompleteCheckout(context.Background(), "ref-1"))
	mockRegRepo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything)
}

func TestPaymentService_CompleteCheckout_UnknownRef(t *testing.T) {
	mockSessionRepo := new(MockCheckoutSessionRepository)

	mockSessionRepo.On("GetByProviderRef", "ref-x").Return(nil, apperrors.ErrNotFound)

	svc := createTestPaymentService(new(MockRegistrationRepository), new(MockProgramRepository), mockSessionRepo)

	err := svc.CompleteCheckout(context.Background(), "ref-x")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
