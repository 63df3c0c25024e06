package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/skiclub-api/internal/service"
)

// PaymentHandler обрабатывает запросы платежных сессий
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler создает новый обработчик платежей
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateCheckoutRequest представляет запрос на создание платежной сессии
type CreateCheckoutRequest struct {
	RegistrationID uint `json:"registration_id" binding:"required"`
}

// CreateCheckout создает платежную сессию для записи и возвращает ссылку для редиректа
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	userID := getUserID(c)

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	session, err := h.paymentService.CreateCheckout(c.Request.Context(), userID, req.RegistrationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"provider_ref": session.ProviderRef,
		"redirect_url": session.RedirectURL,
		"amount_cents": session.AmountCents,
		"currency":     session.Currency,
	})
}

// ProviderCallbackRequest представляет уведомление провайдера о завершении оплаты
type ProviderCallbackRequest struct {
	ProviderRef string `json:"provider_ref" binding:"required"`
}

// ProviderCallback обрабатывает уведомление провайдера. Идемпотентен:
// повторная доставка того же уведомления возвращает 200.
func (h *PaymentHandler) ProviderCallback(c *gin.Context) {
	var req ProviderCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	if err := h.paymentService.CompleteCheckout(c.Request.Context(), req.ProviderRef); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}
