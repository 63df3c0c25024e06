package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/skiclub-api/internal/service"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService         *service.AuthService
	verificationService *service.VerificationService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, verificationService *service.VerificationService) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		verificationService: verificationService,
	}
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TwoFactorRequest представляет запрос на завершение входа кодом
type TwoFactorRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// ConfirmEmailRequest представляет запрос на подтверждение email кодом
type ConfirmEmailRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// ForgotPasswordRequest представляет запрос на сброс пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest представляет запрос на установку нового пароля по коду
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Login обрабатывает вход по email и паролю
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteTwoFactor завершает вход персонала кодом из письма
func (h *AuthHandler) CompleteTwoFactor(c *gin.Context) {
	var req TwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	result, otpResult, err := h.authService.CompleteTwoFactor(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondOTPError(c, otpResult, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendEmailVerification отправляет код подтверждения email текущему пользователю
func (h *AuthHandler) SendEmailVerification(c *gin.Context) {
	userID := getUserID(c)
	if err := h.verificationService.SendEmailVerification(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

// ConfirmEmail подтверждает email текущего пользователя кодом
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	userID := getUserID(c)
	result, err := h.verificationService.ConfirmEmail(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondOTPError(c, result, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ForgotPassword запрашивает код сброса пароля. Ответ одинаков для известных и
// неизвестных адресов.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	if err := h.verificationService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.Printf("[AuthHandler] password reset request failed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, a reset code has been sent"})
}

// ResetPassword устанавливает новый пароль по коду из письма
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	result, err := h.verificationService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		respondOTPError(c, result, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
