package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
	"github.com/yourusername/skiclub-api/internal/service"
	"github.com/yourusername/skiclub-api/pkg/auth"
)

// respondError переводит ошибки сервисного слоя в HTTP-статус и стабильный
// error_type для клиентов
func respondError(c *gin.Context, err error) {
	switch {
	// Setup token flow
	case errors.Is(err, auth.ErrMalformedToken), errors.Is(err, auth.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid setup token", "error_type": "invalid_token"})
	case errors.Is(err, auth.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Setup token expired", "error_type": "token_expired"})
	case errors.Is(err, auth.ErrInvalidTokenType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setup token type", "error_type": "validation"})
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Setup token already used", "error_type": "token_used"})
	case errors.Is(err, service.ErrSetupAlreadyCompleted):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account setup already completed", "error_type": "token_used"})
	case errors.Is(err, service.ErrTokenMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token issued for another account", "error_type": "token_mismatch"})
	case errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "weak_password"})

	// OTP flow
	case errors.Is(err, service.ErrNoActiveCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active code", "error_type": "invalid_code"})
	case errors.Is(err, service.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code expired", "error_type": "code_expired"})
	case errors.Is(err, service.ErrContactMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact mismatch", "error_type": "contact_mismatch"})
	case errors.Is(err, service.ErrResendCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code", "error_type": "resend_cooldown"})

	// Accounts and registrations
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "error_type": "invalid_credentials"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered", "error_type": "email_taken"})
	case errors.Is(err, service.ErrProgramFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Program is full", "error_type": "program_full"})
	case errors.Is(err, service.ErrAgeIneligible):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "age_ineligible"})
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Athlete already registered to this program", "error_type": "already_registered"})

	// Taxonomy
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable", "error_type": "unavailable"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal"})
	}
}

// respondOTPError дополняет ответ деталями verification-результата
// (attempts_remaining, locked, reset_at)
func respondOTPError(c *gin.Context, result *service.OTPResult, err error) {
	switch {
	case errors.Is(err, service.ErrLocked):
		body := gin.H{"error": "Too many failed attempts", "error_type": "locked"}
		if result != nil && result.ResetAt != nil {
			body["reset_at"] = result.ResetAt
		}
		c.JSON(http.StatusTooManyRequests, body)
	case errors.Is(err, service.ErrTooManyAttempts):
		body := gin.H{"error": "Code invalidated after too many attempts", "error_type": "attempts_exceeded"}
		if result != nil && result.AttemptsRemaining != nil {
			body["attempts_remaining"] = *result.AttemptsRemaining
		}
		c.JSON(http.StatusTooManyRequests, body)
	case errors.Is(err, service.ErrInvalidCode):
		body := gin.H{"error": "Invalid code", "error_type": "invalid_code"}
		if result != nil && result.AttemptsRemaining != nil {
			body["attempts_remaining"] = *result.AttemptsRemaining
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		respondError(c, err)
	}
}

func getUserID(c *gin.Context) uint {
	return c.GetUint("userID")
}

func getClubID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("clubID")
	if !ok {
		return 0, false
	}
	clubID, ok := v.(uint)
	return clubID, ok
}
