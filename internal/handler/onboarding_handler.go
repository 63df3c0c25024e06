package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
	"github.com/yourusername/skiclub-api/internal/service"
)

// OnboardingHandler обрабатывает приглашения и установку пароля по setup-токену
type OnboardingHandler struct {
	onboardingService *service.OnboardingService
}

// NewOnboardingHandler создает новый обработчик онбординга
func NewOnboardingHandler(onboardingService *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// VerifySetupTokenRequest представляет запрос на проверку setup-токена
type VerifySetupTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// SetupPasswordRequest представляет запрос на установку пароля по setup-токену
type SetupPasswordRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// InviteRequest представляет запрос на приглашение сотрудника или родителя
type InviteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"omitempty,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,max=100"`
	Role      string `json:"role" binding:"required,oneof=admin coach parent"`
	ClubID    *uint  `json:"club_id" binding:"omitempty"`
}

// VerifySetupToken проверяет setup-токен и возвращает данные приглашенного.
// Идемпотентен: токен не расходуется.
func (h *OnboardingHandler) VerifySetupToken(c *gin.Context) {
	var req VerifySetupTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	principal, err := h.onboardingService.VerifySetupToken(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": principal})
}

// SetupPassword устанавливает пароль по setup-токену и завершает онбординг
func (h *OnboardingHandler) SetupPassword(c *gin.Context) {
	var req SetupPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	if err := h.onboardingService.SetupPassword(c.Request.Context(), req.UserID, req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password set, account activated"})
}

// Invite приглашает нового сотрудника или родителя. Владелец платформы может
// приглашать в любой клуб; администратор клуба — только в свой.
func (h *OnboardingHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	callerRole := c.GetString("userRole")
	clubID := req.ClubID
	if callerRole != entity.RoleOwner {
		// Администратор приглашает только в свой клуб
		ownClubID, ok := getClubID(c)
		if !ok {
			respondError(c, apperrors.ErrForbidden)
			return
		}
		clubID = &ownClubID

		if req.Role == entity.RoleAdmin {
			respondError(c, apperrors.ErrForbidden)
			return
		}
	}

	user, err := h.onboardingService.Invite(c.Request.Context(), service.InviteInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		ClubID:    clubID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}
