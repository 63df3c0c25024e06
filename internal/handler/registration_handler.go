package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/skiclub-api/internal/domain/entity"
	"github.com/yourusername/skiclub-api/internal/service"
)

// RegistrationHandler обрабатывает запросы семейного портала: атлеты и записи в программы
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler создает новый обработчик записей
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// AddAthleteRequest представляет запрос на добавление атлета
type AddAthleteRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Notes     string `json:"notes" binding:"omitempty,max=1000"`
}

// AddAthlete добавляет атлета в семейный аккаунт
func (h *RegistrationHandler) AddAthlete(c *gin.Context) {
	userID := getUserID(c)
	clubID, ok := getClubID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Club context required", "error_type": "forbidden"})
		return
	}

	var req AddAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date, expected YYYY-MM-DD", "error_type": "validation"})
		return
	}

	athlete, err := h.registrationService.AddAthlete(userID, clubID, service.AthleteInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, athlete)
}

// ListAthletes возвращает атлетов текущего родителя
func (h *RegistrationHandler) ListAthletes(c *gin.Context) {
	userID := getUserID(c)

	athletes, err := h.registrationService.ListAthletes(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"athletes": athletes})
}

// RegisterRequest представляет запрос на запись атлета в программу
type RegisterRequest struct {
	AthleteID uint `json:"athlete_id" binding:"required"`
	ProgramID uint `json:"program_id" binding:"required"`
}

// Register записывает атлета в программу
func (h *RegistrationHandler) Register(c *gin.Context) {
	userID := getUserID(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	reg, err := h.registrationService.Register(userID, req.AthleteID, req.ProgramID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// ListMyRegistrations возвращает записи текущего родителя
func (h *RegistrationHandler) ListMyRegistrations(c *gin.Context) {
	userID := getUserID(c)

	regs, err := h.registrationService.ListByParent(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

// ListProgramRegistrations возвращает записи программы (для персонала клуба)
func (h *RegistrationHandler) ListProgramRegistrations(c *gin.Context) {
	programID := c.GetUint("programID")

	regs, err := h.registrationService.ListByProgram(programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

// Cancel отменяет запись. Родитель может отменить только свою запись,
// персонал клуба — любую.
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	userID := getUserID(c)
	registrationID := c.GetUint("registrationID")

	role := c.GetString("userRole")
	isStaff := role == entity.RoleOwner || role == entity.RoleAdmin || role == entity.RoleCoach

	if err := h.registrationService.Cancel(userID, registrationID, isStaff); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration cancelled"})
}

// Confirm подтверждает запись (персонал клуба)
func (h *RegistrationHandler) Confirm(c *gin.Context) {
	registrationID := c.GetUint("registrationID")

	if err := h.registrationService.Confirm(registrationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration confirmed"})
}
