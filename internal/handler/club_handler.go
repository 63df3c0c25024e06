package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/skiclub-api/internal/service"
)

// ClubHandler обрабатывает запросы управления клубами (портал владельца)
type ClubHandler struct {
	clubService *service.ClubService
}

// NewClubHandler создает новый обработчик клубов
func NewClubHandler(clubService *service.ClubService) *ClubHandler {
	return &ClubHandler{clubService: clubService}
}

// CreateClubRequest представляет запрос на создание клуба
type CreateClubRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
	Slug string `json:"slug" binding:"required,min=2,max=100"`
	City string `json:"city" binding:"omitempty,max=100"`
}

// CreateClub создает новый клуб
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	club, err := h.clubService.CreateClub(req.Name, req.Slug, req.City)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, club)
}

// GetClub возвращает клуб по ID
func (h *ClubHandler) GetClub(c *gin.Context) {
	clubID := c.GetUint("pathClubID")
	club, err := h.clubService.GetClub(clubID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

// ListClubs возвращает список клубов с пагинацией
func (h *ClubHandler) ListClubs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	clubs, err := h.clubService.ListClubs(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clubs": clubs})
}
