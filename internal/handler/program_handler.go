package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/skiclub-api/internal/service"
)

// ProgramHandler обрабатывает запросы управления сезонами и программами клуба
type ProgramHandler struct {
	programService      *service.ProgramService
	registrationService *service.RegistrationService
}

// NewProgramHandler создает новый обработчик программ
func NewProgramHandler(programService *service.ProgramService, registrationService *service.RegistrationService) *ProgramHandler {
	return &ProgramHandler{
		programService:      programService,
		registrationService: registrationService,
	}
}

// CreateSeasonRequest представляет запрос на создание сезона
type CreateSeasonRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	StartsOn string `json:"starts_on" binding:"required,datetime=2006-01-02"`
	EndsOn   string `json:"ends_on" binding:"required,datetime=2006-01-02"`
}

// CreateSeason создает новый сезон клуба
func (h *ProgramHandler) CreateSeason(c *gin.Context) {
	clubID, ok := getClubID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Club context required", "error_type": "forbidden"})
		return
	}

	var req CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	startsOn, err := time.Parse("2006-01-02", req.StartsOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid starts_on, expected YYYY-MM-DD", "error_type": "validation"})
		return
	}
	endsOn, err := time.Parse("2006-01-02", req.EndsOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ends_on, expected YYYY-MM-DD", "error_type": "validation"})
		return
	}

	season, err := h.programService.CreateSeason(clubID, req.Name, startsOn, endsOn)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, season)
}

// ListSeasons возвращает список сезонов клуба
func (h *ProgramHandler) ListSeasons(c *gin.Context) {
	clubID, ok := getClubID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Club context required", "error_type": "forbidden"})
		return
	}

	seasons, err := h.programService.ListSeasons(clubID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seasons": seasons})
}

// ActivateSeason делает сезон активным (и деактивирует остальные)
func (h *ProgramHandler) ActivateSeason(c *gin.Context) {
	clubID, ok := getClubID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Club context required", "error_type": "forbidden"})
		return
	}
	seasonID := c.GetUint("seasonID")

	if err := h.programService.ActivateSeason(clubID, seasonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Season activated"})
}

// ProgramRequest представляет запрос на создание или обновление программы
type ProgramRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Discipline  string `json:"discipline" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	MinAge      int    `json:"min_age" binding:"required,min=3,max=25"`
	MaxAge      int    `json:"max_age" binding:"required,min=3,max=25"`
	Capacity    int    `json:"capacity" binding:"required,min=1,max=500"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	CoachID     *uint  `json:"coach_id"`
}

func (r *ProgramRequest) toInput() service.ProgramInput {
	return service.ProgramInput{
		Name:        r.Name,
		Discipline:  r.Discipline,
		Description: r.Description,
		MinAge:      r.MinAge,
		MaxAge:      r.MaxAge,
		Capacity:    r.Capacity,
		PriceCents:  r.PriceCents,
		Currency:    r.Currency,
		CoachID:     r.CoachID,
	}
}

// CreateProgram создает программу в сезоне
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	clubID, ok := getClubID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Club context required", "error_type": "forbidden"})
		return
	}
	seasonID := c.GetUint("seasonID")

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	program, err := h.programService.CreateProgram(clubID, seasonID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// GetProgram возвращает программу по ID
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID := c.GetUint("programID")
	program, err := h.programService.GetProgram(programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// ListPrograms возвращает программы сезона
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	seasonID := c.GetUint("seasonID")
	programs, err := h.programService.ListPrograms(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

// UpdateProgram обновляет программу
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	clubID, ok := getClubID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Club context required", "error_type": "forbidden"})
		return
	}
	programID := c.GetUint("programID")

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	program, err := h.programService.UpdateProgram(clubID, programID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// ExportRoster экспортирует ростер программы (CSV или XLSX)
func (h *ProgramHandler) ExportRoster(c *gin.Context) {
	programID := c.GetUint("programID")
	format := c.DefaultQuery("format", "csv")

	entries, err := h.registrationService.Roster(programID)
	if err != nil {
		respondError(c, err)
		return
	}

	program, err := h.programService.GetProgram(programID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("roster_%d_%s", programID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportRosterXLSX(c, entries, program.Name, filename)
	default:
		h.exportRosterCSV(c, entries, filename)
	}
}

// exportRosterCSV экспортирует ростер в CSV с правильным экранированием спецсимволов
func (h *ProgramHandler) exportRosterCSV(c *gin.Context, entries []service.RosterEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Имя", "Фамилия", "Возраст", "Статус", "Оплата", "Дата записи"})

	for _, e := range entries {
		writer.Write([]string{
			sanitizeForExcel(e.AthleteFirstName),
			sanitizeForExcel(e.AthleteLastName),
			strconv.Itoa(e.Age),
			e.Status,
			e.PaymentStatus,
			e.RegisteredAt.Format("2006-01-02 15:04"),
		})
	}
}

// exportRosterXLSX экспортирует ростер в Excel с использованием StreamWriter
func (h *ProgramHandler) exportRosterXLSX(c *gin.Context, entries []service.RosterEntry, sheetTitle, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Ростер"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ProgramHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Имя", "Фамилия", "Возраст", "Статус", "Оплата", "Дата записи"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ProgramHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range entries {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(e.AthleteFirstName),
			sanitizeForExcel(e.AthleteLastName),
			e.Age,
			e.Status,
			e.PaymentStatus,
			e.RegisteredAt.Format("2006-01-02 15:04"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ProgramHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ProgramHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ProgramHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
