package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реального сервиса,
// handler возвращает 400 до обращения к бизнес-логике
// ============================================================================

func TestAddAthlete_DateValidation(t *testing.T) {
	handler := &RegistrationHandler{}

	tests := []struct {
		name      string
		birthDate string
	}{
		{name: "wrong order", birthDate: "15-06-2014"},
		{name: "not a date", birthDate: "yesterday"},
		{name: "impossible day", birthDate: "2014-02-30"},
		{name: "empty", birthDate: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/athletes", map[string]string{
				"first_name": "Анна",
				"last_name":  "Иванова",
				"birth_date": tt.birthDate,
			})
			c.Set("userID", uint(5))
			c.Set("clubID", uint(1))

			handler.AddAthlete(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "validation", resp["error_type"])
		})
	}
}

func TestAddAthlete_MissingClubContext(t *testing.T) {
	handler := &RegistrationHandler{}

	c, w := newTestGinContext("POST", "/api/athletes", map[string]string{
		"first_name": "Анна",
		"last_name":  "Иванова",
		"birth_date": "2014-06-15",
	})
	c.Set("userID", uint(5))
	// clubID не установлен — аккаунт вне клуба не может добавлять атлетов

	handler.AddAthlete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateSeason_DateValidation(t *testing.T) {
	handler := &ProgramHandler{}

	tests := []struct {
		name     string
		startsOn string
		endsOn   string
	}{
		{name: "bad starts_on", startsOn: "01.12.2026", endsOn: "2027-04-30"},
		{name: "bad ends_on", startsOn: "2026-12-01", endsOn: "April 30"},
		{name: "both empty", startsOn: "", endsOn: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/seasons", map[string]string{
				"name":      "Зима 2026/27",
				"starts_on": tt.startsOn,
				"ends_on":   tt.endsOn,
			})
			c.Set("clubID", uint(1))

			handler.CreateSeason(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "validation", resp["error_type"])
		})
	}
}
