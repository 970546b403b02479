package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditTimeLayouts(t *testing.T) {
	open, err := parseAuditTime("")
	require.NoError(t, err)
	assert.True(t, open.IsZero())

	precise, err := parseAuditTime("2025-08-04T15:04:05Z")
	require.NoError(t, err)
	assert.True(t, precise.Equal(time.Date(2025, 8, 4, 15, 4, 5, 0, time.UTC)))

	day, err := parseAuditTime("2025-08-04")
	require.NoError(t, err)
	assert.True(t, day.Equal(time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)))

	_, err = parseAuditTime("04/08/2025")
	assert.Error(t, err)
}

func TestListAuditoriaRejectsBadDateRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/admin/auditoria", NewAuditHandler(nil).ListAuditoria)

	for _, path := range []string{
		"/api/admin/auditoria?from=ayer",
		"/api/admin/auditoria?to=2025-13-40",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), string(response.ErrValidation), path)
	}
}
