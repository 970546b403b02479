package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// consultaRouter wires only the query guard under test. The service is nil
// on purpose: a request that fails the guard must never reach it.
func consultaRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/consulta", NewLookupHandler(nil).Consulta)
	return router
}

func TestConsultaRejectsMissingQuery(t *testing.T) {
	router := consultaRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/consulta", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrQueryRequired))
}

func TestConsultaRejectsBlankQuery(t *testing.T) {
	// A whitespace-only term folds to the empty string downstream, which
	// would match every record. It has to fail the required-query check the
	// same way a missing term does.
	router := consultaRouter()

	for _, path := range []string{
		"/api/consulta?q=%20",
		"/api/consulta?q=+++",
		"/api/consulta?docente=%20%20",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), string(response.ErrQueryRequired), path)
	}
}
