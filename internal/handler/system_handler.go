package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "API de Consulta de Aulas - UPDS"
	serviceVersion = "4.0"

	// healthTimeout caps the stats queries so a wedged database cannot
	// stall the health endpoint.
	healthTimeout = 2 * time.Second
)

// SystemHandler serves the service info and health endpoints.
type SystemHandler struct {
	lookupService *service.LookupService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(lookupService *service.LookupService) *SystemHandler {
	return &SystemHandler{lookupService: lookupService}
}

// Root godoc
// GET /
// Announces the service and its endpoint map.
func (h *SystemHandler) Root(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"message": serviceName,
		"version": serviceVersion,
		"endpoints": gin.H{
			"/api/health":               "Verificación de estado del servicio",
			"/api/docentes":             "Lista docentes (opcional: ?q=filtro)",
			"/api/sugerencias":          "Autocompletado (docentes/materias)",
			"/api/consulta":             "Consulta por docente o materia (?q=...)",
			"/api/aulas":                "Lista asignaciones con filtros",
			"/api/admin/registros":      "CRUD de registros (admin)",
			"/api/admin/upload":         "Subir Excel (admin)",
			"/api/admin/export":         "Descargar respaldo JSON (admin)",
			"/api/admin/auditoria":      "Historial de cambios (admin)",
			"/api/admin/session/active": "Sesiones administrativas activas",
		},
	})
}

// Health godoc
// GET /api/health
// Always answers 200. The dataset counters are best-effort: when the store
// is unreachable within the timeout, the response says so instead of
// failing.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	data := gin.H{"status": "ok"}

	stats, err := h.lookupService.Stats(ctx)
	if err != nil {
		data["database"] = "unavailable"
	} else {
		data["database"] = "ok"
		data["total_asignaciones"] = stats.TotalAsignaciones
		data["total_docentes"] = stats.TotalDocentes
	}

	response.Success(c, http.StatusOK, data)
}
