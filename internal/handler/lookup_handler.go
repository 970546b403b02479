package handler

import (
	"net/http"
	"strings"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/schema"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// LookupHandler serves the public schedule queries consumed by the
// consultation UI.
type LookupHandler struct {
	lookupService *service.LookupService
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// suggestion is one autocomplete entry; tipo is "docente" or "materia".
type suggestion struct {
	Texto string `json:"texto"`
	Tipo  string `json:"tipo"`
}

// Docentes godoc
// GET /api/docentes
// Lists teacher names, optionally filtered by ?q=.
func (h *LookupHandler) Docentes(c *gin.Context) {
	docentes, err := h.lookupService.Docentes(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if docentes == nil {
		docentes = []string{}
	}

	response.Success(c, http.StatusOK, gin.H{"docentes": docentes, "total": len(docentes)})
}

// Sugerencias godoc
// GET /api/sugerencias
// Autocomplete for the search box: teacher matches first, then subjects.
func (h *LookupHandler) Sugerencias(c *gin.Context) {
	docentes, materias, err := h.lookupService.Sugerencias(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	sugerencias := make([]suggestion, 0, len(docentes)+len(materias))
	for _, d := range docentes {
		sugerencias = append(sugerencias, suggestion{Texto: d, Tipo: "docente"})
	}
	for _, m := range materias {
		sugerencias = append(sugerencias, suggestion{Texto: m, Tipo: "materia"})
	}

	response.Success(c, http.StatusOK, gin.H{"sugerencias": sugerencias, "total": len(sugerencias)})
}

// Consulta godoc
// GET /api/consulta
// Main schedule lookup. Accepts ?q= (or the legacy ?docente=) plus an
// optional ?turno= filter. Terms are trimmed before the required-query
// check, so a whitespace-only q is rejected instead of matching everything
// once folded.
func (h *LookupHandler) Consulta(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		q = strings.TrimSpace(c.Query("docente"))
	}
	if q == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrQueryRequired)
		return
	}

	turno := schema.NormalizeTurno(c.Query("turno"))

	resultados, criterio, err := h.lookupService.Consulta(c.Request.Context(), q, turno)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if resultados == nil {
		resultados = []model.Assignment{}
	}

	var encontrado interface{}
	if len(resultados) > 0 {
		if criterio == "docente" {
			encontrado = resultados[0].Docente
		} else {
			encontrado = resultados[0].Materia
		}
	}

	var turnoFiltro interface{}
	if turno != "" {
		turnoFiltro = turno
	}

	response.Success(c, http.StatusOK, gin.H{
		"tipo_busqueda":      criterio,
		"encontrado":         encontrado,
		"consulta":           q,
		"turno_filtro":       turnoFiltro,
		"total_asignaciones": len(resultados),
		"asignaciones":       resultados,
	})
}

// Aulas godoc
// GET /api/aulas
// Classroom-centric listing with optional ?turno=, ?materia= and ?aula=
// filters.
func (h *LookupHandler) Aulas(c *gin.Context) {
	turno := schema.NormalizeTurno(c.Query("turno"))
	materia := strings.TrimSpace(c.Query("materia"))
	aula := strings.TrimSpace(c.Query("aula"))

	resultados, err := h.lookupService.Aulas(c.Request.Context(), turno, materia, aula)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if resultados == nil {
		resultados = []model.Assignment{}
	}

	filtros := gin.H{"turno": nil, "materia": nil, "aula": nil}
	if turno != "" {
		filtros["turno"] = turno
	}
	if materia != "" {
		filtros["materia"] = materia
	}
	if aula != "" {
		filtros["aula"] = aula
	}

	response.Success(c, http.StatusOK, gin.H{
		"total":        len(resultados),
		"filtros":      filtros,
		"asignaciones": resultados,
	})
}
