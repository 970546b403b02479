package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bolivianotech/consulta-aulas-backend/internal/middleware"
	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/bolivianotech/consulta-aulas-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AssignmentHandler handles the admin CRUD over schedule records.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// ListRegistros godoc
// GET /api/admin/registros
// Paginated listing with optional ?search= and ?turno= filters.
func (h *AssignmentHandler) ListRegistros(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	registros, pagination, err := h.assignmentService.List(c.Request.Context(), model.AssignmentFilter{
		Search:  c.Query("search"),
		Turno:   c.Query("turno"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if registros == nil {
		registros = []model.Assignment{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"registros": registros}, pagination)
}

// GetRegistro godoc
// GET /api/admin/registros/:id
func (h *AssignmentHandler) GetRegistro(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	registro, err := h.assignmentService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"registro": registro})
}

// CreateRegistro godoc
// POST /api/admin/registros
// Creates a schedule record and its audit entry.
func (h *AssignmentHandler) CreateRegistro(c *gin.Context) {
	var req model.CreateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	registro, err := h.assignmentService.Create(c.Request.Context(), &req, middleware.ActorFrom(c))
	if err != nil {
		failMutation(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"mensaje":  "Registro creado exitosamente",
		"registro": registro,
	})
}

// UpdateRegistro godoc
// PUT /api/admin/registros/:id
// Replaces every field of a schedule record.
func (h *AssignmentHandler) UpdateRegistro(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	registro, err := h.assignmentService.Update(c.Request.Context(), id, &req, middleware.ActorFrom(c))
	if err != nil {
		failMutation(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"mensaje":  "Registro actualizado exitosamente",
		"registro": registro,
	})
}

// DeleteRegistro godoc
// DELETE /api/admin/registros/:id
// Deletes a schedule record; the audit entry keeps its last image.
func (h *AssignmentHandler) DeleteRegistro(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		failMutation(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"mensaje": "Registro eliminado exitosamente"})
}

// failMutation maps mutation errors onto the HTTP error surface.
func failMutation(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTurno):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidTurno)
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateKey):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateKey)
	case errors.Is(err, repository.ErrAuditWrite):
		response.Fail(c, http.StatusInternalServerError, response.ErrAuditWrite)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
