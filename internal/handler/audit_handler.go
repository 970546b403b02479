package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuditHandler serves the read-only audit trail.
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditoria godoc
// GET /api/admin/auditoria
// Pages through audit entries, newest first, optionally filtered by
// ?action= (import, create, update, delete) and a ?from=/?to= date range
// (RFC3339 or YYYY-MM-DD).
func (h *AuditHandler) ListAuditoria(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	fields := map[string]string{}
	from, err := parseAuditTime(c.Query("from"))
	if err != nil {
		fields["from"] = "formato de fecha inválido, use RFC3339 o YYYY-MM-DD"
	}
	to, err := parseAuditTime(c.Query("to"))
	if err != nil {
		fields["to"] = "formato de fecha inválido, use RFC3339 o YYYY-MM-DD"
	}
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entries, pagination, err := h.auditService.List(c.Request.Context(), model.AuditFilter{
		Action:  c.Query("action"),
		From:    from,
		To:      to,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if entries == nil {
		entries = []model.AuditEntry{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"auditoria": entries}, pagination)
}

// parseAuditTime reads a date-range bound: RFC3339 for precise bounds, plain
// YYYY-MM-DD for the midnight the admin panel's date pickers send. Empty
// means the bound is open and stays zero.
func parseAuditTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
