package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves the JSON backup download.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export godoc
// GET /api/admin/export
// Sends the full dataset plus the recent audit tail as a timestamped JSON
// attachment. The download is raw JSON, not the API envelope, so the file
// can be archived or re-imported as-is.
func (h *ExportHandler) Export(c *gin.Context) {
	backup, err := h.exportService.BuildBackup(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	payload, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := service.BackupFilename(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
