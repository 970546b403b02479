package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/bolivianotech/consulta-aulas-backend/internal/importer"
	"github.com/bolivianotech/consulta-aulas-backend/internal/middleware"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadHandler receives the weekly schedule workbook and replaces the
// dataset with its contents.
type UploadHandler struct {
	importService  *service.ImportService
	maxUploadBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(importService *service.ImportService, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{importService: importService, maxUploadBytes: maxUploadBytes}
}

// Upload godoc
// POST /api/admin/upload
// Accepts a multipart "file" field with the LISTADO GENERAL POR GRUPOS
// workbook and answers with the import summary.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if !importer.AllowedExtension(header.Filename) {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}
	if header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	resumen, err := h.importService.ImportWorkbook(c.Request.Context(), data, header.Filename, middleware.ActorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnreadableFile):
			response.Fail(c, http.StatusBadRequest, response.ErrUnreadableFile)
		case errors.Is(err, importer.ErrEmptyImport):
			response.Fail(c, http.StatusBadRequest, response.ErrImportEmpty)
		case errors.Is(err, repository.ErrDuplicateKey):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateKey)
		case errors.Is(err, repository.ErrAuditWrite):
			response.Fail(c, http.StatusInternalServerError, response.ErrAuditWrite)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"mensaje": "Archivo procesado exitosamente",
		"resumen": resumen,
	})
}
