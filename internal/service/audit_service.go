package service

import (
	"context"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
)

// AuditService exposes the read side of the audit trail. Writes happen only
// inside repository transactions alongside the mutation they describe.
type AuditService struct {
	auditRepo *repository.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// List returns a page of audit entries, newest first, optionally filtered by
// action and created_at range.
func (s *AuditService) List(ctx context.Context, f model.AuditFilter) ([]model.AuditEntry, *response.Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}

	entries, total, err := s.auditRepo.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	pagination := &response.Pagination{
		Page:       f.Page,
		PerPage:    f.PerPage,
		TotalItems: total,
		TotalPages: (total + f.PerPage - 1) / f.PerPage,
	}
	return entries, pagination, nil
}
