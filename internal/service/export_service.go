package service

import (
	"context"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/rs/zerolog"
)

// exportAuditTail is how many recent audit entries ride along in a backup.
const exportAuditTail = 200

// ExportService builds the downloadable JSON snapshot of the dataset.
type ExportService struct {
	assignmentRepo *repository.AssignmentRepository
	auditRepo      *repository.AuditRepository
	log            zerolog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(assignmentRepo *repository.AssignmentRepository, auditRepo *repository.AuditRepository, log zerolog.Logger) *ExportService {
	return &ExportService{
		assignmentRepo: assignmentRepo,
		auditRepo:      auditRepo,
		log:            log.With().Str("component", "export_service").Logger(),
	}
}

// BuildBackup assembles the full dataset plus the recent audit tail.
func (s *ExportService) BuildBackup(ctx context.Context) (*model.Backup, error) {
	asignaciones, err := s.assignmentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	auditoria, err := s.auditRepo.Recent(ctx, exportAuditTail)
	if err != nil {
		return nil, err
	}

	if asignaciones == nil {
		asignaciones = []model.Assignment{}
	}
	if auditoria == nil {
		auditoria = []model.AuditEntry{}
	}

	s.log.Info().
		Int("asignaciones", len(asignaciones)).
		Int("auditoria", len(auditoria)).
		Msg("Backup built")

	return &model.Backup{
		ExportedAt:   time.Now().UTC(),
		Total:        len(asignaciones),
		Asignaciones: asignaciones,
		Auditoria:    auditoria,
	}, nil
}

// BackupFilename returns the attachment name for a backup taken at ts.
func BackupFilename(ts time.Time) string {
	return "consultas_backup_" + ts.Format("20060102_150405") + ".json"
}
