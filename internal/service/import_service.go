package service

import (
	"context"

	"github.com/bolivianotech/consulta-aulas-backend/internal/importer"
	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ImportService glues the workbook importer to the atomic dataset
// replacement. A parse failure aborts before the store is touched; a store
// or audit failure leaves the previous dataset intact.
type ImportService struct {
	assignmentRepo *repository.AssignmentRepository
	lookupService  *LookupService
	log            zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(assignmentRepo *repository.AssignmentRepository, lookupService *LookupService, log zerolog.Logger) *ImportService {
	return &ImportService{
		assignmentRepo: assignmentRepo,
		lookupService:  lookupService,
		log:            log.With().Str("component", "import_service").Logger(),
	}
}

// ImportWorkbook parses an uploaded workbook and replaces the whole dataset
// with its rows. Re-importing the same file yields the same summary counts
// and an equivalent dataset.
func (s *ImportService) ImportWorkbook(ctx context.Context, data []byte, filename string, actor model.Actor) (*model.ImportSummary, error) {
	res, err := importer.Parse(data, filename)
	if err != nil {
		return nil, err
	}

	for _, rej := range res.Report.RejectionReasons {
		s.log.Warn().
			Str("filename", filename).
			Str("reason", rej.String()).
			Msg("Workbook row rejected")
	}

	stats, err := s.assignmentRepo.ReplaceAll(ctx, res.Candidates, actor, filename)
	if err != nil {
		return nil, err
	}

	s.lookupService.InvalidateCatalogs(ctx)

	s.log.Info().
		Str("filename", filename).
		Int("accepted", res.Report.Accepted).
		Int("rejected", res.Report.Rejected).
		Int("collapsed", res.Report.DuplicatesCollapsed).
		Int("previous_count", stats.PreviousCount).
		Int("new_count", stats.NewCount).
		Msg("Dataset replaced from workbook")

	summary := &model.ImportSummary{
		Filename:            filename,
		TotalRows:           res.Report.TotalRows,
		Accepted:            res.Report.Accepted,
		Rejected:            res.Report.Rejected,
		RejectionReasons:    res.Report.RejectionReasons,
		DuplicatesCollapsed: res.Report.DuplicatesCollapsed,
		PreviousCount:       stats.PreviousCount,
		NewCount:            stats.NewCount,
		Added:               stats.Added,
		Removed:             stats.Removed,
	}
	if summary.RejectionReasons == nil {
		summary.RejectionReasons = []model.RowError{}
	}
	return summary, nil
}
