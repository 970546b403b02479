package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/schema"
	"github.com/rs/zerolog"
)

// ErrInvalidTurno means the shift is not one of the accepted values.
var ErrInvalidTurno = errors.New("turno is not one of the accepted shifts")

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// AssignmentService handles the admin CRUD over schedule records.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	lookupService  *LookupService
	log            zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, lookupService *LookupService, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		lookupService:  lookupService,
		log:            log.With().Str("component", "assignment_service").Logger(),
	}
}

// List returns a page of assignments. Page and per-page are clamped to sane
// bounds.
func (s *AssignmentService) List(ctx context.Context, f model.AssignmentFilter) ([]model.Assignment, *response.Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}

	registros, total, err := s.assignmentRepo.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	pagination := &response.Pagination{
		Page:       f.Page,
		PerPage:    f.PerPage,
		TotalItems: total,
		TotalPages: (total + f.PerPage - 1) / f.PerPage,
	}
	return registros, pagination, nil
}

// Get retrieves one assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*model.Assignment, error) {
	return s.assignmentRepo.GetByID(ctx, id)
}

// Create validates and stores a new assignment with its audit entry.
func (s *AssignmentService) Create(ctx context.Context, req *model.CreateAssignmentRequest, actor model.Actor) (*model.Assignment, error) {
	a, err := assignmentFromInput(req.Turno, req.Grupo, req.Materia, req.Docente, req.Aula, req.Horario)
	if err != nil {
		return nil, err
	}

	if err := s.assignmentRepo.Create(ctx, a, actor); err != nil {
		return nil, err
	}
	s.lookupService.InvalidateCatalogs(ctx)

	s.log.Info().
		Int64("id", a.ID).
		Str("grupo", a.Grupo).
		Str("aula", a.Aula).
		Msg("Assignment created")
	return a, nil
}

// Update validates and applies changes to an assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, req *model.UpdateAssignmentRequest, actor model.Actor) (*model.Assignment, error) {
	a, err := assignmentFromInput(req.Turno, req.Grupo, req.Materia, req.Docente, req.Aula, req.Horario)
	if err != nil {
		return nil, err
	}
	a.ID = id

	if err := s.assignmentRepo.Update(ctx, a, actor); err != nil {
		return nil, err
	}
	s.lookupService.InvalidateCatalogs(ctx)

	s.log.Info().Int64("id", id).Msg("Assignment updated")
	return a, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64, actor model.Actor) error {
	if err := s.assignmentRepo.Delete(ctx, id, actor); err != nil {
		return err
	}
	s.lookupService.InvalidateCatalogs(ctx)

	s.log.Info().Int64("id", id).Msg("Assignment deleted")
	return nil
}

// assignmentFromInput normalizes and validates user-provided fields. The
// normalized comparison columns are derived later, at the store boundary.
func assignmentFromInput(turno, grupo, materia, docente, aula, horario string) (*model.Assignment, error) {
	t := schema.NormalizeTurno(turno)
	if !schema.IsValidTurno(t) {
		return nil, ErrInvalidTurno
	}

	docente = strings.TrimSpace(docente)
	if docente == "" {
		docente = schema.DefaultDocente
	}

	return &model.Assignment{
		Turno:   t,
		Grupo:   strings.TrimSpace(grupo),
		Materia: strings.TrimSpace(materia),
		Docente: docente,
		Aula:    strings.TrimSpace(aula),
		Horario: strings.TrimSpace(horario),
	}, nil
}
