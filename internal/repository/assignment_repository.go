package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("assignment not found")
	ErrDuplicateKey = errors.New("assignment with this grupo, aula and horario already exists")
	// ErrAuditWrite means the audit entry could not be written. The mutation
	// it belonged to was rolled back.
	ErrAuditWrite = errors.New("audit entry could not be written")
)

const assignmentCols = `id, turno, grupo, materia, docente, aula, horario,
	grupo_norm, materia_norm, docente_norm, aula_norm, horario_norm, updated_at`

// AssignmentRepository handles schedule record access. Every mutation writes
// its audit entry inside the same transaction, so a record change is never
// visible without its trail.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+assignmentCols+` FROM asignaciones WHERE id = $1`, id,
	).Scan(&a.ID, &a.Turno, &a.Grupo, &a.Materia, &a.Docente, &a.Aula, &a.Horario,
		&a.GrupoNorm, &a.MateriaNorm, &a.DocenteNorm, &a.AulaNorm, &a.HorarioNorm, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// List retrieves assignments with pagination, optional shift filter and a
// fuzzy search across the normalized columns.
func (r *AssignmentRepository) List(ctx context.Context, f model.AssignmentFilter) ([]model.Assignment, int, error) {
	var (
		where []string
		args  []interface{}
	)

	if f.Search != "" {
		args = append(args, "%"+schema.Fold(f.Search)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, `(grupo_norm LIKE $`+n+` OR materia_norm LIKE $`+n+
			` OR docente_norm LIKE $`+n+` OR aula_norm LIKE $`+n+` OR horario_norm LIKE $`+n+`)`)
	}
	if f.Turno != "" {
		args = append(args, schema.NormalizeTurno(f.Turno))
		where = append(where, `turno = $`+strconv.Itoa(len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = ` WHERE ` + strings.Join(where, ` AND `)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM asignaciones`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitIdx := strconv.Itoa(len(args) + 1)
	offsetIdx := strconv.Itoa(len(args) + 2)
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)

	list, err := r.queryAssignments(ctx,
		`SELECT `+assignmentCols+` FROM asignaciones`+clause+
			` ORDER BY turno, materia, grupo LIMIT $`+limitIdx+` OFFSET $`+offsetIdx,
		args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Create inserts a new assignment and its audit entry in one transaction.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment, actor model.Actor) error {
	schema.Derive(a)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO asignaciones (turno, grupo, materia, docente, aula, horario,
		   grupo_norm, materia_norm, docente_norm, aula_norm, horario_norm)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, updated_at`,
		a.Turno, a.Grupo, a.Materia, a.Docente, a.Aula, a.Horario,
		a.GrupoNorm, a.MateriaNorm, a.DocenteNorm, a.AulaNorm, a.HorarioNorm,
	).Scan(&a.ID, &a.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	newImg, err := json.Marshal(a)
	if err != nil {
		return err
	}
	entry := &model.AuditEntry{
		Action:    model.AuditActionCreate,
		RecordID:  &a.ID,
		ClientID:  actor.ClientID,
		UserAgent: actor.UserAgent,
		NewValue:  newImg,
	}
	if err := appendAudit(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update modifies an assignment, capturing the before image for the audit
// entry inside the same transaction.
func (r *AssignmentRepository) Update(ctx context.Context, a *model.Assignment, actor model.Actor) error {
	schema.Derive(a)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	old := model.Assignment{}
	err = tx.QueryRow(ctx,
		`SELECT `+assignmentCols+` FROM asignaciones WHERE id = $1 FOR UPDATE`, a.ID,
	).Scan(&old.ID, &old.Turno, &old.Grupo, &old.Materia, &old.Docente, &old.Aula, &old.Horario,
		&old.GrupoNorm, &old.MateriaNorm, &old.DocenteNorm, &old.AulaNorm, &old.HorarioNorm, &old.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	err = tx.QueryRow(ctx,
		`UPDATE asignaciones
		 SET turno = $1, grupo = $2, materia = $3, docente = $4, aula = $5, horario = $6,
		     grupo_norm = $7, materia_norm = $8, docente_norm = $9, aula_norm = $10, horario_norm = $11,
		     updated_at = NOW()
		 WHERE id = $12
		 RETURNING updated_at`,
		a.Turno, a.Grupo, a.Materia, a.Docente, a.Aula, a.Horario,
		a.GrupoNorm, a.MateriaNorm, a.DocenteNorm, a.AulaNorm, a.HorarioNorm, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	oldImg, err := json.Marshal(old)
	if err != nil {
		return err
	}
	newImg, err := json.Marshal(a)
	if err != nil {
		return err
	}
	entry := &model.AuditEntry{
		Action:    model.AuditActionUpdate,
		RecordID:  &a.ID,
		ClientID:  actor.ClientID,
		UserAgent: actor.UserAgent,
		OldValue:  oldImg,
		NewValue:  newImg,
	}
	if err := appendAudit(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes an assignment, recording its last image in the audit trail.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64, actor model.Actor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	old := model.Assignment{}
	err = tx.QueryRow(ctx,
		`DELETE FROM asignaciones WHERE id = $1 RETURNING `+assignmentCols, id,
	).Scan(&old.ID, &old.Turno, &old.Grupo, &old.Materia, &old.Docente, &old.Aula, &old.Horario,
		&old.GrupoNorm, &old.MateriaNorm, &old.DocenteNorm, &old.AulaNorm, &old.HorarioNorm, &old.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	oldImg, err := json.Marshal(old)
	if err != nil {
		return err
	}
	entry := &model.AuditEntry{
		Action:    model.AuditActionDelete,
		RecordID:  &id,
		ClientID:  actor.ClientID,
		UserAgent: actor.UserAgent,
		OldValue:  oldImg,
	}
	if err := appendAudit(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceAll swaps the whole dataset for the candidate set in a single
// transaction: snapshot the previous natural keys, delete everything, bulk
// insert via COPY and append the import audit entry. Readers keep seeing the
// previous snapshot until the commit; a failure at any step leaves the
// dataset untouched.
func (r *AssignmentRepository) ReplaceAll(ctx context.Context, candidates []model.Assignment, actor model.Actor, filename string) (*model.ReplaceStats, error) {
	if dups := schema.DuplicateKeys(candidates); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate natural keys: %s", ErrDuplicateKey, strings.Join(dups, "; "))
	}
	for i := range candidates {
		schema.Derive(&candidates[i])
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	prev, err := previousKeySet(ctx, tx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM asignaciones`); err != nil {
		return nil, err
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"asignaciones"},
		[]string{"turno", "grupo", "materia", "docente", "aula", "horario",
			"grupo_norm", "materia_norm", "docente_norm", "aula_norm", "horario_norm"},
		pgx.CopyFromSlice(len(candidates), func(i int) ([]interface{}, error) {
			a := candidates[i]
			return []interface{}{a.Turno, a.Grupo, a.Materia, a.Docente, a.Aula, a.Horario,
				a.GrupoNorm, a.MateriaNorm, a.DocenteNorm, a.AulaNorm, a.HorarioNorm}, nil
		}))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	added, removed := schema.DiffStats(prev, candidates)
	stats := &model.ReplaceStats{
		PreviousCount: len(prev),
		NewCount:      len(candidates),
		Added:         added,
		Removed:       removed,
	}

	extra, err := json.Marshal(map[string]interface{}{
		"filename":       filename,
		"previous_count": stats.PreviousCount,
		"new_count":      stats.NewCount,
		"added":          stats.Added,
		"removed":        stats.Removed,
	})
	if err != nil {
		return nil, err
	}
	entry := &model.AuditEntry{
		Action:    model.AuditActionImport,
		ClientID:  actor.ClientID,
		UserAgent: actor.UserAgent,
		Extra:     extra,
	}
	if err := appendAudit(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// CountAll returns the number of assignments.
func (r *AssignmentRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM asignaciones`).Scan(&n)
	return n, err
}

// CountDocentes returns the number of distinct teachers. The NO DEFINIDO
// placeholder is not a teacher and never counts.
func (r *AssignmentRepository) CountDocentes(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT docente_norm) FROM asignaciones WHERE docente_norm <> 'no definido'`).Scan(&n)
	return n, err
}

// ListDocentes returns every distinct teacher name except the NO DEFINIDO
// placeholder, sorted accent-insensitively.
func (r *AssignmentRepository) ListDocentes(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT docente FROM asignaciones WHERE docente_norm <> 'no definido'
		 GROUP BY docente, docente_norm ORDER BY docente_norm, docente`)
}

// ListMaterias returns every distinct subject name, sorted
// accent-insensitively.
func (r *AssignmentRepository) ListMaterias(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT materia FROM asignaciones
		 GROUP BY materia, materia_norm ORDER BY materia_norm, materia`)
}

// SearchDocentes returns distinct teacher names whose normalized form
// contains the folded needle.
func (r *AssignmentRepository) SearchDocentes(ctx context.Context, q string) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT docente FROM asignaciones
		 WHERE docente_norm LIKE $1 AND docente_norm <> 'no definido'
		 GROUP BY docente, docente_norm ORDER BY docente_norm, docente`,
		"%"+schema.Fold(q)+"%")
}

// SuggestDocentes returns up to limit teacher suggestions for an
// autocomplete substring search.
func (r *AssignmentRepository) SuggestDocentes(ctx context.Context, q string, limit int) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT docente FROM asignaciones WHERE docente_norm LIKE $1
		 GROUP BY docente, docente_norm ORDER BY docente_norm, docente LIMIT $2`,
		"%"+schema.Fold(q)+"%", limit)
}

// SuggestMaterias returns up to limit subject suggestions for an
// autocomplete substring search.
func (r *AssignmentRepository) SuggestMaterias(ctx context.Context, q string, limit int) ([]string, error) {
	return r.queryStrings(ctx,
		`SELECT materia FROM asignaciones WHERE materia_norm LIKE $1
		 GROUP BY materia, materia_norm ORDER BY materia_norm, materia LIMIT $2`,
		"%"+schema.Fold(q)+"%", limit)
}

// SearchByDocente returns the schedule rows of teachers matching the needle.
// The consulta shift filter is applied by the caller after the match, so the
// chosen criterio reflects the unfiltered result.
func (r *AssignmentRepository) SearchByDocente(ctx context.Context, q string) ([]model.Assignment, error) {
	return r.searchBy(ctx, `docente_norm`, q)
}

// SearchByMateria returns the schedule rows of subjects matching the needle.
func (r *AssignmentRepository) SearchByMateria(ctx context.Context, q string) ([]model.Assignment, error) {
	return r.searchBy(ctx, `materia_norm`, q)
}

func (r *AssignmentRepository) searchBy(ctx context.Context, column, q string) ([]model.Assignment, error) {
	return r.queryAssignments(ctx,
		`SELECT `+assignmentCols+` FROM asignaciones WHERE `+column+` LIKE $1
		 ORDER BY turno, horario, materia`,
		"%"+schema.Fold(q)+"%")
}

// FilterAulas returns schedule rows filtered by any combination of shift,
// subject and classroom.
func (r *AssignmentRepository) FilterAulas(ctx context.Context, turno, materia, aula string) ([]model.Assignment, error) {
	var (
		where []string
		args  []interface{}
	)
	if turno != "" {
		args = append(args, schema.NormalizeTurno(turno))
		where = append(where, `turno = $`+strconv.Itoa(len(args)))
	}
	if materia != "" {
		args = append(args, "%"+schema.Fold(materia)+"%")
		where = append(where, `materia_norm LIKE $`+strconv.Itoa(len(args)))
	}
	if aula != "" {
		args = append(args, "%"+schema.Fold(aula)+"%")
		where = append(where, `aula_norm LIKE $`+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + assignmentCols + ` FROM asignaciones`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY aula, horario`
	return r.queryAssignments(ctx, query, args...)
}

// GetAll returns the full dataset ordered for export.
func (r *AssignmentRepository) GetAll(ctx context.Context) ([]model.Assignment, error) {
	return r.queryAssignments(ctx,
		`SELECT `+assignmentCols+` FROM asignaciones ORDER BY turno, materia, grupo, id`)
}

func (r *AssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Turno, &a.Grupo, &a.Materia, &a.Docente, &a.Aula, &a.Horario,
			&a.GrupoNorm, &a.MateriaNorm, &a.DocenteNorm, &a.AulaNorm, &a.HorarioNorm, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AssignmentRepository) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// previousKeySet reads the natural keys of the current dataset inside the
// replace transaction, in the same form schema.NaturalKey produces.
func previousKeySet(ctx context.Context, tx pgx.Tx) (map[string]struct{}, error) {
	rows, err := tx.Query(ctx, `SELECT grupo_norm, aula_norm, horario_norm FROM asignaciones`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var g, a, h string
		if err := rows.Scan(&g, &a, &h); err != nil {
			return nil, err
		}
		keys[g+"|"+a+"|"+h] = struct{}{}
	}
	return keys, rows.Err()
}

// appendAudit writes one audit entry inside the caller's transaction. A
// failure here must roll back the whole mutation.
func appendAudit(ctx context.Context, tx pgx.Tx, e *model.AuditEntry) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO auditlog (action, record_id, client_id, user_agent, old_value, new_value, extra)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.Action, e.RecordID, nullIfEmpty(e.ClientID), nullIfEmpty(e.UserAgent),
		[]byte(e.OldValue), []byte(e.NewValue), []byte(e.Extra),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateKey
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
