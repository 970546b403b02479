package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository reads the append-only audit trail. There are deliberately
// no update or delete methods; the auditlog trigger rejects them anyway.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// List returns audit entries newest first (the total order by created_at
// and id, read backwards) with pagination, an optional action filter and an
// optional created_at range. Zero From/To bounds are skipped.
func (r *AuditRepository) List(ctx context.Context, f model.AuditFilter) ([]model.AuditEntry, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Action != "" {
		args = append(args, f.Action)
		where = append(where, `action = $`+strconv.Itoa(len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		where = append(where, `created_at >= $`+strconv.Itoa(len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where = append(where, `created_at <= $`+strconv.Itoa(len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = ` WHERE ` + strings.Join(where, ` AND `)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM auditlog`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitIdx := strconv.Itoa(len(args) + 1)
	offsetIdx := strconv.Itoa(len(args) + 2)
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)

	entries, err := r.queryEntries(ctx,
		`SELECT id, action, record_id, client_id, user_agent, old_value, new_value, extra, created_at
		 FROM auditlog`+clause+` ORDER BY created_at DESC, id DESC LIMIT $`+limitIdx+` OFFSET $`+offsetIdx,
		args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Recent returns the newest n entries in chronological order, used for the
// audit tail of the export backup.
func (r *AuditRepository) Recent(ctx context.Context, n int) ([]model.AuditEntry, error) {
	entries, err := r.queryEntries(ctx,
		`SELECT id, action, record_id, client_id, user_agent, old_value, new_value, extra, created_at
		 FROM auditlog ORDER BY created_at DESC, id DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (r *AuditRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]model.AuditEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var (
			e                   model.AuditEntry
			clientID, userAgent *string
			oldV, newV, extra   []byte
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.RecordID, &clientID, &userAgent,
			&oldV, &newV, &extra, &e.CreatedAt); err != nil {
			return nil, err
		}
		if clientID != nil {
			e.ClientID = *clientID
		}
		if userAgent != nil {
			e.UserAgent = *userAgent
		}
		e.OldValue = oldV
		e.NewValue = newV
		e.Extra = extra
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
