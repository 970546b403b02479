package model

import "time"

// Backup is the downloadable JSON snapshot of the dataset plus the recent
// audit tail. The assignment fields are sufficient to reconstruct the
// dataset; normalized columns are re-derived on restore.
type Backup struct {
	ExportedAt   time.Time    `json:"exported_at"`
	Total        int          `json:"total"`
	Asignaciones []Assignment `json:"asignaciones"`
	Auditoria    []AuditEntry `json:"auditoria"`
}
