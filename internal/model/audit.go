package model

import (
	"encoding/json"
	"time"
)

// Audit actions recorded by the service.
const (
	AuditActionImport = "import"
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditEntry is one append-only audit log row. Entries are never updated or
// deleted; the auditlog table enforces that with a trigger.
type AuditEntry struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	RecordID  *int64          `json:"record_id,omitempty"`
	ClientID  string          `json:"client_id,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	Extra     json.RawMessage `json:"extra,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Actor identifies who performed a mutation, taken from request headers.
// There is no account system; the context is advisory and recorded as-is.
type Actor struct {
	ClientID  string
	UserAgent string
}

// AuditFilter narrows audit trail listings by action kind and date range.
// Zero From/To leave that bound open.
type AuditFilter struct {
	Action  string
	From    time.Time
	To      time.Time
	Page    int
	PerPage int
}
