package model

import "fmt"

// Rejection kinds produced by workbook row validation.
const (
	RejectMissingColumn      = "MissingColumn"
	RejectInvalidType        = "InvalidType"
	RejectEmptyRequiredField = "EmptyRequiredField"
)

// RowError describes why a single workbook row was rejected. Row is the
// 1-based row number in the sheet, so staff can locate it in Excel.
type RowError struct {
	Row    int    `json:"row"`
	Kind   string `json:"kind"`
	Column string `json:"column"`
	Detail string `json:"detail,omitempty"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s(%s)", e.Row, e.Kind, e.Column)
}

// ImportReport summarizes one workbook parse. Accepted counts rows that
// passed validation before duplicate collapsing, so re-parsing the same file
// always yields the same numbers.
type ImportReport struct {
	TotalRows           int        `json:"total_rows"`
	Accepted            int        `json:"accepted"`
	Rejected            int        `json:"rejected"`
	RejectionReasons    []RowError `json:"rejection_reasons"`
	DuplicatesCollapsed int        `json:"duplicates_collapsed"`
}

// ReplaceStats reports how a full dataset replacement changed the store,
// compared by natural key.
type ReplaceStats struct {
	PreviousCount int `json:"previous_count"`
	NewCount      int `json:"new_count"`
	Added         int `json:"added"`
	Removed       int `json:"removed"`
}

// ImportSummary is the response payload of a completed workbook import.
type ImportSummary struct {
	Filename            string     `json:"filename"`
	TotalRows           int        `json:"total_rows"`
	Accepted            int        `json:"accepted"`
	Rejected            int        `json:"rejected"`
	RejectionReasons    []RowError `json:"rejection_reasons"`
	DuplicatesCollapsed int        `json:"duplicates_collapsed"`
	PreviousCount       int        `json:"previous_count"`
	NewCount            int        `json:"new_count"`
	Added               int        `json:"added"`
	Removed             int        `json:"removed"`
}
