// Package importer parses the academic office workbook ("LISTADO GENERAL
// POR GRUPOS") into candidate schedule records plus a row-level report.
// Parsing either produces a complete candidate set or fails as a whole;
// there are no silent partial imports.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/schema"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadableFile means the payload is not a readable workbook in the
	// expected report format.
	ErrUnreadableFile = errors.New("unreadable workbook")
	// ErrEmptyImport means parsing succeeded but no row passed validation.
	// The record store must not be touched in that case.
	ErrEmptyImport = errors.New("no valid rows in workbook")
)

// Fixed layout of the LISTADO GENERAL POR GRUPOS report. The layout is
// configuration agreed with the academic office, never inferred from data.
// Column indexes are 0-based positions within a sheet row.
const (
	reportMarker = "LISTADO GENERAL POR GRUPOS"
	markerRow    = 2 // 1-based row whose column B carries the report title
	dataStartRow = 8 // 1-based first row scanned for data

	colNro     = 1  // column B: row number, or a section/footer marker
	colGrupo   = 3  // column D: group code (shift name on "Turno:" rows)
	colMateria = 6  // column G
	colDocente = 10 // column K
	colSubTot  = 11 // column L: "SUB TOTAL" section footers
	colAula    = 15 // column P
	colHorario = 17 // column R
)

// turnoMarker introduces a shift section; the shift name sits in column D of
// the same row and applies to the data rows that follow.
const turnoMarker = "turno:"

// Result is a complete parse of one workbook: the candidate set after
// duplicate collapsing plus the row-level report.
type Result struct {
	Candidates []model.Assignment
	Report     model.ImportReport
}

// Parse reads an .xlsx/.xlsm workbook and extracts candidate assignments
// from its first sheet.
//
// Cells beyond the physical end of a row are reported as missing columns;
// blank cells amid row content as empty values. Duplicate natural keys
// within the file are collapsed, keeping the last occurrence.
func Parse(data []byte, filename string) (*Result, error) {
	if !AllowedExtension(filename) {
		return nil, fmt.Errorf("%w: unsupported file extension %q", ErrUnreadableFile, filepath.Ext(filename))
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	if !hasReportMarker(rows) {
		return nil, fmt.Errorf("%w: cell B%d does not contain %q", ErrUnreadableFile, markerRow, reportMarker)
	}

	res := parseRows(rows)
	if res.Report.Accepted == 0 {
		return nil, fmt.Errorf("%w: %d data rows seen, %d rejected", ErrEmptyImport, res.Report.TotalRows, res.Report.Rejected)
	}
	return res, nil
}

func parseRows(rows [][]string) *Result {
	var (
		report     model.ImportReport
		candidates []model.Assignment
		byKey      = make(map[string]int) // natural key -> index into candidates
		turno      string
	)

	last := lastScannedRow(rows)
	for i := dataStartRow - 1; i < last; i++ {
		row := rows[i]
		rowNum := i + 1
		nro := cell(row, colNro)

		if strings.EqualFold(nro, turnoMarker) {
			turno = schema.NormalizeTurno(cell(row, colGrupo))
			continue
		}
		if nro == "" || nro == "0" || strings.EqualFold(nro, "nro") || strings.Contains(strings.ToUpper(nro), "TOTALES") {
			continue
		}
		if strings.Contains(strings.ToUpper(cell(row, colSubTot)), "SUB TOTAL") {
			continue
		}
		if !isDataRow(nro) {
			continue
		}

		raw := map[string]string{schema.ColTurno: turno}
		putCell(raw, schema.ColGrupo, row, colGrupo)
		putCell(raw, schema.ColMateria, row, colMateria)
		putCell(raw, schema.ColDocente, row, colDocente)
		putCell(raw, schema.ColAula, row, colAula)
		putCell(raw, schema.ColHorario, row, colHorario)

		report.TotalRows++
		a, rej := schema.ValidateRow(rowNum, raw)
		if rej != nil {
			report.Rejected++
			report.RejectionReasons = append(report.RejectionReasons, *rej)
			continue
		}
		report.Accepted++

		k := schema.Key(a)
		if idx, ok := byKey[k]; ok {
			candidates[idx] = a // last occurrence wins
			report.DuplicatesCollapsed++
			continue
		}
		byKey[k] = len(candidates)
		candidates = append(candidates, a)
	}

	return &Result{Candidates: candidates, Report: report}
}

func hasReportMarker(rows [][]string) bool {
	if len(rows) < markerRow {
		return false
	}
	title := cell(rows[markerRow-1], colNro)
	return strings.Contains(strings.ToUpper(title), reportMarker)
}

// lastScannedRow trims trailing rows whose column B is empty, mirroring how
// the report ends at the last numbered row.
func lastScannedRow(rows [][]string) int {
	last := len(rows)
	for last > 0 && cell(rows[last-1], colNro) == "" {
		last--
	}
	return last
}

// isDataRow reports whether a column B value marks a schedule row: a row
// number, or a dot-prefixed continuation like ".1".
func isDataRow(nro string) bool {
	if strings.HasPrefix(nro, ".") {
		return true
	}
	_, err := strconv.ParseFloat(nro, 64)
	return err == nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// putCell copies a cell into the raw row map only if the sheet row physically
// reaches that column, so truncated rows surface as missing columns.
func putCell(m map[string]string, name string, row []string, idx int) {
	if idx < len(row) {
		m[name] = strings.TrimSpace(row[idx])
	}
}

// AllowedExtension reports whether the filename carries a workbook extension
// Parse accepts.
func AllowedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
