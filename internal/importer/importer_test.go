package importer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook assembles an in-memory report workbook with the B2 title
// marker already set.
func buildWorkbook(t *testing.T, mutate func(f *excelize.File, sheet string)) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "B2", "LISTADO GENERAL POR GRUPOS"))

	if mutate != nil {
		mutate(f, sheet)
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func setTurnoMarker(t *testing.T, f *excelize.File, sheet string, row int, turno string) {
	t.Helper()
	require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Turno:"))
	require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("D%d", row), turno))
}

// setDataRow writes one schedule row. Empty values leave the cell unset so
// tests can exercise missing and truncated columns.
func setDataRow(t *testing.T, f *excelize.File, sheet string, row int, nro, grupo, materia, docente, aula, horario string) {
	t.Helper()
	cells := []struct {
		col string
		val string
	}{
		{"B", nro}, {"D", grupo}, {"G", materia}, {"K", docente}, {"P", aula}, {"R", horario},
	}
	for _, c := range cells {
		if c.val != "" {
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("%s%d", c.col, row), c.val))
		}
	}
}

func TestParse(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "MAÑANA")
		setDataRow(t, f, sheet, 9, "1", "1-A", "Física I", "Pérez, Juan", "LAB-3", "07:15 - 09:00")
		setDataRow(t, f, sheet, 10, "2", "1-B", "Química Orgánica", "", "A-201", "09:15 - 11:00")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Report.TotalRows)
	assert.Equal(t, 2, res.Report.Accepted)
	assert.Equal(t, 0, res.Report.Rejected)
	assert.Equal(t, 0, res.Report.DuplicatesCollapsed)
	require.Len(t, res.Candidates, 2)

	first := res.Candidates[0]
	assert.Equal(t, "MAÑANA", first.Turno)
	assert.Equal(t, "1-A", first.Grupo)
	assert.Equal(t, "Física I", first.Materia)
	assert.Equal(t, "Pérez, Juan", first.Docente)
	assert.Equal(t, "LAB-3", first.Aula)
	assert.Equal(t, "07:15 - 09:00", first.Horario)

	// Docente left empty falls back to the placeholder teacher.
	assert.Equal(t, "NO DEFINIDO", res.Candidates[1].Docente)
}

func TestParseReportsRejectedRows(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "TARDE")
		setDataRow(t, f, sheet, 9, "1", "3-A", "Redes I", "Gómez, Ana", "B-101", "14:30 - 16:15")
		// Row truncated before the classroom column.
		setDataRow(t, f, sheet, 10, "2", "3-B", "Redes II", "Gómez, Ana", "", "")
		setDataRow(t, f, sheet, 11, "3", "3-C", "Base de Datos", "Rojas, Luis", "B-102", "16:30 - 18:15")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Report.TotalRows)
	assert.Equal(t, 2, res.Report.Accepted)
	assert.Equal(t, 1, res.Report.Rejected)
	require.Len(t, res.Report.RejectionReasons, 1)

	rej := res.Report.RejectionReasons[0]
	assert.Equal(t, 10, rej.Row)
	assert.Equal(t, model.RejectMissingColumn, rej.Kind)
	assert.Equal(t, "aula", rej.Column)
	assert.Equal(t, "row 10: MissingColumn(aula)", rej.String())

	require.Len(t, res.Candidates, 2)
}

func TestParseEmptyCellAmidRowIsEmptyField(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "NOCHE")
		// Materia cell blank but the row continues through the schedule column.
		setDataRow(t, f, sheet, 9, "1", "5-A", "", "Quispe, María", "C-301", "19:00 - 20:45")
		setDataRow(t, f, sheet, 10, "2", "5-B", "Auditoría", "Quispe, María", "C-302", "21:00 - 22:45")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	require.Len(t, res.Report.RejectionReasons, 1)
	rej := res.Report.RejectionReasons[0]
	assert.Equal(t, model.RejectEmptyRequiredField, rej.Kind)
	assert.Equal(t, "materia", rej.Column)
	assert.Equal(t, 9, rej.Row)
}

func TestParseCollapsesDuplicateNaturalKeys(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "MAÑANA")
		setDataRow(t, f, sheet, 9, "1", "1-A", "Física I", "Pérez, Juan", "LAB-3", "07:15 - 09:00")
		// Same (grupo, aula, horario) with accents and case shuffled.
		setDataRow(t, f, sheet, 10, "2", "1-a", "Física I", "Mamani, Rosa", "lab-3", "07:15 - 09:00")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Report.Accepted)
	assert.Equal(t, 1, res.Report.DuplicatesCollapsed)
	require.Len(t, res.Candidates, 1)

	// Last occurrence wins.
	assert.Equal(t, "Mamani, Rosa", res.Candidates[0].Docente)
}

func TestParseSkipsStructuralRows(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "MAÑANA")
		require.NoError(t, f.SetCellValue(sheet, "B9", "Nro"))
		setDataRow(t, f, sheet, 10, "1", "1-A", "Física I", "Pérez, Juan", "LAB-3", "07:15 - 09:00")
		// Section footer carries SUB TOTAL in column L.
		require.NoError(t, f.SetCellValue(sheet, "B11", "34"))
		require.NoError(t, f.SetCellValue(sheet, "L11", "SUB TOTAL"))
		require.NoError(t, f.SetCellValue(sheet, "B12", "TOTALES GENERALES"))
		setDataRow(t, f, sheet, 13, ".1", "1-A", "Física I", "Pérez, Juan", "LAB-4", "07:15 - 09:00")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	// Only the numbered row and the dot-continuation row are data rows.
	assert.Equal(t, 2, res.Report.TotalRows)
	assert.Equal(t, 2, res.Report.Accepted)
	assert.Equal(t, 0, res.Report.Rejected)
	require.Len(t, res.Candidates, 2)
}

func TestParseShiftSections(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "mediodía")
		setDataRow(t, f, sheet, 9, "1", "2-A", "Inglés I", "Flores, Eva", "A-105", "12:00 - 13:45")
		setTurnoMarker(t, f, sheet, 10, "NOCHE")
		setDataRow(t, f, sheet, 11, "2", "5-C", "Contabilidad", "Rojas, Luis", "C-210", "19:00 - 20:45")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "MEDIO DIA", res.Candidates[0].Turno)
	assert.Equal(t, "NOCHE", res.Candidates[1].Turno)
}

func TestParseRejectsUnknownShift(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "INTENSIVO")
		setDataRow(t, f, sheet, 9, "1", "2-A", "Inglés I", "Flores, Eva", "A-105", "12:00 - 13:45")
		setTurnoMarker(t, f, sheet, 10, "TARDE")
		setDataRow(t, f, sheet, 11, "2", "2-B", "Inglés II", "Flores, Eva", "A-106", "14:30 - 16:15")
	})

	res, err := Parse(data, "listado.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Report.Rejected)
	require.Len(t, res.Report.RejectionReasons, 1)
	assert.Equal(t, model.RejectInvalidType, res.Report.RejectionReasons[0].Kind)
	assert.Equal(t, "turno", res.Report.RejectionReasons[0].Column)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "TARDE", res.Candidates[0].Turno)
}

func TestParseUnreadableFile(t *testing.T) {
	_, err := Parse([]byte("this is not a workbook"), "listado.xlsx")
	require.ErrorIs(t, err, ErrUnreadableFile)
}

func TestParseRejectsUnsupportedExtension(t *testing.T) {
	data := buildWorkbook(t, nil)
	_, err := Parse(data, "listado.xls")
	require.ErrorIs(t, err, ErrUnreadableFile)
}

func TestParseRejectsMissingTitleMarker(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "B2", "REPORTE DE NOTAS"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, err := Parse(buf.Bytes(), "notas.xlsx")
	require.ErrorIs(t, err, ErrUnreadableFile)
}

func TestParseTitleMarkerIsCaseInsensitive(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "B2", "Listado General por Grupos - Gestión II/2025"))
	setTurnoMarker(t, f, sheet, 8, "TARDE")
	setDataRow(t, f, sheet, 9, "1", "3-A", "Redes I", "Gómez, Ana", "B-101", "14:30 - 16:15")
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	res, err := Parse(buf.Bytes(), "listado.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
}

func TestParseEmptyImport(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		setTurnoMarker(t, f, sheet, 8, "MAÑANA")
	})

	_, err := Parse(data, "listado.xlsx")
	require.ErrorIs(t, err, ErrEmptyImport)
}
