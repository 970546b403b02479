// Package schema defines the dataset contract of the class schedule: which
// columns exist, which are required, how values are normalized and how the
// natural key is formed. Validation is strict against this contract; nothing
// is inferred from the data.
package schema

import (
	"fmt"
	"strings"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
)

// Column names of the dataset contract. Incoming column names are matched
// case-insensitively after trimming and accent folding.
const (
	ColTurno   = "turno"
	ColGrupo   = "grupo"
	ColMateria = "materia"
	ColDocente = "docente"
	ColAula    = "aula"
	ColHorario = "horario"
)

// DefaultDocente is recorded when the workbook leaves the teacher cell empty.
const DefaultDocente = "NO DEFINIDO"

// RequiredColumns must be present and non-empty on every data row. Docente
// is the only optional column.
var RequiredColumns = []string{ColTurno, ColGrupo, ColMateria, ColAula, ColHorario}

// ValidateRow checks one raw row against the contract and builds the
// assignment it describes. rowNum is the 1-based sheet row number used in
// rejection reasons. On failure the returned RowError carries the offending
// column and the rejection kind.
func ValidateRow(rowNum int, row map[string]string) (model.Assignment, *model.RowError) {
	cells := make(map[string]string, len(row))
	for k, v := range row {
		cells[Fold(k)] = strings.TrimSpace(v)
	}

	for _, col := range RequiredColumns {
		v, ok := cells[col]
		if !ok {
			return model.Assignment{}, &model.RowError{
				Row:    rowNum,
				Kind:   model.RejectMissingColumn,
				Column: col,
				Detail: "required column is not present",
			}
		}
		if v == "" {
			return model.Assignment{}, &model.RowError{
				Row:    rowNum,
				Kind:   model.RejectEmptyRequiredField,
				Column: col,
				Detail: "required value is empty",
			}
		}
	}

	turno := NormalizeTurno(cells[ColTurno])
	if !IsValidTurno(turno) {
		return model.Assignment{}, &model.RowError{
			Row:    rowNum,
			Kind:   model.RejectInvalidType,
			Column: ColTurno,
			Detail: fmt.Sprintf("%q is not one of %s", cells[ColTurno], strings.Join(ValidTurnos, ", ")),
		}
	}

	docente := cells[ColDocente]
	if docente == "" {
		docente = DefaultDocente
	}

	return model.Assignment{
		Turno:   turno,
		Grupo:   cells[ColGrupo],
		Materia: cells[ColMateria],
		Docente: docente,
		Aula:    cells[ColAula],
		Horario: cells[ColHorario],
	}, nil
}

// Derive fills the normalized comparison fields from the display fields.
// Every write path must call this so stored rows always carry consistent
// normalized forms.
func Derive(a *model.Assignment) {
	a.GrupoNorm = Fold(a.Grupo)
	a.MateriaNorm = Fold(a.Materia)
	a.DocenteNorm = Fold(a.Docente)
	a.AulaNorm = Fold(a.Aula)
	a.HorarioNorm = Fold(a.Horario)
}

// Key returns the natural key of an assignment.
func Key(a model.Assignment) string {
	return NaturalKey(a.Grupo, a.Aula, a.Horario)
}

// DuplicateKeys returns the natural keys that occur more than once in the
// given set, in first-seen order.
func DuplicateKeys(list []model.Assignment) []string {
	seen := make(map[string]int, len(list))
	var dups []string
	for _, a := range list {
		k := Key(a)
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

// DiffStats compares a previous natural-key set against a candidate set and
// counts additions and removals by natural key.
func DiffStats(previous map[string]struct{}, candidates []model.Assignment) (added, removed int) {
	next := make(map[string]struct{}, len(candidates))
	for _, a := range candidates {
		next[Key(a)] = struct{}{}
	}
	for k := range next {
		if _, ok := previous[k]; !ok {
			added++
		}
	}
	for k := range previous {
		if _, ok := next[k]; !ok {
			removed++
		}
	}
	return added, removed
}
