package schema

import (
	"testing"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() map[string]string {
	return map[string]string{
		"turno":   "mañana",
		"grupo":   "1-A",
		"materia": " Física I ",
		"docente": "Pérez, Juan",
		"aula":    "LAB-3",
		"horario": "07:15 - 09:00",
	}
}

func TestValidateRow(t *testing.T) {
	a, rej := ValidateRow(9, validRow())
	require.Nil(t, rej)
	assert.Equal(t, "MAÑANA", a.Turno)
	assert.Equal(t, "1-A", a.Grupo)
	assert.Equal(t, "Física I", a.Materia)
	assert.Equal(t, "Pérez, Juan", a.Docente)
	assert.Equal(t, "LAB-3", a.Aula)
	assert.Equal(t, "07:15 - 09:00", a.Horario)
}

func TestValidateRowColumnNamesAreCaseInsensitive(t *testing.T) {
	row := map[string]string{
		"  TURNO ":  "tarde",
		"Grupo":     "2-B",
		"MATERIA":   "Cálculo II",
		"Docente":   "",
		"AULA":      "A-201",
		"HORARIO  ": "19:00 - 20:45",
	}
	a, rej := ValidateRow(12, row)
	require.Nil(t, rej)
	assert.Equal(t, "TARDE", a.Turno)
	assert.Equal(t, "A-201", a.Aula)
}

func TestValidateRowMissingColumn(t *testing.T) {
	row := validRow()
	delete(row, "aula")

	_, rej := ValidateRow(2, row)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectMissingColumn, rej.Kind)
	assert.Equal(t, "aula", rej.Column)
	assert.Equal(t, "row 2: MissingColumn(aula)", rej.String())
}

func TestValidateRowEmptyRequiredField(t *testing.T) {
	row := validRow()
	row["materia"] = "   "

	_, rej := ValidateRow(15, row)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectEmptyRequiredField, rej.Kind)
	assert.Equal(t, "materia", rej.Column)
}

func TestValidateRowInvalidTurno(t *testing.T) {
	row := validRow()
	row["turno"] = "madrugada"

	_, rej := ValidateRow(8, row)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectInvalidType, rej.Kind)
	assert.Equal(t, "turno", rej.Column)
	assert.Contains(t, rej.Detail, "madrugada")
}

func TestValidateRowDefaultsDocente(t *testing.T) {
	row := validRow()
	row["docente"] = ""

	a, rej := ValidateRow(10, row)
	require.Nil(t, rej)
	assert.Equal(t, DefaultDocente, a.Docente)
}

func TestDerive(t *testing.T) {
	a := model.Assignment{
		Turno:   "MAÑANA",
		Grupo:   "1-A",
		Materia: "Química Orgánica",
		Docente: "Pérez, Juan",
		Aula:    "Aula Magna",
		Horario: "07:15 - 09:00",
	}
	Derive(&a)

	assert.Equal(t, "1-a", a.GrupoNorm)
	assert.Equal(t, "quimica organica", a.MateriaNorm)
	assert.Equal(t, "perez, juan", a.DocenteNorm)
	assert.Equal(t, "aula magna", a.AulaNorm)
	assert.Equal(t, "07:15 - 09:00", a.HorarioNorm)
}

func TestDuplicateKeys(t *testing.T) {
	list := []model.Assignment{
		{Grupo: "1-A", Aula: "A-101", Horario: "07:15 - 09:00"},
		{Grupo: "1-B", Aula: "A-102", Horario: "07:15 - 09:00"},
		{Grupo: "1-a", Aula: "a-101", Horario: " 07:15 - 09:00"},
		{Grupo: "1-A", Aula: "A-101", Horario: "07:15 - 09:00"},
	}

	dups := DuplicateKeys(list)
	require.Len(t, dups, 1)
	assert.Equal(t, NaturalKey("1-A", "A-101", "07:15 - 09:00"), dups[0])

	assert.Empty(t, DuplicateKeys(list[:2]))
}

func TestDiffStats(t *testing.T) {
	previous := map[string]struct{}{
		NaturalKey("1-A", "A-101", "07:15 - 09:00"): {},
		NaturalKey("1-B", "A-102", "07:15 - 09:00"): {},
	}
	candidates := []model.Assignment{
		{Grupo: "1-A", Aula: "A-101", Horario: "07:15 - 09:00"},
		{Grupo: "2-C", Aula: "B-201", Horario: "09:15 - 11:00"},
		{Grupo: "2-D", Aula: "B-202", Horario: "09:15 - 11:00"},
	}

	added, removed := DiffStats(previous, candidates)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)
}
