package model

import "time"

// Assignment is one row of the published class schedule: a group meeting for
// a subject, with a teacher, in a classroom, during a time slot of a shift.
// Its natural key is (grupo, aula, horario) compared in normalized form.
type Assignment struct {
	ID      int64  `json:"id"`
	Turno   string `json:"turno"`
	Grupo   string `json:"grupo"`
	Materia string `json:"materia"`
	Docente string `json:"docente"`
	Aula    string `json:"aula"`
	Horario string `json:"horario"`

	// Accent-folded lowercase forms derived from the display fields at write
	// time. Never accepted from clients.
	GrupoNorm   string `json:"-"`
	MateriaNorm string `json:"-"`
	DocenteNorm string `json:"-"`
	AulaNorm    string `json:"-"`
	HorarioNorm string `json:"-"`

	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAssignmentRequest is the payload for creating a schedule record.
type CreateAssignmentRequest struct {
	Turno   string `json:"turno" binding:"required,min=4,max=20"`
	Grupo   string `json:"grupo" binding:"required,min=1,max=50"`
	Materia string `json:"materia" binding:"required,min=2,max=150"`
	Docente string `json:"docente" binding:"omitempty,max=150"`
	Aula    string `json:"aula" binding:"required,min=1,max=80"`
	Horario string `json:"horario" binding:"required,min=2,max=80"`
}

// UpdateAssignmentRequest is the payload for updating a schedule record.
type UpdateAssignmentRequest struct {
	Turno   string `json:"turno" binding:"required,min=4,max=20"`
	Grupo   string `json:"grupo" binding:"required,min=1,max=50"`
	Materia string `json:"materia" binding:"required,min=2,max=150"`
	Docente string `json:"docente" binding:"omitempty,max=150"`
	Aula    string `json:"aula" binding:"required,min=1,max=80"`
	Horario string `json:"horario" binding:"required,min=2,max=80"`
}

// AssignmentFilter narrows the admin listing.
type AssignmentFilter struct {
	Search  string
	Turno   string
	Page    int
	PerPage int
}
