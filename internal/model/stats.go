package model

// DatasetStats are the dataset counters shown by the health endpoint.
type DatasetStats struct {
	TotalAsignaciones int `json:"total_asignaciones"`
	TotalDocentes     int `json:"total_docentes"`
}
