package dto

// SetProfessorStatusRequest changes a professor's status.
type SetProfessorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Permanent Vacataire"`
}

// SyncStatusesRequest lists the permanent professors; everyone else in the timetable becomes Vacataire.
type SyncStatusesRequest struct {
	Permanent []string `json:"permanent"`
}

// SearchQuery captures GET /search.
type SearchQuery struct {
	Q string `form:"q"`
}
