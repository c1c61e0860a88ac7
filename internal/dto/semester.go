package dto

// UpdateSemesterRequest sets the active semester bounds.
type UpdateSemesterRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// ResetSemesterResponse confirms a reset.
type ResetSemesterResponse struct {
	Reset bool `json:"reset"`
}
