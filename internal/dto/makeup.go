package dto

// CreateMakeupRequest books a makeup session.
type CreateMakeupRequest struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Professor      string `json:"professor" validate:"required"`
	Slot           string `json:"slot" validate:"required"`
	Room           string `json:"room,omitempty"`
	Program        string `json:"program,omitempty"`
	SemesterNumber string `json:"semesterNumber,omitempty"`
	Module         string `json:"module,omitempty"`
	Group          string `json:"group,omitempty"`
}

// AvailableRoomsQuery captures GET /makeups/available-rooms parameters.
type AvailableRoomsQuery struct {
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
	Slot      string `form:"slot" validate:"required"`
	Professor string `form:"professor"`
	Module    string `form:"module"`
}

// MakeupQuery captures GET /makeups filters.
type MakeupQuery struct {
	Professor string `form:"professor"`
	Date      string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}
