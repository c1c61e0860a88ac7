package dto

// ReconcileRequest is a guard report: rooms found empty during a slot.
type ReconcileRequest struct {
	Date       string   `json:"date" validate:"required"`
	Slot       string   `json:"slot" validate:"required"`
	EmptyRooms []string `json:"emptyRooms" validate:"required,min=1"`
	Reason     string   `json:"reason,omitempty" validate:"omitempty,max=120"`
}

// AbsenceQuery captures GET /absences filters.
type AbsenceQuery struct {
	Professor string `form:"professor"`
	From      string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=200"`
}
