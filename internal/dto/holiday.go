package dto

// CreateHolidayRequest declares a period without teaching.
type CreateHolidayRequest struct {
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"max=255"`
	Category    string `json:"category" validate:"omitempty,oneof=HOLIDAY STRIKE OTHER"`
}
