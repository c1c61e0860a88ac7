package dto

// TimetableQuery captures GET /timetable filters.
type TimetableQuery struct {
	Professor string `form:"professor"`
	Program   string `form:"program"`
	Module    string `form:"module"`
	Weekday   string `form:"weekday"`
	Slot      string `form:"slot"`
	Room      string `form:"room"`
}

// SessionInput is one timetable row of an import.
type SessionInput struct {
	Professor      string `json:"professor" validate:"required"`
	Program        string `json:"program"`
	SemesterNumber string `json:"semesterNumber"`
	Group          string `json:"group"`
	Module         string `json:"module"`
	Weekday        string `json:"weekday" validate:"required"`
	Slot           string `json:"slot" validate:"required"`
	Room           string `json:"room"`
}

// ReplaceTimetableRequest replaces the whole timetable.
type ReplaceTimetableRequest struct {
	Sessions []SessionInput `json:"sessions" validate:"required,min=1,dive"`
}

// ReplaceTimetableResponse reports how many rows were imported.
type ReplaceTimetableResponse struct {
	Imported   int `json:"imported"`
	Professors int `json:"professors"`
}
