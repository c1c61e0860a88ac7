package models

import "time"

// ProfessorStatusKind is the employment category of a professor.
type ProfessorStatusKind string

const (
	StatusPermanent ProfessorStatusKind = "Permanent"
	StatusVacataire ProfessorStatusKind = "Vacataire"
)

// Valid reports whether k is a known status.
func (k ProfessorStatusKind) Valid() bool {
	return k == StatusPermanent || k == StatusVacataire
}

// ProfessorStatus records the status of a canonical professor name.
type ProfessorStatus struct {
	Professor string              `db:"professor" json:"professor"`
	Status    ProfessorStatusKind `db:"status" json:"status"`
	UpdatedAt time.Time           `db:"updated_at" json:"updated_at"`
}

// ProfessorCount pairs a professor with a number of rows.
type ProfessorCount struct {
	Professor string `db:"professor"`
	Total     int    `db:"total"`
}

// WeekdayLoad is the owed teaching on one weekday across the semester.
type WeekdayLoad struct {
	Weekday     Weekday `json:"weekday"`
	Sessions    int     `json:"sessions"`
	Occurrences int     `json:"occurrences"`
	Hours       int     `json:"hours"`
}

// ProfessorHourSummary is the hour balance of a single professor.
type ProfessorHourSummary struct {
	Professor        string              `json:"professor"`
	Status           ProfessorStatusKind `json:"status,omitempty"`
	TheoreticalHours int                 `json:"theoretical_hours"`
	AbsenceCount     int                 `json:"absence_count"`
	AbsenceHours     int                 `json:"absence_hours"`
	MakeupCount      int                 `json:"makeup_count"`
	MakeupHours      int                 `json:"makeup_hours"`
	RealizedHours    int                 `json:"realized_hours"`
	Load             []WeekdayLoad       `json:"load,omitempty"`
}

// FleetHourSummary aggregates every professor's balance.
type FleetHourSummary struct {
	Semester         SemesterConfig `json:"semester"`
	Professors       int            `json:"professors"`
	TheoreticalHours int            `json:"theoretical_hours"`
	AbsenceHours     int            `json:"absence_hours"`
	MakeupHours      int            `json:"makeup_hours"`
	RealizedHours    int            `json:"realized_hours"`
	CompletionRate   int            `json:"completion_rate"`
	AbsenceRate      float64        `json:"absence_rate"`
	MakeupRate       float64        `json:"makeup_rate"`
}

// ProfessorDetail is the full view of one professor.
type ProfessorDetail struct {
	Summary  ProfessorHourSummary `json:"summary"`
	Absences []AbsenceRecord      `json:"absences"`
	Makeups  []MakeupSession      `json:"makeups"`
}
