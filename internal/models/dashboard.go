package models

import "time"

// RankedCount is a label with its number of occurrences.
type RankedCount struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"total" json:"count"`
}

// DashboardStats is the institution wide overview.
type DashboardStats struct {
	TotalAbsences  int              `json:"total_absences"`
	TotalMakeups   int              `json:"total_makeups"`
	RecoveryRate   float64          `json:"recovery_rate"`
	TopProfessor   *RankedCount     `json:"top_professor,omitempty"`
	TopProgram     *RankedCount     `json:"top_program,omitempty"`
	TopWeekday     *RankedCount     `json:"top_weekday,omitempty"`
	RecentAbsences []AbsenceRecord  `json:"recent_absences"`
	Fleet          FleetHourSummary `json:"fleet"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
