package models

import "time"

// Absence reasons.
const (
	ReasonGuardReport = "Salle Vide (Rapport du Gardien)"
	ReasonUnjustified = "Non justifiée"
)

// AbsenceRecord states that a scheduled session did not take place on a given date.
type AbsenceRecord struct {
	ID             string    `db:"id" json:"id"`
	Date           string    `db:"absence_date" json:"date"`
	Professor      string    `db:"professor" json:"professor"`
	Program        string    `db:"program" json:"program"`
	SemesterNumber string    `db:"semester_number" json:"semester_number"`
	Group          string    `db:"group_name" json:"group"`
	Weekday        Weekday   `db:"weekday" json:"weekday"`
	Slot           Slot      `db:"slot" json:"slot"`
	Room           string    `db:"room" json:"room"`
	Module         string    `db:"module" json:"module"`
	Reason         string    `db:"reason" json:"reason"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// NewAbsenceFromSession builds the absence implied by a missed session on date.
func NewAbsenceFromSession(s ScheduledSession, date string, reason string) AbsenceRecord {
	if reason == "" {
		reason = ReasonGuardReport
	}
	return AbsenceRecord{
		Date:           date,
		Professor:      s.Professor,
		Program:        s.Program,
		SemesterNumber: s.SemesterNumber,
		Group:          s.Group,
		Weekday:        s.Weekday,
		Slot:           s.Slot,
		Room:           s.Room,
		Module:         s.Module,
		Reason:         reason,
	}
}

// AbsenceFilter narrows absence listings.
type AbsenceFilter struct {
	Professor string
	From      string
	To        string
	Page      int
	PageSize  int
}

// Observation is a guard report: the listed rooms were found empty at date and slot.
type Observation struct {
	Date       string
	Slot       Slot
	EmptyRooms []string
	Reason     string
}

// ReconcileResult summarises one reconciliation run.
type ReconcileResult struct {
	Date    string          `json:"date"`
	Weekday Weekday         `json:"weekday"`
	Slot    Slot            `json:"slot"`
	Matched int             `json:"matched"`
	Created int             `json:"created"`
	Skipped int             `json:"skipped"`
	Records []AbsenceRecord `json:"records"`
	NoMatch []string        `json:"unmatched_rooms,omitempty"`
}
