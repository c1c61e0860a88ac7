package models

import "time"

// ScheduledSession is one weekly row of the official timetable. Rows are
// immutable and replaced wholesale when a new timetable is imported.
type ScheduledSession struct {
	ID             string    `db:"id" json:"id"`
	Professor      string    `db:"professor" json:"professor"`
	Program        string    `db:"program" json:"program"`
	SemesterNumber string    `db:"semester_number" json:"semester_number"`
	Group          string    `db:"group_name" json:"group"`
	Module         string    `db:"module" json:"module"`
	Weekday        Weekday   `db:"weekday" json:"weekday"`
	Slot           Slot      `db:"slot" json:"slot"`
	Room           string    `db:"room" json:"room"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TimetableFilter narrows timetable listings. Empty fields match everything.
type TimetableFilter struct {
	Professor string
	Program   string
	Module    string
	Weekday   Weekday
	Slot      Slot
	Room      string
}

// SearchResult gathers timetable rows and absences matching a free text query.
type SearchResult struct {
	Query    string             `json:"query"`
	Sessions []ScheduledSession `json:"sessions"`
	Absences []AbsenceRecord    `json:"absences"`
}
