package models

import (
	"fmt"
	"time"
)

// MakeupSession is an extra session scheduled to recover missed hours.
type MakeupSession struct {
	ID             string    `db:"id" json:"id"`
	Date           string    `db:"makeup_date" json:"date"`
	Professor      string    `db:"professor" json:"professor"`
	Slot           Slot      `db:"slot" json:"slot"`
	Room           string    `db:"room" json:"room,omitempty"`
	Program        string    `db:"program" json:"program,omitempty"`
	SemesterNumber string    `db:"semester_number" json:"semester_number,omitempty"`
	Module         string    `db:"module" json:"module,omitempty"`
	Group          string    `db:"group_name" json:"group,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// MakeupFilter narrows makeup listings.
type MakeupFilter struct {
	Professor string
	Date      string
}

// MakeupConstraint identifies which double-booking rule a booking violated.
type MakeupConstraint string

const (
	ConstraintProfessor MakeupConstraint = "PROFESSOR"
	ConstraintRoom      MakeupConstraint = "ROOM"
)

// MakeupConflictError describes a rejected booking and the session it clashes with.
type MakeupConflictError struct {
	Constraint MakeupConstraint `json:"constraint"`
	Message    string           `json:"message"`
	Conflict   *MakeupSession   `json:"conflict,omitempty"`
}

func (e *MakeupConflictError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s conflict", e.Constraint)
}

// AvailableRooms answers where a makeup could be held.
type AvailableRooms struct {
	Date       string   `json:"date"`
	Weekday    Weekday  `json:"weekday"`
	Slot       Slot     `json:"slot"`
	UsualRooms []string `json:"usual_rooms"`
	FreeRooms  []string `json:"free_rooms"`
}
