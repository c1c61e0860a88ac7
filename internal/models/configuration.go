package models

import "time"

// Configuration keys holding the active semester bounds.
const (
	ConfigKeySemesterStart = "sem_start"
	ConfigKeySemesterEnd   = "sem_end"
)

// Configuration represents a persisted key/value setting.
type Configuration struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SemesterConfig is the active semester. Start and End are inclusive civil dates.
type SemesterConfig struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Range parses the semester bounds.
func (s SemesterConfig) Range() (DateRange, error) {
	start, err := ParseDate(s.Start)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(s.End)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}
