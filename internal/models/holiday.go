package models

import "time"

// HolidayCategory tags why teaching is suspended.
type HolidayCategory string

const (
	HolidayCategoryHoliday HolidayCategory = "HOLIDAY"
	HolidayCategoryStrike  HolidayCategory = "STRIKE"
	HolidayCategoryOther   HolidayCategory = "OTHER"
)

// HolidayPeriod is an inclusive range of civil dates during which no session is owed.
type HolidayPeriod struct {
	ID          string          `db:"id" json:"id"`
	StartDate   string          `db:"start_date" json:"start_date"`
	EndDate     string          `db:"end_date" json:"end_date"`
	Description string          `db:"description" json:"description"`
	Category    HolidayCategory `db:"category" json:"category"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// DateRange is a parsed inclusive [Start, End] interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Range parses the stored bounds.
func (h HolidayPeriod) Range() (DateRange, error) {
	start, err := ParseDate(h.StartDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(h.EndDate)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}
