package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the civil date format used for every stored and exchanged date.
const DateLayout = "2006-01-02"

// Weekday names a teaching day. Lundi has index 0 and Dimanche index 6.
type Weekday string

const (
	Lundi    Weekday = "Lundi"
	Mardi    Weekday = "Mardi"
	Mercredi Weekday = "Mercredi"
	Jeudi    Weekday = "Jeudi"
	Vendredi Weekday = "Vendredi"
	Samedi   Weekday = "Samedi"
	Dimanche Weekday = "Dimanche"
)

// Weekdays lists every weekday in index order.
var Weekdays = []Weekday{Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi, Dimanche}

// Index returns the Monday based index of the weekday, or -1 when unknown.
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// Valid reports whether w is one of the seven known names.
func (w Weekday) Valid() bool { return w.Index() >= 0 }

// WeekdayOf returns the weekday of a civil date.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[(int(t.Weekday())+6)%7]
}

// ParseWeekday matches a weekday name ignoring case and surrounding spaces.
func ParseWeekday(raw string) (Weekday, bool) {
	raw = strings.TrimSpace(raw)
	for _, d := range Weekdays {
		if strings.EqualFold(string(d), raw) {
			return d, true
		}
	}
	return Weekday(raw), false
}

// Slot is one of the three daily teaching windows.
type Slot string

const (
	SlotMorning   Slot = "8h30 - 11h30"
	SlotMidday    Slot = "11h45 - 14h45"
	SlotAfternoon Slot = "15h00 - 18h00"
)

// Slots lists the teaching windows in chronological order.
var Slots = []Slot{SlotMorning, SlotMidday, SlotAfternoon}

// Valid reports whether s is a known window.
func (s Slot) Valid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSlot accepts a window label with arbitrary spacing around the dash.
func ParseSlot(raw string) (Slot, bool) {
	compact := strings.Join(strings.Fields(raw), "")
	for _, s := range Slots {
		if strings.EqualFold(strings.ReplaceAll(string(s), " ", ""), compact) {
			return s, true
		}
	}
	return Slot(strings.TrimSpace(raw)), false
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
