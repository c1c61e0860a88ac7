// Package calendar counts the teaching dates owed over a semester.
//
// Every function is pure: inputs are civil dates at midnight UTC and holiday
// periods are inclusive ranges whose union is excluded from counting.
package calendar

import (
	"errors"
	"sort"
	"time"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

// SessionDurationHours is the length of every teaching slot.
const SessionDurationHours = 3

// ErrInvalidRange is returned when the range start is after its end.
var ErrInvalidRange = errors.New("calendar: start date is after end date")

// SessionCount returns how many dates in [start, end] fall on day and are not
// covered by any holiday. Unknown weekday names count zero.
func SessionCount(day models.Weekday, start, end time.Time, holidays []models.DateRange) (int, error) {
	counts, err := WeekdayCounts(start, end, holidays)
	if err != nil {
		return 0, err
	}
	return counts[day], nil
}

// WeekdayCounts returns the qualifying date count for every weekday in one pass.
func WeekdayCounts(start, end time.Time, holidays []models.DateRange) (map[models.Weekday]int, error) {
	start, end = civil(start), civil(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	merged := merge(holidays)
	counts := make(map[models.Weekday]int, len(models.Weekdays))
	for _, d := range models.Weekdays {
		counts[d] = 0
	}

	h := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for h < len(merged) && merged[h].End.Before(d) {
			h++
		}
		if h < len(merged) && merged[h].Contains(d) {
			continue
		}
		counts[models.WeekdayOf(d)]++
	}
	return counts, nil
}

// HolidayRanges parses stored holiday periods. Periods whose start is after
// their end are rejected with ErrInvalidRange.
func HolidayRanges(periods []models.HolidayPeriod) ([]models.DateRange, error) {
	ranges := make([]models.DateRange, 0, len(periods))
	for _, p := range periods {
		r, err := p.Range()
		if err != nil {
			return nil, err
		}
		if r.Start.After(r.End) {
			return nil, ErrInvalidRange
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// TheoreticalHours computes the hours owed for a professor's weekly sessions
// given per-weekday date counts. Each session row contributes one slot per
// qualifying date of its weekday.
func TheoreticalHours(sessions []models.ScheduledSession, counts map[models.Weekday]int) (int, []models.WeekdayLoad) {
	perDay := make(map[models.Weekday]int)
	for _, s := range sessions {
		perDay[s.Weekday]++
	}

	total := 0
	load := make([]models.WeekdayLoad, 0, len(perDay))
	for _, day := range models.Weekdays {
		n, ok := perDay[day]
		if !ok {
			continue
		}
		hours := counts[day] * n * SessionDurationHours
		total += hours
		load = append(load, models.WeekdayLoad{Weekday: day, Sessions: n, Occurrences: counts[day], Hours: hours})
	}
	return total, load
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// merge sorts ranges and collapses overlapping or adjacent ones.
func merge(ranges []models.DateRange) []models.DateRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]models.DateRange, 0, len(ranges))
	for _, r := range ranges {
		r.Start, r.End = civil(r.Start), civil(r.End)
		if r.Start.After(r.End) {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	out := sorted[:0]
	for _, r := range sorted {
		if n := len(out); n > 0 && !r.Start.After(out[n-1].End.AddDate(0, 0, 1)) {
			if r.End.After(out[n-1].End) {
				out[n-1].End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
