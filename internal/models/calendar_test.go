package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	d, err := ParseDate("2025-11-10")
	require.NoError(t, err)
	assert.Equal(t, Lundi, WeekdayOf(d))
	assert.Equal(t, Dimanche, WeekdayOf(d.AddDate(0, 0, 6)))
	assert.Equal(t, 0, Lundi.Index())
	assert.Equal(t, 6, Dimanche.Index())
	assert.Equal(t, -1, Weekday("Funday").Index())
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("  mercredi ")
	assert.True(t, ok)
	assert.Equal(t, Mercredi, d)

	_, ok = ParseWeekday("Wednesday")
	assert.False(t, ok)
}

func TestParseSlot(t *testing.T) {
	s, ok := ParseSlot("8h30-11h30")
	assert.True(t, ok)
	assert.Equal(t, SlotMorning, s)

	s, ok = ParseSlot(" 15H00 -  18H00 ")
	assert.True(t, ok)
	assert.Equal(t, SlotAfternoon, s)

	_, ok = ParseSlot("18h00 - 21h00")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-27")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-12-27", FormatDate(d))

	_, err = ParseDate("27/12/2025")
	assert.Error(t, err)
}
