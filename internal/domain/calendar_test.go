package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{name: "same day exists", start: date(2026, time.January, 15), months: 1, want: date(2026, time.February, 15)},
		{name: "end of january clamps to february", start: date(2026, time.January, 31), months: 1, want: date(2026, time.February, 28)},
		{name: "leap year february", start: date(2028, time.January, 31), months: 1, want: date(2028, time.February, 29)},
		{name: "31st into 30 day month", start: date(2026, time.March, 31), months: 1, want: date(2026, time.April, 30)},
		{name: "crosses year", start: date(2026, time.November, 30), months: 3, want: date(2027, time.February, 28)},
		{name: "remove months clamps", start: date(2026, time.March, 31), months: -1, want: date(2026, time.February, 28)},
		{name: "remove months crosses year", start: date(2026, time.January, 31), months: -2, want: date(2025, time.November, 30)},
		{name: "zero months", start: date(2026, time.May, 31), months: 0, want: date(2026, time.May, 31)},
		{name: "twelve months from leap day", start: date(2028, time.February, 29), months: 12, want: date(2029, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestAddMonths_KeepsClockAndLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	start := time.Date(2026, time.January, 31, 14, 30, 5, 7, loc)

	got := AddMonths(start, 1)

	assert.Equal(t, time.Date(2026, time.February, 28, 14, 30, 5, 7, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestDueDates_DoNotDrift(t *testing.T) {
	dates := DueDates(date(2026, time.January, 31), 4)

	assert.Equal(t, []time.Time{
		date(2026, time.January, 31),
		date(2026, time.February, 28),
		date(2026, time.March, 31),
		date(2026, time.April, 30),
	}, dates)
}
