package domain

import "time"

// AddMonths moves t by months calendar months, keeping the day of month when
// the target month has it and clamping to the target month's last day otherwise:
// Jan 31 + 1 month is Feb 28 (Feb 29 in leap years), and Mar 31 - 1 month is Feb 28.
// The time of day and location are preserved.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// Day 1 never overflows, so time.Date only normalizes the month/year
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}

	hour, minute, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days of the given month
func daysInMonth(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// DueDates returns count monthly due dates starting at first.
// Every date is derived from first, so a schedule starting on the 31st
// returns to the 31st in long months instead of drifting to the 28th.
func DueDates(first time.Time, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, AddMonths(first, i))
	}
	return dates
}
