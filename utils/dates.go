// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddMonths advances a date by whole calendar months with rollover
// (Jan 15 + 3 -> Apr 15; Nov 30 + 3 -> Mar 1 or 2), not a fixed day count.
func AddMonths(t time.Time, months int) time.Time {
	return BeginningOfDay(t).AddDate(0, months, 0)
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}
