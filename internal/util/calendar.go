package util

import (
	"fmt"
	"strings"
	"time"
)

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent weekStart on or before t
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's month
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns midnight of January 1st of t's year
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// WeekKey formats the week starting at start as an ISO week label (e.g. 2026-W43).
// The label is taken from the fourth day of the week so Sunday-start weeks
// keep a single label.
func WeekKey(start time.Time) string {
	year, week := start.AddDate(0, 0, 3).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ParseWeekday accepts English weekday names, case-insensitive
func ParseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return time.Monday, false
}
