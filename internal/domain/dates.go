package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for keys and query params
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar window. A nil bound is unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether the calendar date of t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	day := DateOf(t)
	if r.Start != nil && day.Before(DateOf(*r.Start)) {
		return false
	}
	if r.End != nil && day.After(DateOf(*r.End)) {
		return false
	}
	return true
}

// DateOf strips the clock from t, keeping its calendar date as UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar date of t as YYYY-MM-DD
func DateKey(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into UTC midnight
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// StartOfWeek returns the Monday of the week containing t
func StartOfWeek(t time.Time) time.Time {
	day := DateOf(t)
	// Go weekdays start at Sunday=0; shift so Monday=0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// EndOfWeek returns the Sunday of the week containing t
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// WeekKey returns the Monday week key (YYYY-MM-DD) for t
func WeekKey(t time.Time) string {
	return StartOfWeek(t).Format(DateLayout)
}

// WeekDays lists the seven dates Monday..Sunday of the week containing t
func WeekDays(t time.Time) []time.Time {
	start := StartOfWeek(t)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
