package calendar

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Truncate drops the clock part of t, keeping its calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDaysBetween counts Monday-Friday dates in [start, end], both inclusive.
// Holidays are not considered. Returns 0 when start is after end.
func BusinessDaysBetween(start, end time.Time) int {
	start, end = Truncate(start), Truncate(end)
	if start.After(end) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			days++
		}
	}
	return days
}

// PreviousBusinessDay returns the closest business day strictly before t.
func PreviousBusinessDay(t time.Time) time.Time {
	d := Truncate(t).AddDate(0, 0, -1)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// IsFullMonth reports whether [start, end] covers exactly one calendar month.
func IsFullMonth(start, end time.Time) bool {
	start, end = Truncate(start), Truncate(end)
	if start.Day() != 1 {
		return false
	}
	return start.AddDate(0, 1, -1).Equal(end)
}
