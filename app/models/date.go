package models

import "time"

// DateLayout is the textual calendar-date format used across the store
// (dd.mm.yyyy, no time zone). It is part of the persisted contract: data
// files written by earlier versions of the application use the same format.
const DateLayout = "02.01.2006"

// FormatDate renders a time as a stored calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Today returns the current calendar date in store format.
func Today() string {
	return time.Now().Format(DateLayout)
}
