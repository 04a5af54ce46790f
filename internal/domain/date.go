package domain

import "time"

const DateLayout = "2006-01-02"

// Date builds a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToDate drops the time component, keeping only the calendar date.
func ToDate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}
