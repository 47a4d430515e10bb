package core

import "time"

// MonthWindow bounds a single calendar month: Start is the first instant
// of the month and End the last second (23:59:59) of its last day, both
// inclusive. A window never spans a year boundary: month=1, year=Y is
// January of Y.
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// NewMonthWindow builds the window for the given month (1-12) and year.
// Returns ErrInvalidPeriod when month is out of range.
func NewMonthWindow(month, year int) (MonthWindow, error) {
	if month < 1 || month > 12 {
		return MonthWindow{}, ErrInvalidPeriod
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month normalizes to the last day of this one.
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
	return MonthWindow{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, bounds included.
func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Month returns the window's month (1-12).
func (w MonthWindow) Month() int {
	return int(w.Start.Month())
}

// Year returns the window's year.
func (w MonthWindow) Year() int {
	return w.Start.Year()
}
