package schedule

import (
	"errors"
	"time"
)

// WindowMonths is how far ahead a booking may be made.
const WindowMonths = 3

var ErrOutOfRange = errors.New("outOfRange")

// Window returns the first and last bookable dates relative to now, both
// truncated to midnight in now's location.
func Window(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, WindowMonths, 0)
}

// InWindow returns ErrOutOfRange when date falls outside Window(now).
func InWindow(date, now time.Time) error {
	start, end := Window(now)
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if day.Before(start) || day.After(end) {
		return ErrOutOfRange
	}
	return nil
}
