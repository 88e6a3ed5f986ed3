package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is matched by every *InvalidDateError.
var ErrInvalidDate = errors.New("invalidDate")

// InvalidDateError reports a date whose weekday is not among the clinic's
// valid days.
type InvalidDateError struct {
	Day          string
	LocalizedDay string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalidDate: %s is not an available day", e.Day)
}

func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// Message is the user-facing text naming the rejected day.
func (e *InvalidDateError) Message() string {
	return fmt.Sprintf("يوم %s غير متاح لهذه العيادة", e.LocalizedDay)
}

// ValidateDate checks date against the resolved valid days of a clinic.
func ValidateDate(date time.Time, validDays []string) error {
	day := DayName(date)
	if !Expand(validDays)[day] {
		return &InvalidDateError{Day: day, LocalizedDay: LocalizedDay(day)}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD booking date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DisplayDate renders "YYYY-MM-DD (weekday)" with the Arabic weekday name.
func DisplayDate(t time.Time) string {
	return fmt.Sprintf("%s (%s)", FormatDate(t), LocalizedDay(DayName(t)))
}
