// Package schedule holds the weekday and time-slot rules shared by the
// booking service and the booking workflow client.
package schedule

import "time"

// All is the valid-days sentinel meaning every weekday is bookable.
const All = "All"

// Weekdays in the order clinics list them.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var localizedDays = map[string]string{
	All:         "كل الأيام",
	"Monday":    "الإثنين",
	"Tuesday":   "الثلاثاء",
	"Wednesday": "الأربعاء",
	"Thursday":  "الخميس",
	"Friday":    "الجمعة",
	"Saturday":  "السبت",
	"Sunday":    "الأحد",
}

// LocalizedDay returns the Arabic name of a weekday token, or the token
// itself when it is unknown.
func LocalizedDay(day string) string {
	if name, ok := localizedDays[day]; ok {
		return name
	}
	return day
}

// DayName returns the English weekday name of t.
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// IsWeekday reports whether s is a weekday token or the All sentinel.
func IsWeekday(s string) bool {
	if s == All {
		return true
	}
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

// Expand resolves a clinic's valid-days list into a set of weekday names.
// A list containing All expands to the full week; an empty list yields an
// empty set.
func Expand(validDays []string) map[string]bool {
	set := make(map[string]bool, len(Weekdays))
	for _, d := range validDays {
		if d == All {
			for _, w := range Weekdays {
				set[w] = true
			}
			return set
		}
		set[d] = true
	}
	return set
}

// HasAvailability reports whether at least one weekday is bookable.
func HasAvailability(validDays []string) bool {
	return len(Expand(validDays)) > 0
}
