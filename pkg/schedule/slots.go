package schedule

import "time"

// DailySlots is the fixed hourly template offered for any bookable day.
var DailySlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
}

// PublicSlots is the half-hour template of the public booking page.
var PublicSlots = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	"16:30", "17:00", "17:30", "18:00",
}

// SlotsFor returns the template slots when availability exists, otherwise
// nil. The template does not depend on clinic load.
func SlotsFor(validDays []string, template []string) []string {
	if !HasAvailability(validDays) {
		return nil
	}
	out := make([]string, len(template))
	copy(out, template)
	return out
}

// IsSlot reports whether slot appears in either template.
func IsSlot(slot string) bool {
	for _, s := range DailySlots {
		if s == slot {
			return true
		}
	}
	for _, s := range PublicSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// IsClock reports whether s is an HH:MM time of day.
func IsClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
