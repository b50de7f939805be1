package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakly/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
// Two instants a few minutes apart across midnight are different days.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NextMidnight returns the start of the day following t in loc.
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1)
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / constants.SecondsPerHour
	m := (seconds % constants.SecondsPerHour) / constants.SecondsPerMinute
	s := seconds % constants.SecondsPerMinute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHoursMinutes renders seconds as "1h 5m", dropping leftover seconds.
func FormatHoursMinutes(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / constants.SecondsPerHour
	m := (seconds % constants.SecondsPerHour) / constants.SecondsPerMinute
	return fmt.Sprintf("%dh %dm", h, m)
}
