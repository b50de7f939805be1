package models

import "time"

// ProgressEntry is a habit's record for a single calendar day.
// Count and Duration are nil when not supplied by the last update.
type ProgressEntry struct {
	HabitID  string    `json:"habit_id"`
	Day      time.Time `json:"day"`
	Count    *int      `json:"count,omitempty"`
	Duration *int      `json:"duration,omitempty"` // seconds
}

// CountValue returns the count or 0 when absent.
func (e ProgressEntry) CountValue() int {
	if e.Count == nil {
		return 0
	}
	return *e.Count
}

// DurationValue returns the duration in seconds or 0 when absent.
func (e ProgressEntry) DurationValue() int {
	if e.Duration == nil {
		return 0
	}
	return *e.Duration
}

// Int returns a pointer to v. Convenience for optional progress fields.
func Int(v int) *int {
	return &v
}
