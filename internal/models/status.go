package models

import (
	"time"

	"github.com/julianstephens/streakly/internal/constants"
)

// LiveStatus is the snapshot pushed to the always-on display while a timer runs.
type LiveStatus struct {
	HabitID        string    `json:"habit_id"`
	HabitName      string    `json:"habit_name"`
	IconName       string    `json:"icon_name"`
	ColorHex       string    `json:"color_hex"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	TargetSeconds  int       `json:"target_seconds"`
	Running        bool      `json:"running"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsStale reports whether a consumer should stop trusting the snapshot.
func (s LiveStatus) IsStale(now time.Time) bool {
	return now.Sub(s.UpdatedAt) > constants.LiveStatusStaleAfter
}
