package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakly/internal/constants"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Frequencies lists the supported frequencies in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type TrackingUnit string

const (
	TrackingCount TrackingUnit = "count"
	TrackingTime  TrackingUnit = "time"
)

func (u TrackingUnit) Valid() bool {
	return u == TrackingCount || u == TrackingTime
}

// TimeValue is a structured duration target entered as hours and minutes.
type TimeValue struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

func (t TimeValue) TotalMinutes() int {
	return t.Hours*60 + t.Minutes
}

func (t TimeValue) Seconds() int {
	return t.Hours*constants.SecondsPerHour + t.Minutes*constants.SecondsPerMinute
}

func (t TimeValue) String() string {
	return fmt.Sprintf("%dh %dm", t.Hours, t.Minutes)
}

// Habit represents a recurring practice with a measurable daily target
type Habit struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	IconName     string       `json:"icon_name"`
	ColorHex     string       `json:"color_hex"`
	Frequency    Frequency    `json:"frequency"`
	TrackingUnit TrackingUnit `json:"tracking_unit"`
	TargetCount  *int         `json:"target_count,omitempty"`
	TargetTime   *TimeValue   `json:"target_time,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TargetSeconds returns the duration target in seconds, or 0 when the habit has none.
func (h Habit) TargetSeconds() int {
	if h.TargetTime == nil {
		return 0
	}
	return h.TargetTime.Seconds()
}

// CreateHabitRequest carries the user's input from the add-habit flow.
type CreateHabitRequest struct {
	Name         string       `yaml:"name"`
	IconName     string       `yaml:"icon"`
	ColorHex     string       `yaml:"color"`
	Frequency    Frequency    `yaml:"frequency"`
	TrackingUnit TrackingUnit `yaml:"unit"`
	TargetCount  *int         `yaml:"target_count"`
	TargetTime   *TimeValue   `yaml:"target_time"`
	Notes        string       `yaml:"notes"`
}
