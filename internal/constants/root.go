package constants

import "time"

// SessionState is the screen the TUI is showing.
type SessionState int

const (
	AppName           = "streakly"
	DefaultConfigDir  = "~/.config/streakly"
	DefaultHabitsFile = "habits.yaml"
	DefaultKeyringKey = "display-intent-secret"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Timer constants
	TickInterval = time.Second

	// Live status constants
	LiveStatusStaleAfter   = 2 * time.Second
	PublishTimeout         = 500 * time.Millisecond
	PublishMaxRetries      = 2
	PublishRetryDelay      = 100 * time.Millisecond
	DisplayLockfileName    = "streakly-display.lock"
	DisplayExecutable      = "streakly-display"
	DisplayAppIdentifier   = "com.julianstephens.streakly.display"
	DisplaySecretHeader    = "X-Streakly-Secret"
	DefaultIntentAddr      = "127.0.0.1:7439"
	IntentActionStart      = "start"
	IntentActionStop       = "stop"
	DefaultHabitColorHex   = "#0000FF"
	DefaultHabitIcon       = "star.fill"
	DefaultTargetCount     = 1
	MaxTargetMinutesOfHour = 59
)

const (
	StateToday SessionState = iota
	StateTracking
	StateAddHabit
	StateHistory
	StateConfirmReset
)

// QuickAddSeconds are the shortcut increments offered when tracking a time habit.
var QuickAddSeconds = []int{60, 300, 600}
