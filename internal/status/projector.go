package status

import (
	"fmt"

	"github.com/julianstephens/streakly/internal/clock"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/utils"
)

type ProgressReader interface {
	QueryToday(habitID string) (models.ProgressEntry, bool)
}

type RunningChecker interface {
	IsRunning(habitID string) bool
}

type HabitLookup interface {
	Get(id string) (models.Habit, bool)
}

// Projector derives read-only views from the catalog, store and timers.
// It never writes.
type Projector struct {
	habits   HabitLookup
	progress ProgressReader
	timers   RunningChecker
	clock    clock.Clock
}

func NewProjector(habits HabitLookup, progress ProgressReader, timers RunningChecker, clk clock.Clock) *Projector {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Projector{habits: habits, progress: progress, timers: timers, clock: clk}
}

// ProgressFraction returns today's completion for habit in [0, 1].
// A missing entry, a missing target or a target <= 0 all yield 0.
func (p *Projector) ProgressFraction(habit models.Habit) float64 {
	entry, ok := p.progress.QueryToday(habit.ID)
	if !ok {
		return 0
	}

	var done, target int
	switch habit.TrackingUnit {
	case models.TrackingCount:
		if habit.TargetCount == nil {
			return 0
		}
		done, target = entry.CountValue(), *habit.TargetCount
	case models.TrackingTime:
		if habit.TargetTime == nil {
			return 0
		}
		done, target = entry.DurationValue(), habit.TargetSeconds()
	default:
		return 0
	}

	if target <= 0 || done <= 0 {
		return 0
	}
	if done >= target {
		return 1
	}
	return float64(done) / float64(target)
}

// OverallFraction is the mean of the habits' fractions, 0 for no habits.
func (p *Projector) OverallFraction(habits []models.Habit) float64 {
	if len(habits) == 0 {
		return 0
	}
	var sum float64
	for _, h := range habits {
		sum += p.ProgressFraction(h)
	}
	return sum / float64(len(habits))
}

// IsComplete reports whether every habit has met today's target.
func (p *Projector) IsComplete(habits []models.Habit) bool {
	return len(habits) > 0 && p.OverallFraction(habits) >= 1
}

// ProgressText renders "3/5" for count habits and "1h 5m/2h 0m" for time habits.
func (p *Projector) ProgressText(habit models.Habit) string {
	entry, _ := p.progress.QueryToday(habit.ID)

	if habit.TrackingUnit == models.TrackingTime {
		target := "-"
		if habit.TargetTime != nil {
			target = habit.TargetTime.String()
		}
		return fmt.Sprintf("%s/%s", utils.FormatHoursMinutes(entry.DurationValue()), target)
	}

	target := "-"
	if habit.TargetCount != nil {
		target = fmt.Sprintf("%d", *habit.TargetCount)
	}
	return fmt.Sprintf("%d/%s", entry.CountValue(), target)
}

// LiveStatus builds the display snapshot for habit from today's entry.
func (p *Projector) LiveStatus(habit models.Habit) models.LiveStatus {
	entry, _ := p.progress.QueryToday(habit.ID)
	running := false
	if p.timers != nil {
		running = p.timers.IsRunning(habit.ID)
	}
	return models.LiveStatus{
		HabitID:        habit.ID,
		HabitName:      habit.Name,
		IconName:       habit.IconName,
		ColorHex:       habit.ColorHex,
		ElapsedSeconds: entry.DurationValue(),
		TargetSeconds:  habit.TargetSeconds(),
		Running:        running,
		UpdatedAt:      p.clock.Now(),
	}
}

// Status looks habitID up in the catalog and projects its live status.
func (p *Projector) Status(habitID string) (models.LiveStatus, bool) {
	if p.habits == nil {
		return models.LiveStatus{}, false
	}
	habit, ok := p.habits.Get(habitID)
	if !ok {
		return models.LiveStatus{}, false
	}
	return p.LiveStatus(habit), true
}
