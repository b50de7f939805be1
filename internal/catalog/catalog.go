package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/streakly/internal/clock"
	"github.com/julianstephens/streakly/internal/constants"
	apperrors "github.com/julianstephens/streakly/internal/errors"
	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
)

// Catalog holds the habits defined during this process lifetime.
type Catalog struct {
	mu     sync.RWMutex
	clock  clock.Clock
	habits []models.Habit
	byID   map[string]int
}

func New(clk clock.Clock) *Catalog {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Catalog{
		clock: clk,
		byID:  make(map[string]int),
	}
}

// Add validates req and appends a new habit with a fresh id.
func (c *Catalog) Add(req models.CreateHabitRequest) (models.Habit, error) {
	habit, err := buildHabit(req)
	if err != nil {
		return models.Habit{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	habit.ID = uuid.NewString()
	habit.CreatedAt = c.clock.Now()
	c.byID[habit.ID] = len(c.habits)
	c.habits = append(c.habits, habit)

	logger.Debug("Habit added", "id", habit.ID, "name", habit.Name, "unit", habit.TrackingUnit)
	return habit, nil
}

func (c *Catalog) Get(id string) (models.Habit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return models.Habit{}, false
	}
	return c.habits[i], true
}

// GetByName looks a habit up by case-insensitive name.
func (c *Catalog) GetByName(name string) (models.Habit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(name)) {
			return h, true
		}
	}
	return models.Habit{}, false
}

// All returns the habits in creation order.
func (c *Catalog) All() []models.Habit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Habit, len(c.habits))
	copy(out, c.habits)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.habits)
}

func buildHabit(req models.CreateHabitRequest) (models.Habit, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Habit{}, fmt.Errorf("%w: name is required", apperrors.ErrInvalidHabit)
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = models.FrequencyDaily
	}
	if !frequency.Valid() {
		return models.Habit{}, fmt.Errorf("%w: unknown frequency %q", apperrors.ErrInvalidHabit, req.Frequency)
	}

	unit := req.TrackingUnit
	if unit == "" {
		unit = models.TrackingCount
	}
	if !unit.Valid() {
		return models.Habit{}, fmt.Errorf("%w: unknown tracking unit %q", apperrors.ErrInvalidHabit, req.TrackingUnit)
	}

	colorHex := req.ColorHex
	if colorHex == "" {
		colorHex = constants.DefaultHabitColorHex
	}
	colorHex, err := models.NormalizeHexColor(colorHex)
	if err != nil {
		return models.Habit{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidHabit, err)
	}

	icon := strings.TrimSpace(req.IconName)
	if icon == "" {
		icon = constants.DefaultHabitIcon
	}

	habit := models.Habit{
		Name:         name,
		IconName:     icon,
		ColorHex:     colorHex,
		Frequency:    frequency,
		TrackingUnit: unit,
		Notes:        req.Notes,
	}

	switch unit {
	case models.TrackingCount:
		target := constants.DefaultTargetCount
		if req.TargetCount != nil {
			target = *req.TargetCount
		}
		if target < 0 {
			return models.Habit{}, fmt.Errorf("%w: target count must be non-negative", apperrors.ErrInvalidHabit)
		}
		habit.TargetCount = models.Int(target)
	case models.TrackingTime:
		target := models.TimeValue{}
		if req.TargetTime != nil {
			target = *req.TargetTime
		}
		if target.Hours < 0 || target.Minutes < 0 || target.Minutes > constants.MaxTargetMinutesOfHour {
			return models.Habit{}, fmt.Errorf("%w: target time %s out of range", apperrors.ErrInvalidHabit, target)
		}
		habit.TargetTime = &target
	}

	return habit, nil
}
