package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakly/internal/catalog"
	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/progress"
	"github.com/julianstephens/streakly/internal/status"
	"github.com/julianstephens/streakly/internal/timer"
	"github.com/julianstephens/streakly/internal/tui/components/habits"
	"github.com/julianstephens/streakly/internal/tui/components/history"
)

// Deps are the core components the TUI drives.
type Deps struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	Timers   *timer.Runner
	Status   *status.Projector
}

type tickMsg time.Time

// Used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 20
)

type Model struct {
	deps         Deps
	state        constants.SessionState
	keys         KeyMap
	help         help.Model
	habitsModel  habits.Model
	historyModel history.Model
	overall      progressbar.Model
	form         *huh.Form
	habitForm    *HabitFormModel
	trackingID   string
	message      string
	quitting     bool
	width        int
	height       int
}

func NewModel(deps Deps) Model {
	m := Model{
		deps:        deps,
		state:       constants.StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, defaultWidth, defaultHeight),
		overall:     progressbar.New(progressbar.WithDefaultGradient()),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh rebuilds the habit rows from the catalog, store and timers.
func (m *Model) refresh() {
	all := m.deps.Catalog.All()
	items := make([]habits.Item, 0, len(all))
	for _, h := range all {
		items = append(items, habits.Item{
			Habit:    h,
			Progress: m.deps.Status.ProgressText(h),
			Fraction: m.deps.Status.ProgressFraction(h),
			Running:  m.deps.Timers.IsRunning(h.ID),
		})
	}
	m.habitsModel.SetItems(items)
}

func (m Model) trackedHabit() (models.Habit, bool) {
	if m.trackingID == "" {
		return models.Habit{}, false
	}
	return m.deps.Catalog.Get(m.trackingID)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateTracking:
		keys = append(keys, m.keys.Back)
		if h, ok := m.trackedHabit(); ok && h.TrackingUnit == models.TrackingTime {
			keys = append(keys, m.keys.Timer, m.keys.QuickAdd, m.keys.Reset)
		} else {
			keys = append(keys, m.keys.Increment, m.keys.Decrement, m.keys.Reset)
		}
	case constants.StateHistory:
		keys = append(keys, m.keys.Back)
	case constants.StateConfirmReset:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}
