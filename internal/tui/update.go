package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/tui/components/habits"
	"github.com/julianstephens/streakly/internal/tui/components/history"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.overall.Width = max(msg.Width-12, 10)
		m.habitsModel.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case ProgressChangedMsg:
		m.refresh()
		if m.state == constants.StateHistory {
			h := m.historyModel.Habit()
			m.historyModel = history.New(h, m.deps.Progress.Entries(h.ID))
		}
		return m, nil
	}

	if m.state == constants.StateAddHabit {
		return m.updateAddHabit(msg)
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && key.Matches(keyMsg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if ok && keyMsg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case constants.StateTracking:
		if ok {
			return m.updateTracking(keyMsg)
		}
	case constants.StateConfirmReset:
		if ok {
			return m.updateConfirmReset(keyMsg)
		}
	case constants.StateHistory:
		if ok && (key.Matches(keyMsg, m.keys.Back) || key.Matches(keyMsg, m.keys.Quit)) {
			m.state = constants.StateToday
		}
		return m, nil
	default:
		if ok && !m.habitsModel.Filtering() && key.Matches(keyMsg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = NewHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.message = ""
		m.state = constants.StateAddHabit
		return true, m.form.Init()

	case habits.TrackHabitMsg:
		m.trackingID = msg.ID
		m.message = ""
		m.state = constants.StateTracking
		return true, nil

	case habits.ToggleTimerMsg:
		m.toggleTimer(msg.ID)
		m.refresh()
		return true, nil

	case habits.ShowHistoryMsg:
		h, ok := m.deps.Catalog.Get(msg.ID)
		if !ok {
			return true, nil
		}
		m.historyModel = history.New(h, m.deps.Progress.Entries(h.ID))
		m.state = constants.StateHistory
		return true, nil
	}
	return false, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		req, err := m.habitForm.Request()
		if err == nil {
			_, err = m.deps.Catalog.Add(req)
		}
		if err != nil {
			// Stay in the form so the user can fix the input or cancel with ESC
			logger.Warn("Failed to add habit", "error", err)
			m.message = err.Error()
			m.form.State = huh.StateNormal
			break
		}
		m.message = ""
		m.refresh()
		m.state = constants.StateToday
	case huh.StateAborted:
		m.state = constants.StateToday
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateTracking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h, ok := m.trackedHabit()
	if !ok || key.Matches(msg, m.keys.Back) {
		m.state = constants.StateToday
		m.refresh()
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Reset):
		m.state = constants.StateConfirmReset
		return m, nil
	case h.TrackingUnit == models.TrackingCount && key.Matches(msg, m.keys.Increment):
		m.addCount(h.ID, 1)
	case h.TrackingUnit == models.TrackingCount && key.Matches(msg, m.keys.Decrement):
		m.addCount(h.ID, -1)
	case h.TrackingUnit == models.TrackingTime && key.Matches(msg, m.keys.Timer):
		m.toggleTimer(h.ID)
	case h.TrackingUnit == models.TrackingTime && key.Matches(msg, m.keys.QuickAdd):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(constants.QuickAddSeconds) {
			m.addDuration(h.ID, constants.QuickAddSeconds[idx])
		}
	}
	m.refresh()
	return m, nil
}

func (m Model) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if h, ok := m.trackedHabit(); ok {
			m.resetToday(h)
		}
		m.state = constants.StateTracking
		m.refresh()
	case key.Matches(msg, m.keys.Cancel):
		m.state = constants.StateTracking
	}
	return m, nil
}

// addCount changes today's count by delta, never below zero. The duration is
// passed through because every update overwrites the whole entry.
func (m *Model) addCount(habitID string, delta int) {
	entry, _ := m.deps.Progress.QueryToday(habitID)
	next := max(entry.CountValue()+delta, 0)
	m.deps.Progress.UpdateProgress(habitID, models.Int(next), entry.Duration)
}

func (m *Model) addDuration(habitID string, seconds int) {
	m.deps.Timers.AddDuration(habitID, seconds)
}

func (m *Model) resetToday(h models.Habit) {
	if h.TrackingUnit == models.TrackingTime {
		m.deps.Timers.SetDuration(h.ID, 0)
		return
	}
	entry, _ := m.deps.Progress.QueryToday(h.ID)
	m.deps.Progress.UpdateProgress(h.ID, models.Int(0), entry.Duration)
}

func (m *Model) toggleTimer(habitID string) {
	if m.deps.Timers.IsRunning(habitID) {
		m.deps.Timers.Stop(habitID)
		return
	}
	m.deps.Timers.Start(habitID)
}
