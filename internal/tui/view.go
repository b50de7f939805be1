package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateTracking:
		content = m.viewTracking()
	case constants.StateAddHabit:
		content = m.viewAddHabit()
	case constants.StateHistory:
		content = docStyle.Render(m.historyModel.View())
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	titles := []string{"Today", "Tracking", "Add habit", "History"}
	for i, title := range titles {
		active := m.state == constants.SessionState(i) ||
			(m.state == constants.StateConfirmReset && constants.SessionState(i) == constants.StateTracking)
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	all := m.deps.Catalog.All()
	fraction := m.deps.Status.OverallFraction(all)

	header := fmt.Sprintf("%s %3d%%", m.overall.ViewAs(fraction), int(fraction*100))
	if m.deps.Status.IsComplete(all) {
		header += "  " + doneStyle.Render("✓ All done today")
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.habitsModel.View(),
	))
}

func (m Model) viewTracking() string {
	h, ok := m.trackedHabit()
	if !ok {
		return docStyle.Render("Habit not found.")
	}

	title := habitStyle(h.ColorHex).Render(h.Name)
	fraction := m.deps.Status.ProgressFraction(h)
	bar := m.overall.ViewAs(fraction)

	var body string
	if h.TrackingUnit == models.TrackingTime {
		entry, _ := m.deps.Progress.QueryToday(h.ID)
		state := "paused"
		if m.deps.Timers.IsRunning(h.ID) {
			state = "running"
		}
		body = lipgloss.JoinVertical(lipgloss.Center,
			clockStyle.BorderForeground(lipgloss.Color(h.ColorHex)).Render(utils.FormatClock(entry.DurationValue())),
			state,
		)
	} else {
		body = clockStyle.BorderForeground(lipgloss.Color(h.ColorHex)).Render(m.deps.Status.ProgressText(h))
	}

	lines := []string{
		title + "  " + m.deps.Status.ProgressText(h),
		"",
		body,
		"",
		bar,
	}
	if fraction >= 1 {
		lines = append(lines, doneStyle.Render("✓ Target reached"))
	}
	if h.Notes != "" {
		lines = append(lines, "", warningStyle.Render(h.Notes))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewAddHabit() string {
	view := m.form.View()
	if m.message != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.message), view)
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmReset() string {
	name := ""
	if h, ok := m.trackedHabit(); ok {
		name = h.Name
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Reset today's progress for %s?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
