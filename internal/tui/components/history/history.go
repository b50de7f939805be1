package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/models"
	"github.com/julianstephens/streakly/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model renders a habit's recorded days, newest first.
type Model struct {
	habit   models.Habit
	entries []models.ProgressEntry
}

func New(habit models.Habit, entries []models.ProgressEntry) Model {
	return Model{habit: habit, entries: entries}
}

func (m Model) Habit() models.Habit {
	return m.habit
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.habit.Name + " history"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("Nothing recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		b.WriteString(fmt.Sprintf("%s  %s\n", e.Day.Format(constants.DateFormat), formatEntry(m.habit, e)))
	}
	return b.String()
}

func formatEntry(habit models.Habit, e models.ProgressEntry) string {
	if habit.TrackingUnit == models.TrackingTime {
		return utils.FormatHoursMinutes(e.DurationValue())
	}
	return fmt.Sprintf("%d", e.CountValue())
}
