package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakly/internal/models"
)

type AddHabitMsg struct{}

type TrackHabitMsg struct {
	ID string
}

type ToggleTimerMsg struct {
	ID string
}

type ShowHistoryMsg struct {
	ID string
}

// Item is one row of today's habit list.
type Item struct {
	Habit    models.Habit
	Progress string
	Fraction float64
	Running  bool
}

func (i Item) Title() string {
	switch {
	case i.Running:
		return "▶ " + i.Habit.Name
	case i.Fraction >= 1:
		return "✓ " + i.Habit.Name
	default:
		return "○ " + i.Habit.Name
	}
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %d%% · %s", i.Progress, int(i.Fraction*100), i.Habit.Frequency)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	Track   key.Binding
	Timer   key.Binding
	History key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Track: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "track"),
		),
		Timer: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop timer"),
		),
		History: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "history"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Track, keys.Timer, keys.History}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Track, keys.Timer, keys.History}
	}

	return Model{list: l, keys: keys}
}

// SetItems replaces the rows, keeping the cursor where it was.
func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Track):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return TrackHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Timer):
			if i, ok := m.Selected(); ok && i.Habit.TrackingUnit == models.TrackingTime {
				return m, func() tea.Msg { return ToggleTimerMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.History):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ShowHistoryMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
