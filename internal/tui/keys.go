package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Back      key.Binding
	Increment key.Binding
	Decrement key.Binding
	Timer     key.Binding
	QuickAdd  key.Binding
	Reset     key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.Back},
		{k.Increment, k.Decrement, k.Timer, k.QuickAdd, k.Reset},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "add one"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "remove one"),
		),
		Timer: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s", "start/stop"),
		),
		QuickAdd: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1/2/3", "+1m/+5m/+10m"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset today"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
