package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Task actions
	Add      key.Binding
	Complete key.Binding
	Delete   key.Binding
	Pin      key.Binding

	// Filters
	NextFilter key.Binding
	PrevFilter key.Binding
	Search     key.Binding
	GroupCycle key.Binding
	SortCycle  key.Binding

	// Views
	TasksView    key.Binding
	FocusView    key.Binding
	PomodoroView key.Binding

	// General
	Refresh    key.Binding
	ThemeCycle key.Binding
	Help       key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),

		NextFilter: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l", "next filter"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "prev filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		GroupCycle: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "group by"),
		),
		SortCycle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by"),
		),

		TasksView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "tasks"),
		),
		FocusView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "focus"),
		),
		PomodoroView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "pomodoro"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("escape"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Add, k.Complete, k.Delete},
		{k.NextFilter, k.PrevFilter, k.Search, k.GroupCycle},
		{k.TasksView, k.FocusView, k.PomodoroView},
		{k.Refresh, k.ThemeCycle, k.Help, k.Quit},
	}
}
