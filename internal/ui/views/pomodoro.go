package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwifloria/chrome-dida-extension/internal/pomodoro"
	"github.com/gwifloria/chrome-dida-extension/internal/ui/theme"
)

// PomodoroView renders the shared work/break timer. It holds no timer
// state of its own: every frame derives from the service, which in turn
// derives from the persisted record, so every open instance shows the
// same countdown.
type PomodoroView struct {
	svc *pomodoro.Service

	width  int
	height int

	state     pomodoro.State
	statusMsg string
}

// NewPomodoroView creates the pomodoro view.
func NewPomodoroView(svc *pomodoro.Service) PomodoroView {
	return PomodoroView{svc: svc, state: svc.State()}
}

// Init is a no-op; the service pushes state through the root model.
func (v PomodoroView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v PomodoroView) SetSize(width, height int) PomodoroView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode reports whether a text input owns the keyboard.
func (v PomodoroView) IsInputMode() bool {
	return false
}

// Update handles messages
func (v PomodoroView) Update(msg tea.Msg) (PomodoroView, tea.Cmd) {
	switch msg := msg.(type) {
	case PomodoroMsg:
		v.state = msg.State
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", " ":
			return v.toggle()
		case "n":
			return v.action("Skipped to next phase", v.svc.Skip)
		case "r":
			return v.action("Timer reset", v.svc.Reset)
		}
	}
	return v, nil
}

func (v PomodoroView) toggle() (PomodoroView, tea.Cmd) {
	switch {
	case v.state.Mode == pomodoro.ModeIdle:
		return v.action("Focus time started", v.svc.Start)
	case v.state.IsRunning:
		return v.action("Paused", v.svc.Pause)
	default:
		return v.action("Resumed", v.svc.Resume)
	}
}

func (v PomodoroView) action(status string, fn func() error) (PomodoroView, tea.Cmd) {
	if err := fn(); err != nil {
		v.statusMsg = err.Error()
		return v, nil
	}
	v.statusMsg = status
	v.state = v.svc.State()
	return v, nil
}

// View renders the pomodoro view.
func (v PomodoroView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme

	var color lipgloss.Color
	var label string
	switch {
	case v.state.Mode == pomodoro.ModeWork && v.state.IsRunning:
		color, label = t.Error, "FOCUS"
	case v.state.Mode == pomodoro.ModeBreak && v.state.IsRunning:
		color, label = t.Success, "BREAK"
	case v.state.Mode != pomodoro.ModeIdle:
		color, label = t.Warning, "PAUSED"
	default:
		color, label = t.Foreground, "READY"
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	timeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)

	var sections []string
	sections = append(sections, labelStyle.Render(label))
	sections = append(sections, timeStyle.Render(pomodoro.FormatTimeLeft(v.state.TimeLeft)))

	tomatoes := strings.Repeat("🍅", v.state.CompletedCount)
	if tomatoes == "" {
		tomatoes = "(none yet)"
	}
	statsStyle := lipgloss.NewStyle().Foreground(t.Subtle).MarginTop(1)
	sections = append(sections, statsStyle.Render(fmt.Sprintf("Completed today: %s", tomatoes)))

	if v.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(t.Info).MarginTop(1)
		sections = append(sections, statusStyle.Render(v.statusMsg))
	}

	controlStyle := lipgloss.NewStyle().Foreground(t.Subtle).MarginTop(2)
	var controls string
	switch {
	case v.state.Mode == pomodoro.ModeIdle:
		controls = "s/space start"
	case v.state.IsRunning:
		controls = "s/space pause • n skip phase • r reset"
	default:
		controls = "s/space resume • n skip phase • r reset"
	}
	sections = append(sections, controlStyle.Render(controls))

	block := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, block)
}
