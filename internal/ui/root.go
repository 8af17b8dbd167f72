package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwifloria/chrome-dida-extension/internal/app"
	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/pomodoro"
	"github.com/gwifloria/chrome-dida-extension/internal/ui/theme"
	"github.com/gwifloria/chrome-dida-extension/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView  View
	tasksView    views.TasksView
	focusView    views.FocusView
	pomodoroView views.PomodoroView
	helpVisible  bool

	// Subscription callbacks push into this channel; the Update loop
	// drains it one message per re-armed listen command.
	events chan tea.Msg

	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	rel := application.Dates.Relative()

	m := RootModel{
		app:          application,
		keys:         DefaultKeyMap(),
		help:         h,
		currentView:  ViewTasks,
		tasksView:    views.NewTasksView(application.Store, application.DB, rel),
		focusView:    views.NewFocusView(application.Store, rel),
		pomodoroView: views.NewPomodoroView(application.Pomodoro),
		events:       make(chan tea.Msg, 16),
	}

	application.Store.Subscribe(func() {
		m.push(views.SnapshotMsg{Snapshot: application.Store.Snapshot()})
	})
	application.Pomodoro.Subscribe(func(state pomodoro.State) {
		m.push(views.PomodoroMsg{State: state})
	})
	application.Dates.Subscribe(func(rel dates.Relative) {
		m.push(views.DayChangedMsg{Rel: rel})
	})

	return m
}

// WithView returns a copy starting on the given view.
func (m RootModel) WithView(v View) RootModel {
	m.currentView = v
	return m
}

// push enqueues an event without blocking the caller. A full queue drops
// the event; the next one carries equivalent state.
func (m RootModel) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m RootModel) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.tasksView.Init(), m.listen())
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header and footer
		contentHeight := m.height - 4
		m.tasksView = m.tasksView.SetSize(m.width, contentHeight)
		m.focusView = m.focusView.SetSize(m.width, contentHeight)
		m.pomodoroView = m.pomodoroView.SetSize(m.width, contentHeight)

	case views.SnapshotMsg:
		// Data messages fan out to every view so switching is instant.
		var cmd tea.Cmd
		m.tasksView, cmd = m.tasksView.Update(msg)
		cmds = append(cmds, cmd)
		m.focusView, cmd = m.focusView.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.listen())
		return m, tea.Batch(cmds...)

	case views.DayChangedMsg:
		var cmd tea.Cmd
		m.tasksView, cmd = m.tasksView.Update(msg)
		cmds = append(cmds, cmd)
		m.focusView, cmd = m.focusView.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.listen())
		return m, tea.Batch(cmds...)

	case views.PomodoroMsg:
		var cmd tea.Cmd
		m.pomodoroView, cmd = m.pomodoroView.Update(msg)
		cmds = append(cmds, cmd, m.listen())
		return m, tea.Batch(cmds...)

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := false
		if m.currentView == ViewTasks {
			isInputMode = m.tasksView.IsInputMode()
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if !isInputMode {
			switch {
			case key.Matches(msg, m.keys.Help):
				m.helpVisible = !m.helpVisible
				m.help.ShowAll = m.helpVisible
				return m, nil

			case key.Matches(msg, m.keys.TasksView):
				m.currentView = ViewTasks
				return m, nil
			case key.Matches(msg, m.keys.FocusView):
				m.currentView = ViewFocus
				return m, nil
			case key.Matches(msg, m.keys.PomodoroView):
				m.currentView = ViewPomodoro
				return m, nil
			}
		}
	}

	// Delegate to current view
	switch m.currentView {
	case ViewTasks:
		newView, cmd := m.tasksView.Update(msg)
		m.tasksView = newView
		cmds = append(cmds, cmd)
	case ViewFocus:
		newView, cmd := m.focusView.Update(msg)
		m.focusView = newView
		cmds = append(cmds, cmd)
	case ViewPomodoro:
		newView, cmd := m.pomodoroView.Update(msg)
		m.pomodoroView = newView
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewTasks:
			content = m.tasksView.View()
		case ViewFocus:
			content = m.focusView.View()
		case ViewPomodoro:
			content = m.pomodoroView.View()
		}
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("dida")

	infoStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := infoStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))
	modeIndicator := infoStyle.Render(fmt.Sprintf("mode: %s", m.app.Mode()))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := modeIndicator

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string
	switch m.currentView {
	case ViewTasks:
		if m.tasksView.IsInputMode() {
			line1 = key("enter", "confirm") + sep + key("esc", "cancel")
		} else {
			line1 = key("a", "add") + sep +
				key("tab", "complete") + sep +
				key("d", "del") + sep +
				key("/", "search") + sep +
				key("h/l", "filter")
			line2 = key("o", "group") + sep +
				key("s", "sort") + sep +
				key("r", "refresh") + sep +
				key("1-3", "views") + sep +
				key("?", "help")
		}

	case ViewFocus:
		line1 = key("j/k", "navigate") + sep + key("tab", "complete")
		line2 = key("1-3", "views") + sep + key("?", "help")

	case ViewPomodoro:
		line1 = key("s/space", "start/pause") + sep +
			key("n", "skip") + sep +
			key("r", "reset")
		line2 = key("1-3", "views") + sep + key("?", "help")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	section := func(b *strings.Builder, title string, rows [][]string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, kv := range rows {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dida Help"))
	b.WriteString("\n\n")

	section(&b, "Navigation", [][]string{
		{"↑/k ↓/j", "Navigate up/down"},
		{"g / G", "Go to top/bottom"},
		{"h / l", "Previous/next filter"},
	})
	section(&b, "Task Actions", [][]string{
		{"a", "Add task (title !high due:tomorrow)"},
		{"tab", "Complete task"},
		{"d", "Delete task"},
		{"space", "Fold/unfold group"},
	})
	section(&b, "Display", [][]string{
		{"/", "Search (title and notes)"},
		{"o", "Cycle grouping (date, priority, project)"},
		{"s", "Cycle sort order"},
		{"r", "Refresh from backend"},
	})
	section(&b, "Views", [][]string{
		{"1", "Task list"},
		{"2", "Focus (top three for today)"},
		{"3", "Pomodoro timer"},
	})
	section(&b, "System", [][]string{
		{"ctrl+t", "Cycle theme"},
		{"q / ctrl+c", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? to close"))

	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
