package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
	"github.com/gwifloria/chrome-dida-extension/internal/store"
	"github.com/gwifloria/chrome-dida-extension/internal/ui/theme"
	taskviews "github.com/gwifloria/chrome-dida-extension/internal/views"
)

// FocusView shows today's short list: the top three tasks that deserve
// attention right now, pinned first.
type FocusView struct {
	store *store.Store
	rel   dates.Relative

	width  int
	height int

	snapshot store.Snapshot
	tasks    []model.Task
	cursor   int
}

// NewFocusView creates the focus view.
func NewFocusView(st *store.Store, rel dates.Relative) FocusView {
	return FocusView{store: st, rel: rel}
}

// Init is a no-op; the root model drives data loading.
func (v FocusView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v FocusView) SetSize(width, height int) FocusView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode reports whether a text input owns the keyboard.
func (v FocusView) IsInputMode() bool {
	return false
}

// Update handles messages
func (v FocusView) Update(msg tea.Msg) (FocusView, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		v.snapshot = msg.Snapshot
		v.recompute()
		return v, nil

	case DayChangedMsg:
		v.rel = msg.Rel
		v.recompute()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if v.cursor < len(v.tasks)-1 {
				v.cursor++
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
		case "tab":
			if v.cursor < len(v.tasks) {
				task := v.tasks[v.cursor]
				st := v.store
				return v, func() tea.Msg {
					if err := st.CompleteTask(context.Background(), task); err != nil {
						return tasksActionMsg{err: err}
					}
					return tasksActionMsg{status: fmt.Sprintf("Completed %q", task.Title)}
				}
			}
		}
	}
	return v, nil
}

func (v *FocusView) recompute() {
	computed := taskviews.Compute(v.snapshot.Tasks, v.rel)
	v.tasks = taskviews.FocusTasks(computed, v.rel, 0)
	if v.cursor >= len(v.tasks) {
		v.cursor = 0
	}
}

// View renders the focus view.
func (v FocusView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var lines []string
	lines = append(lines, styles.Title.Render(fmt.Sprintf("Focus · %s", v.rel.Today)))

	if len(v.tasks) == 0 {
		lines = append(lines, styles.Label.Render("Nothing urgent. Enjoy the quiet."))
		return strings.Join(lines, "\n")
	}

	for i, task := range v.tasks {
		marker := "○"
		if task.IsPinned() {
			marker = "★"
		}
		line := fmt.Sprintf("%s %s", marker, task.Title)
		if day := dates.ExtractDay(task.DueDate); day != "" {
			line += "  " + styles.DueDate.Render(day)
		}

		style := lipgloss.NewStyle().
			Foreground(theme.PriorityColor(t, task.Priority)).
			Padding(0, 1)
		if i == v.cursor {
			style = style.Background(t.Highlight).Bold(true)
		}
		lines = append(lines, style.Render(line))
	}

	lines = append(lines, "", styles.Label.Render("tab complete · j/k move"))
	return strings.Join(lines, "\n")
}
