package views

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
	"github.com/gwifloria/chrome-dida-extension/internal/quickadd"
	"github.com/gwifloria/chrome-dida-extension/internal/store"
	"github.com/gwifloria/chrome-dida-extension/internal/ui/theme"
	taskviews "github.com/gwifloria/chrome-dida-extension/internal/views"
)

const sidebarWidth = 26

// collapsedKey is the kv key remembering which groups are folded, so the
// state survives restarts and is shared by concurrent instances.
const collapsedKey = "collapsedGroups"

// CollapseStore persists the folded-group set.
type CollapseStore interface {
	KVGet(key string) (value []byte, revision int64, ok bool, err error)
	KVPut(key string, value []byte) error
}

type tasksMode int

const (
	tasksModeNormal tasksMode = iota
	tasksModeSearch
	tasksModeAdd
)

// filterEntry is one sidebar row.
type filterEntry struct {
	key   string
	label string
	count int
}

// TasksView is the main task list: smart-filter sidebar, grouped list,
// search, and quick add.
type TasksView struct {
	store *store.Store
	kv    CollapseStore
	rel   dates.Relative

	width  int
	height int

	snapshot store.Snapshot
	grouper  *taskviews.Grouper

	filterIdx int
	filters   []filterEntry
	groupBy   taskviews.GroupOption
	sortBy    taskviews.SortOption
	cursor    int

	mode        tasksMode
	searchInput textinput.Model
	addInput    textinput.Model
	searchQuery string

	collapsed map[string]bool

	statusMsg string
}

// NewTasksView creates the task list view.
func NewTasksView(st *store.Store, kv CollapseStore, rel dates.Relative) TasksView {
	search := textinput.New()
	search.Placeholder = "search tasks"
	search.CharLimit = 120

	add := textinput.New()
	add.Placeholder = "title !high due:tomorrow"
	add.CharLimit = 200

	v := TasksView{
		store:       st,
		kv:          kv,
		rel:         rel,
		groupBy:     taskviews.GroupDate,
		sortBy:      taskviews.SortPriority,
		searchInput: search,
		addInput:    add,
		collapsed:   map[string]bool{},
	}
	v.loadCollapsed()
	return v
}

// Init triggers the initial data load.
func (v TasksView) Init() tea.Cmd {
	return v.refreshCmd()
}

// SetSize sets the view dimensions
func (v TasksView) SetSize(width, height int) TasksView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode reports whether a text input owns the keyboard.
func (v TasksView) IsInputMode() bool {
	return v.mode != tasksModeNormal
}

type tasksActionMsg struct {
	status string
	err    error
}

func (v TasksView) refreshCmd() tea.Cmd {
	st := v.store
	return func() tea.Msg {
		st.Refresh(context.Background())
		return nil
	}
}

// Update handles messages
func (v TasksView) Update(msg tea.Msg) (TasksView, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		v.snapshot = msg.Snapshot
		v.grouper = taskviews.NewGrouper(msg.Snapshot.Tasks, v.rel)
		v.rebuildFilters()
		v.clampCursor()
		return v, nil

	case DayChangedMsg:
		v.rel = msg.Rel
		if v.snapshot.Tasks != nil {
			v.grouper = taskviews.NewGrouper(v.snapshot.Tasks, v.rel)
			v.rebuildFilters()
		}
		return v, nil

	case tasksActionMsg:
		if msg.err != nil {
			v.statusMsg = msg.err.Error()
		} else {
			v.statusMsg = msg.status
		}
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case tasksModeSearch:
			return v.updateSearch(msg)
		case tasksModeAdd:
			return v.updateAdd(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v TasksView) updateSearch(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.searchQuery = v.searchInput.Value()
		v.mode = tasksModeNormal
		v.searchInput.Blur()
		v.cursor = 0
		return v, nil
	case "esc":
		v.searchInput.SetValue("")
		v.searchQuery = ""
		v.mode = tasksModeNormal
		v.searchInput.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.searchQuery = v.searchInput.Value()
	return v, cmd
}

func (v TasksView) updateAdd(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		line := v.addInput.Value()
		v.addInput.SetValue("")
		v.mode = tasksModeNormal
		v.addInput.Blur()
		if strings.TrimSpace(line) == "" {
			return v, nil
		}
		return v, v.createCmd(line)
	case "esc":
		v.addInput.SetValue("")
		v.mode = tasksModeNormal
		v.addInput.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.addInput, cmd = v.addInput.Update(msg)
	return v, cmd
}

func (v TasksView) updateNormal(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		v.cursor++
		v.clampCursor()
		return v, nil

	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case "g":
		v.cursor = 0
		return v, nil

	case "G":
		v.cursor = len(v.visibleTasks()) - 1
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case "h", "left":
		if v.filterIdx > 0 {
			v.filterIdx--
			v.cursor = 0
		}
		return v, nil

	case "l", "right":
		if v.filterIdx < len(v.filters)-1 {
			v.filterIdx++
			v.cursor = 0
		}
		return v, nil

	case "/":
		v.mode = tasksModeSearch
		return v, v.searchInput.Focus()

	case "a":
		v.mode = tasksModeAdd
		return v, v.addInput.Focus()

	case "o":
		v.groupBy = nextGroupOption(v.groupBy)
		v.cursor = 0
		return v, nil

	case "s":
		v.sortBy = nextSortOption(v.sortBy)
		return v, nil

	case "r":
		return v, v.refreshCmd()

	case "tab":
		if task, ok := v.taskAtCursor(); ok {
			return v, v.completeCmd(task)
		}
		return v, nil

	case "d":
		if task, ok := v.taskAtCursor(); ok {
			return v, v.deleteCmd(task)
		}
		return v, nil

	case " ":
		if group, ok := v.groupAtCursor(); ok {
			v.collapsed[group] = !v.collapsed[group]
			v.saveCollapsed()
		}
		return v, nil
	}

	return v, nil
}

func (v TasksView) createCmd(line string) tea.Cmd {
	st := v.store
	input := quickadd.Parse(line, time.Now())
	create := adapter.CreateTaskInput{
		Title:    input.Title,
		Priority: input.Priority,
		DueDate:  input.DueDate,
	}
	// Adding while a project filter is active files the task there.
	if id, ok := strings.CutPrefix(v.currentFilter(), taskviews.ProjectFilterPrefix); ok {
		create.ProjectID = id
	}
	return func() tea.Msg {
		task, err := st.CreateTask(context.Background(), create)
		if err != nil {
			return tasksActionMsg{err: err}
		}
		return tasksActionMsg{status: fmt.Sprintf("Added %q", task.Title)}
	}
}

func (v TasksView) completeCmd(task model.Task) tea.Cmd {
	st := v.store
	return func() tea.Msg {
		if err := st.CompleteTask(context.Background(), task); err != nil {
			return tasksActionMsg{err: err}
		}
		return tasksActionMsg{status: fmt.Sprintf("Completed %q", task.Title)}
	}
}

func (v TasksView) deleteCmd(task model.Task) tea.Cmd {
	st := v.store
	return func() tea.Msg {
		if err := st.DeleteTask(context.Background(), task); err != nil {
			return tasksActionMsg{err: err}
		}
		return tasksActionMsg{status: fmt.Sprintf("Deleted %q", task.Title)}
	}
}

// rebuildFilters recomputes the sidebar from the latest snapshot.
func (v *TasksView) rebuildFilters() {
	var current string
	if len(v.filters) > 0 {
		current = v.filters[v.filterIdx].key
	}

	c := v.grouper.Computed()
	entries := []filterEntry{
		{key: "", label: "All", count: len(v.snapshot.Tasks)},
		{key: taskviews.FilterInbox, label: "Inbox", count: c.Counts.Inbox},
		{key: taskviews.FilterToday, label: "Today", count: c.Counts.Today},
		{key: taskviews.FilterTomorrow, label: "Tomorrow", count: c.Counts.Tomorrow},
		{key: taskviews.FilterWeek, label: "Next 7 Days", count: c.Counts.Week},
		{key: taskviews.FilterOverdue, label: "Overdue", count: c.Counts.Overdue},
	}
	for _, p := range v.snapshot.Projects {
		if !p.IsActive() || p.IsInbox() {
			continue
		}
		entries = append(entries, filterEntry{
			key:   taskviews.ProjectFilterPrefix + p.ID,
			label: p.Name,
			count: c.ProjectCounts[p.ID],
		})
	}

	v.filters = entries
	v.filterIdx = 0
	for i, e := range entries {
		if e.key == current {
			v.filterIdx = i
			break
		}
	}
}

func (v TasksView) currentFilter() string {
	if len(v.filters) == 0 {
		return ""
	}
	return v.filters[v.filterIdx].key
}

// groups returns the sections currently displayed. The smart-filter
// grouping comes from the precomputed buckets; the display group modes
// re-group the filtered slice.
func (v TasksView) groups() []taskviews.Group {
	if v.grouper == nil {
		return nil
	}
	filter := v.currentFilter()
	if v.groupBy == taskviews.GroupDate && filter != taskviews.FilterInbox {
		return v.grouper.Groups(filter, v.searchQuery)
	}

	filtered := taskviews.Filter(v.snapshot.Tasks, filter, v.searchQuery, v.rel)
	filtered = taskviews.SortTasks(filtered, v.sortBy)
	if v.groupBy == taskviews.GroupNone {
		return []taskviews.Group{{ID: "all", Title: "", Tasks: filtered}}
	}
	return taskviews.GroupTasks(filtered, v.groupBy, v.snapshot.Projects, v.rel)
}

// visibleTasks flattens the non-collapsed groups in display order.
func (v TasksView) visibleTasks() []model.Task {
	var out []model.Task
	for _, g := range v.groups() {
		if v.collapsed[g.ID] {
			continue
		}
		out = append(out, g.Tasks...)
	}
	return out
}

func (v TasksView) taskAtCursor() (model.Task, bool) {
	tasks := v.visibleTasks()
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[v.cursor], true
}

// groupAtCursor returns the group the cursor row belongs to.
func (v TasksView) groupAtCursor() (string, bool) {
	i := v.cursor
	for _, g := range v.groups() {
		if v.collapsed[g.ID] {
			continue
		}
		if i < len(g.Tasks) {
			return g.ID, true
		}
		i -= len(g.Tasks)
	}
	return "", false
}

func (v *TasksView) clampCursor() {
	n := len(v.visibleTasks())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *TasksView) loadCollapsed() {
	if v.kv == nil {
		return
	}
	data, _, ok, err := v.kv.KVGet(collapsedKey)
	if err != nil || !ok {
		return
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return
	}
	for _, id := range ids {
		v.collapsed[id] = true
	}
}

func (v TasksView) saveCollapsed() {
	if v.kv == nil {
		return
	}
	var ids []string
	for id, folded := range v.collapsed {
		if folded {
			ids = append(ids, id)
		}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	v.kv.KVPut(collapsedKey, data)
}

// View renders the task list view.
func (v TasksView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	sidebar := v.renderSidebar()
	list := v.renderList()

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, list)
}

func (v TasksView) renderSidebar() string {
	styles := theme.Current.Styles

	var lines []string
	for i, e := range v.filters {
		label := fmt.Sprintf("%-16s %s", e.label, styles.SidebarCount.Render(fmt.Sprintf("%d", e.count)))
		if i == v.filterIdx {
			lines = append(lines, styles.SidebarActive.Render("› "+label))
		} else {
			lines = append(lines, styles.SidebarItem.Render("  "+label))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, styles.SidebarItem.Render("  (no data)"))
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(v.height).
		Render(strings.Join(lines, "\n"))
}

func (v TasksView) renderList() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	var lines []string

	// Input row
	switch v.mode {
	case tasksModeSearch:
		lines = append(lines, styles.InputFocused.Render(v.searchInput.View()))
	case tasksModeAdd:
		lines = append(lines, styles.InputFocused.Render(v.addInput.View()))
	default:
		if v.searchQuery != "" {
			lines = append(lines, styles.Label.Render(fmt.Sprintf("search: %q (esc via / to clear)", v.searchQuery)))
		}
	}

	if v.snapshot.Loading && len(v.snapshot.Tasks) == 0 {
		lines = append(lines, styles.Label.Render("Loading tasks..."))
		return strings.Join(lines, "\n")
	}
	if v.snapshot.Err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(v.snapshot.Err.Error()))
	}

	row := 0
	for _, g := range v.groups() {
		if g.Title != "" {
			marker := "▾"
			if v.collapsed[g.ID] {
				marker = "▸"
			}
			lines = append(lines, styles.GroupTitle.Render(fmt.Sprintf("%s %s (%d)", marker, g.Title, len(g.Tasks))))
		}
		if v.collapsed[g.ID] {
			continue
		}
		for _, task := range g.Tasks {
			lines = append(lines, v.renderTask(task, row == v.cursor))
			row++
		}
	}

	if row == 0 {
		lines = append(lines, styles.Label.Render("No tasks here. Press a to add one."))
	}

	if v.statusMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}

	return lipgloss.NewStyle().
		Width(v.width - sidebarWidth).
		Render(strings.Join(lines, "\n"))
}

func (v TasksView) renderTask(task model.Task, selected bool) string {
	styles := theme.Current.Styles

	prio := ""
	switch {
	case task.Priority >= model.PriorityHigh:
		prio = "!!! "
	case task.Priority >= model.PriorityMedium:
		prio = "!! "
	case task.Priority >= model.PriorityLow:
		prio = "! "
	}

	line := "○ " + prio + task.Title
	if task.IsPinned() {
		line = "★ " + prio + task.Title
	}
	if day := dates.ExtractDay(task.DueDate); day != "" {
		line += "  " + styles.DueDate.Render(day)
	}

	style := styles.TaskNormal
	switch {
	case selected:
		style = styles.TaskSelected
	case taskviews.IsOverdue(task.DueDate, v.rel):
		style = styles.TaskOverdue
	case task.IsPinned():
		style = styles.TaskPinned
	}

	return style.Render(line)
}

func nextGroupOption(g taskviews.GroupOption) taskviews.GroupOption {
	switch g {
	case taskviews.GroupDate:
		return taskviews.GroupPriority
	case taskviews.GroupPriority:
		return taskviews.GroupProject
	case taskviews.GroupProject:
		return taskviews.GroupNone
	default:
		return taskviews.GroupDate
	}
}

func nextSortOption(s taskviews.SortOption) taskviews.SortOption {
	switch s {
	case taskviews.SortPriority:
		return taskviews.SortDueDate
	case taskviews.SortDueDate:
		return taskviews.SortCreated
	case taskviews.SortCreated:
		return taskviews.SortSortOrder
	default:
		return taskviews.SortPriority
	}
}
