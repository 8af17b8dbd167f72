// Package views derives every filtered, counted, and grouped task view
// from a raw task collection. Compute makes a single pass so all derived
// views reflect the exact same snapshot.
package views

import "github.com/gwifloria/chrome-dida-extension/internal/model"

// Counts are the sidebar badge numbers for the smart filters.
type Counts struct {
	Inbox    int
	Today    int
	Tomorrow int
	Week     int
	Overdue  int
}

// ByDate holds the date-classified buckets. Every task lands in exactly
// one bucket; pinned tasks are stored here only, even though their dates
// still credit the corresponding Counts fields.
type ByDate struct {
	Pinned   []model.Task
	Overdue  []model.Task
	Today    []model.Task
	Tomorrow []model.Task
	Later    []model.Task
	NoDate   []model.Task
}

// Computed is the full derivation from one task snapshot.
type Computed struct {
	Counts        Counts
	ProjectCounts map[string]int
	ByDate        ByDate
	Inbox         []model.Task
}

// Group is a labeled section for list display.
type Group struct {
	ID    string
	Title string
	Tasks []model.Task
}

// Smart filter names.
const (
	FilterInbox    = "inbox"
	FilterToday    = "today"
	FilterTomorrow = "tomorrow"
	FilterWeek     = "week"
	FilterOverdue  = "overdue"
	FilterNoDate   = "nodate"
)

// ProjectFilterPrefix scopes a filter to one project: "project:<id>".
const ProjectFilterPrefix = "project:"

// SortOption selects one of the total orders in SortTasks.
type SortOption string

const (
	SortPriority  SortOption = "priority"
	SortDueDate   SortOption = "dueDate"
	SortCreated   SortOption = "createdTime"
	SortSortOrder SortOption = "sortOrder"
)

// GroupOption selects a display grouping in GroupTasks.
type GroupOption string

const (
	GroupNone     GroupOption = "none"
	GroupDate     GroupOption = "date"
	GroupPriority GroupOption = "priority"
	GroupProject  GroupOption = "project"
)
