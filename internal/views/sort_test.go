package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

func TestSortTasks_Priority(t *testing.T) {
	tasks := []model.Task{
		{ID: "none", Priority: model.PriorityNone},
		{ID: "high", Priority: model.PriorityHigh},
		{ID: "low", Priority: model.PriorityLow},
		{ID: "medium", Priority: model.PriorityMedium},
	}

	got := SortTasks(tasks, SortPriority)
	assert.Equal(t, []string{"high", "medium", "low", "none"}, ids(got))

	// Input untouched.
	assert.Equal(t, "none", tasks[0].ID)
}

func TestSortTasks_DueDateEmptyLast(t *testing.T) {
	tasks := []model.Task{
		{ID: "none1"},
		{ID: "late", DueDate: "2026-09-01"},
		{ID: "early", DueDate: "2026-01-01"},
		{ID: "none2"},
	}

	got := SortTasks(tasks, SortDueDate)
	assert.Equal(t, []string{"early", "late", "none1", "none2"}, ids(got))
}

func TestSortTasks_CreatedNewestFirst(t *testing.T) {
	tasks := []model.Task{
		{ID: "old", CreatedTime: "2026-01-01T00:00:00Z"},
		{ID: "new", CreatedTime: "2026-06-01T00:00:00Z"},
	}

	got := SortTasks(tasks, SortCreated)
	assert.Equal(t, []string{"new", "old"}, ids(got))
}

func TestSortTasks_Stable(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: model.PriorityHigh},
		{ID: "b", Priority: model.PriorityHigh},
		{ID: "c", Priority: model.PriorityHigh},
	}

	got := SortTasks(tasks, SortPriority)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got), "equal keys keep original order")
}
