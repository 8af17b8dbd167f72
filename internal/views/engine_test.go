package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

var testRel = dates.NewRelative(time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local))

func day(offset int) string {
	return dates.Day(time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local).AddDate(0, 0, offset))
}

func TestCompute_BucketsPartitionTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: "overdue", ProjectID: "p1", DueDate: day(-2)},
		{ID: "today", ProjectID: "p1", DueDate: day(0)},
		{ID: "tomorrow", ProjectID: "p2", DueDate: day(1)},
		{ID: "later", ProjectID: "p2", DueDate: day(4)},
		{ID: "far", ProjectID: "p2", DueDate: day(30)},
		{ID: "nodate", ProjectID: "p1"},
		{ID: "pinned", ProjectID: "p1", DueDate: day(0), SortOrder: 10},
	}

	c := Compute(tasks, testRel)

	total := len(c.ByDate.Pinned) + len(c.ByDate.Overdue) + len(c.ByDate.Today) +
		len(c.ByDate.Tomorrow) + len(c.ByDate.Later) + len(c.ByDate.NoDate)
	assert.Equal(t, len(tasks), total, "every task lands in exactly one bucket")

	assert.Equal(t, []string{"pinned"}, ids(c.ByDate.Pinned))
	assert.Equal(t, []string{"overdue"}, ids(c.ByDate.Overdue))
	assert.Equal(t, []string{"today"}, ids(c.ByDate.Today))
	assert.Equal(t, []string{"tomorrow"}, ids(c.ByDate.Tomorrow))
	assert.Equal(t, []string{"later", "far"}, ids(c.ByDate.Later))
	assert.Equal(t, []string{"nodate"}, ids(c.ByDate.NoDate))
}

func TestCompute_PinnedCreditsCountsButNotBuckets(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", ProjectID: "p1", DueDate: day(0)},
		{ID: "pin-today", ProjectID: "p1", DueDate: day(0), SortOrder: 5},
		{ID: "pin-overdue", ProjectID: "p1", DueDate: day(-1), SortOrder: 3},
		{ID: "pin-week", ProjectID: "p1", DueDate: day(3), SortOrder: 1},
	}

	c := Compute(tasks, testRel)

	// The pinned tasks stay out of the date buckets...
	assert.Equal(t, []string{"t1"}, ids(c.ByDate.Today))
	assert.Empty(t, c.ByDate.Overdue)
	assert.Empty(t, c.ByDate.Later)

	// ...but their dates still credit the sidebar counts.
	assert.Equal(t, 2, c.Counts.Today)
	assert.Equal(t, 1, c.Counts.Overdue)
	assert.Equal(t, 3, c.Counts.Week) // t1, pin-today, pin-week
}

func TestCompute_PinnedSortedBySortOrderDesc(t *testing.T) {
	tasks := []model.Task{
		{ID: "low", ProjectID: "p1", SortOrder: 1},
		{ID: "high", ProjectID: "p1", SortOrder: 9},
		{ID: "mid", ProjectID: "p1", SortOrder: 5},
	}

	c := Compute(tasks, testRel)
	assert.Equal(t, []string{"high", "mid", "low"}, ids(c.ByDate.Pinned))
}

func TestCompute_InboxAndProjectCounts(t *testing.T) {
	tasks := []model.Task{
		{ID: "i1", ProjectID: "inbox123"},
		{ID: "i2", ProjectID: model.LocalInboxID},
		{ID: "p1a", ProjectID: "p1"},
		{ID: "p1b", ProjectID: "p1"},
	}

	c := Compute(tasks, testRel)

	assert.Equal(t, 2, c.Counts.Inbox)
	assert.Equal(t, []string{"i1", "i2"}, ids(c.Inbox))
	assert.Equal(t, 2, c.ProjectCounts["p1"])
	assert.Equal(t, 1, c.ProjectCounts["inbox123"])
}

func TestCompute_BucketsSortedByPriorityDesc(t *testing.T) {
	tasks := []model.Task{
		{ID: "low", ProjectID: "p1", DueDate: day(0), Priority: model.PriorityLow},
		{ID: "high", ProjectID: "p1", DueDate: day(0), Priority: model.PriorityHigh},
		{ID: "none", ProjectID: "p1", DueDate: day(0)},
	}

	c := Compute(tasks, testRel)
	assert.Equal(t, []string{"high", "low", "none"}, ids(c.ByDate.Today))
}

func TestFocusTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: "pin-due", ProjectID: "p1", DueDate: day(0), SortOrder: 2},
		{ID: "pin-future", ProjectID: "p1", DueDate: day(5), SortOrder: 1},
		{ID: "today1", ProjectID: "p1", DueDate: day(0), Priority: model.PriorityHigh},
		{ID: "today2", ProjectID: "p1", DueDate: day(0)},
		{ID: "over", ProjectID: "p1", DueDate: day(-1)},
	}

	c := Compute(tasks, testRel)
	focus := FocusTasks(c, testRel, 0)

	// Pinned-and-due leads, then today's tasks; future-pinned excluded;
	// the default limit truncates to three.
	assert.Equal(t, []string{"pin-due", "today1", "today2"}, ids(focus))
}

func TestFocusTasks_CustomLimit(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", DueDate: day(0)},
		{ID: "b", ProjectID: "p1", DueDate: day(0)},
	}

	c := Compute(tasks, testRel)
	assert.Len(t, FocusTasks(c, testRel, 1), 1)
	assert.Len(t, FocusTasks(c, testRel, 10), 2)
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
