package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

func TestGrouper_SectionsPreserveBucketOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "pin", ProjectID: "p1", SortOrder: 1},
		{ID: "over", ProjectID: "p1", DueDate: day(-1)},
		{ID: "today-high", ProjectID: "p1", DueDate: day(0), Priority: model.PriorityHigh},
		{ID: "today-low", ProjectID: "p1", DueDate: day(0), Priority: model.PriorityLow},
		{ID: "none", ProjectID: "p1"},
	}

	g := NewGrouper(tasks, testRel)
	groups := g.Groups("", "")

	var titles []string
	for _, grp := range groups {
		titles = append(titles, grp.Title)
	}
	assert.Equal(t, []string{"Pinned", "Overdue", "Today", "No date"}, titles, "empty sections dropped")

	assert.Equal(t, []string{"today-high", "today-low"}, ids(groups[2].Tasks),
		"sections inherit the bucket's priority order")
}

func TestGrouper_FilterIntersectsBuckets(t *testing.T) {
	tasks := []model.Task{
		{ID: "today-p1", ProjectID: "p1", DueDate: day(0)},
		{ID: "today-p2", ProjectID: "p2", DueDate: day(0)},
		{ID: "later-p1", ProjectID: "p1", DueDate: day(10)},
	}

	g := NewGrouper(tasks, testRel)
	groups := g.Groups(ProjectFilterPrefix+"p1", "")

	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"today-p1"}, ids(groups[0].Tasks))
	assert.Equal(t, []string{"later-p1"}, ids(groups[1].Tasks))
}

func TestGrouper_CachesPerFilterAndQuery(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", DueDate: day(0), Title: "alpha"},
	}

	g := NewGrouper(tasks, testRel)
	first := g.Groups(FilterToday, "")
	second := g.Groups(FilterToday, "")
	assert.Equal(t, first, second)

	// A different query recomputes rather than serving the stale entry.
	none := g.Groups(FilterToday, "zzz")
	assert.Empty(t, none)
}

func TestGrouper_CacheSurvivesFilterToggle(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", DueDate: day(0)},
		{ID: "b", ProjectID: "p2", DueDate: day(0)},
	}

	g := NewGrouper(tasks, testRel)
	first := g.Groups(ProjectFilterPrefix+"p1", "")
	g.Groups(ProjectFilterPrefix+"p2", "")
	again := g.Groups(ProjectFilterPrefix+"p1", "")

	// Alternating between sidebar filters must serve the cached slice,
	// not a freshly computed one.
	require.NotEmpty(t, first)
	assert.True(t, &first[0] == &again[0])
}

func TestGrouper_HashChangesWithCollection(t *testing.T) {
	a := NewGrouper([]model.Task{{ID: "a"}}, testRel)
	b := NewGrouper([]model.Task{{ID: "a"}, {ID: "b"}}, testRel)
	assert.NotEqual(t, a.Hash(), b.Hash())

	same := NewGrouper([]model.Task{{ID: "a"}}, testRel)
	assert.Equal(t, a.Hash(), same.Hash())
}

func TestGroupTasks_ByDate(t *testing.T) {
	tasks := []model.Task{
		{ID: "week", ProjectID: "p1", DueDate: day(3)},
		{ID: "today", ProjectID: "p1", DueDate: day(0)},
		{ID: "far", ProjectID: "p1", DueDate: day(20)},
	}

	groups := GroupTasks(tasks, GroupDate, nil, testRel)

	var titles []string
	for _, g := range groups {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"Today", "Next 7 days", "Later"}, titles)
}

func TestGroupTasks_ByPriority(t *testing.T) {
	tasks := []model.Task{
		{ID: "h", Priority: model.PriorityHigh},
		{ID: "m", Priority: model.PriorityMedium},
		{ID: "n"},
	}

	groups := GroupTasks(tasks, GroupPriority, nil, testRel)
	assert.Len(t, groups, 3)
	assert.Equal(t, "High priority", groups[0].Title)
	assert.Equal(t, "No priority", groups[2].Title)
}

func TestGroupTasks_ByProject(t *testing.T) {
	projects := []model.Project{
		{ID: "p1", Name: "Work"},
		{ID: "p2", Name: "Closed", Closed: true},
	}
	tasks := []model.Task{
		{ID: "w", ProjectID: "p1"},
		{ID: "i", ProjectID: "inbox1"},
		{ID: "gone", ProjectID: "p2"},
	}

	groups := GroupTasks(tasks, GroupProject, projects, testRel)

	// Inbox leads; tasks of closed projects are not shown.
	assert.Len(t, groups, 2)
	assert.Equal(t, "Inbox", groups[0].Title)
	assert.Equal(t, "Work", groups[1].Title)
}
