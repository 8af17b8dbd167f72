package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

func TestFilter_SmartFilters(t *testing.T) {
	tasks := []model.Task{
		{ID: "inbox", ProjectID: "inbox1"},
		{ID: "today", ProjectID: "p1", DueDate: day(0)},
		{ID: "tomorrow", ProjectID: "p1", DueDate: day(1)},
		{ID: "week", ProjectID: "p1", DueDate: day(5)},
		{ID: "overdue", ProjectID: "p1", DueDate: day(-3)},
		{ID: "nodate", ProjectID: "p1"},
	}

	cases := []struct {
		filter string
		want   []string
	}{
		{FilterInbox, []string{"inbox"}},
		{FilterToday, []string{"today"}},
		{FilterTomorrow, []string{"tomorrow"}},
		{FilterWeek, []string{"today", "tomorrow", "week"}},
		{FilterOverdue, []string{"overdue"}},
		{FilterNoDate, []string{"inbox", "nodate"}},
		{"", []string{"inbox", "today", "tomorrow", "week", "overdue", "nodate"}},
	}

	for _, tc := range cases {
		got := Filter(tasks, tc.filter, "", testRel)
		assert.Equal(t, tc.want, ids(got), "filter %q", tc.filter)
	}
}

func TestFilter_ProjectScope(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1"},
		{ID: "b", ProjectID: "p2"},
		{ID: "c", ProjectID: "p1"},
	}

	got := Filter(tasks, ProjectFilterPrefix+"p1", "", testRel)
	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestFilter_SearchANDsWithFilter(t *testing.T) {
	tasks := []model.Task{
		{ID: "match-today", ProjectID: "p1", Title: "Buy milk", DueDate: day(0)},
		{ID: "match-later", ProjectID: "p1", Title: "Buy bread", DueDate: day(5)},
		{ID: "other-today", ProjectID: "p1", Title: "Call mom", DueDate: day(0)},
	}

	// Search narrows within the date filter, never widens past it.
	got := Filter(tasks, FilterToday, "buy", testRel)
	assert.Equal(t, []string{"match-today"}, ids(got))
}

func TestFilter_SearchMatchesTitleAndContent(t *testing.T) {
	tasks := []model.Task{
		{ID: "title", ProjectID: "p1", Title: "Write REPORT"},
		{ID: "content", ProjectID: "p1", Title: "Misc", Content: "quarterly report notes"},
		{ID: "neither", ProjectID: "p1", Title: "Groceries"},
	}

	got := Filter(tasks, "", "report", testRel)
	assert.Equal(t, []string{"title", "content"}, ids(got))

	// Whitespace-only queries match everything.
	got = Filter(tasks, "", "   ", testRel)
	assert.Len(t, got, 3)
}

func TestDatePredicates(t *testing.T) {
	assert.True(t, IsToday(day(0), testRel))
	assert.False(t, IsToday(day(1), testRel))
	assert.False(t, IsToday("", testRel))

	assert.True(t, IsTomorrow(day(1), testRel))
	assert.True(t, IsThisWeek(day(0), testRel))
	assert.True(t, IsThisWeek(day(6), testRel))
	assert.False(t, IsThisWeek(day(7), testRel))
	assert.False(t, IsThisWeek(day(-1), testRel))

	assert.True(t, IsOverdue(day(-1), testRel))
	assert.False(t, IsOverdue(day(0), testRel))
	assert.False(t, IsOverdue("", testRel))
}
