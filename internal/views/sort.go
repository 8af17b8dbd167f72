package views

import (
	"sort"

	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// SortTasks returns a sorted copy without mutating the input. All orders
// are stable: equal keys preserve original relative order.
func SortTasks(tasks []model.Task, by SortOption) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	switch by {
	case SortPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority > sorted[j].Priority
		})
	case SortDueDate:
		// Earliest first; tasks without a due date sort last.
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i].DueDate, sorted[j].DueDate
			if a == "" {
				return false
			}
			if b == "" {
				return true
			}
			return a < b
		})
	case SortCreated:
		// Newest first.
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedTime > sorted[j].CreatedTime
		})
	case SortSortOrder:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].SortOrder > sorted[j].SortOrder
		})
	}

	return sorted
}
