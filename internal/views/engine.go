package views

import (
	"sort"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// Compute derives counts, project counts, date buckets, and the inbox list
// in one linear pass over tasks.
//
// Pinned tasks (positive sort order) go to the pinned bucket but still
// credit the count of their natural date bucket, so sidebar badges stay
// accurate while the list shows them separately.
func Compute(tasks []model.Task, rel dates.Relative) Computed {
	result := Computed{
		ProjectCounts: make(map[string]int),
	}

	for _, task := range tasks {
		result.ProjectCounts[task.ProjectID]++

		if task.IsInbox() {
			result.Inbox = append(result.Inbox, task)
			result.Counts.Inbox++
		}

		dateStr := dates.ExtractDay(task.DueDate)

		switch {
		case task.IsPinned():
			result.ByDate.Pinned = append(result.ByDate.Pinned, task)
			switch {
			case dateStr == rel.Today:
				result.Counts.Today++
				result.Counts.Week++
			case dateStr == rel.Tomorrow:
				result.Counts.Tomorrow++
				result.Counts.Week++
			case dateStr != "" && dateStr < rel.Today:
				result.Counts.Overdue++
			case dateStr != "" && dateStr < rel.NextWeek:
				result.Counts.Week++
			}

		case dateStr == "":
			result.ByDate.NoDate = append(result.ByDate.NoDate, task)

		case dateStr < rel.Today:
			result.ByDate.Overdue = append(result.ByDate.Overdue, task)
			result.Counts.Overdue++

		case dateStr == rel.Today:
			result.ByDate.Today = append(result.ByDate.Today, task)
			result.Counts.Today++
			result.Counts.Week++

		case dateStr == rel.Tomorrow:
			result.ByDate.Tomorrow = append(result.ByDate.Tomorrow, task)
			result.Counts.Tomorrow++
			result.Counts.Week++

		case dateStr < rel.NextWeek:
			result.ByDate.Later = append(result.ByDate.Later, task)
			result.Counts.Week++

		default:
			result.ByDate.Later = append(result.ByDate.Later, task)
		}
	}

	sortBySortOrderDesc(result.ByDate.Pinned)
	sortByPriorityDesc(result.ByDate.Overdue)
	sortByPriorityDesc(result.ByDate.Today)
	sortByPriorityDesc(result.ByDate.Tomorrow)
	sortByPriorityDesc(result.ByDate.Later)
	sortByPriorityDesc(result.ByDate.NoDate)

	return result
}

// FocusTasks selects the small "what to do now" subset: pinned tasks due
// today or earlier, then today's tasks, then overdue, truncated to limit.
func FocusTasks(c Computed, rel dates.Relative, limit int) []model.Task {
	if limit <= 0 {
		limit = 3
	}

	var combined []model.Task
	for _, t := range c.ByDate.Pinned {
		dateStr := dates.ExtractDay(t.DueDate)
		if dateStr != "" && dateStr <= rel.Today {
			combined = append(combined, t)
		}
	}
	combined = append(combined, c.ByDate.Today...)
	combined = append(combined, c.ByDate.Overdue...)

	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}

func sortByPriorityDesc(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority > tasks[j].Priority
	})
}

func sortBySortOrderDesc(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].SortOrder > tasks[j].SortOrder
	})
}
