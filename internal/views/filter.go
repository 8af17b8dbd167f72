package views

import (
	"strings"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// Date predicates, all comparing local day strings against the same
// Relative snapshot.

// IsToday reports whether dueDate falls on rel.Today.
func IsToday(dueDate string, rel dates.Relative) bool {
	return dueDate != "" && dates.ExtractDay(dueDate) == rel.Today
}

// IsTomorrow reports whether dueDate falls on rel.Tomorrow.
func IsTomorrow(dueDate string, rel dates.Relative) bool {
	return dueDate != "" && dates.ExtractDay(dueDate) == rel.Tomorrow
}

// IsThisWeek reports whether dueDate falls within [today, today+7).
func IsThisWeek(dueDate string, rel dates.Relative) bool {
	if dueDate == "" {
		return false
	}
	day := dates.ExtractDay(dueDate)
	return day >= rel.Today && day < rel.NextWeek
}

// IsOverdue reports whether dueDate is strictly before today.
func IsOverdue(dueDate string, rel dates.Relative) bool {
	return dueDate != "" && dates.ExtractDay(dueDate) < rel.Today
}

// Filter applies a primary filter ("project:<id>" or a smart filter name),
// then narrows by a case-insensitive substring search over title and
// content. The search ANDs with the primary filter, never ORs.
func Filter(tasks []model.Task, filter, searchQuery string, rel dates.Relative) []model.Task {
	filtered := tasks

	if projectID, ok := strings.CutPrefix(filter, ProjectFilterPrefix); ok {
		filtered = keep(filtered, func(t model.Task) bool {
			return t.ProjectID == projectID
		})
	} else {
		switch filter {
		case FilterInbox:
			filtered = keep(filtered, func(t model.Task) bool { return t.IsInbox() })
		case FilterToday:
			filtered = keep(filtered, func(t model.Task) bool { return IsToday(t.DueDate, rel) })
		case FilterTomorrow:
			filtered = keep(filtered, func(t model.Task) bool { return IsTomorrow(t.DueDate, rel) })
		case FilterWeek:
			filtered = keep(filtered, func(t model.Task) bool { return IsThisWeek(t.DueDate, rel) })
		case FilterOverdue:
			filtered = keep(filtered, func(t model.Task) bool { return IsOverdue(t.DueDate, rel) })
		case FilterNoDate:
			filtered = keep(filtered, func(t model.Task) bool { return t.DueDate == "" })
		}
	}

	query := strings.ToLower(strings.TrimSpace(searchQuery))
	if query != "" {
		filtered = keep(filtered, func(t model.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), query) ||
				strings.Contains(strings.ToLower(t.Content), query)
		})
	}

	return filtered
}

func keep(tasks []model.Task, pred func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
