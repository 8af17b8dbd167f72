package views

import (
	"sync"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// Grouper produces labeled date sections for a filtered subset of one task
// snapshot. Instead of re-classifying dates on every filter change, it
// intersects the filtered id set against the buckets precomputed by
// Compute, preserving their internal sort order.
type Grouper struct {
	tasks    []model.Task
	computed Computed
	rel      dates.Relative
	hash     uint32

	mu    sync.Mutex
	cache map[string][]Group
}

// NewGrouper computes the snapshot's views once and prepares the cache.
func NewGrouper(tasks []model.Task, rel dates.Relative) *Grouper {
	return &Grouper{
		tasks:    tasks,
		computed: Compute(tasks, rel),
		rel:      rel,
		hash:     hashTasks(tasks),
		cache:    make(map[string][]Group),
	}
}

// Computed exposes the underlying single-pass derivation.
func (g *Grouper) Computed() Computed { return g.computed }

// Hash is a cheap fingerprint of the task collection; group caches keyed
// on it are invalidated whenever the collection changes.
func (g *Grouper) Hash() uint32 { return g.hash }

// Groups returns the display sections for a filter and search query.
// Every (filter, query) pair computed over this snapshot stays cached, so
// toggling between sidebar filters serves earlier results; the collection
// hash is fixed for a Grouper's lifetime, so replacing the snapshot
// replaces the Grouper and with it the whole cache.
func (g *Grouper) Groups(filter, searchQuery string) []Group {
	key := filter + "\x00" + searchQuery

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.cache[key]; ok {
		return cached
	}

	filtered := Filter(g.tasks, filter, searchQuery, g.rel)
	inFilter := make(map[string]struct{}, len(filtered))
	for _, t := range filtered {
		inFilter[t.ID] = struct{}{}
	}

	pick := func(bucket []model.Task) []model.Task {
		var out []model.Task
		for _, t := range bucket {
			if _, ok := inFilter[t.ID]; ok {
				out = append(out, t)
			}
		}
		return out
	}

	sections := []Group{
		{ID: "pinned", Title: "Pinned", Tasks: pick(g.computed.ByDate.Pinned)},
		{ID: "overdue", Title: "Overdue", Tasks: pick(g.computed.ByDate.Overdue)},
		{ID: "today", Title: "Today", Tasks: pick(g.computed.ByDate.Today)},
		{ID: "tomorrow", Title: "Tomorrow", Tasks: pick(g.computed.ByDate.Tomorrow)},
		{ID: "later", Title: "Later", Tasks: pick(g.computed.ByDate.Later)},
		{ID: "nodate", Title: "No date", Tasks: pick(g.computed.ByDate.NoDate)},
	}

	groups := make([]Group, 0, len(sections))
	for _, s := range sections {
		if len(s.Tasks) > 0 {
			groups = append(groups, s)
		}
	}

	g.cache[key] = groups
	return groups
}

// hashTasks mixes the collection length with each id's first byte. Cheap
// on purpose: it only needs to change when the collection does.
func hashTasks(tasks []model.Task) uint32 {
	h := uint32(len(tasks))
	for _, t := range tasks {
		if len(t.ID) > 0 {
			h += uint32(t.ID[0])
		}
	}
	return h
}

// GroupTasks groups an arbitrary task list for display by date, priority,
// or project. Empty groups are dropped; the inbox group leads in project
// grouping.
func GroupTasks(tasks []model.Task, groupBy GroupOption, projects []model.Project, rel dates.Relative) []Group {
	switch groupBy {
	case GroupDate:
		return groupByDate(tasks, rel)
	case GroupPriority:
		return groupByPriority(tasks)
	case GroupProject:
		return groupByProject(tasks, projects)
	default:
		return []Group{{ID: "all", Title: "All tasks", Tasks: tasks}}
	}
}

func groupByDate(tasks []model.Task, rel dates.Relative) []Group {
	groups := []Group{
		{ID: "overdue", Title: "Overdue"},
		{ID: "today", Title: "Today"},
		{ID: "tomorrow", Title: "Tomorrow"},
		{ID: "week", Title: "Next 7 days"},
		{ID: "later", Title: "Later"},
		{ID: "nodate", Title: "No date"},
	}

	for _, task := range tasks {
		dateStr := dates.ExtractDay(task.DueDate)
		switch {
		case dateStr == "":
			groups[5].Tasks = append(groups[5].Tasks, task)
		case dateStr < rel.Today:
			groups[0].Tasks = append(groups[0].Tasks, task)
		case dateStr == rel.Today:
			groups[1].Tasks = append(groups[1].Tasks, task)
		case dateStr == rel.Tomorrow:
			groups[2].Tasks = append(groups[2].Tasks, task)
		case dateStr < rel.NextWeek:
			groups[3].Tasks = append(groups[3].Tasks, task)
		default:
			groups[4].Tasks = append(groups[4].Tasks, task)
		}
	}

	return dropEmpty(groups)
}

func groupByPriority(tasks []model.Task) []Group {
	groups := []Group{
		{ID: "high", Title: "High priority"},
		{ID: "medium", Title: "Medium priority"},
		{ID: "low", Title: "Low priority"},
		{ID: "none", Title: "No priority"},
	}

	for _, task := range tasks {
		switch {
		case task.Priority >= model.PriorityHigh:
			groups[0].Tasks = append(groups[0].Tasks, task)
		case task.Priority >= model.PriorityMedium:
			groups[1].Tasks = append(groups[1].Tasks, task)
		case task.Priority >= model.PriorityLow:
			groups[2].Tasks = append(groups[2].Tasks, task)
		default:
			groups[3].Tasks = append(groups[3].Tasks, task)
		}
	}

	return dropEmpty(groups)
}

func groupByProject(tasks []model.Task, projects []model.Project) []Group {
	inbox := Group{ID: "inbox", Title: "Inbox"}
	byProject := make(map[string]*Group, len(projects))
	order := make([]string, 0, len(projects))

	for _, p := range projects {
		if p.Closed || p.IsInbox() {
			continue
		}
		byProject[p.ID] = &Group{ID: p.ID, Title: p.Name}
		order = append(order, p.ID)
	}

	for _, task := range tasks {
		if task.IsInbox() {
			inbox.Tasks = append(inbox.Tasks, task)
		} else if g, ok := byProject[task.ProjectID]; ok {
			g.Tasks = append(g.Tasks, task)
		}
	}

	var groups []Group
	if len(inbox.Tasks) > 0 {
		groups = append(groups, inbox)
	}
	for _, id := range order {
		if g := byProject[id]; len(g.Tasks) > 0 {
			groups = append(groups, *g)
		}
	}
	return groups
}

func dropEmpty(groups []Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if len(g.Tasks) > 0 {
			out = append(out, g)
		}
	}
	return out
}
