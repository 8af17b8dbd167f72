package model

import "strings"

// Task status values as used by the DidaList API.
const (
	StatusOpen      = 0
	StatusCompleted = 2
)

// Priority levels. The values are non-contiguous on purpose: they mirror
// the backend's encoding, and ordering compares the raw integers.
const (
	PriorityNone   = 0
	PriorityLow    = 1
	PriorityMedium = 3
	PriorityHigh   = 5
)

// InboxPrefix marks the default unfiled project. Remote inbox project ids
// all start with this prefix (e.g. "inbox1014535387").
const InboxPrefix = "inbox"

// LocalInboxID is the reserved project id for guest-mode tasks.
const LocalInboxID = "local-inbox"

// Task represents one actionable item from either backend.
type Task struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Content     string `json:"content,omitempty"`
	Priority    int    `json:"priority"`
	DueDate     string `json:"dueDate,omitempty"` // ISO-8601; empty means no date
	Status      int    `json:"status"`
	SortOrder   int64  `json:"sortOrder"`
	CreatedTime string `json:"createdTime,omitempty"`
}

// IsInbox reports whether the task lives in the default inbox, remote or guest.
func (t *Task) IsInbox() bool {
	return IsInboxProject(t.ProjectID)
}

// IsPinned reports whether the task is user-pinned. Pinned tasks carry a
// positive sort order and are displayed ahead of date-based grouping.
func (t *Task) IsPinned() bool {
	return t.SortOrder > 0
}

// IsOpen reports whether the task is still actionable.
func (t *Task) IsOpen() bool {
	return t.Status == StatusOpen
}

// IsInboxProject reports whether a project id denotes the default inbox.
func IsInboxProject(projectID string) bool {
	return strings.HasPrefix(projectID, InboxPrefix) || projectID == LocalInboxID
}
