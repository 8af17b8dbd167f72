package model

// KindFolder marks a folder-marker project. Folders only group other
// projects and never hold tasks themselves.
const KindFolder = "FOLDER"

// Project represents a task list container.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Closed    bool   `json:"closed"`
	Kind      string `json:"kind,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	SortOrder int64  `json:"sortOrder"`
}

// IsActive reports whether the project should appear in task views.
// Archived projects and folder markers are excluded.
func (p *Project) IsActive() bool {
	return !p.Closed && p.Kind != KindFolder
}

// IsInbox reports whether this is the default inbox project.
func (p *Project) IsInbox() bool {
	return IsInboxProject(p.ID)
}
