package model

// LocalTaskLimit is the guest-mode task cap. Creation beyond the cap is
// rejected, never truncated.
const LocalTaskLimit = 3

// LocalTask is the reduced task variant stored on-device in guest mode.
// It has no project or content editing; everything lives in the guest inbox.
type LocalTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Priority    int    `json:"priority"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      int    `json:"status"`
	CreatedTime string `json:"createdTime"`
	IsLocal     bool   `json:"isLocal"`
}

// Task converts the guest task to the unified shape consumed by views.
func (lt *LocalTask) Task() Task {
	return Task{
		ID:          lt.ID,
		ProjectID:   LocalInboxID,
		Title:       lt.Title,
		Priority:    lt.Priority,
		DueDate:     lt.DueDate,
		Status:      lt.Status,
		SortOrder:   0,
		CreatedTime: lt.CreatedTime,
	}
}
