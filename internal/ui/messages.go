package ui

// View represents the current active view
type View int

const (
	ViewTasks View = iota
	ViewFocus
	ViewPomodoro
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewTasks:
		return "Tasks"
	case ViewFocus:
		return "Focus"
	case ViewPomodoro:
		return "Pomodoro"
	default:
		return "Unknown"
	}
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}
