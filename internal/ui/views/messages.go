package views

import (
	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/pomodoro"
	"github.com/gwifloria/chrome-dida-extension/internal/store"
)

// Messages shared between the root model and the views. The root model
// translates subscription callbacks into these and hands them down.

// SnapshotMsg carries a fresh store snapshot into the UI loop.
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

// PomodoroMsg carries the derived timer state into the UI loop.
type PomodoroMsg struct {
	State pomodoro.State
}

// DayChangedMsg fires when the local calendar day rolls over.
type DayChangedMsg struct {
	Rel dates.Relative
}
