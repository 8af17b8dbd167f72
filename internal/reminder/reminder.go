// Package reminder sends the once-per-day notification for tasks that are
// due today or overdue.
//
// The claim lives in the shared kv bucket: the first instance to swap
// today's day string in sends the reminders, the rest observe the claim
// and stay quiet, so concurrently open dashboards never double-notify.
package reminder

import (
	"time"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// StorageKey is the kv key holding the day the reminder last fired.
const StorageKey = "dueReminder"

// KV is the slice of durable storage the claim runs on.
type KV interface {
	KVGet(key string) (value []byte, revision int64, ok bool, err error)
	KVPut(key string, value []byte) error
	KVCompareAndSwap(key string, value []byte, oldRevision int64) (bool, error)
}

// Sender delivers one reminder. Failures are the sender's problem.
type Sender interface {
	SendDueReminder(taskTitle string, dueIn time.Duration) error
}

// Service fires reminders for due tasks at most once per calendar day
// across all instances.
type Service struct {
	kv     KV
	sender Sender
	now    func() time.Time
}

// New creates a reminder service.
func New(kv KV, sender Sender) *Service {
	return &Service{kv: kv, sender: sender, now: time.Now}
}

// SetClock injects a clock for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Check sends a reminder per due task if today is not claimed yet. Safe
// to call on every snapshot change; once today is claimed every call is a
// no-op until the day rolls over.
func (s *Service) Check(tasks []model.Task, rel dates.Relative) {
	due := dueTasks(tasks, rel)
	if len(due) == 0 {
		return
	}
	if !s.claim(rel.Today) {
		return
	}

	now := s.now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	for _, t := range due {
		dueIn := endOfDay.Sub(now)
		if dates.ExtractDay(t.DueDate) < rel.Today {
			dueIn = 0 // already overdue
		}
		// Side effect only; a failed notification never blocks the rest.
		_ = s.sender.SendDueReminder(t.Title, dueIn)
	}
}

// claim marks today as reminded. Returns false when another instance got
// there first or today was already claimed.
func (s *Service) claim(today string) bool {
	value, revision, ok, err := s.kv.KVGet(StorageKey)
	if err != nil {
		return false
	}
	if ok && string(value) == today {
		return false
	}
	if !ok {
		// First run ever; no revision to swap against.
		return s.kv.KVPut(StorageKey, []byte(today)) == nil
	}
	swapped, err := s.kv.KVCompareAndSwap(StorageKey, []byte(today), revision)
	return err == nil && swapped
}

func dueTasks(tasks []model.Task, rel dates.Relative) []model.Task {
	var due []model.Task
	for _, t := range tasks {
		if !t.IsOpen() || t.DueDate == "" {
			continue
		}
		if dates.ExtractDay(t.DueDate) <= rel.Today {
			due = append(due, t)
		}
	}
	return due
}
