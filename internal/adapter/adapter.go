// Package adapter unifies the task backends behind one contract.
//
// Two variants exist: the remote DidaList API and the on-device guest
// store. The rest of the system only ever sees TaskAdapter.
package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/gwifloria/chrome-dida-extension/internal/auth"
	"github.com/gwifloria/chrome-dida-extension/internal/db"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// CreateTaskInput carries the fields accepted on task creation.
type CreateTaskInput struct {
	Title     string
	ProjectID string
	Content   string
	Priority  int
	DueDate   string
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title     *string
	Content   *string
	Priority  *int
	DueDate   *string
	ProjectID *string
}

// AllTasks is the aggregate fetch result.
type AllTasks struct {
	Tasks    []model.Task
	Projects []model.Project
}

// TaskAdapter is the uniform backend contract.
type TaskAdapter interface {
	Name() string
	GetProjects(ctx context.Context) ([]model.Project, error)
	GetAllTasks(ctx context.Context) (AllTasks, error)
	GetInboxTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, input CreateTaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (model.Task, error)
	CompleteTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, task model.Task) error
}

// Kind selects a backend variant.
type Kind int

const (
	KindRemote Kind = iota
	KindLocal
)

// String returns the adapter name for a kind.
func (k Kind) String() string {
	if k == KindLocal {
		return "local"
	}
	return "didaList"
}

// KindForMode maps connection state to the active backend: connected users
// get the remote adapter, guests get local storage.
func KindForMode(connected bool) Kind {
	if connected {
		return KindRemote
	}
	return KindLocal
}

// Factory builds and memoizes adapter instances per kind, so repeated
// selection never churns duplicate instances. The tuning fields carry the
// configured fetch and guest-cap settings; non-positive values select the
// built-in defaults.
type Factory struct {
	BaseURL string
	Tokens  auth.TokenSource
	DB      *db.DB

	GuestTaskLimit   int
	FetchConcurrency int
	FetchRetries     int
	RetryStep        time.Duration

	mu    sync.Mutex
	cache map[Kind]TaskAdapter
}

// Adapter returns the memoized adapter for a kind, creating it on first use.
func (f *Factory) Adapter(kind Kind) TaskAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cache == nil {
		f.cache = make(map[Kind]TaskAdapter)
	}
	if a, ok := f.cache[kind]; ok {
		return a
	}

	var a TaskAdapter
	switch kind {
	case KindLocal:
		a = NewLocalAdapter(f.DB, f.GuestTaskLimit)
	default:
		r := NewRemoteAdapter(NewClient(f.BaseURL, f.Tokens), f.DB)
		if f.FetchConcurrency > 0 {
			r.concurrency = f.FetchConcurrency
		}
		if f.FetchRetries > 0 {
			r.retries = f.FetchRetries
		}
		if f.RetryStep > 0 {
			r.retryStep = f.RetryStep
		}
		a = r
	}
	f.cache[kind] = a
	return a
}
