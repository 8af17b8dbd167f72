// Package store owns the authoritative in-memory task and project
// collection, mediating between the active adapter and everything that
// renders tasks.
package store

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// CacheReader yields the last successful remote aggregate when a refresh
// fails. Guest mode never falls back to it.
type CacheReader interface {
	CachedTasks() ([]model.Task, bool, error)
	CachedProjects() ([]model.Project, bool, error)
}

// Snapshot is one consistent read of the store's state.
type Snapshot struct {
	Tasks    []model.Task
	Projects []model.Project
	Loading  bool
	Err      error
}

// Store mediates adapter calls, optimistic mutation, and cache fallback.
type Store struct {
	adapter adapter.TaskAdapter
	kind    adapter.Kind
	cache   CacheReader
	logger  *log.Logger

	// Refresh guards: a second refresh while one is in flight is dropped,
	// not queued. The inbox refresh is guarded independently.
	refreshing      atomic.Bool
	inboxRefreshing atomic.Bool

	mu       sync.Mutex
	tasks    []model.Task
	projects []model.Project
	loading  bool
	err      error
	subs     map[int]func()
	nextSub  int
}

// New creates a store for the given adapter. cache may be nil for guest
// mode.
func New(a adapter.TaskAdapter, kind adapter.Kind, cache CacheReader) *Store {
	return &Store{
		adapter: a,
		kind:    kind,
		cache:   cache,
		logger:  log.New(io.Discard, "[store] ", log.LstdFlags),
		subs:    make(map[int]func()),
	}
}

// SetLogger routes degradation logs to a debug sink.
func (s *Store) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tasks:    s.tasks,
		Projects: s.projects,
		Loading:  s.loading,
		Err:      s.err,
	}
}

// Subscribe registers a callback fired after every state change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Refresh replaces the collection wholesale from the adapter. A refresh
// already in flight makes this a no-op. On failure the durable cache, when
// populated, keeps the dashboard usable; the error only surfaces when no
// cache exists.
func (s *Store) Refresh(ctx context.Context) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer s.refreshing.Store(false)

	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
	s.notify()

	all, err := s.adapter.GetAllTasks(ctx)

	s.mu.Lock()
	if err == nil {
		s.tasks = all.Tasks
		s.projects = all.Projects
	} else if s.kind == adapter.KindRemote && s.cache != nil {
		tasks, tasksOK, _ := s.cache.CachedTasks()
		projects, projectsOK, _ := s.cache.CachedProjects()
		if tasksOK || projectsOK {
			s.logger.Printf("refresh failed, serving cache: %v", err)
			if tasksOK {
				s.tasks = tasks
			}
			if projectsOK {
				s.projects = projects
			}
		} else {
			s.err = err
		}
	} else {
		s.err = err
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// RefreshInbox replaces only inbox-tagged tasks, leaving the rest of the
// collection untouched. Guarded independently of Refresh.
func (s *Store) RefreshInbox(ctx context.Context) {
	if !s.inboxRefreshing.CompareAndSwap(false, true) {
		return
	}
	defer s.inboxRefreshing.Store(false)

	inbox, err := s.adapter.GetInboxTasks(ctx)
	if err != nil {
		s.logger.Printf("inbox refresh failed: %v", err)
		return
	}

	s.mu.Lock()
	if s.kind == adapter.KindLocal {
		// Guest mode: every task is an inbox task.
		s.tasks = inbox
	} else {
		kept := make([]model.Task, 0, len(s.tasks)+len(inbox))
		for _, t := range s.tasks {
			if !t.IsInbox() {
				kept = append(kept, t)
			}
		}
		s.tasks = append(kept, inbox...)
	}
	s.mu.Unlock()
	s.notify()
}

// CreateTask creates through the adapter and appends the result. Creation
// failures surface without a reconciling refresh: nothing was changed
// locally.
func (s *Store) CreateTask(ctx context.Context, input adapter.CreateTaskInput) (model.Task, error) {
	created, err := s.adapter.CreateTask(ctx, input)
	if err != nil {
		s.setErr(err)
		return model.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()
	s.notify()
	return created, nil
}

// UpdateTask applies the adapter's returned task over the local copy.
func (s *Store) UpdateTask(ctx context.Context, taskID string, input adapter.UpdateTaskInput) error {
	updated, err := s.adapter.UpdateTask(ctx, taskID, input)
	if err != nil {
		s.fail(ctx, err)
		return err
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i] = updated
			break
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// CompleteTask removes the task optimistically, then confirms with the
// backend. On failure the error surfaces and a full refresh reconciles.
func (s *Store) CompleteTask(ctx context.Context, task model.Task) error {
	s.removeTask(task.ID)
	if err := s.adapter.CompleteTask(ctx, task); err != nil {
		s.fail(ctx, err)
		return err
	}
	return nil
}

// DeleteTask removes the task optimistically, then confirms with the
// backend.
func (s *Store) DeleteTask(ctx context.Context, task model.Task) error {
	s.removeTask(task.ID)
	if err := s.adapter.DeleteTask(ctx, task); err != nil {
		s.fail(ctx, err)
		return err
	}
	return nil
}

func (s *Store) removeTask(id string) {
	s.mu.Lock()
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	s.notify()
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.notify()
}

// fail surfaces a mutation error and triggers the reconciling refresh that
// bounds how long the optimistic state can stay wrong.
func (s *Store) fail(ctx context.Context, err error) {
	s.setErr(err)
	s.Refresh(ctx)
}
