package store

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// fakeAdapter scripts adapter responses per call.
type fakeAdapter struct {
	mu sync.Mutex

	allTasks     adapter.AllTasks
	allErr       error
	allCalls     atomic.Int64
	allBarrier   chan struct{}
	inbox        []model.Task
	inboxErr     error
	inboxCalls   atomic.Int64
	inboxBarrier chan struct{}
	created      model.Task
	createErr    error
	updated      model.Task
	updateErr    error
	completeErr  error
	deleteErr    error
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) GetProjects(context.Context) ([]model.Project, error) {
	return f.allTasks.Projects, nil
}

func (f *fakeAdapter) GetAllTasks(context.Context) (adapter.AllTasks, error) {
	f.allCalls.Add(1)
	if f.allBarrier != nil {
		<-f.allBarrier
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allTasks, f.allErr
}

func (f *fakeAdapter) GetInboxTasks(context.Context) ([]model.Task, error) {
	f.inboxCalls.Add(1)
	if f.inboxBarrier != nil {
		<-f.inboxBarrier
	}
	return f.inbox, f.inboxErr
}

func (f *fakeAdapter) CreateTask(context.Context, adapter.CreateTaskInput) (model.Task, error) {
	return f.created, f.createErr
}

func (f *fakeAdapter) UpdateTask(context.Context, string, adapter.UpdateTaskInput) (model.Task, error) {
	return f.updated, f.updateErr
}

func (f *fakeAdapter) CompleteTask(context.Context, model.Task) error { return f.completeErr }

func (f *fakeAdapter) DeleteTask(context.Context, model.Task) error { return f.deleteErr }

type fakeCache struct {
	tasks      []model.Task
	tasksOK    bool
	projects   []model.Project
	projectsOK bool
}

func (c *fakeCache) CachedTasks() ([]model.Task, bool, error) {
	return c.tasks, c.tasksOK, nil
}

func (c *fakeCache) CachedProjects() ([]model.Project, bool, error) {
	return c.projects, c.projectsOK, nil
}

func task(id string) model.Task { return model.Task{ID: id, Title: id} }

func inboxTask(id string) model.Task {
	return model.Task{ID: id, ProjectID: model.InboxPrefix + "123", Title: id}
}

func TestRefresh_ReplacesCollection(t *testing.T) {
	fa := &fakeAdapter{allTasks: adapter.AllTasks{
		Tasks:    []model.Task{task("a"), task("b")},
		Projects: []model.Project{{ID: "p1"}},
	}}
	s := New(fa, adapter.KindRemote, nil)

	s.Refresh(context.Background())

	snap := s.Snapshot()
	assert.Len(t, snap.Tasks, 2)
	assert.Len(t, snap.Projects, 1)
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
}

func TestRefresh_ConcurrentCallDropped(t *testing.T) {
	barrier := make(chan struct{})
	fa := &fakeAdapter{allBarrier: barrier}
	s := New(fa, adapter.KindRemote, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Refresh(context.Background())
	}()

	// Wait for the first refresh to reach the adapter, then fire a second:
	// it must return immediately without a second adapter call.
	for fa.allCalls.Load() == 0 {
		runtime.Gosched()
	}
	s.Refresh(context.Background())
	close(barrier)
	wg.Wait()

	assert.Equal(t, int64(1), fa.allCalls.Load())
}

func TestRefreshInbox_ConcurrentCallDropped(t *testing.T) {
	barrier := make(chan struct{})
	fa := &fakeAdapter{inboxBarrier: barrier}
	s := New(fa, adapter.KindRemote, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.RefreshInbox(context.Background())
	}()

	// The inbox guard is independent of the full-refresh guard: a second
	// inbox refresh while one is in flight returns without an adapter call.
	for fa.inboxCalls.Load() == 0 {
		runtime.Gosched()
	}
	s.RefreshInbox(context.Background())
	close(barrier)
	wg.Wait()

	assert.Equal(t, int64(1), fa.inboxCalls.Load())
}

func TestRefresh_FailureServesCache(t *testing.T) {
	fa := &fakeAdapter{allErr: errors.New("offline")}
	cache := &fakeCache{
		tasks:      []model.Task{task("cached")},
		tasksOK:    true,
		projects:   []model.Project{{ID: "p1"}},
		projectsOK: true,
	}
	s := New(fa, adapter.KindRemote, cache)

	s.Refresh(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "cached", snap.Tasks[0].ID)
	assert.NoError(t, snap.Err, "served cache hides the refresh error")
}

func TestRefresh_FailureWithoutCacheSurfacesError(t *testing.T) {
	boom := errors.New("offline")
	fa := &fakeAdapter{allErr: boom}
	s := New(fa, adapter.KindRemote, &fakeCache{})

	s.Refresh(context.Background())

	assert.ErrorIs(t, s.Snapshot().Err, boom)
}

func TestRefresh_GuestModeNeverFallsBackToCache(t *testing.T) {
	boom := errors.New("disk error")
	fa := &fakeAdapter{allErr: boom}
	cache := &fakeCache{tasks: []model.Task{task("stale")}, tasksOK: true}
	s := New(fa, adapter.KindLocal, cache)

	s.Refresh(context.Background())

	snap := s.Snapshot()
	assert.Empty(t, snap.Tasks)
	assert.ErrorIs(t, snap.Err, boom)
}

func TestRefreshInbox_SplicesRemote(t *testing.T) {
	fa := &fakeAdapter{allTasks: adapter.AllTasks{
		Tasks: []model.Task{task("proj"), inboxTask("old-inbox")},
	}}
	s := New(fa, adapter.KindRemote, nil)
	s.Refresh(context.Background())

	fa.inbox = []model.Task{inboxTask("new-inbox")}
	s.RefreshInbox(context.Background())

	snap := s.Snapshot()
	var ids []string
	for _, tk := range snap.Tasks {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"proj", "new-inbox"}, ids)
}

func TestRefreshInbox_GuestModeReplacesAll(t *testing.T) {
	fa := &fakeAdapter{allTasks: adapter.AllTasks{
		Tasks: []model.Task{task("a"), task("b")},
	}}
	s := New(fa, adapter.KindLocal, nil)
	s.Refresh(context.Background())

	fa.inbox = []model.Task{task("only")}
	s.RefreshInbox(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "only", snap.Tasks[0].ID)
}

func TestCreateTask_AppendsOnSuccess(t *testing.T) {
	fa := &fakeAdapter{created: task("new")}
	s := New(fa, adapter.KindRemote, nil)

	created, err := s.CreateTask(context.Background(), adapter.CreateTaskInput{Title: "new"})

	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
}

func TestCreateTask_FailureDoesNotRefresh(t *testing.T) {
	boom := errors.New("rejected")
	fa := &fakeAdapter{createErr: boom}
	s := New(fa, adapter.KindRemote, nil)

	_, err := s.CreateTask(context.Background(), adapter.CreateTaskInput{Title: "x"})

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Snapshot().Err, boom)
	assert.Equal(t, int64(0), fa.allCalls.Load(), "nothing changed locally, no reconcile needed")
}

func TestUpdateTask_ReplacesByID(t *testing.T) {
	fa := &fakeAdapter{
		allTasks: adapter.AllTasks{Tasks: []model.Task{task("a"), task("b")}},
	}
	s := New(fa, adapter.KindRemote, nil)
	s.Refresh(context.Background())

	fa.updated = model.Task{ID: "b", Title: "renamed"}
	require.NoError(t, s.UpdateTask(context.Background(), "b", adapter.UpdateTaskInput{}))

	snap := s.Snapshot()
	assert.Equal(t, "renamed", snap.Tasks[1].Title)
	assert.Equal(t, "a", snap.Tasks[0].Title, "other tasks untouched")
}

func TestCompleteTask_OptimisticRemoval(t *testing.T) {
	fa := &fakeAdapter{
		allTasks: adapter.AllTasks{Tasks: []model.Task{task("a"), task("b")}},
	}
	s := New(fa, adapter.KindRemote, nil)
	s.Refresh(context.Background())

	require.NoError(t, s.CompleteTask(context.Background(), task("a")))

	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "b", snap.Tasks[0].ID)
}

func TestCompleteTask_FailureReconciles(t *testing.T) {
	boom := errors.New("conflict")
	fa := &fakeAdapter{
		allTasks:    adapter.AllTasks{Tasks: []model.Task{task("a"), task("b")}},
		completeErr: boom,
	}
	s := New(fa, adapter.KindRemote, nil)
	s.Refresh(context.Background())
	callsBefore := fa.allCalls.Load()

	err := s.CompleteTask(context.Background(), task("a"))

	assert.ErrorIs(t, err, boom)
	// The reconciling refresh restored the backend truth.
	assert.Equal(t, callsBefore+1, fa.allCalls.Load())
	assert.Len(t, s.Snapshot().Tasks, 2)
}

func TestDeleteTask_OptimisticRemoval(t *testing.T) {
	fa := &fakeAdapter{
		allTasks: adapter.AllTasks{Tasks: []model.Task{task("a")}},
	}
	s := New(fa, adapter.KindRemote, nil)
	s.Refresh(context.Background())

	require.NoError(t, s.DeleteTask(context.Background(), task("a")))
	assert.Empty(t, s.Snapshot().Tasks)
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	fa := &fakeAdapter{}
	s := New(fa, adapter.KindRemote, nil)

	var fired atomic.Int64
	unsub := s.Subscribe(func() { fired.Add(1) })

	s.Refresh(context.Background())
	afterRefresh := fired.Load()
	assert.GreaterOrEqual(t, afterRefresh, int64(2), "loading and settled states both notify")

	unsub()
	s.Refresh(context.Background())
	assert.Equal(t, afterRefresh, fired.Load())
}
