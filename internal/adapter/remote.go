package adapter

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// Aggregate fetch tuning. Concurrency is capped so a user with many
// projects doesn't hammer the API into rate limiting; per-project failures
// degrade to an empty list rather than failing the whole dashboard.
const (
	defaultFetchConcurrency = 5
	defaultFetchRetries     = 2
	defaultRetryStep        = 500 * time.Millisecond
)

// Cache receives successful aggregate results for offline fallback.
type Cache interface {
	SetCachedTasks(tasks []model.Task) error
	SetCachedProjects(projects []model.Project) error
}

// RemoteAdapter talks to the DidaList API.
type RemoteAdapter struct {
	client *Client
	cache  Cache
	logger *log.Logger

	concurrency int
	retries     int
	retryStep   time.Duration
}

// NewRemoteAdapter creates the remote adapter. cache may be nil.
func NewRemoteAdapter(client *Client, cache Cache) *RemoteAdapter {
	return &RemoteAdapter{
		client:      client,
		cache:       cache,
		logger:      log.New(io.Discard, "[dida] ", log.LstdFlags),
		concurrency: defaultFetchConcurrency,
		retries:     defaultFetchRetries,
		retryStep:   defaultRetryStep,
	}
}

// SetLogger routes degradation logs somewhere visible (a debug file; the
// TUI owns stdout).
func (r *RemoteAdapter) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Name implements TaskAdapter.
func (r *RemoteAdapter) Name() string { return KindRemote.String() }

// GetProjects fetches all projects and refreshes the project cache.
func (r *RemoteAdapter) GetProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.client.do(ctx, http.MethodGet, pathProjects(), nil, &projects); err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.SetCachedProjects(projects); err != nil {
			r.logger.Printf("failed to cache projects: %v", err)
		}
	}
	return projects, nil
}

type projectData struct {
	Tasks []model.Task `json:"tasks"`
}

// getProjectData fetches one project's tasks with linear-backoff retries.
func (r *RemoteAdapter) getProjectData(ctx context.Context, projectID string) ([]model.Task, error) {
	var data projectData
	backoff := retry.WithMaxRetries(uint64(r.retries), linearBackoff(r.retryStep))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		data = projectData{}
		err := r.client.do(ctx, http.MethodGet, pathProjectData(projectID), nil, &data)
		if err == nil {
			return nil
		}
		if IsAuth(err) {
			// No point retrying without a token.
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

// GetInboxTasks fetches the inbox and keeps only open tasks.
func (r *RemoteAdapter) GetInboxTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := r.getProjectData(ctx, model.InboxPrefix)
	if err != nil {
		return nil, err
	}
	return filterOpen(tasks), nil
}

// GetAllTasks aggregates every active project's open tasks plus the inbox.
//
// The inbox is fetched once, outside the per-project pool. Per-project
// failures after exhausted retries are logged and degrade to an empty list
// so one bad project never blocks the dashboard. Successful aggregates are
// written to the durable cache for offline fallback.
func (r *RemoteAdapter) GetAllTasks(ctx context.Context) (AllTasks, error) {
	projects, err := r.GetProjects(ctx)
	if err != nil {
		return AllTasks{}, err
	}

	var active []model.Project
	for _, p := range projects {
		if p.IsActive() {
			active = append(active, p)
		}
	}

	inbox, err := r.getProjectData(ctx, model.InboxPrefix)
	if err != nil {
		r.logger.Printf("failed to fetch inbox tasks: %v", err)
		inbox = nil
	}

	perProject, err := forEachLimit(ctx, active, r.concurrency,
		func(ctx context.Context, p model.Project) ([]model.Task, error) {
			tasks, err := r.getProjectData(ctx, p.ID)
			if err != nil {
				r.logger.Printf("failed to fetch tasks for project %q: %v", p.Name, err)
				return nil, nil
			}
			return tasks, nil
		})
	if err != nil {
		return AllTasks{}, err
	}

	all := append([]model.Task{}, inbox...)
	for _, tasks := range perProject {
		all = append(all, tasks...)
	}
	open := filterOpen(all)

	if r.cache != nil {
		if err := r.cache.SetCachedTasks(open); err != nil {
			r.logger.Printf("failed to cache tasks: %v", err)
		}
	}

	return AllTasks{Tasks: open, Projects: projects}, nil
}

// CreateTask implements TaskAdapter.
func (r *RemoteAdapter) CreateTask(ctx context.Context, input CreateTaskInput) (model.Task, error) {
	if input.Title == "" {
		return model.Task{}, &ValidationError{
			Reason:  ReasonInvalidInput,
			Message: "task title must not be empty",
		}
	}

	payload := map[string]interface{}{
		"title":    input.Title,
		"priority": input.Priority,
	}
	if input.ProjectID != "" {
		payload["projectId"] = input.ProjectID
	}
	if input.Content != "" {
		payload["content"] = input.Content
	}
	if input.DueDate != "" {
		payload["dueDate"] = input.DueDate
	}

	var task model.Task
	if err := r.client.do(ctx, http.MethodPost, pathTaskCreate(), payload, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask implements TaskAdapter.
func (r *RemoteAdapter) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (model.Task, error) {
	payload := map[string]interface{}{"id": taskID}
	if input.Title != nil {
		payload["title"] = *input.Title
	}
	if input.Content != nil {
		payload["content"] = *input.Content
	}
	if input.Priority != nil {
		payload["priority"] = *input.Priority
	}
	if input.DueDate != nil {
		payload["dueDate"] = *input.DueDate
	}
	if input.ProjectID != nil {
		payload["projectId"] = *input.ProjectID
	}

	var task model.Task
	if err := r.client.do(ctx, http.MethodPost, pathTaskUpdate(taskID), payload, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// CompleteTask implements TaskAdapter.
func (r *RemoteAdapter) CompleteTask(ctx context.Context, task model.Task) error {
	return r.client.do(ctx, http.MethodPost, pathTaskComplete(task.ProjectID, task.ID), nil, nil)
}

// DeleteTask implements TaskAdapter.
func (r *RemoteAdapter) DeleteTask(ctx context.Context, task model.Task) error {
	return r.client.do(ctx, http.MethodDelete, pathTaskDelete(task.ProjectID, task.ID), nil, nil)
}

func filterOpen(tasks []model.Task) []model.Task {
	open := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsOpen() {
			open = append(open, t)
		}
	}
	return open
}

// linearBackoff waits step, 2*step, 3*step between attempts.
func linearBackoff(step time.Duration) retry.Backoff {
	var attempt int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * step, false
	})
}
