package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/gwifloria/chrome-dida-extension/internal/db"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// LocalAdapter serves guest mode from on-device storage. Guests get a
// single inbox and a small task cap; editing is not supported at all.
type LocalAdapter struct {
	db       *db.DB
	maxTasks int
}

// NewLocalAdapter creates the guest adapter.
func NewLocalAdapter(database *db.DB, maxTasks int) *LocalAdapter {
	if maxTasks <= 0 {
		maxTasks = model.LocalTaskLimit
	}
	return &LocalAdapter{db: database, maxTasks: maxTasks}
}

// Name implements TaskAdapter.
func (l *LocalAdapter) Name() string { return KindLocal.String() }

// GetProjects implements TaskAdapter. Guest mode has exactly one project.
func (l *LocalAdapter) GetProjects(ctx context.Context) ([]model.Project, error) {
	return []model.Project{{
		ID:   model.LocalInboxID,
		Name: "Inbox",
	}}, nil
}

// GetAllTasks implements TaskAdapter.
func (l *LocalAdapter) GetAllTasks(ctx context.Context) (AllTasks, error) {
	tasks, err := l.GetInboxTasks(ctx)
	if err != nil {
		return AllTasks{}, err
	}
	projects, _ := l.GetProjects(ctx)
	return AllTasks{Tasks: tasks, Projects: projects}, nil
}

// GetInboxTasks implements TaskAdapter. Every guest task is an inbox task.
func (l *LocalAdapter) GetInboxTasks(ctx context.Context) ([]model.Task, error) {
	locals, err := l.db.PendingLocalTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load guest tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(locals))
	for i := range locals {
		tasks = append(tasks, locals[i].Task())
	}
	return tasks, nil
}

// CreateTask implements TaskAdapter. Creation beyond the cap is rejected,
// not truncated; the cap check runs inside the insert transaction.
func (l *LocalAdapter) CreateTask(ctx context.Context, input CreateTaskInput) (model.Task, error) {
	if input.Title == "" {
		return model.Task{}, &ValidationError{
			Reason:  ReasonInvalidInput,
			Message: "task title must not be empty",
		}
	}

	local, err := l.db.CreateLocalTask(input.Title, input.Priority, input.DueDate, l.maxTasks)
	if errors.Is(err, db.ErrLocalTaskLimit) {
		return model.Task{}, &ValidationError{
			Reason:  ReasonTaskLimit,
			Message: fmt.Sprintf("guest mode is limited to %d tasks", l.maxTasks),
		}
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create guest task: %w", err)
	}
	return local.Task(), nil
}

// UpdateTask implements TaskAdapter. Guest tasks cannot be edited; the
// error is a validation error so the UI won't mistake it for a transient
// failure.
func (l *LocalAdapter) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (model.Task, error) {
	return model.Task{}, &ValidationError{
		Reason:  ReasonUnsupported,
		Message: "editing tasks is not supported in guest mode",
	}
}

// CompleteTask implements TaskAdapter.
func (l *LocalAdapter) CompleteTask(ctx context.Context, task model.Task) error {
	return l.db.CompleteLocalTask(task.ID)
}

// DeleteTask implements TaskAdapter.
func (l *LocalAdapter) DeleteTask(ctx context.Context, task model.Task) error {
	return l.db.DeleteLocalTask(task.ID)
}
