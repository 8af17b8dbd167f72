// Package migrate moves guest-mode tasks into a connected account.
package migrate

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// LocalStore is the slice of the database the migration touches.
type LocalStore interface {
	PendingLocalTasks() ([]model.LocalTask, error)
	DeleteLocalTask(id string) error
	ClearLocalTasks() error
}

// Result reports per-task migration outcomes.
type Result struct {
	Success  int
	Failed   int
	Migrated []string // titles of migrated tasks
}

// Runner performs the two-phase migration: create every local task on the
// remote backend, then delete only the ones that made it.
type Runner struct {
	store  LocalStore
	remote adapter.TaskAdapter
	logger *log.Logger
}

// NewRunner creates a migration runner.
func NewRunner(store LocalStore, remote adapter.TaskAdapter) *Runner {
	return &Runner{
		store:  store,
		remote: remote,
		logger: log.New(io.Discard, "", 0),
	}
}

// SetLogger routes migration progress to the given logger.
func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Run migrates all pending guest tasks. Creation failures leave the task
// in place locally; deletion failures after a successful creation are
// logged and otherwise ignored, since the task is already safe remotely.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	tasks, err := r.store.PendingLocalTasks()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load local tasks: %w", err)
	}
	if len(tasks) == 0 {
		return Result{}, nil
	}

	var res Result
	created := make([]string, 0, len(tasks))

	for _, lt := range tasks {
		_, err := r.remote.CreateTask(ctx, adapter.CreateTaskInput{
			Title:    lt.Title,
			Priority: lt.Priority,
			DueDate:  lt.DueDate,
		})
		if err != nil {
			r.logger.Printf("migrate: failed to create %q remotely: %v", lt.Title, err)
			res.Failed++
			continue
		}
		res.Success++
		res.Migrated = append(res.Migrated, lt.Title)
		created = append(created, lt.ID)
	}

	for _, id := range created {
		if err := r.store.DeleteLocalTask(id); err != nil {
			r.logger.Printf("migrate: failed to remove migrated task %s locally: %v", id, err)
		}
	}

	return res, nil
}

// Discard drops all guest tasks without migrating them.
func (r *Runner) Discard() error {
	if err := r.store.ClearLocalTasks(); err != nil {
		return fmt.Errorf("failed to discard local tasks: %w", err)
	}
	return nil
}
