package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// ErrLocalTaskLimit is returned when creating a guest task would exceed
// the cap.
var ErrLocalTaskLimit = errors.New("local task limit reached")

// PendingLocalTasks returns all open guest-mode tasks, oldest first.
func (db *DB) PendingLocalTasks() ([]model.LocalTask, error) {
	rows, err := db.Query(`
		SELECT id, title, priority, due_date, status, created_time
		FROM local_tasks
		WHERE status = ?
		ORDER BY created_time
	`, model.StatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.LocalTask
	for rows.Next() {
		var t model.LocalTask
		var dueDate *string
		if err := rows.Scan(&t.ID, &t.Title, &t.Priority, &dueDate, &t.Status, &t.CreatedTime); err != nil {
			return nil, err
		}
		if dueDate != nil {
			t.DueDate = *dueDate
		}
		t.IsLocal = true
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CountPendingLocalTasks returns the number of open guest-mode tasks.
func (db *DB) CountPendingLocalTasks() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM local_tasks WHERE status = ?`, model.StatusOpen).Scan(&count)
	return count, err
}

// CreateLocalTask inserts a guest-mode task. A positive limit caps the
// number of open tasks; the count check and the insert share one
// transaction so concurrent instances cannot both slip under the cap.
func (db *DB) CreateLocalTask(title string, priority int, dueDate string, limit int) (*model.LocalTask, error) {
	t := model.LocalTask{
		ID:          uuid.New().String(),
		Title:       title,
		Priority:    priority,
		DueDate:     dueDate,
		Status:      model.StatusOpen,
		CreatedTime: time.Now().Format(time.RFC3339),
		IsLocal:     true,
	}

	var due interface{}
	if dueDate != "" {
		due = dueDate
	}
	err := db.Transaction(func(tx *sql.Tx) error {
		if limit > 0 {
			var count int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM local_tasks WHERE status = ?`,
				model.StatusOpen).Scan(&count); err != nil {
				return err
			}
			if count >= limit {
				return ErrLocalTaskLimit
			}
		}
		_, err := tx.Exec(`
			INSERT INTO local_tasks (id, title, priority, due_date, status, created_time)
			VALUES (?, ?, ?, ?, ?, ?)
		`, t.ID, t.Title, t.Priority, due, t.Status, t.CreatedTime)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CompleteLocalTask flips a guest task to completed. Completed tasks drop
// out of PendingLocalTasks rather than being deleted, matching the remote
// lifecycle where completion removes the task from the active collection.
func (db *DB) CompleteLocalTask(id string) error {
	res, err := db.Exec(`UPDATE local_tasks SET status = ? WHERE id = ?`,
		model.StatusCompleted, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteLocalTask removes a guest task permanently.
func (db *DB) DeleteLocalTask(id string) error {
	res, err := db.Exec(`DELETE FROM local_tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClearLocalTasks removes all guest tasks, completed ones included.
func (db *DB) ClearLocalTasks() error {
	_, err := db.Exec(`DELETE FROM local_tasks`)
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
