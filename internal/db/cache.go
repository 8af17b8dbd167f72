package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// Cache bucket keys. The cache holds the last successful remote aggregate
// so the dashboard stays usable when a refresh fails offline.
const (
	cacheKeyTasks    = "tasks"
	cacheKeyProjects = "projects"
)

// SetCachedTasks stores the last successful task aggregate.
func (db *DB) SetCachedTasks(tasks []model.Task) error {
	return db.setCache(cacheKeyTasks, tasks)
}

// CachedTasks returns the cached task aggregate, or ok=false when no
// successful fetch has ever been cached.
func (db *DB) CachedTasks() ([]model.Task, bool, error) {
	var tasks []model.Task
	ok, err := db.getCache(cacheKeyTasks, &tasks)
	return tasks, ok, err
}

// SetCachedProjects stores the last successful project list.
func (db *DB) SetCachedProjects(projects []model.Project) error {
	return db.setCache(cacheKeyProjects, projects)
}

// CachedProjects returns the cached project list.
func (db *DB) CachedProjects() ([]model.Project, bool, error) {
	var projects []model.Project
	ok, err := db.getCache(cacheKeyProjects, &projects)
	return projects, ok, err
}

func (db *DB) setCache(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := time.Now().Format(time.RFC3339)
	_, err = db.Exec(`
		INSERT INTO cache (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data, now)
	return err
}

func (db *DB) getCache(key string, v interface{}) (bool, error) {
	var data []byte
	err := db.QueryRow(`SELECT value FROM cache WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}
