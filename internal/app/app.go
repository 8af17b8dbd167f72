package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/auth"
	"github.com/gwifloria/chrome-dida-extension/internal/config"
	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/db"
	"github.com/gwifloria/chrome-dida-extension/internal/notify"
	"github.com/gwifloria/chrome-dida-extension/internal/pomodoro"
	"github.com/gwifloria/chrome-dida-extension/internal/reminder"
	"github.com/gwifloria/chrome-dida-extension/internal/store"
)

// App holds the application state and dependencies. Unlike most TUI
// tools it does not enforce a single running instance: the database is
// WAL sqlite and the pomodoro record coordinates concurrent instances
// through revision checks, so several dashboards can run side by side.
type App struct {
	Config    config.Config
	DB        *db.DB
	Factory   *adapter.Factory
	Store     *store.Store
	Pomodoro  *pomodoro.Service
	Notifier  *notify.Notifier
	Reminders *reminder.Service
	Dates     *dates.Watcher
	DataDir   string

	migrateLock *flock.Flock
}

// New wires the application from config. The caller owns Close.
func New(cfg config.Config) (*App, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = db.DefaultDBPath()
	}
	// The data dir (and the migration lock in it) follows the database, so
	// installs with distinct db paths never contend on one lock file.
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	tokens := auth.FromConfig(cfg.Token)
	factory := &adapter.Factory{
		BaseURL: cfg.APIBaseURL,
		Tokens:  tokens,
		DB:      database,

		GuestTaskLimit:   cfg.GuestTaskLimit,
		FetchConcurrency: cfg.FetchConcurrency,
		FetchRetries:     cfg.FetchRetries,
		RetryStep:        time.Duration(cfg.RetryDelayMs) * time.Millisecond,
	}

	notifier := notify.NewNotifier()
	notifier.SetEnabled(cfg.Notifications)

	pom := pomodoro.New(database, pomodoro.Config{
		WorkMinutes:  cfg.Pomodoro.WorkMinutes,
		BreakMinutes: cfg.Pomodoro.BreakMinutes,
	}, notifier)

	a := &App{
		Config:    cfg,
		DB:        database,
		Factory:   factory,
		Pomodoro:  pom,
		Notifier:  notifier,
		Reminders: reminder.New(database, notifier),
		Dates:     dates.NewWatcher(time.Minute),
		DataDir:   dataDir,
	}

	kind := a.Mode()
	a.Store = store.New(factory.Adapter(kind), kind, database)

	return a, nil
}

// Mode returns the adapter kind implied by the configured credentials.
func (a *App) Mode() adapter.Kind {
	token, err := a.Factory.Tokens.Token(context.Background())
	return adapter.KindForMode(err == nil && token != "")
}

// Start begins the background loops: the day-rollover watcher, the
// pomodoro poll, and the due-task reminder check riding on snapshot and
// day changes.
func (a *App) Start() error {
	a.Dates.Init()
	if err := a.Pomodoro.Init(); err != nil {
		return fmt.Errorf("failed to start pomodoro service: %w", err)
	}

	a.Store.Subscribe(func() {
		a.Reminders.Check(a.Store.Snapshot().Tasks, a.Dates.Relative())
	})
	a.Dates.Subscribe(func(rel dates.Relative) {
		a.Reminders.Check(a.Store.Snapshot().Tasks, rel)
	})
	return nil
}

// LockForMigration takes an exclusive lock so only one process mutates
// guest tasks during a migration. The returned function releases it.
func (a *App) LockForMigration() (func(), error) {
	lockPath := filepath.Join(a.DataDir, "dida-migrate.lock")
	a.migrateLock = flock.New(lockPath)

	locked, err := a.migrateLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another migration is already running")
	}
	return func() { a.migrateLock.Unlock() }, nil
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	a.Dates.Dispose()
	a.Pomodoro.Dispose()

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if a.migrateLock != nil {
		a.migrateLock.Unlock()
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
