package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

const DefaultConfigFileName = "config.toml"

type Pomodoro struct {
	WorkMinutes  int `toml:"work_minutes"`
	BreakMinutes int `toml:"break_minutes"`
}

type Config struct {
	APIBaseURL       string   `toml:"api_base_url"`
	Token            string   `toml:"token"`
	DBPath           string   `toml:"db_path"`
	GuestTaskLimit   int      `toml:"guest_task_limit"`
	FetchConcurrency int      `toml:"fetch_concurrency"`
	FetchRetries     int      `toml:"fetch_retries"`
	RetryDelayMs     int      `toml:"retry_delay_ms"`
	Theme            string   `toml:"theme"`
	Notifications    bool     `toml:"notifications"`
	Pomodoro         Pomodoro `toml:"pomodoro"`
}

// DefaultPath is the config location, next to the database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "dida", DefaultConfigFileName), nil
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyBounds(&cfg)
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyBounds(cfg *Config) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = adapter.DefaultBaseURL
	}
	if cfg.GuestTaskLimit <= 0 {
		cfg.GuestTaskLimit = model.LocalTaskLimit
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 5
	}
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = 2
	}
	if cfg.RetryDelayMs <= 0 {
		cfg.RetryDelayMs = 500
	}
	if cfg.Pomodoro.WorkMinutes <= 0 {
		cfg.Pomodoro.WorkMinutes = 25
	}
	if cfg.Pomodoro.BreakMinutes <= 0 {
		cfg.Pomodoro.BreakMinutes = 5
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
}

func defaultConfig() Config {
	return Config{
		APIBaseURL:       adapter.DefaultBaseURL,
		GuestTaskLimit:   model.LocalTaskLimit,
		FetchConcurrency: 5,
		FetchRetries:     2,
		RetryDelayMs:     500,
		Theme:            "dark",
		Notifications:    true,
		Pomodoro: Pomodoro{
			WorkMinutes:  25,
			BreakMinutes: 5,
		},
	}
}
