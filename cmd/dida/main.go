package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwifloria/chrome-dida-extension/internal/adapter"
	"github.com/gwifloria/chrome-dida-extension/internal/app"
	"github.com/gwifloria/chrome-dida-extension/internal/config"
	"github.com/gwifloria/chrome-dida-extension/internal/migrate"
	"github.com/gwifloria/chrome-dida-extension/internal/quickadd"
	"github.com/gwifloria/chrome-dida-extension/internal/ui"
	"github.com/gwifloria/chrome-dida-extension/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "migrate":
			handleMigrate()
			return
		case "discard":
			handleDiscard()
			return
		case "version":
			fmt.Printf("dida v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	// Parse flags for TUI mode
	viewFlag := flag.String("view", "tasks", "Starting view (tasks, focus, pomodoro)")
	themeFlag := flag.String("theme", "", "Theme name (dark, light)")
	flag.Parse()

	if err := runTUI(*viewFlag, *themeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `dida - a task dashboard for your terminal

Usage:
  dida                      Start the TUI
  dida add <task>           Quick add a task
  dida migrate              Move guest-mode tasks to the connected account
  dida discard              Drop guest-mode tasks without migrating
  dida version              Show version
  dida help                 Show this help

Quick Add Syntax:
  dida add "Buy groceries"
  dida add "Review PR !high due:tomorrow"

  Priority:  !low !medium !high
  Due date:  due:today due:tomorrow due:friday due:2026-01-15

Without a configured token the dashboard runs in guest mode: tasks are
kept locally, capped at three. Set token in the config file (or the
DIDA_TOKEN environment variable), then run "dida migrate" to move guest
tasks to your account.

TUI Options:
  --view <name>     Starting view (tasks, focus, pomodoro)
  --theme <name>    Theme (dark, light)

Keybindings:
  Navigation:   ↑/↓ or j/k    Move cursor
                h/l           Switch filter
                g/G           Go to top/bottom

  Actions:      a             Add task
                tab           Complete task
                d             Delete task
                /             Search

  Views:        1-3           Switch views
                ?             Help
                q             Quit`

	fmt.Println(help)
}

func loadConfig() config.Config {
	path, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func handleAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: dida add <task>")
		fmt.Fprintln(os.Stderr, "Example: dida add \"Buy groceries !high due:tomorrow\"")
		os.Exit(1)
	}

	application, err := app.New(loadConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	input := quickadd.Parse(strings.Join(args, " "), time.Now())
	task, err := application.Store.CreateTask(context.Background(), adapter.CreateTaskInput{
		Title:    input.Title,
		Priority: input.Priority,
		DueDate:  input.DueDate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating task: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created: %s\n", task.Title)
	if input.DueDate != "" {
		fmt.Printf("Due: %s\n", input.DueDate)
	}
}

func handleMigrate() {
	cfg := loadConfig()
	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if application.Mode() != adapter.KindRemote {
		fmt.Fprintln(os.Stderr, "No token configured; nothing to migrate to.")
		fmt.Fprintln(os.Stderr, "Set token in the config file or export DIDA_TOKEN.")
		os.Exit(1)
	}

	unlock, err := application.LockForMigration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer unlock()

	runner := migrate.NewRunner(application.DB, application.Factory.Adapter(adapter.KindRemote))
	res, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	if res.Success == 0 && res.Failed == 0 {
		fmt.Println("No guest tasks to migrate.")
		return
	}
	for _, title := range res.Migrated {
		fmt.Printf("Migrated: %s\n", title)
	}
	fmt.Printf("Done: %d migrated, %d failed.\n", res.Success, res.Failed)
	if res.Failed > 0 {
		fmt.Println("Failed tasks stay local; run migrate again to retry.")
		os.Exit(1)
	}
}

func handleDiscard() {
	application, err := app.New(loadConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	unlock, err := application.LockForMigration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer unlock()

	runner := migrate.NewRunner(application.DB, nil)
	if err := runner.Discard(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Guest tasks discarded.")
}

func runTUI(startView, themeName string) error {
	cfg := loadConfig()
	if themeName != "" {
		cfg.Theme = themeName
	}
	if t, ok := theme.ByName(cfg.Theme); ok {
		theme.SetTheme(t)
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		return err
	}

	model := ui.NewRootModel(application)
	switch startView {
	case "focus":
		model = model.WithView(ui.ViewFocus)
	case "pomodoro":
		model = model.WithView(ui.ViewPomodoro)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
