// Package quickadd parses the shorthand task entry syntax used by both
// the add prompt and the add subcommand:
//
//	buy milk !high due:tomorrow
//
// Unrecognized tokens stay in the title.
package quickadd

import (
	"strings"
	"time"

	"github.com/gwifloria/chrome-dida-extension/internal/dates"
	"github.com/gwifloria/chrome-dida-extension/internal/model"
)

// Input is the parsed result.
type Input struct {
	Title    string
	Priority int
	DueDate  string // YYYY-MM-DD, empty when no due token
}

// Parse splits a quick-add line into title, priority, and due date.
func Parse(line string, now time.Time) Input {
	var in Input
	var title []string

	for _, tok := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(tok, "!"):
			if p, ok := parsePriority(tok[1:]); ok {
				in.Priority = p
				continue
			}
			title = append(title, tok)

		case strings.HasPrefix(tok, "due:"):
			if t := dates.ParseNatural(tok[4:], now); !t.IsZero() {
				in.DueDate = dates.Day(t)
				continue
			}
			title = append(title, tok)

		default:
			title = append(title, tok)
		}
	}

	in.Title = strings.Join(title, " ")
	return in
}

func parsePriority(s string) (int, bool) {
	switch strings.ToLower(s) {
	case "low", "1":
		return model.PriorityLow, true
	case "medium", "med", "3":
		return model.PriorityMedium, true
	case "high", "5":
		return model.PriorityHigh, true
	case "none", "0":
		return model.PriorityNone, true
	}
	return 0, false
}
