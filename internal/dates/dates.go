// Package dates provides calendar-day string helpers for task grouping.
//
// All grouping and filtering compares zero-padded YYYY-MM-DD strings in the
// user's local time zone, never full timestamps. Lexicographic comparison on
// these strings is equivalent to date comparison because the format is
// fixed-width.
package dates

import (
	"strings"
	"time"
)

// DayFormat is the canonical comparison-safe day layout.
const DayFormat = "2006-01-02"

// Day formats a time as its local calendar day.
func Day(t time.Time) string {
	return t.Local().Format(DayFormat)
}

// ExtractDay reduces an ISO-8601 timestamp to its local calendar day.
// Using the local day (not UTC) avoids off-by-one-day errors for users
// east or west of UTC. Already-reduced day strings pass through unchanged,
// so ExtractDay is idempotent.
func ExtractDay(iso string) string {
	if iso == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		return Day(t)
	}
	// Some backends omit the timezone or send a bare date. Take the day
	// portion as written rather than dropping the task from date views.
	if len(iso) >= len(DayFormat) && iso[4] == '-' && iso[7] == '-' {
		return iso[:len(DayFormat)]
	}
	return ""
}

// Relative is a snapshot of the comparison keys used by the view engine.
// Compute it once per pass so every derived view reflects the same "today".
type Relative struct {
	Today    string
	Tomorrow string
	DayAfter string
	NextWeek string
}

// NewRelative derives the relative day strings from a reference time.
func NewRelative(now time.Time) Relative {
	return Relative{
		Today:    Day(now),
		Tomorrow: Day(now.AddDate(0, 0, 1)),
		DayAfter: Day(now.AddDate(0, 0, 2)),
		NextWeek: Day(now.AddDate(0, 0, 7)),
	}
}

// ParseNatural parses the quick-add due date syntax: "today", "tomorrow",
// weekday names, or an explicit date. Returns the zero time when the input
// is not recognized.
func ParseNatural(s string, now time.Time) time.Time {
	eod := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	}

	switch strings.ToLower(s) {
	case "today":
		return eod(now)
	case "tomorrow", "tom":
		return eod(now.AddDate(0, 0, 1))
	case "nextweek":
		return eod(now.AddDate(0, 0, 7))
	}

	weekdays := map[string]time.Weekday{
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
		"sunday": time.Sunday, "sun": time.Sunday,
	}
	if day, ok := weekdays[strings.ToLower(s)]; ok {
		until := int(day - now.Weekday())
		if until <= 0 {
			until += 7
		}
		return eod(now.AddDate(0, 0, until))
	}

	formats := []string{DayFormat, "01/02/2006", "Jan 2", "Jan 2, 2006"}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			}
			return eod(t)
		}
	}

	return time.Time{}
}
