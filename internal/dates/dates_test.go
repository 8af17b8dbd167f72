package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDay(t *testing.T) {
	local := time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)

	assert.Equal(t, "2026-03-14", ExtractDay(local.Format(time.RFC3339)))
	assert.Equal(t, "", ExtractDay(""))
	assert.Equal(t, "", ExtractDay("not a date"))

	// Bare day strings pass through as written.
	assert.Equal(t, "2026-03-14", ExtractDay("2026-03-14"))
}

func TestExtractDay_Idempotent(t *testing.T) {
	inputs := []string{
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local).Format(time.RFC3339),
		"2026-01-02",
		"",
	}
	for _, in := range inputs {
		once := ExtractDay(in)
		assert.Equal(t, once, ExtractDay(once), "input %q", in)
	}
}

func TestNewRelative(t *testing.T) {
	now := time.Date(2026, 12, 31, 10, 0, 0, 0, time.Local)
	rel := NewRelative(now)

	assert.Equal(t, "2026-12-31", rel.Today)
	assert.Equal(t, "2027-01-01", rel.Tomorrow)
	assert.Equal(t, "2027-01-02", rel.DayAfter)
	assert.Equal(t, "2027-01-07", rel.NextWeek)

	// Fixed-width day strings compare in date order.
	assert.True(t, rel.Today < rel.Tomorrow)
	assert.True(t, rel.Tomorrow < rel.NextWeek)
}

func TestParseNatural(t *testing.T) {
	// A Monday.
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)

	assert.Equal(t, "2026-06-01", Day(ParseNatural("today", now)))
	assert.Equal(t, "2026-06-02", Day(ParseNatural("tomorrow", now)))
	assert.Equal(t, "2026-06-08", Day(ParseNatural("nextweek", now)))

	// Weekday names resolve to the next occurrence, never today.
	assert.Equal(t, "2026-06-05", Day(ParseNatural("friday", now)))
	assert.Equal(t, "2026-06-08", Day(ParseNatural("monday", now)))

	assert.Equal(t, "2026-07-15", Day(ParseNatural("2026-07-15", now)))

	assert.True(t, ParseNatural("whenever", now).IsZero())
	assert.True(t, ParseNatural("", now).IsZero())
}

func TestWatcher_RolloverNotifiesSubscribers(t *testing.T) {
	w := NewWatcher(time.Hour)
	day1 := time.Date(2026, 5, 10, 23, 59, 0, 0, time.Local)
	day2 := time.Date(2026, 5, 11, 0, 1, 0, 0, time.Local)

	current := day1
	w.now = func() time.Time { return current }
	w.rel = NewRelative(day1)

	var got []Relative
	unsubscribe := w.Subscribe(func(rel Relative) {
		got = append(got, rel)
	})

	// Same day: no notification.
	w.check()
	assert.Empty(t, got)

	// Rollover fires exactly once with the new snapshot.
	current = day2
	w.check()
	w.check()
	assert.Len(t, got, 1)
	assert.Equal(t, "2026-05-11", got[0].Today)
	assert.Equal(t, "2026-05-11", w.Relative().Today)

	unsubscribe()
	current = day2.AddDate(0, 0, 1)
	w.check()
	assert.Len(t, got, 1)
}
