package dates

import (
	"sync"
	"time"
)

// DefaultCheckInterval is how often the watcher looks for a day rollover.
// A coarse interval is fine: a one-minute skew at midnight is acceptable.
const DefaultCheckInterval = time.Minute

// Watcher recomputes the relative day strings when the local calendar day
// changes and notifies subscribers. Instances are isolated; tests create
// their own with an injected clock.
type Watcher struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	rel     Relative
	subs    map[int]func(Relative)
	nextSub int
	done    chan struct{}
}

// NewWatcher creates a watcher with the given check interval.
// A zero interval selects DefaultCheckInterval.
func NewWatcher(interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Watcher{
		interval: interval,
		now:      time.Now,
		rel:      NewRelative(time.Now()),
		subs:     make(map[int]func(Relative)),
	}
}

// Relative returns the current day-string snapshot.
func (w *Watcher) Relative() Relative {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rel
}

// Subscribe registers a callback fired after each day rollover.
// The returned function removes the subscription.
func (w *Watcher) Subscribe(fn func(Relative)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Init starts the rollover check loop.
func (w *Watcher) Init() {
	w.mu.Lock()
	if w.done != nil {
		w.mu.Unlock()
		return
	}
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.check()
			}
		}
	}()
}

// Dispose stops the check loop.
func (w *Watcher) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		close(w.done)
		w.done = nil
	}
}

func (w *Watcher) check() {
	now := w.now()
	w.mu.Lock()
	if Day(now) == w.rel.Today {
		w.mu.Unlock()
		return
	}
	w.rel = NewRelative(now)
	rel := w.rel
	subs := make([]func(Relative), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn(rel)
	}
}
