// Package pomodoro implements the shared work/break timer.
//
// The persisted record is the single source of truth: every dashboard
// instance derives remaining time from wall clock plus record, never from
// a locally owned countdown, so concurrently open instances always agree.
package pomodoro

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// StorageKey is the kv bucket key holding the timer record.
const StorageKey = "pomodoro"

// Mode is the timer phase.
type Mode string

const (
	ModeIdle  Mode = "idle"
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// Config holds the phase durations in minutes.
type Config struct {
	WorkMinutes  int `json:"workDuration"`
	BreakMinutes int `json:"breakDuration"`
}

// DefaultConfig is the classic 25/5 split.
var DefaultConfig = Config{WorkMinutes: 25, BreakMinutes: 5}

// Record is the persisted timer state. Exactly one of StartTime and
// PausedTimeLeft is meaningful at a time, governed by IsRunning.
type Record struct {
	Mode                 Mode   `json:"mode"`
	IsRunning            bool   `json:"isRunning"`
	StartTime            int64  `json:"startTime,omitempty"`      // epoch ms, set while running
	PausedTimeLeft       int    `json:"pausedTimeLeft,omitempty"` // seconds, set while paused
	CompletedCount       int    `json:"completedCount"`
	Config               Config `json:"config"`
	LastNotificationTime int64  `json:"lastNotificationTime,omitempty"`
}

// State is the derived display state.
type State struct {
	Mode           Mode
	TimeLeft       int // seconds
	IsRunning      bool
	CompletedCount int
}

// KV is the durable storage contract the service runs on. Watch fires on
// every revision change, including deletion (nil value, revision 0).
type KV interface {
	KVGet(key string) (value []byte, revision int64, ok bool, err error)
	KVPut(key string, value []byte) error
	KVCompareAndSwap(key string, value []byte, oldRevision int64) (bool, error)
	KVDelete(key string) error
	KVWatch(key string, interval time.Duration, fn func(value []byte, revision int64)) func()
}

// Notifier receives phase-change side effects. Failures are the
// notifier's problem; the state machine never blocks on them.
type Notifier interface {
	PhaseChanged(mode Mode, completedCount int)
}

// Service is the timer state machine. Instances are isolated; each test
// creates its own with an injected clock.
type Service struct {
	kv       KV
	cfg      Config
	notifier Notifier
	now      func() time.Time
	interval time.Duration

	mu       sync.Mutex
	rec      Record
	revision int64
	exists   bool
	subs     map[int]func(State)
	nextSub  int
	stop     []func()
}

// New creates a service over the given storage. notifier may be nil.
func New(kv KV, cfg Config, notifier Notifier) *Service {
	if cfg.WorkMinutes <= 0 {
		cfg.WorkMinutes = DefaultConfig.WorkMinutes
	}
	if cfg.BreakMinutes <= 0 {
		cfg.BreakMinutes = DefaultConfig.BreakMinutes
	}
	return &Service{
		kv:       kv,
		cfg:      cfg,
		notifier: notifier,
		now:      time.Now,
		interval: time.Second,
		subs:     make(map[int]func(State)),
	}
}

// SetClock injects a clock for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Init loads the persisted record and starts the poll loops: a storage
// watch picking up writes from other instances, and a ticker re-deriving
// display time and firing the phase transition.
func (s *Service) Init() error {
	if err := s.reload(); err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.stop) > 0 {
		s.mu.Unlock()
		return nil
	}
	stopWatch := s.kv.KVWatch(StorageKey, s.interval, func(value []byte, revision int64) {
		s.onStorageChange(value, revision)
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.Poll()
			}
		}
	}()

	s.stop = append(s.stop, stopWatch, func() { close(done) })
	s.mu.Unlock()
	return nil
}

// Dispose stops the poll loops.
func (s *Service) Dispose() {
	s.mu.Lock()
	stops := s.stop
	s.stop = nil
	s.mu.Unlock()
	for _, fn := range stops {
		fn()
	}
}

// Subscribe registers a state callback. The returned function removes the
// subscription.
func (s *Service) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// State derives the current display state from the record and the clock.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deriveLocked()
}

func (s *Service) deriveLocked() State {
	rec := s.rec
	if !s.exists || rec.Mode == "" || rec.Mode == ModeIdle {
		return State{
			Mode:           ModeIdle,
			TimeLeft:       s.cfg.WorkMinutes * 60,
			CompletedCount: rec.CompletedCount,
		}
	}

	var left int
	switch {
	case rec.IsRunning:
		elapsed := s.now().UnixMilli() - rec.StartTime
		left = s.duration(rec) - int(elapsed/1000)
		if left < 0 {
			left = 0
		}
	default:
		left = rec.PausedTimeLeft
	}

	return State{
		Mode:           rec.Mode,
		TimeLeft:       left,
		IsRunning:      rec.IsRunning,
		CompletedCount: rec.CompletedCount,
	}
}

func (s *Service) duration(rec Record) int {
	cfg := rec.Config
	if cfg.WorkMinutes <= 0 {
		cfg = s.cfg
	}
	if rec.Mode == ModeBreak {
		return cfg.BreakMinutes * 60
	}
	return cfg.WorkMinutes * 60
}

// Start begins a work session. The completed count from a previous record
// carries over within the same day of use.
func (s *Service) Start() error {
	s.mu.Lock()
	rec := Record{
		Mode:           ModeWork,
		IsRunning:      true,
		StartTime:      s.now().UnixMilli(),
		CompletedCount: s.rec.CompletedCount,
		Config:         s.cfg,
	}
	s.mu.Unlock()
	return s.put(rec)
}

// Pause freezes the timer, capturing the remaining seconds.
func (s *Service) Pause() error {
	s.mu.Lock()
	if !s.exists || !s.rec.IsRunning {
		s.mu.Unlock()
		return nil
	}
	rec := s.rec
	state := s.deriveLocked()
	rec.IsRunning = false
	rec.PausedTimeLeft = state.TimeLeft
	rec.StartTime = 0
	s.mu.Unlock()
	return s.put(rec)
}

// Resume continues from the paused remaining time by back-dating
// StartTime, so the derived remaining time picks up where pause left off.
func (s *Service) Resume() error {
	s.mu.Lock()
	if !s.exists || s.rec.IsRunning || s.rec.Mode == ModeIdle {
		s.mu.Unlock()
		return nil
	}
	rec := s.rec
	elapsed := s.duration(rec) - rec.PausedTimeLeft
	rec.StartTime = s.now().UnixMilli() - int64(elapsed)*1000
	rec.IsRunning = true
	rec.PausedTimeLeft = 0
	s.mu.Unlock()
	return s.put(rec)
}

// Skip jumps to the next phase immediately, running. Skipping work still
// counts a completed pomodoro; skipping a break does not.
func (s *Service) Skip() error {
	s.mu.Lock()
	if !s.exists || s.rec.Mode == ModeIdle {
		s.mu.Unlock()
		return nil
	}
	rec := s.advance(s.rec, s.now())
	s.mu.Unlock()
	return s.put(rec)
}

// Reset clears all persisted timer state.
func (s *Service) Reset() error {
	if err := s.kv.KVDelete(StorageKey); err != nil {
		return err
	}
	s.mu.Lock()
	s.rec = Record{}
	s.revision = 0
	s.exists = false
	s.mu.Unlock()
	s.publish()
	return nil
}

// Poll re-derives the display state and fires the phase transition when
// the running phase has expired. The transition is a compare-and-swap on
// the persisted record: the first instance to notice wins, the rest
// observe the new revision through the watch and stop trying.
func (s *Service) Poll() {
	s.mu.Lock()
	if !s.exists || !s.rec.IsRunning {
		s.mu.Unlock()
		return
	}
	state := s.deriveLocked()
	if state.TimeLeft > 0 {
		s.mu.Unlock()
		s.publish()
		return
	}

	// Advance from the moment the phase actually expired, not from the
	// poll tick, so the next phase doesn't inherit polling lag.
	expiry := time.UnixMilli(s.rec.StartTime + int64(s.duration(s.rec))*1000)
	next := s.advance(s.rec, expiry)
	revision := s.revision
	s.mu.Unlock()

	data, err := json.Marshal(next)
	if err != nil {
		return
	}
	swapped, err := s.kv.KVCompareAndSwap(StorageKey, data, revision)
	if err != nil {
		return
	}
	if swapped {
		s.reload()
		if s.notifier != nil {
			// Side effect only; a failed chime never blocks the transition.
			s.notifier.PhaseChanged(next.Mode, next.CompletedCount)
		}
	} else {
		// Another instance advanced first; adopt its write.
		s.reload()
	}
}

// advance computes the successor record for a phase change at time at.
// Only work->break increments the completed count.
func (s *Service) advance(rec Record, at time.Time) Record {
	next := rec
	next.IsRunning = true
	next.StartTime = at.UnixMilli()
	next.PausedTimeLeft = 0
	next.LastNotificationTime = s.now().UnixMilli()
	if rec.Mode == ModeWork {
		next.Mode = ModeBreak
		next.CompletedCount++
	} else {
		next.Mode = ModeWork
	}
	return next
}

func (s *Service) put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.kv.KVPut(StorageKey, data); err != nil {
		return err
	}
	return s.reload()
}

func (s *Service) reload() error {
	value, revision, ok, err := s.kv.KVGet(StorageKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if !ok {
		s.rec = Record{}
		s.revision = 0
		s.exists = false
	} else {
		var rec Record
		if err := json.Unmarshal(value, &rec); err != nil {
			s.mu.Unlock()
			return err
		}
		s.rec = rec
		s.revision = revision
		s.exists = true
	}
	s.mu.Unlock()
	s.publish()
	return nil
}

func (s *Service) onStorageChange(value []byte, revision int64) {
	s.mu.Lock()
	if revision == s.revision {
		s.mu.Unlock()
		return
	}
	if value == nil {
		s.rec = Record{}
		s.revision = 0
		s.exists = false
	} else {
		var rec Record
		if err := json.Unmarshal(value, &rec); err != nil {
			s.mu.Unlock()
			return
		}
		s.rec = rec
		s.revision = revision
		s.exists = true
	}
	s.mu.Unlock()
	s.publish()
}

func (s *Service) publish() {
	s.mu.Lock()
	state := s.deriveLocked()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

// FormatTimeLeft renders seconds as MM:SS.
func FormatTimeLeft(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
