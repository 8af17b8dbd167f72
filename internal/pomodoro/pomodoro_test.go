package pomodoro

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is an in-memory revisioned store matching the durable kv contract.
type memKV struct {
	mu       sync.Mutex
	value    []byte
	revision int64
	exists   bool
}

func (m *memKV) KVGet(string) ([]byte, int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil, 0, false, nil
	}
	return m.value, m.revision, true, nil
}

func (m *memKV) KVPut(_ string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revision++
	m.value = value
	m.exists = true
	return nil
}

func (m *memKV) KVCompareAndSwap(_ string, value []byte, oldRevision int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists || m.revision != oldRevision {
		return false, nil
	}
	m.revision++
	m.value = value
	return true, nil
}

func (m *memKV) KVDelete(string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = nil
	m.revision = 0
	m.exists = false
	return nil
}

func (m *memKV) KVWatch(string, time.Duration, func(value []byte, revision int64)) func() {
	return func() {}
}

type recordedPhase struct {
	mode  Mode
	count int
}

type fakeNotifier struct {
	mu     sync.Mutex
	phases []recordedPhase
}

func (n *fakeNotifier) PhaseChanged(mode Mode, completedCount int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.phases = append(n.phases, recordedPhase{mode, completedCount})
}

// testClock is a settable wall clock.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestService(t *testing.T) (*Service, *memKV, *testClock, *fakeNotifier) {
	t.Helper()
	kv := &memKV{}
	clock := newTestClock()
	notifier := &fakeNotifier{}
	svc := New(kv, Config{WorkMinutes: 25, BreakMinutes: 5}, notifier)
	svc.SetClock(clock.Now)
	require.NoError(t, svc.reload())
	return svc, kv, clock, notifier
}

func TestIdleState(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	st := svc.State()
	assert.Equal(t, ModeIdle, st.Mode)
	assert.Equal(t, 25*60, st.TimeLeft)
	assert.False(t, st.IsRunning)
}

func TestStartAndCountdown(t *testing.T) {
	svc, _, clock, _ := newTestService(t)

	require.NoError(t, svc.Start())
	st := svc.State()
	assert.Equal(t, ModeWork, st.Mode)
	assert.True(t, st.IsRunning)
	assert.Equal(t, 25*60, st.TimeLeft)

	clock.Advance(90 * time.Second)
	assert.Equal(t, 25*60-90, svc.State().TimeLeft)
}

func TestPauseCapturesRemaining(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	require.NoError(t, svc.Start())

	clock.Advance(10 * time.Second)
	require.NoError(t, svc.Pause())

	st := svc.State()
	assert.False(t, st.IsRunning)
	assert.Equal(t, 25*60-10, st.TimeLeft)

	// Paused time is frozen regardless of the clock.
	clock.Advance(time.Hour)
	assert.Equal(t, 25*60-10, svc.State().TimeLeft)
}

func TestResumeContinues(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	require.NoError(t, svc.Start())
	clock.Advance(10 * time.Second)
	require.NoError(t, svc.Pause())
	clock.Advance(5 * time.Minute)

	require.NoError(t, svc.Resume())
	st := svc.State()
	assert.True(t, st.IsRunning)
	assert.Equal(t, 25*60-10, st.TimeLeft)

	clock.Advance(20 * time.Second)
	assert.Equal(t, 25*60-30, svc.State().TimeLeft)
}

func TestPollTransitionsWorkToBreak(t *testing.T) {
	svc, _, clock, notifier := newTestService(t)
	require.NoError(t, svc.Start())

	clock.Advance(25 * time.Minute)
	svc.Poll()

	st := svc.State()
	assert.Equal(t, ModeBreak, st.Mode)
	assert.True(t, st.IsRunning)
	assert.Equal(t, 1, st.CompletedCount)
	assert.Equal(t, 5*60, st.TimeLeft)

	require.Len(t, notifier.phases, 1)
	assert.Equal(t, recordedPhase{ModeBreak, 1}, notifier.phases[0])
}

func TestPollTransitionAnchoredToExpiry(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	require.NoError(t, svc.Start())

	// The poll arrives 7 seconds after expiry; the break starts at the
	// expiry instant, so those 7 seconds already count against it.
	clock.Advance(25*time.Minute + 7*time.Second)
	svc.Poll()

	st := svc.State()
	assert.Equal(t, ModeBreak, st.Mode)
	assert.Equal(t, 5*60-7, st.TimeLeft)
}

func TestPollBreakToWorkDoesNotIncrement(t *testing.T) {
	svc, _, clock, notifier := newTestService(t)
	require.NoError(t, svc.Start())
	clock.Advance(25 * time.Minute)
	svc.Poll()
	clock.Advance(5 * time.Minute)
	svc.Poll()

	st := svc.State()
	assert.Equal(t, ModeWork, st.Mode)
	assert.Equal(t, 1, st.CompletedCount, "break completion counts nothing")
	assert.Equal(t, 25*60, st.TimeLeft)

	require.Len(t, notifier.phases, 2)
	assert.Equal(t, recordedPhase{ModeWork, 1}, notifier.phases[1])
}

func TestPollLostSwapAdoptsWinner(t *testing.T) {
	kv := &memKV{}
	clock := newTestClock()
	a := New(kv, DefaultConfig, &fakeNotifier{})
	a.SetClock(clock.Now)
	b := New(kv, DefaultConfig, &fakeNotifier{})
	b.SetClock(clock.Now)

	require.NoError(t, a.Start())
	require.NoError(t, b.reload())
	clock.Advance(25 * time.Minute)

	// Both instances notice expiry; only the first swap lands.
	a.Poll()
	b.Poll()

	assert.Equal(t, a.State(), b.State())
	assert.Equal(t, 1, b.State().CompletedCount, "loser adopts, never double-counts")
}

func TestSkipWorkCountsCompleted(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	require.NoError(t, svc.Start())
	clock.Advance(3 * time.Minute)

	require.NoError(t, svc.Skip())
	st := svc.State()
	assert.Equal(t, ModeBreak, st.Mode)
	assert.Equal(t, 1, st.CompletedCount)
	assert.Equal(t, 5*60, st.TimeLeft)
}

func TestReset(t *testing.T) {
	svc, kv, clock, _ := newTestService(t)
	require.NoError(t, svc.Start())
	clock.Advance(time.Minute)

	require.NoError(t, svc.Reset())

	st := svc.State()
	assert.Equal(t, ModeIdle, st.Mode)
	assert.Equal(t, 25*60, st.TimeLeft)
	assert.False(t, kv.exists)
}

func TestStartCarriesCompletedCount(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	require.NoError(t, svc.Start())
	clock.Advance(25 * time.Minute)
	svc.Poll()
	clock.Advance(5 * time.Minute)
	svc.Poll()

	// Restarting a fresh work session keeps the day's tally.
	require.NoError(t, svc.Start())
	assert.Equal(t, 1, svc.State().CompletedCount)
}

func TestStorageChangePublishes(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	var got []State
	svc.Subscribe(func(st State) { got = append(got, st) })

	rec := Record{Mode: ModeWork, IsRunning: false, PausedTimeLeft: 120, Config: DefaultConfig}
	data := mustMarshal(t, rec)
	svc.onStorageChange(data, 7)

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, ModeWork, last.Mode)
	assert.Equal(t, 120, last.TimeLeft)

	// Same revision again is a no-op.
	before := len(got)
	svc.onStorageChange(data, 7)
	assert.Equal(t, before, len(got))
}

func TestFormatTimeLeft(t *testing.T) {
	assert.Equal(t, "25:00", FormatTimeLeft(25*60))
	assert.Equal(t, "04:09", FormatTimeLeft(249))
	assert.Equal(t, "00:00", FormatTimeLeft(0))
	assert.Equal(t, "00:00", FormatTimeLeft(-5))
}

func mustMarshal(t *testing.T, rec Record) []byte {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return data
}
