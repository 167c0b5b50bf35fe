package force

import (
	"sync"
	"time"
)

// DefaultFrameRate is the frame rate of a [TickerScheduler] created with a
// non-positive rate.
const DefaultFrameRate = 60

// FrameID identifies a requested frame. The zero FrameID is never issued.
type FrameID uint64

// FrameFunc is called once per frame with the frame time.
type FrameFunc func(now time.Time)

// Scheduler delivers frames to the engine.
//
// RequestFrame arranges for fn to be called once, later; it must never call
// fn before returning. CancelFrame prevents a requested frame from running if
// it has not started yet. Cancelling an unknown or finished frame is a no-op.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// =============================================================================
// TickerScheduler
// =============================================================================

// TickerScheduler runs frames from timers at a fixed rate. It is the
// scheduler for interactive use (server, terminal view).
type TickerScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	next   FrameID
	timers map[FrameID]*time.Timer
	closed bool
}

// NewTickerScheduler returns a scheduler that runs each requested frame one
// frame interval after it was requested.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &TickerScheduler{
		interval: time.Second / time.Duration(fps),
		timers:   make(map[FrameID]*time.Timer),
	}
}

// Interval returns the time between frames.
func (t *TickerScheduler) Interval() time.Duration { return t.interval }

// RequestFrame implements [Scheduler]. After Close it returns 0 and fn is
// never called.
func (t *TickerScheduler) RequestFrame(fn FrameFunc) FrameID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0
	}
	t.next++
	id := t.next
	t.timers[id] = time.AfterFunc(t.interval, func() {
		t.mu.Lock()
		_, ok := t.timers[id]
		delete(t.timers, id)
		t.mu.Unlock()
		if ok {
			fn(time.Now())
		}
	})
	return id
}

// CancelFrame implements [Scheduler].
func (t *TickerScheduler) CancelFrame(id FrameID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
}

// Pending returns the number of frames requested but not yet run.
func (t *TickerScheduler) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

// Close cancels all pending frames and rejects new requests.
func (t *TickerScheduler) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.closed = true
	return nil
}

// =============================================================================
// ManualScheduler
// =============================================================================

type manualFrame struct {
	id FrameID
	fn FrameFunc
}

// ManualScheduler queues frames until [ManualScheduler.Advance] runs them.
// Frame times come from a virtual clock that moves one interval per frame.
type ManualScheduler struct {
	mu       sync.Mutex
	next     FrameID
	queue    []manualFrame
	now      time.Time
	interval time.Duration
}

// NewManualScheduler returns a scheduler whose virtual clock starts at the
// Unix epoch and advances at 60 frames per second.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		now:      time.Unix(0, 0),
		interval: time.Second / DefaultFrameRate,
	}
}

// RequestFrame implements [Scheduler].
func (m *ManualScheduler) RequestFrame(fn FrameFunc) FrameID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.queue = append(m.queue, manualFrame{id: m.next, fn: fn})
	return m.next
}

// CancelFrame implements [Scheduler].
func (m *ManualScheduler) CancelFrame(id FrameID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.queue {
		if f.id == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// Advance runs up to n frames in request order, including frames requested
// by the frames it runs. It returns the number of frames run, which is less
// than n once the queue is empty.
func (m *ManualScheduler) Advance(n int) int {
	ran := 0
	for ran < n {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			break
		}
		f := m.queue[0]
		m.queue = m.queue[1:]
		m.now = m.now.Add(m.interval)
		now := m.now
		m.mu.Unlock()

		f.fn(now)
		ran++
	}
	return ran
}

// Pending returns the number of queued frames.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
