package anim

import (
	"sync"
	"time"

	logx "animd/pkg/logx"
)

// TimerScheduler is the single deferred-wakeup slot of a context. Schedule
// replaces any armed timer; fire runs on an arbitrary goroutine and is
// expected to marshal itself back onto the context loop.
type TimerScheduler interface {
	Schedule(delay time.Duration, fire func())
	Stop()
}

// wallTimer backs TimerScheduler with time.AfterFunc.
type wallTimer struct {
	mu sync.Mutex
	t  *time.Timer
}

func NewWallTimer() TimerScheduler { return &wallTimer{} }

func (w *wallTimer) Schedule(delay time.Duration, fire func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.t != nil {
		w.t.Stop()
	}
	w.t = time.AfterFunc(delay, fire)
}

func (w *wallTimer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.t != nil {
		w.t.Stop()
		w.t = nil
	}
}

// ManualTimer records the armed delay and fires only when told to. It lets
// tests and frame-owning embedders drive the bridge deterministically.
type ManualTimer struct {
	mu    sync.Mutex
	armed bool
	delay time.Duration
	fire  func()
}

func NewManualTimer() *ManualTimer { return &ManualTimer{} }

func (m *ManualTimer) Schedule(delay time.Duration, fire func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = true
	m.delay = delay
	m.fire = fire
}

func (m *ManualTimer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = false
	m.fire = nil
}

// Armed reports the pending delay, if any.
func (m *ManualTimer) Armed() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delay, m.armed
}

// Fire invokes the armed callback once, disarming first (a real timer slot
// is one-shot). Returns false when nothing was armed.
func (m *ManualTimer) Fire() bool {
	m.mu.Lock()
	fire := m.fire
	m.armed = false
	m.fire = nil
	m.mu.Unlock()
	if fire == nil {
		return false
	}
	fire()
	return true
}

// armTimer points the wakeup timer at an absolute start time, clamping
// already-due starts to an immediate fire.
func (c *Context) armTimer(start TimeMS) {
	d := DistanceMS(start, c.clock.NowMS())
	if d < 0 {
		d = 0
	}
	c.timer.Schedule(time.Duration(d)*time.Millisecond, c.onTimerFired)
}

// onTimerFired runs on the timer goroutine. It posts one coalesced wakeup
// event onto the loop; while that event is pending, further fires are
// dropped.
func (c *Context) onTimerFired() {
	if !c.timerPending.CompareAndSwap(false, true) {
		return
	}
	if !c.Post(c.handleTimerEvent) {
		// Queue full. Drop the pending claim and retry shortly so the
		// wakeup is never lost.
		c.timerPending.Store(false)
		c.timer.Schedule(time.Millisecond, c.onTimerFired)
	}
}

// handleTimerEvent is the loop half of the bridge: acknowledge delivery,
// advance everything due, then re-arm for the next frame.
func (c *Context) handleTimerEvent() {
	c.timerPending.Store(false)
	if c.paused {
		return
	}
	now := c.clock.NowMS()
	c.runDue(now, noRef, true)
	c.rearmAfterFrame(now)
}

// rearmAfterFrame picks the next wakeup delay. When the head is further out
// than one frame interval we jump straight to it; otherwise an integral
// controller nudges the delay so actual frame spacing converges on the
// target interval.
func (c *Context) rearmAfterFrame(now TimeMS) {
	head := c.deref(c.scheduledHead)
	if head == nil {
		c.haveLastFrame = false
		return
	}
	target := int32(c.targetFrameIntervalMS)
	dist := DistanceMS(head.absStartMS, now)
	var delay int32
	if dist > target {
		delay = dist
		c.lastDelayMS = c.targetFrameIntervalMS
		c.haveLastFrame = false
	} else {
		delay = target
		if c.haveLastFrame {
			actual := DistanceMS(now, c.lastFrameTimeMS)
			delay = int32(c.lastDelayMS) - (actual - target)
			if delay < 0 {
				delay = 0
			} else if delay > target {
				delay = target
			}
		}
		c.lastDelayMS = uint32(delay)
		c.haveLastFrame = true
	}
	c.lastFrameTimeMS = now
	c.timer.Schedule(time.Duration(delay)*time.Millisecond, c.onTimerFired)
	c.log.Trace("anim.timer_armed",
		logx.Int("delay_ms", int(delay)),
		logx.Uint64("head_start", uint64(head.absStartMS)))
}
