package anim

import (
	"testing"
	"time"

	logx "animd/pkg/logx"
)

// fixture drives a context deterministically: a hand-set clock, a manual
// timer slot, and Pump instead of a loop goroutine.
type fixture struct {
	t   *testing.T
	c   *Context
	clk *ManualClock
	tm  *ManualTimer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := &ManualClock{}
	clk.Set(1000)
	tm := NewManualTimer()
	c := New(Options{
		Clock:               clk,
		Timer:               tm,
		TargetFrameInterval: 33 * time.Millisecond,
		QueueSize:           16,
		Logger:              logx.Nop(),
	})
	return &fixture{t: t, c: c, clk: clk, tm: tm}
}

// step advances the clock and delivers one timer frame, if armed.
func (f *fixture) step(ms uint32) {
	f.t.Helper()
	f.clk.Advance(ms)
	f.tm.Fire()
	f.c.Pump()
}

// newPrimitive creates a primitive with a recorder implementation, linear
// curve and the given delay/duration.
func (f *fixture) newPrimitive(rec Implementation, delayMS, durationMS uint32) Handle {
	f.t.Helper()
	h := f.c.Create()
	if h == 0 {
		f.t.Fatal("Create returned zero handle")
	}
	f.c.SetImplementation(h, rec)
	f.c.SetCurve(h, CurveLinear)
	f.c.SetDelay(h, delayMS)
	f.c.SetDuration(h, durationMS)
	return h
}

// nodeByHandle finds the handle's snapshot, failing the test when missing.
func (f *fixture) nodeByHandle(h Handle) NodeInfo {
	f.t.Helper()
	for _, in := range f.c.DumpNodes() {
		if in.Handle == h {
			return in
		}
	}
	f.t.Fatalf("handle %#x not found in dump", uint64(h))
	return NodeInfo{}
}

// recorder is a minimal Implementation capturing every update.
type recorder struct {
	updates []Progress
}

func (r *recorder) Update(c *Context, h Handle, p Progress) {
	r.updates = append(r.updates, p)
}

func (r *recorder) last() Progress {
	if len(r.updates) == 0 {
		return -1
	}
	return r.updates[len(r.updates)-1]
}

// hookRecorder additionally counts setup/teardown invocations.
type hookRecorder struct {
	recorder
	setups    int
	teardowns int
}

func (r *hookRecorder) Setup(c *Context, h Handle)    { r.setups++ }
func (r *hookRecorder) Teardown(c *Context, h Handle) { r.teardowns++ }

// events records lifecycle callbacks in order, as compact strings.
type events struct {
	got []string
}

func (e *events) add(s string) { e.got = append(e.got, s) }

func (e *events) handlers(name string) Handlers {
	return Handlers{
		Started: func(c *Context, h Handle, _ any) {
			e.add(name + ":started")
		},
		Stopped: func(c *Context, h Handle, finished bool, _ any) {
			if finished {
				e.add(name + ":finished")
			} else {
				e.add(name + ":stopped")
			}
		},
	}
}
