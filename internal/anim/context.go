package anim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"

	logx "animd/pkg/logx"
)

// ContextKind names the cooperative task a Context is bound to. It only
// affects the handle base and diagnostics; the scheduler is identical.
type ContextKind uint8

const (
	ContextApp ContextKind = iota
	ContextKernel
	ContextWorker
)

func (k ContextKind) String() string {
	switch k {
	case ContextApp:
		return "app"
	case ContextKernel:
		return "kernel"
	case ContextWorker:
		return "worker"
	}
	return "unknown"
}

const defaultTargetFrameIntervalMS = 33 // ~30 Hz

// Options configures a Context. The zero value is usable: app kind, system
// clock, wall timer, 33 ms target frame interval, no-op logger.
type Options struct {
	Kind  ContextKind
	Clock Clock
	Timer TimerScheduler

	// TargetFrameInterval is the frame spacing the timer bridge converges
	// on while animations are running back-to-back.
	TargetFrameInterval time.Duration

	// QueueSize bounds the loop's posted-event queue.
	QueueSize int

	// MaxNodes caps live nodes; Create returns the zero Handle beyond it.
	// Zero means unlimited.
	MaxNodes int

	Logger logx.Logger
}

// Context is an isolated scheduler instance. All methods except Post, Call
// and SetPaused-via-Post must run on the context's own loop goroutine: the
// goroutine running Run, or whichever goroutine drives Pump.
type Context struct {
	kind  ContextKind
	clock Clock
	timer TimerScheduler
	log   logx.Logger

	targetFrameIntervalMS uint32
	maxNodes              int

	slots     []*slot
	freeSlots []uint32
	liveNodes int
	byHandle  map[Handle]nodeRef

	nextHandle uint64
	handleBase Handle

	unscheduledHead nodeRef
	scheduledHead   nodeRef

	// iterNext is the walk save point; removal routines fix it up.
	iterNext nodeRef

	// current is the node whose callback is executing, if any.
	current nodeRef

	// frame-rate smoothing state
	lastDelayMS     uint32
	lastFrameTimeMS TimeMS
	haveLastFrame   bool

	paused bool

	posts        chan func()
	timerPending atomic.Bool
	gid          atomic.Int64
}

// New creates a Context. The caller decides how its loop runs: either spawn
// Run on a dedicated goroutine, or embed the context into an existing
// cooperative loop by calling Pump.
func New(opts Options) *Context {
	if opts.Clock == nil {
		opts.Clock = NewSystemClock()
	}
	if opts.Timer == nil {
		opts.Timer = NewWallTimer()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 128
	}
	target := uint32(opts.TargetFrameInterval / time.Millisecond)
	if target == 0 {
		target = defaultTargetFrameIntervalMS
	}
	return &Context{
		kind:                  opts.Kind,
		clock:                 opts.Clock,
		timer:                 opts.Timer,
		log:                   opts.Logger,
		targetFrameIntervalMS: target,
		maxNodes:              opts.MaxNodes,
		byHandle:              map[Handle]nodeRef{},
		handleBase:            Handle(uint64(opts.Kind)+1) << 32,
		posts:                 make(chan func(), opts.QueueSize),
	}
}

func (c *Context) Kind() ContextKind { return c.kind }

// Run drives the context loop until ctx is done. It takes loop ownership for
// the calling goroutine.
func (c *Context) Run(ctx context.Context) {
	c.gid.Store(goid.Get())
	defer c.gid.Store(0)
	c.log.Debug("anim.loop_started", logx.String("context", c.kind.String()))
	for {
		select {
		case <-ctx.Done():
			c.timer.Stop()
			c.log.Debug("anim.loop_stopped", logx.String("context", c.kind.String()))
			return
		case fn := <-c.posts:
			fn()
		}
	}
}

// Pump runs every event currently queued on the loop and returns how many
// ran. It is the embedding alternative to Run: the pumping goroutine becomes
// the loop goroutine.
func (c *Context) Pump() int {
	c.gid.Store(goid.Get())
	n := 0
	for {
		select {
		case fn := <-c.posts:
			fn()
			n++
		default:
			return n
		}
	}
}

// Post queues fn onto the context loop. Safe from any goroutine; returns
// false when the queue is full.
func (c *Context) Post(fn func()) bool {
	select {
	case c.posts <- fn:
		return true
	default:
		c.log.Warn("anim.post_dropped", logx.String("context", c.kind.String()))
		return false
	}
}

// Call posts fn and waits for it to finish running on the loop.
func (c *Context) Call(ctx context.Context, fn func()) bool {
	done := make(chan struct{})
	if !c.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// SetPaused suspends or resumes timer-driven advancement. A paused context
// still accepts API calls; unpausing re-arms the timer for the current head.
func (c *Context) SetPaused(paused bool) {
	c.enter()
	if c.paused == paused {
		return
	}
	c.paused = paused
	c.log.Debug("anim.paused_changed", logx.Bool("paused", paused))
	if !paused {
		if h := c.deref(c.scheduledHead); h != nil {
			c.armTimer(h.absStartMS)
		}
	}
}

func (c *Context) Paused() bool {
	c.enter()
	return c.paused
}

// Current returns the handle of the node whose callback is currently
// executing, or zero outside callbacks.
func (c *Context) Current() Handle {
	c.enter()
	if n := c.deref(c.current); n != nil {
		return n.handle
	}
	return 0
}

// enter asserts single-goroutine affinity: the first caller binds the
// context, after which any other goroutine is a contract violation.
func (c *Context) enter() {
	gid := goid.Get()
	if c.gid.CompareAndSwap(0, gid) {
		return
	}
	if c.gid.Load() != gid {
		panic("anim: context used from a foreign goroutine; marshal the call with Post or Call")
	}
}

func (c *Context) withCurrent(r nodeRef, fn func()) {
	prev := c.current
	c.current = r
	fn()
	c.current = prev
}
