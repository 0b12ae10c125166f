package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	h := f.c.Create()
	require.NotZero(t, h)

	d, ok := f.c.Duration(h)
	require.True(t, ok)
	assert.Equal(t, DefaultDurationMS, d)

	pc, _ := f.c.PlayCount(h)
	assert.Equal(t, uint32(1), pc)

	cv, _ := f.c.CurveOf(h)
	assert.Equal(t, CurveEaseInOut, cv)

	assert.False(t, f.c.IsScheduled(h))
	assert.Equal(t, 1, f.c.LiveNodes())
}

func TestNodeBudget(t *testing.T) {
	t.Parallel()
	clk := &ManualClock{}
	c := New(Options{Clock: clk, Timer: NewManualTimer(), MaxNodes: 2})

	require.NotZero(t, c.Create())
	require.NotZero(t, c.Create())
	assert.Zero(t, c.Create(), "third create exceeds the budget")
	assert.Equal(t, 2, c.LiveNodes())
}

func TestSettersRequireMutableNode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, 100)
	require.True(t, f.c.Schedule(h))

	// Scheduled nodes are frozen.
	assert.False(t, f.c.SetDuration(h, 500))
	assert.False(t, f.c.SetDelay(h, 10))
	assert.False(t, f.c.SetImplementation(h, rec))

	require.True(t, f.c.Unschedule(h))
	assert.True(t, f.c.SetDuration(h, 500))

	// Immutable is one-way.
	require.True(t, f.c.SetImmutable(h))
	assert.False(t, f.c.SetDuration(h, 100))
	assert.True(t, f.c.IsImmutable(h))
}

func TestSetCurveRejectsReservedValues(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	h := f.c.Create()
	assert.False(t, f.c.SetCurve(h, CurveCustomFunction))
	assert.False(t, f.c.SetCurve(h, CurveCustomInterpolation))

	assert.True(t, f.c.SetCustomCurve(h, func(p Progress) Progress { return p }))
	cv, _ := f.c.CurveOf(h)
	assert.Equal(t, CurveCustomFunction, cv)
	assert.NotNil(t, f.c.CustomCurve(h))
}

func TestSchedulePrimitivePlacesByDelay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	h := f.newPrimitive(&recorder{}, 50, 100)
	require.True(t, f.c.Schedule(h))
	assert.True(t, f.c.IsScheduled(h))

	in := f.nodeByHandle(h)
	assert.Equal(t, uint32(1050), in.AbsStartMS)

	d, armed := f.tm.Armed()
	require.True(t, armed)
	assert.Equal(t, int64(50), d.Milliseconds())
}

func TestScheduleWithoutImplementationPanics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	h := f.c.Create()
	assert.Panics(t, func() { f.c.Schedule(h) })
}

func TestScheduleZeroPlayCountIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	h := f.newPrimitive(&recorder{}, 0, 100)
	require.True(t, f.c.SetPlayCount(h, 0))
	assert.True(t, f.c.Schedule(h))
	assert.False(t, f.c.IsScheduled(h))
}

func TestScheduledListSortedByStart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	late := f.newPrimitive(&recorder{}, 300, 100)
	early := f.newPrimitive(&recorder{}, 10, 100)
	mid := f.newPrimitive(&recorder{}, 100, 100)
	require.True(t, f.c.Schedule(late))
	require.True(t, f.c.Schedule(early))
	require.True(t, f.c.Schedule(mid))

	var starts []uint32
	for _, in := range f.c.DumpNodes() {
		if in.Scheduled {
			starts = append(starts, in.AbsStartMS)
		}
	}
	assert.Equal(t, []uint32{1010, 1100, 1300}, starts)

	// The timer tracks the earliest start.
	d, armed := f.tm.Armed()
	require.True(t, armed)
	assert.Equal(t, int64(10), d.Milliseconds())
}

func TestRescheduleRestartsFromBeginning(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ev := &events{}
	h := f.newPrimitive(&recorder{}, 0, 200)
	f.c.SetHandlers(h, ev.handlers("a"))
	require.True(t, f.c.Schedule(h))
	f.step(50)

	require.True(t, f.c.Schedule(h))
	in := f.nodeByHandle(h)
	assert.Equal(t, uint32(1050), in.AbsStartMS, "restarted at current time")
	// The restart went through a full stop.
	assert.Equal(t, []string{"a:started", "a:stopped"}, ev.got)
}

func TestSequenceChildrenBackToBack(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 100)
	b := f.newPrimitive(&recorder{}, 30, 50)
	cc := f.newPrimitive(&recorder{}, 0, 70)
	seq := f.c.SequenceCreate(a, b, cc)
	require.NotZero(t, seq)
	require.True(t, f.c.Schedule(seq))

	assert.Equal(t, uint32(1000), f.nodeByHandle(a).AbsStartMS)
	assert.Equal(t, uint32(1130), f.nodeByHandle(b).AbsStartMS, "a's slot plus b's delay")
	assert.Equal(t, uint32(1180), f.nodeByHandle(cc).AbsStartMS)

	// Parent spans the whole run.
	d, ok := f.c.Duration(seq)
	require.True(t, ok)
	assert.Equal(t, uint32(250), d)
	assert.Equal(t, uint32(1000), f.nodeByHandle(seq).AbsStartMS)
}

func TestSequenceSlotsScaleWithPlayCount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 100)
	require.True(t, f.c.SetPlayCount(a, 3))
	b := f.newPrimitive(&recorder{}, 0, 50)
	seq := f.c.SequenceCreate(a, b)
	require.True(t, f.c.Schedule(seq))

	assert.Equal(t, uint32(1300), f.nodeByHandle(b).AbsStartMS, "b waits for all three plays of a")
}

func TestSpawnWindowAndDelayRestatement(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 100)
	b := f.newPrimitive(&recorder{}, 50, 200)
	sp := f.c.SpawnCreate(a, b)
	require.NotZero(t, sp)
	require.True(t, f.c.Schedule(sp))

	assert.Equal(t, uint32(1000), f.nodeByHandle(a).AbsStartMS)
	assert.Equal(t, uint32(1050), f.nodeByHandle(b).AbsStartMS)

	// Duration covers the latest child end; delays are restated against the
	// earliest start.
	d, _ := f.c.Duration(sp)
	assert.Equal(t, uint32(250), d)
	bd, _ := f.c.Delay(b)
	assert.Equal(t, uint32(50), bd)
	assert.Equal(t, uint32(1000), f.nodeByHandle(sp).AbsStartMS)
}

func TestCompositeValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 100)
	b := f.newPrimitive(&recorder{}, 0, 100)
	seq := f.c.SequenceCreate(a, b)
	require.NotZero(t, seq)

	// Children already claimed by seq are rejected, leaving no partial state.
	assert.Zero(t, f.c.SequenceCreate(a))
	assert.Zero(t, f.c.SpawnCreate(b))

	// No children at all.
	assert.Zero(t, f.c.SequenceCreate())

	// A scheduled animation may only lead a sequence, not follow.
	lead := f.newPrimitive(&recorder{}, 0, 100)
	trail := f.newPrimitive(&recorder{}, 0, 100)
	require.True(t, f.c.Schedule(trail))
	assert.Zero(t, f.c.SequenceCreate(lead, trail))
	assert.NotZero(t, f.c.SpawnCreate(lead, trail), "spawns accept in-flight children anywhere")
}

func TestCompositeChildCountLimit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	children := make([]Handle, MaxChildren+1)
	for i := range children {
		children[i] = f.newPrimitive(&recorder{}, 0, 10)
	}
	assert.Zero(t, f.c.SequenceCreate(children...))
	assert.NotZero(t, f.c.SequenceCreate(children[:MaxChildren]...))
}

func TestSequenceAroundInFlightAnimation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 200)
	require.True(t, f.c.Schedule(a))
	f.step(50) // a is mid-flight at t=1050

	b := f.newPrimitive(&recorder{}, 0, 100)
	seq := f.c.SequenceCreate(a, b)
	require.NotZero(t, seq)
	require.True(t, f.c.Schedule(seq))

	// a keeps its position; b lines up after a's slot; the sequence is
	// back-dated to a's original start.
	assert.Equal(t, uint32(1000), f.nodeByHandle(a).AbsStartMS)
	assert.Equal(t, uint32(1200), f.nodeByHandle(b).AbsStartMS)
	assert.Equal(t, uint32(1000), f.nodeByHandle(seq).AbsStartMS)
}

func TestChildrenCannotBeScheduledDirectly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 100)
	seq := f.c.SequenceCreate(a)
	require.NotZero(t, seq)

	assert.False(t, f.c.Schedule(a))
	assert.False(t, f.c.Unschedule(a))
	assert.False(t, f.c.Destroy(a))
	assert.Equal(t, seq, f.c.Parent(a))
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 10, 100)
	require.True(t, f.c.SetPlayCount(a, 2))

	d, ok := f.c.TotalDuration(a, false, false)
	require.True(t, ok)
	assert.Equal(t, uint32(100), d)

	d, _ = f.c.TotalDuration(a, false, true)
	assert.Equal(t, uint32(200), d)

	d, _ = f.c.TotalDuration(a, true, true)
	assert.Equal(t, uint32(210), d)

	// Infinite propagates.
	inf := f.newPrimitive(&recorder{}, 0, DurationInfinite)
	b := f.newPrimitive(&recorder{}, 0, 50)
	seq := f.c.SequenceCreate(inf, b)
	d, _ = f.c.TotalDuration(seq, false, false)
	assert.Equal(t, DurationInfinite, d)

	// Infinite play count of a finite animation is infinite.
	loop := f.newPrimitive(&recorder{}, 0, 100)
	require.True(t, f.c.SetPlayCount(loop, PlayCountInfinite))
	d, _ = f.c.TotalDuration(loop, false, true)
	assert.Equal(t, DurationInfinite, d)
}
