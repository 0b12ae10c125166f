package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	ev := &events{}
	h := f.newPrimitive(rec, 0, 100)
	f.c.SetHandlers(h, ev.handlers("a"))
	require.True(t, f.c.Schedule(h))

	f.step(0) // first frame at the start time
	assert.Equal(t, []string{"a:started"}, ev.got)
	require.Len(t, rec.updates, 1)
	assert.Equal(t, ProgressMin, rec.updates[0])

	f.step(50)
	assert.Equal(t, Progress(32768), rec.last(), "rounded midpoint")

	f.step(50) // terminal frame
	assert.Equal(t, ProgressMax, rec.last())
	assert.Equal(t, []string{"a:started", "a:finished"}, ev.got)
	assert.False(t, f.c.IsScheduled(h))
	assert.True(t, f.c.Exists(h), "no auto-destroy by default")
}

func TestTerminalFrameFiresExactlyOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, 100)
	require.True(t, f.c.Schedule(h))

	// The timer overshoots the whole animation in one jump: the terminal
	// frame is still delivered, exactly once.
	f.step(500)
	require.Len(t, rec.updates, 1)
	assert.Equal(t, ProgressMax, rec.updates[0])

	f.step(100) // nothing scheduled anymore
	assert.Len(t, rec.updates, 1)
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, 0)
	require.True(t, f.c.Schedule(h))
	f.step(0)

	assert.Equal(t, []Progress{ProgressMax}, rec.updates)
	assert.False(t, f.c.IsScheduled(h))
}

func TestInfiniteDurationNeverCompletes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, DurationInfinite)
	require.True(t, f.c.Schedule(h))

	for i := 0; i < 5; i++ {
		f.step(33)
	}
	assert.True(t, f.c.IsScheduled(h))
	require.Len(t, rec.updates, 5)
	for _, p := range rec.updates {
		assert.Equal(t, ProgressMin, p)
	}
}

func TestReverseFlipsProgress(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, 100)
	require.True(t, f.c.SetReverse(h, true))
	require.True(t, f.c.Schedule(h))

	f.step(0)
	assert.Equal(t, ProgressMax, rec.last())
	f.step(100)
	assert.Equal(t, ProgressMin, rec.last())
}

func TestCustomCurveApplied(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, 100)
	require.True(t, f.c.SetCustomCurve(h, func(p Progress) Progress { return p / 2 }))
	require.True(t, f.c.Schedule(h))

	f.step(100)
	assert.Equal(t, ProgressMax/2, rec.last())
}

func TestCustomInterpolationReceivesRawProgress(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var seen []Progress
	var interpolated []int32
	h := f.c.Create()
	f.c.SetDuration(h, 100)
	f.c.SetImplementation(h, UpdateFunc(func(c *Context, h Handle, p Progress) {
		seen = append(seen, p)
		if fn := c.CustomInterpolation(h); fn != nil {
			interpolated = append(interpolated, fn(p, 0, 100))
		}
	}))
	require.True(t, f.c.SetCustomInterpolation(h, func(p Progress, from, to int32) int32 {
		return from + int32(int64(to-from)*int64(p)/int64(ProgressMax))
	}))
	require.True(t, f.c.Schedule(h))

	f.step(50)
	f.step(50)
	require.Len(t, seen, 2)
	assert.Equal(t, Progress(32768), seen[0], "raw progress, no easing")
	assert.Equal(t, []int32{50, 100}, interpolated)
}

func TestRepeatPlayCount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	ev := &events{}
	h := f.newPrimitive(rec, 20, 100)
	require.True(t, f.c.SetPlayCount(h, 3))
	f.c.SetHandlers(h, ev.handlers("a"))
	require.True(t, f.c.Schedule(h))

	f.step(20) // start of play 1
	f.step(100)
	tp, _ := f.c.TimesPlayed(h)
	assert.Equal(t, uint32(1), tp)
	assert.True(t, f.c.IsScheduled(h), "repeats stay scheduled")

	f.step(100)
	tp, _ = f.c.TimesPlayed(h)
	assert.Equal(t, uint32(2), tp)

	f.step(100)
	assert.False(t, f.c.IsScheduled(h))

	// Each play got its own started/stopped pair; only the last finished.
	assert.Equal(t, []string{
		"a:started", "a:stopped",
		"a:started", "a:stopped",
		"a:started", "a:finished",
	}, ev.got)

	// Repeats are back-to-back: the delay applies once.
	assert.Equal(t, uint32(1320), uint32(f.clk.NowMS()))
}

func TestInfinitePlayCountRepeatsUntilUnscheduled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	h := f.newPrimitive(rec, 0, 50)
	require.True(t, f.c.SetPlayCount(h, PlayCountInfinite))
	require.True(t, f.c.Schedule(h))

	for i := 0; i < 6; i++ {
		f.step(50)
	}
	assert.True(t, f.c.IsScheduled(h))
	require.True(t, f.c.Unschedule(h))
	assert.False(t, f.c.IsScheduled(h))
}

func TestSequenceRunsChildrenInOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ev := &events{}
	a := f.newPrimitive(&recorder{}, 0, 100)
	f.c.SetHandlers(a, ev.handlers("a"))
	b := f.newPrimitive(&recorder{}, 0, 100)
	f.c.SetHandlers(b, ev.handlers("b"))
	seq := f.c.SequenceCreate(a, b)
	f.c.SetHandlers(seq, ev.handlers("seq"))
	require.True(t, f.c.Schedule(seq))

	f.step(0)
	assert.Equal(t, []string{"a:started", "seq:started"}, ev.got)

	f.step(100)
	assert.Contains(t, ev.got, "a:finished")
	assert.Contains(t, ev.got, "b:started")

	// The parent completes in the same frame as its last child, via the
	// second pass.
	f.step(100)
	assert.Equal(t, "seq:finished", ev.got[len(ev.got)-1])
	assert.False(t, f.c.IsScheduled(seq))
	assert.False(t, f.c.IsScheduled(b))
}

func TestSpawnCompletesWithSlowestChild(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ev := &events{}
	fast := f.newPrimitive(&recorder{}, 0, 50)
	f.c.SetHandlers(fast, ev.handlers("fast"))
	slow := f.newPrimitive(&recorder{}, 0, 200)
	f.c.SetHandlers(slow, ev.handlers("slow"))
	sp := f.c.SpawnCreate(fast, slow)
	f.c.SetHandlers(sp, ev.handlers("sp"))
	require.True(t, f.c.Schedule(sp))

	f.step(0)
	f.step(50)
	assert.Contains(t, ev.got, "fast:finished")
	assert.True(t, f.c.IsScheduled(sp))

	f.step(150)
	assert.Equal(t, "sp:finished", ev.got[len(ev.got)-1])
	assert.False(t, f.c.IsScheduled(sp))
}

func TestGetProgressDuringDelayClampsToZero(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	h := f.newPrimitive(&recorder{}, 100, 100)
	require.True(t, f.c.Schedule(h))

	p, ok := f.c.GetProgress(h)
	require.True(t, ok)
	assert.Equal(t, ProgressMin, p)

	_, ok = f.c.GetProgress(0xdead)
	assert.False(t, ok)
}

func TestCompositeRepeat(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ev := &events{}
	a := f.newPrimitive(&recorder{}, 0, 50)
	f.c.SetHandlers(a, ev.handlers("a"))
	seq := f.c.SequenceCreate(a)
	require.True(t, f.c.SetPlayCount(seq, 2))
	require.True(t, f.c.SetDelay(seq, 30))
	require.True(t, f.c.Schedule(seq))

	f.step(30)
	f.step(50) // play 1 done, reschedule
	assert.True(t, f.c.IsScheduled(seq))
	d, _ := f.c.Delay(seq)
	assert.Equal(t, uint32(30), d, "configured delay survives the repeat")

	f.step(50)
	f.step(50)
	assert.False(t, f.c.IsScheduled(seq))
	count := 0
	for _, e := range ev.got {
		if e == "a:started" {
			count++
		}
	}
	assert.Equal(t, 2, count, "child replayed once per parent play")
}
