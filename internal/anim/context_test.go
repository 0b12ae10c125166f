package anim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoroutineAffinityPanics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.c.Create() // binds the fixture goroutine

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		f.c.Create()
	}()
	assert.NotNil(t, <-done, "foreign goroutine must panic")
}

func TestPostAndCallMarshalOntoLoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.c.Create()

	var h Handle
	go func() {
		f.c.Call(context.Background(), func() {
			h = f.c.Create()
		})
	}()

	// Pump until the posted closure lands.
	deadline := time.After(2 * time.Second)
	for h == 0 {
		select {
		case <-deadline:
			t.Fatal("posted call never ran")
		default:
		}
		f.c.Pump()
	}
	assert.True(t, f.c.Exists(h))
}

func TestPostReportsFullQueue(t *testing.T) {
	t.Parallel()
	c := New(Options{Clock: &ManualClock{}, Timer: NewManualTimer(), QueueSize: 1})

	require.True(t, c.Post(func() {}))
	assert.False(t, c.Post(func() {}), "second post exceeds the queue")
	c.Pump()
	assert.True(t, c.Post(func() {}))
}

func TestRunDrainsUntilCancelled(t *testing.T) {
	t.Parallel()
	c := New(Options{Clock: &ManualClock{}, Timer: NewManualTimer(), QueueSize: 8})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(stopped)
	}()

	ran := make(chan struct{})
	require.True(t, c.Post(func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never ran the posted event")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestCurrentTracksExecutingCallback(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var inUpdate, inStarted Handle
	h := f.c.Create()
	f.c.SetDuration(h, 100)
	f.c.SetImplementation(h, UpdateFunc(func(c *Context, hh Handle, _ Progress) {
		inUpdate = c.Current()
	}))
	f.c.SetHandlers(h, Handlers{
		Started: func(c *Context, hh Handle, _ any) {
			inStarted = c.Current()
		},
	})
	require.True(t, f.c.Schedule(h))

	assert.Zero(t, f.c.Current(), "zero outside callbacks")
	f.step(0)
	assert.Equal(t, h, inUpdate)
	assert.Equal(t, h, inStarted)
	assert.Zero(t, f.c.Current())
}

func TestHandleNamespacesPerKind(t *testing.T) {
	t.Parallel()
	app := New(Options{Kind: ContextApp, Clock: &ManualClock{}, Timer: NewManualTimer()})
	kern := New(Options{Kind: ContextKernel, Clock: &ManualClock{}, Timer: NewManualTimer()})

	ah := app.Create()
	kh := kern.Create()
	assert.NotEqual(t, ah, kh, "handles encode their context kind")
	assert.False(t, app.Exists(kh))
	assert.False(t, kern.Exists(ah))
}

func TestUserContextRoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	type payload struct{ n int }
	p := &payload{n: 7}

	var got any
	h := f.newPrimitive(&recorder{}, 0, 10)
	f.c.SetHandlers(h, Handlers{
		Stopped: func(c *Context, hh Handle, _ bool, userCtx any) {
			got = userCtx
		},
		Context: p,
	})

	uc, ok := f.c.UserContext(h)
	require.True(t, ok)
	assert.Same(t, p, uc)

	require.True(t, f.c.Schedule(h))
	f.step(10)
	assert.Same(t, p, got)
}
