package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statefulRec is a recorder whose clones get independent update logs.
type statefulRec struct {
	recorder
	clones *int
}

func (s *statefulRec) CloneImplementation() Implementation {
	*s.clones++
	return &statefulRec{clones: s.clones}
}

func TestCloneDeepCopiesTree(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 10, 100)
	require.True(t, f.c.SetPlayCount(a, 2))
	b := f.newPrimitive(&recorder{}, 0, 50)
	require.True(t, f.c.SetReverse(b, true))
	seq := f.c.SequenceCreate(a, b)
	require.True(t, f.c.SetImmutable(seq))

	cp := f.c.Clone(seq)
	require.NotZero(t, cp)
	assert.NotEqual(t, seq, cp)
	assert.Equal(t, 6, f.c.LiveNodes())

	// Settings carry over into the copied subtree.
	kids := f.c.Children(cp)
	require.Len(t, kids, 2)
	pc, _ := f.c.PlayCount(kids[0])
	assert.Equal(t, uint32(2), pc)
	d, _ := f.c.Delay(kids[0])
	assert.Equal(t, uint32(10), d)
	assert.True(t, f.c.Reverse(kids[1]))

	// The clone is editable even though the source was frozen.
	assert.False(t, f.c.IsImmutable(cp))
	assert.True(t, f.c.SetPlayCount(cp, 3))
}

func TestCloneOfScheduledNodeStartsFresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	src := f.newPrimitive(rec, 0, 200)
	require.True(t, f.c.Schedule(src))
	f.step(100) // src is mid-flight

	cp := f.c.Clone(src)
	require.NotZero(t, cp)
	assert.False(t, f.c.IsScheduled(cp))

	require.True(t, f.c.Schedule(cp))
	assert.Equal(t, uint32(1100), f.nodeByHandle(cp).AbsStartMS, "clone starts now, not mid-flight")
	assert.True(t, f.c.IsScheduled(src), "source undisturbed")
}

func TestCloneCopiesImplementationState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	clones := 0
	impl := &statefulRec{clones: &clones}
	src := f.newPrimitive(impl, 0, 100)
	cp := f.c.Clone(src)
	require.NotZero(t, cp)
	assert.Equal(t, 1, clones)

	// Driving the clone leaves the source implementation untouched.
	require.True(t, f.c.Schedule(cp))
	f.step(100)
	assert.Empty(t, impl.updates)
}

func TestCloneSharesNonCloningImplementation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := &recorder{}
	src := f.newPrimitive(rec, 0, 100)
	cp := f.c.Clone(src)
	require.NotZero(t, cp)

	require.True(t, f.c.Schedule(cp))
	f.step(100)
	assert.NotEmpty(t, rec.updates, "plain implementations are shared by reference")
}

func TestCloneFailureLeavesNoPartialTree(t *testing.T) {
	t.Parallel()
	clk := &ManualClock{}
	clk.Set(1000)
	c := New(Options{Clock: clk, Timer: NewManualTimer(), MaxNodes: 4})

	a := c.Create()
	c.SetImplementation(a, &recorder{})
	b := c.Create()
	c.SetImplementation(b, &recorder{})
	seq := c.SequenceCreate(a, b)
	require.NotZero(t, seq)
	require.Equal(t, 3, c.LiveNodes())

	// Only one free slot for a three-node copy: the partial clone is rolled
	// back.
	assert.Zero(t, c.Clone(seq))
	assert.Equal(t, 3, c.LiveNodes())
}
