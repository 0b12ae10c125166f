package anim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpNodesListsScheduledFirst(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	idle := f.newPrimitive(&recorder{}, 0, 100)
	live := f.newPrimitive(&recorder{}, 50, 100)
	require.True(t, f.c.Schedule(live))

	infos := f.c.DumpNodes()
	require.Len(t, infos, 2)
	assert.Equal(t, live, infos[0].Handle)
	assert.True(t, infos[0].Scheduled)
	assert.Equal(t, idle, infos[1].Handle)
	assert.False(t, infos[1].Scheduled)
}

func TestDumpStringRendersState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.newPrimitive(&recorder{}, 0, 100)
	seq := f.c.SequenceCreate(a)
	require.True(t, f.c.SetAutoDestroy(seq, true))
	require.True(t, f.c.Schedule(seq))

	s := f.c.DumpString()
	assert.Contains(t, s, "context app: 2 node(s), now=1000")
	assert.Contains(t, s, "sequence")
	assert.Contains(t, s, "auto-destroy")
	assert.Contains(t, s, "children=1")
	assert.Equal(t, 3, strings.Count(s, "\n"), "header plus one line per node")
}
