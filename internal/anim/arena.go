package anim

// nodeRef is a generation-checked index into a context's node arena. A stale
// ref (the slot was freed or reused) dereferences to nil instead of dangling.
type nodeRef struct {
	idx uint32
	gen uint32
}

// noRef is the null reference. Slot generations start at 1, so the zero
// value never aliases a live node.
var noRef = nodeRef{}

type slot struct {
	gen  uint32
	live bool
	n    node
}

// alloc claims a slot and returns its ref, or noRef when the configured node
// budget is exhausted.
func (c *Context) alloc() nodeRef {
	if c.maxNodes > 0 && c.liveNodes >= c.maxNodes {
		return noRef
	}
	var idx uint32
	if n := len(c.freeSlots); n > 0 {
		idx = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		idx = uint32(len(c.slots))
		c.slots = append(c.slots, &slot{gen: 1})
	}
	s := c.slots[idx]
	s.live = true
	s.n = node{}
	c.liveNodes++
	return nodeRef{idx: idx, gen: s.gen}
}

// release retires a slot. The generation bump invalidates every outstanding
// ref to it.
func (c *Context) release(r nodeRef) {
	s := c.slots[r.idx]
	if !s.live || s.gen != r.gen {
		return
	}
	s.live = false
	s.gen++
	s.n = node{}
	c.liveNodes--
	c.freeSlots = append(c.freeSlots, r.idx)
}

// deref resolves a ref to its node, or nil when the ref is null or stale.
func (c *Context) deref(r nodeRef) *node {
	if r == noRef || r.idx >= uint32(len(c.slots)) {
		return nil
	}
	s := c.slots[r.idx]
	if !s.live || s.gen != r.gen {
		return nil
	}
	return &s.n
}

// lookup resolves a public handle. Unknown or already-destroyed handles
// yield a nil node.
func (c *Context) lookup(h Handle) (nodeRef, *node) {
	r, ok := c.byHandle[h]
	if !ok {
		return noRef, nil
	}
	return r, c.deref(r)
}

// LiveNodes reports how many nodes this context currently owns, across both
// lists. Mostly useful in tests and diagnostics.
func (c *Context) LiveNodes() int {
	c.enter()
	return c.liveNodes
}
