package anim

// SetElapsed seeks a scheduled top-level node to an absolute elapsed
// position. Forward seeks drive frames over the skipped span at the target
// frame interval against a virtual clock, so updates and completions fire
// exactly as if the node had been scheduled that much earlier; afterwards
// the subtree's start times are back-dated to make the seek consistent with
// the real clock. Backward seeks shift without replaying frames.
func (c *Context) SetElapsed(h Handle, elapsedMS uint32) bool {
	c.enter()
	r, n := c.lookup(h)
	if n == nil || n.parent != noRef || !n.scheduled() {
		return false
	}

	realNow := c.clock.NowMS()
	virtualEnd := n.absStartMS + TimeMS(elapsedMS)
	step := int32(c.targetFrameIntervalMS)

	if DistanceMS(virtualEnd, realNow) > 0 {
		virtual := realNow
		for {
			remain := DistanceMS(virtualEnd, virtual)
			if remain <= 0 {
				break
			}
			if remain > step {
				virtual += TimeMS(step)
			} else {
				virtual = virtualEnd
			}
			c.runDue(virtual, r, true)
			if cn := c.deref(r); cn == nil || !cn.scheduled() {
				// Seeking consumed the animation (completed, possibly
				// auto-destroyed). Nothing left to back-date.
				return true
			}
		}
	}

	delta := DistanceMS(virtualEnd, realNow)
	c.shiftScheduledSubtree(r, delta)
	return true
}

// GetElapsed reports how far a scheduled node is past its start. A node
// still in its delay phase reports 0.
func (c *Context) GetElapsed(h Handle) (uint32, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil || !n.scheduled() {
		return 0, false
	}
	e := DistanceMS(c.clock.NowMS(), n.absStartMS)
	if e < 0 {
		e = 0
	}
	return uint32(e), true
}

// shiftScheduledSubtree moves the start time of the node and every scheduled
// descendant back by delta milliseconds, re-sorting each into the scheduled
// list and re-arming the timer for the resulting head.
func (c *Context) shiftScheduledSubtree(r nodeRef, delta int32) {
	var refs []nodeRef
	c.collectScheduled(r, &refs)
	for _, sr := range refs {
		n := c.deref(sr)
		if n == nil || !n.scheduled() {
			continue
		}
		c.listRemove(sr)
		n.absStartMS -= TimeMS(delta)
		if n.absStartMS == 0 {
			n.absStartMS = 1
		}
		c.insertScheduledSorted(sr)
	}
	if h := c.deref(c.scheduledHead); h != nil && !c.paused {
		c.armTimer(h.absStartMS)
	}
}

func (c *Context) collectScheduled(r nodeRef, out *[]nodeRef) {
	n := c.deref(r)
	if n == nil {
		return
	}
	if n.scheduled() {
		*out = append(*out, r)
	}
	for _, ch := range n.children {
		c.collectScheduled(ch, out)
	}
}
