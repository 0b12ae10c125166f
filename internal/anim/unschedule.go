package anim

import logx "animd/pkg/logx"

// Unschedule removes a top-level node (and its subtree) from the scheduled
// list, firing stopped handlers and tearing down. Auto-destroy applies.
// Stale handles are a quiet no-op: unschedule is idempotent.
func (c *Context) Unschedule(h Handle) bool {
	c.enter()
	r, n := c.lookup(h)
	if n == nil {
		return false
	}
	if n.parent != noRef {
		return false
	}
	c.unscheduleNode(r, false, true, false, true)
	return true
}

// UnscheduleAll unschedules every top-level scheduled node. Handlers run and
// auto-destroy applies, exactly as with individual Unschedule calls.
func (c *Context) UnscheduleAll() {
	c.enter()
	it := c.scheduledHead
	for it != noRef {
		n := c.deref(it)
		if n == nil {
			break
		}
		c.iterNext = n.next
		if n.parent == noRef {
			c.unscheduleNode(it, false, true, false, true)
		}
		it = c.iterNext
	}
}

// Destroy unschedules and frees a top-level node and its whole subtree. If
// called from inside the node's own end handlers the free is deferred until
// the handler returns; the node is freed exactly once either way.
func (c *Context) Destroy(h Handle) bool {
	c.enter()
	r, n := c.lookup(h)
	if n == nil {
		c.log.Debug("anim.destroy_unknown_handle", logx.Uint64("handle", uint64(h)))
		return false
	}
	if n.parent != noRef {
		return false
	}
	c.unscheduleNode(r, false, false, true, true)
	return true
}

// unscheduleNode is the recursive unschedule/destroy workhorse.
//
//   - finished: reported to the stopped handler (true = completed naturally)
//   - allowAuto: honor the node's autoDestroy flag
//   - force: destroy regardless of autoDestroy
//   - teardown: run the teardown hook (gated by didSetup, once)
func (c *Context) unscheduleNode(r nodeRef, finished, allowAuto, force, teardown bool) {
	n := c.deref(r)
	if n == nil {
		return
	}

	// Children first, same flags.
	if n.kind != KindPrimitive {
		for _, ch := range n.children {
			c.unscheduleNode(ch, finished, allowAuto, force, teardown)
			if n = c.deref(r); n == nil {
				return
			}
		}
	}

	if !n.scheduled() {
		// Already off the scheduled list: either a descendant that
		// finished mid-flight, or the tail of a top-level operation.
		willFree := force || (allowAuto && n.autoDestroy)
		if n.callingEndHandlers {
			// Inside its own end handlers; freeing now would be a
			// use-after-free. Defer to the outer frame.
			if willFree {
				n.deferDelete = true
				if force {
					n.beingDestroyed = true
				}
			}
			return
		}
		if teardown && n.didSetup {
			n.didSetup = false
			if td, ok := n.impl.(TeardownHook); ok {
				c.withCurrent(r, func() { td.Teardown(c, n.handle) })
				if n = c.deref(r); n == nil {
					return
				}
			}
		}
		if willFree || n.deferDelete {
			c.freeNode(r)
		}
		return
	}

	wasHead := c.scheduledHead == r
	c.listRemove(r)
	c.pushUnscheduled(r)
	if wasHead && !c.paused {
		if h := c.deref(c.scheduledHead); h != nil {
			c.armTimer(h.absStartMS)
		}
	}

	// Reset to "never scheduled" before the stopped handler runs, so the
	// handler may legally reschedule this very node.
	n.absStartMS = 0
	n.isCompleted = false
	n.timesPlayed = 0
	if force {
		n.beingDestroyed = true
	}

	wasStarted := n.started
	n.callingEndHandlers = true
	if wasStarted && n.handlers.Stopped != nil {
		stopped := n.handlers.Stopped
		h, uctx := n.handle, n.handlers.Context
		c.withCurrent(r, func() { stopped(c, h, finished, uctx) })
		if n = c.deref(r); n == nil {
			return
		}
	}
	n.started = false

	if teardown && n.didSetup {
		n.didSetup = false
		if td, ok := n.impl.(TeardownHook); ok {
			c.withCurrent(r, func() { td.Teardown(c, n.handle) })
			if n = c.deref(r); n == nil {
				return
			}
		}
	}
	n.callingEndHandlers = false

	// deferDelete may have been set by a nested destroy from inside the
	// handlers above. The auto-destroy leg only applies if the stopped
	// handler didn't reschedule the node.
	if force || n.deferDelete || (allowAuto && n.autoDestroy && !n.scheduled()) {
		c.freeNode(r)
	}
}

// freeNode releases a single node. Children are freed by their own
// unscheduleNode frames; stale child refs in a parent deref to nil.
func (c *Context) freeNode(r nodeRef) {
	n := c.deref(r)
	if n == nil {
		return
	}
	c.listRemove(r)
	delete(c.byHandle, n.handle)
	c.log.Trace("anim.destroyed", logx.Uint64("handle", uint64(n.handle)))
	c.release(r)
}
