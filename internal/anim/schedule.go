package anim

import logx "animd/pkg/logx"

// Schedule places a top-level node (and its whole subtree, for composites)
// on the scheduled list. Rescheduling an already-scheduled node restarts it
// from the beginning.
func (c *Context) Schedule(h Handle) bool {
	c.enter()
	r, n := c.lookup(h)
	if n == nil {
		c.log.Debug("anim.schedule_unknown_handle", logx.Uint64("handle", uint64(h)))
		return false
	}
	if n.parent != noRef {
		return false
	}
	if n.scheduled() {
		c.unscheduleNode(r, false, false, false, false)
		if n = c.deref(r); n == nil {
			return false
		}
	}
	ok := c.scheduleNode(c.clock.NowMS(), r, 0)
	if ok {
		c.log.Trace("anim.scheduled",
			logx.Uint64("handle", uint64(h)),
			logx.String("kind", n.kind.String()))
	}
	return ok
}

// scheduleNode is the recursive depth-first scheduler. extraDelay shifts the
// node's start relative to now, on top of its own configured delay.
func (c *Context) scheduleNode(now TimeMS, r nodeRef, extraDelay uint32) bool {
	n := c.deref(r)
	if n == nil {
		return false
	}
	if n.playCount == 0 {
		// A zero play count plays nothing; trivially succeeds.
		return true
	}
	if n.beingDestroyed {
		// The node is mid-destruction (e.g. a stopped handler trying to
		// resurrect it); refuse.
		return false
	}
	adjNow := now
	var ok bool
	switch n.kind {
	case KindSequence:
		if adjNow, ok = c.scheduleSequenceChildren(now, r, extraDelay); !ok {
			return false
		}
	case KindSpawn:
		if adjNow, ok = c.scheduleSpawnChildren(now, r, extraDelay); !ok {
			return false
		}
	case KindPrimitive:
		if n.impl == nil {
			panic("anim: primitive animation scheduled without an update implementation")
		}
	}
	c.scheduleLowLevel(adjNow, r, extraDelay)
	return true
}

// scheduleSequenceChildren runs the children back-to-back, each child's slot
// being its delay plus its play-count-scaled duration. Returns the possibly
// back-dated "now" the parent itself must be scheduled against.
func (c *Context) scheduleSequenceChildren(now TimeMS, r nodeRef, extraDelay uint32) (TimeMS, bool) {
	n := c.deref(r)
	n.durationMS = c.totalDuration(r, false, false)
	adjNow := now
	base := n.delayMS
	cum := uint32(0)
	for i, ch := range n.children {
		if cum == DurationInfinite {
			// Children behind an infinite child never start.
			break
		}
		cn := c.deref(ch)
		if cn == nil {
			return adjNow, false
		}
		if i == 0 && cn.scheduled() {
			// The sequence is being assembled around an animation already
			// in flight: absorb the sequence delay into it and back-date
			// the sequence start from the child's position.
			n.delayMS = 0
			base = 0
			adjNow = cn.absStartMS - TimeMS(cn.delayMS) - TimeMS(extraDelay)
			cum = slotSaturating(cn.delayMS, c.totalDuration(ch, false, true))
			continue
		}
		if !c.scheduleNode(adjNow, ch, extraDelay+base+cum) {
			return adjNow, false
		}
		slot := c.totalDuration(ch, true, true)
		if slot == DurationInfinite {
			cum = DurationInfinite
		} else {
			cum = addSaturating(cum, slot)
		}
		n = c.deref(r)
	}
	return adjNow, true
}

// scheduleSpawnChildren runs the children in parallel. Pass one computes the
// spawn's visible window (earliest start, latest end) from real positions of
// pre-scheduled children and projected positions of the rest; pass two
// schedules the rest and restates every child's delay against the window so
// the parent's externally visible duration stays consistent.
func (c *Context) scheduleSpawnChildren(now TimeMS, r nodeRef, extraDelay uint32) (TimeMS, bool) {
	n := c.deref(r)
	projected := now + TimeMS(extraDelay) + TimeMS(n.delayMS)

	var (
		haveAny  bool
		earliest TimeMS
		latest   TimeMS
		infinite bool
	)
	for _, ch := range n.children {
		cn := c.deref(ch)
		if cn == nil {
			return now, false
		}
		var start TimeMS
		if cn.scheduled() {
			start = cn.absStartMS
		} else {
			start = projected + TimeMS(cn.delayMS)
		}
		end := start
		if d := c.totalDuration(ch, false, true); d == DurationInfinite {
			infinite = true
		} else {
			end = start + TimeMS(d)
		}
		if !haveAny {
			earliest, latest, haveAny = start, end, true
			continue
		}
		if DistanceMS(start, earliest) < 0 {
			earliest = start
		}
		if DistanceMS(end, latest) > 0 {
			latest = end
		}
	}
	if !haveAny {
		panic("anim: spawn with no children reached the scheduler")
	}

	for _, ch := range n.children {
		cn := c.deref(ch)
		if cn == nil {
			return now, false
		}
		if !cn.scheduled() {
			if !c.scheduleNode(now, ch, extraDelay+n.delayMS) {
				return now, false
			}
			cn = c.deref(ch)
			if cn == nil {
				return now, false
			}
		}
		cn.delayMS = uint32(DistanceMS(cn.absStartMS, earliest))
		n = c.deref(r)
	}

	if infinite {
		n.durationMS = DurationInfinite
	} else {
		n.durationMS = uint32(DistanceMS(latest, earliest))
	}
	// Anchor the parent so its computed start lands exactly on earliest.
	return earliest - TimeMS(n.delayMS) - TimeMS(extraDelay), true
}

// scheduleLowLevel computes the node's absolute start from its delay and
// places it.
func (c *Context) scheduleLowLevel(now TimeMS, r nodeRef, extraDelay uint32) {
	n := c.deref(r)
	c.scheduleAt(now+TimeMS(n.delayMS)+TimeMS(extraDelay), r)
}

// scheduleAt moves the node onto the scheduled list with an explicit start
// time, running setup exactly once before the node's first run. A start of
// exactly zero is remapped to 1 to keep zero meaning "unscheduled".
func (c *Context) scheduleAt(start TimeMS, r nodeRef) {
	if start == 0 {
		start = 1
	}
	n := c.deref(r)
	n.absStartMS = start
	if !n.didSetup {
		n.didSetup = true
		if s, ok := n.impl.(SetupHook); ok {
			c.withCurrent(r, func() { s.Setup(c, n.handle) })
			if n = c.deref(r); n == nil || !n.scheduled() {
				// Setup destroyed or unscheduled us; nothing to place.
				return
			}
		}
	}
	oldHead := c.scheduledHead
	c.listRemove(r)
	c.insertScheduledSorted(r)
	if c.scheduledHead == r {
		// Rearm only when the displaced head wasn't already due; an
		// in-flight frame picks the new head up anyway.
		rearm := true
		if oh := c.deref(oldHead); oh != nil && DistanceMS(oh.absStartMS, c.clock.NowMS()) <= 0 {
			rearm = false
		}
		if rearm && !c.paused {
			c.armTimer(start)
		}
	}
}

// slotSaturating combines a child's delay with its scaled duration, keeping
// the infinite sentinel intact.
func slotSaturating(delay, scaled uint32) uint32 {
	if scaled == DurationInfinite {
		return DurationInfinite
	}
	return addSaturating(delay, scaled)
}
