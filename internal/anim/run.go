package anim

import "animd/internal/anim/ease"

// runDue advances every due node, in start-time order, up to two passes. The
// second pass only happens when some composite finished but was still
// waiting on children: the children finish in the first pass, letting the
// parent complete in the second. filter, when set, restricts advancement to
// one subtree (used by elapsed seeking).
func (c *Context) runDue(now TimeMS, filter nodeRef, doUpdate bool) {
	for pass := 0; pass < 2; pass++ {
		blocked := false
		it := c.scheduledHead
		for it != noRef {
			n := c.deref(it)
			if n == nil {
				break
			}
			if DistanceMS(n.absStartMS, now) > 0 {
				// Sorted list: nothing further is due either.
				break
			}
			c.iterNext = n.next
			if filter == noRef || c.inSubtree(it, filter) {
				// Periodic updates happen once per frame; the second
				// pass is only there to let blocked parents finish.
				if c.runAnimation(it, now, doUpdate && pass == 0) {
					blocked = true
				}
			}
			it = c.iterNext
		}
		if !blocked {
			return
		}
	}
}

// runAnimation advances one node to now. Returns true when the node wanted
// to unschedule but is still waiting on scheduled descendants.
func (c *Context) runAnimation(r nodeRef, now TimeMS, doUpdate bool) bool {
	n := c.deref(r)
	if n == nil || !n.scheduled() {
		return false
	}
	if n.playCount == 0 {
		panic("anim: zero play count reached the run loop")
	}

	if !n.started {
		n.started = true
		if n.handlers.Started != nil {
			started := n.handlers.Started
			h, uctx := n.handle, n.handlers.Context
			c.withCurrent(r, func() { started(c, h, uctx) })
			if n = c.deref(r); n == nil || !n.scheduled() {
				return false
			}
		}
	}

	prog, complete := progressAt(n, now)
	firstComplete := complete && !n.isCompleted
	if (doUpdate || firstComplete) && n.kind == KindPrimitive {
		// firstComplete forces the terminal frame exactly once even when
		// the timer overshot the end.
		c.invokeUpdate(r, prog)
		if n = c.deref(r); n == nil || !n.scheduled() {
			return false
		}
	}

	if firstComplete {
		n.isCompleted = true
		n.timesPlayed++
		if n.playCount == PlayCountInfinite || n.timesPlayed < n.playCount {
			c.rescheduleRepeat(r)
			return false
		}
	}

	if n.isCompleted {
		if c.anyScheduledDescendant(r) {
			// Flagged complete but children are mid-flight; stay listed
			// and let the outer driver make a second pass.
			return true
		}
		topLevel := n.parent == noRef
		c.unscheduleNode(r, true, topLevel, false, topLevel)
	}
	return false
}

// rescheduleRepeat starts the next play, back-to-back with the previous one.
// The full unschedule resets timesPlayed, so the incremented count is
// restored afterwards. No teardown, no destroy: the node is still playing.
func (c *Context) rescheduleRepeat(r nodeRef) {
	n := c.deref(r)
	prevStart := n.absStartMS
	dur := n.durationMS
	played := n.timesPlayed
	c.unscheduleNode(r, false, false, false, false)
	if n = c.deref(r); n == nil || n.scheduled() {
		// The stopped handler destroyed or rescheduled the node itself;
		// its decision wins over the repeat.
		return
	}
	n.timesPlayed = played
	next := prevStart + TimeMS(dur)
	if n.kind == KindPrimitive {
		c.scheduleAt(next, r)
		return
	}
	// Composites replay their whole subtree; the configured delay applies
	// only to the first play.
	saved := n.delayMS
	n.delayMS = 0
	c.scheduleNode(next, r, 0)
	if n = c.deref(r); n != nil {
		n.delayMS = saved
	}
}

// progressAt computes normalized progress at now. A zero duration completes
// immediately; an infinite one pins at the minimum and never completes.
func progressAt(n *node, now TimeMS) (Progress, bool) {
	switch n.durationMS {
	case DurationInfinite:
		return ProgressMin, false
	case 0:
		return ProgressMax, true
	}
	elapsed := DistanceMS(now, n.absStartMS)
	if elapsed < 0 {
		elapsed = 0
	}
	p := (int64(elapsed)*int64(ProgressMax) + int64(n.durationMS)/2) / int64(n.durationMS)
	if p >= int64(ProgressMax) {
		return ProgressMax, true
	}
	return Progress(p), false
}

// invokeUpdate applies reverse and the easing curve, then calls the
// implementation.
func (c *Context) invokeUpdate(r nodeRef, prog Progress) {
	n := c.deref(r)
	p := prog
	if n.reverse {
		p = ProgressMax - p
	}
	p = applyCurve(n, p)
	impl, h := n.impl, n.handle
	c.withCurrent(r, func() { impl.Update(c, h, p) })
}

func applyCurve(n *node, p Progress) Progress {
	switch n.curve {
	case CurveLinear:
		return Progress(ease.Linear(int32(p)))
	case CurveEaseIn:
		return Progress(ease.In(int32(p)))
	case CurveEaseOut:
		return Progress(ease.Out(int32(p)))
	case CurveEaseInOut:
		return Progress(ease.InOut(int32(p)))
	case CurveCustomFunction:
		if n.curveFunc != nil {
			return n.curveFunc(p)
		}
	case CurveCustomInterpolation:
		// Raw progress: the implementation interpolates through the
		// installed InterpolateFunc itself.
	}
	return p
}
