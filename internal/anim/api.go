package anim

import logx "animd/pkg/logx"

// Create allocates a fresh primitive node on the unscheduled list. Returns
// the zero Handle when the context's node budget is exhausted. The node has
// no implementation yet; install one with SetImplementation before
// scheduling.
func (c *Context) Create() Handle {
	c.enter()
	r := c.alloc()
	if r == noRef {
		c.log.Warn("anim.create_failed", logx.Int("max_nodes", c.maxNodes))
		return 0
	}
	n := c.deref(r)
	c.nextHandle++
	n.handle = c.handleBase + Handle(c.nextHandle)
	n.kind = KindPrimitive
	n.durationMS = DefaultDurationMS
	n.playCount = 1
	n.curve = DefaultCurve
	c.byHandle[n.handle] = r
	c.pushUnscheduled(r)
	return n.handle
}

// SequenceCreate builds a composite whose children run back-to-back.
func (c *Context) SequenceCreate(children ...Handle) Handle {
	return c.createComposite(KindSequence, children)
}

// SpawnCreate builds a composite whose children run in parallel.
func (c *Context) SpawnCreate(children ...Handle) Handle {
	return c.createComposite(KindSpawn, children)
}

// createComposite validates everything before touching any child, so a
// rejected construction leaves no partial parent/childIdx assignments.
func (c *Context) createComposite(kind Kind, children []Handle) Handle {
	c.enter()
	if len(children) == 0 || len(children) > MaxChildren {
		return 0
	}
	refs := make([]nodeRef, len(children))
	for i, ch := range children {
		r, n := c.lookup(ch)
		if n == nil {
			return 0
		}
		if n.parent != noRef {
			// Already claimed by another composite.
			return 0
		}
		if n.scheduled() {
			// A sequence may only be built around an animation already in
			// flight when it is the first child; a spawn accommodates
			// pre-scheduled children anywhere.
			if kind == KindSequence && i != 0 {
				return 0
			}
		}
		refs[i] = r
	}

	pr := c.alloc()
	if pr == noRef {
		c.log.Warn("anim.create_failed", logx.Int("max_nodes", c.maxNodes))
		return 0
	}
	p := c.deref(pr)
	c.nextHandle++
	p.handle = c.handleBase + Handle(c.nextHandle)
	p.kind = kind
	p.playCount = 1
	p.curve = CurveLinear
	p.children = refs
	c.byHandle[p.handle] = pr
	c.pushUnscheduled(pr)

	for i, r := range refs {
		n := c.deref(r)
		n.parent = pr
		n.childIdx = i
	}
	return p.handle
}

// IsScheduled reports whether the node is currently on the scheduled list.
func (c *Context) IsScheduled(h Handle) bool {
	c.enter()
	_, n := c.lookup(h)
	return n != nil && n.scheduled()
}

// Exists reports whether the handle still refers to a live node.
func (c *Context) Exists(h Handle) bool {
	c.enter()
	_, n := c.lookup(h)
	return n != nil
}

// GetProgress returns the node's current normalized progress (before reverse
// and curve easing). Fails for stale handles and unscheduled nodes.
func (c *Context) GetProgress(h Handle) (Progress, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil || !n.scheduled() {
		return 0, false
	}
	p, _ := progressAt(n, c.clock.NowMS())
	return p, true
}

// TotalDuration computes how long the node takes to play out, optionally
// including its delay and play-count scaling. DurationInfinite means the
// node never completes on its own.
func (c *Context) TotalDuration(h Handle, includeDelay, includePlayCount bool) (uint32, bool) {
	c.enter()
	r, n := c.lookup(h)
	if n == nil {
		return 0, false
	}
	return c.totalDuration(r, includeDelay, includePlayCount), true
}

// ---- configuration setters ----
//
// Every setter succeeds only while the node is mutable: not flagged
// immutable, not owned by a composite, and not currently scheduled.

func (c *Context) setNode(h Handle, fn func(n *node)) bool {
	c.enter()
	_, n := c.lookup(h)
	if n == nil || !n.mutable() {
		return false
	}
	fn(n)
	return true
}

func (c *Context) SetImplementation(h Handle, impl Implementation) bool {
	return c.setNode(h, func(n *node) { n.impl = impl })
}

func (c *Context) SetHandlers(h Handle, handlers Handlers) bool {
	return c.setNode(h, func(n *node) { n.handlers = handlers })
}

func (c *Context) SetDelay(h Handle, ms uint32) bool {
	return c.setNode(h, func(n *node) { n.delayMS = ms })
}

func (c *Context) SetDuration(h Handle, ms uint32) bool {
	return c.setNode(h, func(n *node) { n.durationMS = ms })
}

func (c *Context) SetPlayCount(h Handle, count uint32) bool {
	return c.setNode(h, func(n *node) { n.playCount = count })
}

func (c *Context) SetCurve(h Handle, curve Curve) bool {
	if curve == CurveCustomFunction || curve == CurveCustomInterpolation {
		// Reserved values are installed through SetCustomCurve /
		// SetCustomInterpolation together with their function.
		return false
	}
	return c.setNode(h, func(n *node) { n.curve = curve })
}

func (c *Context) SetCustomCurve(h Handle, fn CurveFunc) bool {
	return c.setNode(h, func(n *node) {
		n.curve = CurveCustomFunction
		n.curveFunc = fn
	})
}

func (c *Context) SetCustomInterpolation(h Handle, fn InterpolateFunc) bool {
	return c.setNode(h, func(n *node) {
		n.curve = CurveCustomInterpolation
		n.interpFunc = fn
	})
}

func (c *Context) SetReverse(h Handle, reverse bool) bool {
	return c.setNode(h, func(n *node) { n.reverse = reverse })
}

func (c *Context) SetAutoDestroy(h Handle, autoDestroy bool) bool {
	return c.setNode(h, func(n *node) { n.autoDestroy = autoDestroy })
}

// SetImmutable permanently freezes the node's configuration. One-way.
func (c *Context) SetImmutable(h Handle) bool {
	return c.setNode(h, func(n *node) { n.immutable = true })
}

// ---- getters ----

func (c *Context) Delay(h Handle) (uint32, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return 0, false
	}
	return n.delayMS, true
}

func (c *Context) Duration(h Handle) (uint32, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return 0, false
	}
	return n.durationMS, true
}

func (c *Context) PlayCount(h Handle) (uint32, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return 0, false
	}
	return n.playCount, true
}

func (c *Context) TimesPlayed(h Handle) (uint32, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return 0, false
	}
	return n.timesPlayed, true
}

func (c *Context) CurveOf(h Handle) (Curve, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return 0, false
	}
	return n.curve, true
}

func (c *Context) Reverse(h Handle) bool {
	c.enter()
	_, n := c.lookup(h)
	return n != nil && n.reverse
}

func (c *Context) IsImmutable(h Handle) bool {
	c.enter()
	_, n := c.lookup(h)
	return n != nil && n.immutable
}

// Parent returns the composite owning this node, or zero for top-level
// nodes.
func (c *Context) Parent(h Handle) Handle {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return 0
	}
	if p := c.deref(n.parent); p != nil {
		return p.handle
	}
	return 0
}

// Children returns the child handles of a composite, in play order.
func (c *Context) Children(h Handle) []Handle {
	c.enter()
	_, n := c.lookup(h)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]Handle, 0, len(n.children))
	for _, ch := range n.children {
		if cn := c.deref(ch); cn != nil {
			out = append(out, cn.handle)
		}
	}
	return out
}

// UserContext returns the opaque value installed with the node's handlers.
func (c *Context) UserContext(h Handle) (any, bool) {
	c.enter()
	_, n := c.lookup(h)
	if n == nil {
		return nil, false
	}
	return n.handlers.Context, true
}

// CustomCurve returns the installed custom curve function, if the node's
// curve selector routes through one.
func (c *Context) CustomCurve(h Handle) CurveFunc {
	c.enter()
	_, n := c.lookup(h)
	if n == nil || n.curve != CurveCustomFunction {
		return nil
	}
	return n.curveFunc
}

// CustomInterpolation returns the installed interpolation function, if the
// node's curve selector routes through one. Implementations call this from
// their Update to interpolate raw progress themselves.
func (c *Context) CustomInterpolation(h Handle) InterpolateFunc {
	c.enter()
	_, n := c.lookup(h)
	if n == nil || n.curve != CurveCustomInterpolation {
		return nil
	}
	return n.interpFunc
}
