package anim

// Clone deep-copies a node and, for composites, its whole subtree. The
// clone starts unscheduled and mutable regardless of the source's state;
// implementations that support Cloner get their per-animation state copied,
// others are shared by reference. Returns the zero Handle on failure (stale
// source or exhausted node budget), leaving no partial tree behind.
func (c *Context) Clone(h Handle) Handle {
	c.enter()
	r, n := c.lookup(h)
	if n == nil {
		return 0
	}
	return c.cloneTree(r)
}

func (c *Context) cloneTree(r nodeRef) Handle {
	src := c.deref(r)
	if src == nil {
		return 0
	}

	childClones := make([]Handle, 0, len(src.children))
	for _, ch := range src.children {
		chh := c.cloneTree(ch)
		if chh == 0 {
			for _, done := range childClones {
				c.Destroy(done)
			}
			return 0
		}
		childClones = append(childClones, chh)
	}

	var nh Handle
	switch src.kind {
	case KindPrimitive:
		nh = c.Create()
	case KindSequence:
		nh = c.SequenceCreate(childClones...)
	case KindSpawn:
		nh = c.SpawnCreate(childClones...)
	}
	if nh == 0 {
		for _, done := range childClones {
			c.Destroy(done)
		}
		return 0
	}

	_, dst := c.lookup(nh)
	src = c.deref(r)
	dst.delayMS = src.delayMS
	dst.durationMS = src.durationMS
	dst.playCount = src.playCount
	dst.curve = src.curve
	dst.curveFunc = src.curveFunc
	dst.interpFunc = src.interpFunc
	dst.reverse = src.reverse
	dst.autoDestroy = src.autoDestroy
	dst.handlers = src.handlers
	if src.impl != nil {
		if cl, ok := src.impl.(Cloner); ok {
			dst.impl = cl.CloneImplementation()
		} else {
			dst.impl = src.impl
		}
	}
	// immutable is intentionally not copied: a clone starts out editable.
	return nh
}
