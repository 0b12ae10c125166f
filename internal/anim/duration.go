package anim

// totalDuration computes how long a node takes to play out. Sequences sum
// their children's slots, spawns take the longest one, primitives report
// their own duration. Infinite short-circuits everywhere.
func (c *Context) totalDuration(r nodeRef, includeDelay, includePlayCount bool) uint32 {
	n := c.deref(r)
	if n == nil {
		return 0
	}
	var base uint32
	switch n.kind {
	case KindPrimitive:
		base = n.durationMS
	case KindSequence:
		for _, ch := range n.children {
			d := c.totalDuration(ch, true, true)
			if d == DurationInfinite {
				base = DurationInfinite
				break
			}
			base = addSaturating(base, d)
		}
	case KindSpawn:
		for _, ch := range n.children {
			d := c.totalDuration(ch, true, true)
			if d == DurationInfinite {
				base = DurationInfinite
				break
			}
			if d > base {
				base = d
			}
		}
	}
	if includePlayCount && base != DurationInfinite {
		switch {
		case n.playCount == PlayCountInfinite:
			if base != 0 {
				base = DurationInfinite
			}
		default:
			base = mulSaturating(base, n.playCount)
		}
	}
	if includeDelay && base != DurationInfinite {
		base = addSaturating(base, n.delayMS)
	}
	return base
}

// addSaturating caps at DurationInfinite-1 so a finite sum can never collide
// with the sentinel.
func addSaturating(a, b uint32) uint32 {
	s := a + b
	if s < a || s == DurationInfinite {
		return DurationInfinite - 1
	}
	return s
}

func mulSaturating(a, b uint32) uint32 {
	if a == 0 || b == 0 {
		return 0
	}
	p := uint64(a) * uint64(b)
	if p >= uint64(DurationInfinite) {
		return DurationInfinite - 1
	}
	return uint32(p)
}
