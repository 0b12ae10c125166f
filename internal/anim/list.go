package anim

// List maintenance for the two per-context node lists. Every live node is on
// exactly one of them; moves go through remove + insert. Removal fixes up
// the iterator save point so callbacks may unlink any node, including the
// one currently being visited, without corrupting a walk in progress.

// pushUnscheduled prepends the node to the unscheduled list.
func (c *Context) pushUnscheduled(r nodeRef) {
	n := c.deref(r)
	n.prev = noRef
	n.next = c.unscheduledHead
	if h := c.deref(c.unscheduledHead); h != nil {
		h.prev = r
	}
	c.unscheduledHead = r
	n.list = listUnscheduled
}

// insertScheduledSorted places the node into the scheduled list, keeping it
// ascending by absStartMS under wraparound-safe comparison. Equal keys keep
// insertion order (stable, but not contractual).
func (c *Context) insertScheduledSorted(r nodeRef) {
	n := c.deref(r)
	var prev nodeRef
	cur := c.scheduledHead
	for cur != noRef {
		cn := c.deref(cur)
		if DistanceMS(cn.absStartMS, n.absStartMS) > 0 {
			break
		}
		prev = cur
		cur = cn.next
	}
	n.prev = prev
	n.next = cur
	if p := c.deref(prev); p != nil {
		p.next = r
	} else {
		c.scheduledHead = r
	}
	if nx := c.deref(cur); nx != nil {
		nx.prev = r
	}
	n.list = listScheduled
}

// listRemove unlinks the node from whichever list it is on, updating the
// iterator save point if it references exactly this node.
func (c *Context) listRemove(r nodeRef) {
	n := c.deref(r)
	if n == nil || n.list == listNone {
		return
	}
	if c.iterNext == r {
		c.iterNext = n.next
	}
	if p := c.deref(n.prev); p != nil {
		p.next = n.next
	} else {
		switch n.list {
		case listUnscheduled:
			c.unscheduledHead = n.next
		case listScheduled:
			c.scheduledHead = n.next
		}
	}
	if nx := c.deref(n.next); nx != nil {
		nx.prev = n.prev
	}
	n.next, n.prev = noRef, noRef
	n.list = listNone
}

// inSubtree reports whether r is root itself or a descendant of root.
func (c *Context) inSubtree(r, root nodeRef) bool {
	for r != noRef {
		if r == root {
			return true
		}
		n := c.deref(r)
		if n == nil {
			return false
		}
		r = n.parent
	}
	return false
}

// anyScheduledDescendant reports whether any node strictly below r is still
// on the scheduled list.
func (c *Context) anyScheduledDescendant(r nodeRef) bool {
	n := c.deref(r)
	if n == nil {
		return false
	}
	for _, ch := range n.children {
		cn := c.deref(ch)
		if cn == nil {
			continue
		}
		if cn.scheduled() || c.anyScheduledDescendant(ch) {
			return true
		}
	}
	return false
}
