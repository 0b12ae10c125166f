package anim

import (
	"fmt"
	"strings"
)

// NodeInfo is a diagnostic snapshot of one node. Not part of the scheduling
// contract; consumed by the debug HTTP endpoint and log dumps.
type NodeInfo struct {
	Handle      Handle
	Kind        string
	Scheduled   bool
	AbsStartMS  uint32
	DelayMS     uint32
	DurationMS  uint32
	PlayCount   uint32
	TimesPlayed uint32
	Curve       string
	Started     bool
	Completed   bool
	AutoDestroy bool
	Immutable   bool
	Parent      Handle
	Children    []Handle
}

// DumpNodes snapshots every live node, scheduled list first (in firing
// order), then the unscheduled list.
func (c *Context) DumpNodes() []NodeInfo {
	c.enter()
	var out []NodeInfo
	for _, head := range []nodeRef{c.scheduledHead, c.unscheduledHead} {
		for it := head; it != noRef; {
			n := c.deref(it)
			if n == nil {
				break
			}
			out = append(out, c.nodeInfo(n))
			it = n.next
		}
	}
	return out
}

func (c *Context) nodeInfo(n *node) NodeInfo {
	info := NodeInfo{
		Handle:      n.handle,
		Kind:        n.kind.String(),
		Scheduled:   n.scheduled(),
		AbsStartMS:  uint32(n.absStartMS),
		DelayMS:     n.delayMS,
		DurationMS:  n.durationMS,
		PlayCount:   n.playCount,
		TimesPlayed: n.timesPlayed,
		Curve:       n.curve.String(),
		Started:     n.started,
		Completed:   n.isCompleted,
		AutoDestroy: n.autoDestroy,
		Immutable:   n.immutable,
	}
	if p := c.deref(n.parent); p != nil {
		info.Parent = p.handle
	}
	for _, ch := range n.children {
		if cn := c.deref(ch); cn != nil {
			info.Children = append(info.Children, cn.handle)
		}
	}
	return info
}

// DumpString renders the node listing as text, one node per line.
func (c *Context) DumpString() string {
	infos := c.DumpNodes()
	var b strings.Builder
	fmt.Fprintf(&b, "context %s: %d node(s), now=%d\n",
		c.kind, len(infos), uint32(c.clock.NowMS()))
	for _, in := range infos {
		state := "unscheduled"
		if in.Scheduled {
			state = fmt.Sprintf("start=%d", in.AbsStartMS)
		}
		fmt.Fprintf(&b, "  %#x %-9s %-12s delay=%d dur=%d plays=%d/%d curve=%s",
			uint64(in.Handle), in.Kind, state,
			in.DelayMS, in.DurationMS, in.TimesPlayed, in.PlayCount, in.Curve)
		if in.Started {
			b.WriteString(" started")
		}
		if in.Completed {
			b.WriteString(" completed")
		}
		if in.AutoDestroy {
			b.WriteString(" auto-destroy")
		}
		if in.Immutable {
			b.WriteString(" immutable")
		}
		if in.Parent != 0 {
			fmt.Fprintf(&b, " parent=%#x", uint64(in.Parent))
		}
		if len(in.Children) > 0 {
			fmt.Fprintf(&b, " children=%d", len(in.Children))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
