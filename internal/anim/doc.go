// Package anim implements a cooperative, timer-driven animation scheduler
// over a tree of animation nodes.
//
// # Overview
//
// Animations are created, configured and scheduled through a Context. A
// Context is an isolated scheduler instance bound to exactly one cooperative
// goroutine (its event loop); it owns every node it created and is never
// touched from another goroutine. Cross-goroutine callers marshal work onto
// the loop with Post or Call.
//
// Nodes come in three kinds: primitives (which drive a property through an
// Implementation), sequences (children run back-to-back) and spawns
// (children run in parallel). Composite trees are scheduled, unscheduled and
// destroyed through their root only.
//
// # Timing
//
// All timing uses a monotonic 32-bit millisecond clock that wraps modulo
// 2^32. Comparisons go through DistanceMS, which stays correct across the
// wrap as long as true deltas are within ±2^31 ms (about 24.8 days).
//
// A single deferred timer per context wakes the scheduler at the next due
// instant. Timer fires are coalesced: while one wakeup event is pending on
// the loop, further fires are dropped. Between frames the next delay is
// nudged by a small integral controller so the actual frame spacing
// converges on the configured target interval.
//
// # Re-entrancy
//
// User callbacks (setup, update, teardown, started, stopped) run
// synchronously on the loop and may re-enter the scheduler freely, including
// scheduling, unscheduling or destroying the node that is currently being
// advanced. The iterator save point, the deferred-delete flag and the
// generation-checked node arena make this safe without locks.
package anim
