package anim

import "time"

// TimeMS is a monotonic millisecond timestamp that wraps modulo 2^32.
type TimeMS uint32

// DistanceMS returns the signed distance a-b in milliseconds.
//
// The subtraction is performed in uint32 and reinterpreted as int32, so the
// result is correct across the 2^32 wrap as long as the true delta is within
// ±2^31 ms. Timestamps further apart than that (~24.8 days) are out of
// contract; no range check is performed.
func DistanceMS(a, b TimeMS) int32 {
	return int32(uint32(a) - uint32(b))
}

// Clock is the engine's time source.
type Clock interface {
	NowMS() TimeMS
}

// SystemClock reads the process monotonic clock, anchored at the instant the
// clock was created.
type SystemClock struct {
	epoch time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

func (c *SystemClock) NowMS() TimeMS {
	return TimeMS(time.Since(c.epoch) / time.Millisecond)
}

// ManualClock is a hand-driven clock for tests and embedders that own their
// own frame timing. The zero value starts at t=0.
type ManualClock struct {
	now TimeMS
}

func (c *ManualClock) NowMS() TimeMS { return c.now }

// Set jumps the clock to an absolute timestamp.
func (c *ManualClock) Set(t TimeMS) { c.now = t }

// Advance moves the clock forward by ms milliseconds.
func (c *ManualClock) Advance(ms uint32) { c.now += TimeMS(ms) }
