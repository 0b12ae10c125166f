// Package ease provides fixed-point easing curves over normalized progress
// values in [Min, Max]. All curves are pure int32 math; intermediates widen
// to int64 so the squaring never overflows.
package ease

// Progress bounds. Max is the 16-bit fixed-point "one".
const (
	Min int32 = 0
	Max int32 = 65535
)

func clamp(v int64) int32 {
	if v <= int64(Min) {
		return Min
	}
	if v >= int64(Max) {
		return Max
	}
	return int32(v)
}

// Linear clamps its input into [Min, Max] and returns it unchanged.
func Linear(p int32) int32 {
	return clamp(int64(p))
}

// In accelerates from rest: p^2.
func In(p int32) int32 {
	v := int64(clamp(int64(p)))
	return clamp(v * v / int64(Max))
}

// Out decelerates to rest: 1 - (1-p)^2.
func Out(p int32) int32 {
	v := int64(Max) - int64(clamp(int64(p)))
	return clamp(int64(Max) - v*v/int64(Max))
}

// InOut accelerates through the first half and decelerates through the
// second, meeting at the midpoint.
func InOut(p int32) int32 {
	v := int64(clamp(int64(p)))
	if v < int64(Max)/2 {
		return clamp(2 * v * v / int64(Max))
	}
	w := int64(Max) - v
	return clamp(int64(Max) - 2*w*w/int64(Max))
}
