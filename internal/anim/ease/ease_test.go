package ease

import "testing"

func TestEndpoints(t *testing.T) {
	t.Parallel()

	curves := map[string]func(int32) int32{
		"linear": Linear,
		"in":     In,
		"out":    Out,
		"inout":  InOut,
	}
	for name, fn := range curves {
		if got := fn(Min); got != Min {
			t.Errorf("%s(Min) = %d, want %d", name, got, Min)
		}
		if got := fn(Max); got != Max {
			t.Errorf("%s(Max) = %d, want %d", name, got, Max)
		}
	}
}

func TestClamping(t *testing.T) {
	t.Parallel()

	for _, in := range []int32{-1, -100000, Max + 1, Max * 2} {
		got := Linear(in)
		if got < Min || got > Max {
			t.Errorf("Linear(%d) = %d out of range", in, got)
		}
	}
	if Linear(-5) != Min {
		t.Errorf("Linear(-5) = %d, want %d", Linear(-5), Min)
	}
	if Linear(Max+5) != Max {
		t.Errorf("Linear(Max+5) = %d, want %d", Linear(Max+5), Max)
	}
}

func TestShape(t *testing.T) {
	t.Parallel()

	mid := Max / 2
	if got := In(mid); got >= mid {
		t.Errorf("In(mid) = %d, want below %d", got, mid)
	}
	if got := Out(mid); got <= mid {
		t.Errorf("Out(mid) = %d, want above %d", got, mid)
	}
	// InOut is symmetric around the midpoint.
	for _, p := range []int32{1000, 10000, 20000, 30000} {
		lo := InOut(p)
		hi := InOut(Max - p)
		if lo+hi < Max-2 || lo+hi > Max+2 {
			t.Errorf("InOut(%d)+InOut(Max-%d) = %d, want ~%d", p, p, lo+hi, Max)
		}
	}
}

func TestMonotonic(t *testing.T) {
	t.Parallel()

	for name, fn := range map[string]func(int32) int32{
		"in": In, "out": Out, "inout": InOut,
	} {
		prev := fn(Min)
		for p := int32(0); p <= Max; p += 255 {
			got := fn(p)
			if got < prev {
				t.Fatalf("%s not monotonic at p=%d: %d < %d", name, p, got, prev)
			}
			prev = got
		}
	}
}
