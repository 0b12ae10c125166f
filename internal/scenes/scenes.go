// Package scenes ships the built-in demo scene builders. They exist so a
// fresh deployment has something to bind cron specs to; real integrations
// register their own builders the same way.
package scenes

import (
	"animd/internal/anim"
	"animd/internal/anim/prop"
	"animd/internal/app"
)

// RegisterAll installs every built-in scene on the app's director.
func RegisterAll(a *app.App) {
	a.RegisterScene("pulse", Pulse)
	a.RegisterScene("sweep", Sweep)
	a.RegisterScene("breathe", Breathe)
}

// Pulse ramps a value 0..100 and back down, three times.
func Pulse(c *anim.Context) anim.Handle {
	var level int32
	_ = level

	up := c.Create()
	if up == 0 {
		return 0
	}
	c.SetImplementation(up, &prop.Int32{From: 0, To: 100, Set: func(v int32) { level = v }})
	c.SetDuration(up, 400)
	c.SetCurve(up, anim.CurveEaseIn)

	down := c.Clone(up)
	if down == 0 {
		c.Destroy(up)
		return 0
	}
	c.SetReverse(down, true)
	c.SetCurve(down, anim.CurveEaseOut)

	seq := c.SequenceCreate(up, down)
	if seq == 0 {
		c.Destroy(up)
		c.Destroy(down)
		return 0
	}
	c.SetPlayCount(seq, 3)
	return seq
}

// Sweep staggers five parallel ramps, each delayed a little more than the
// previous one.
func Sweep(c *anim.Context) anim.Handle {
	values := make([]int32, 5)
	children := make([]anim.Handle, 0, len(values))
	for i := range values {
		i := i
		h := c.Create()
		if h == 0 {
			for _, ch := range children {
				c.Destroy(ch)
			}
			return 0
		}
		c.SetImplementation(h, &prop.Int32{From: 0, To: 255, Set: func(v int32) { values[i] = v }})
		c.SetDuration(h, 300)
		c.SetDelay(h, uint32(i)*80)
		children = append(children, h)
	}

	sp := c.SpawnCreate(children...)
	if sp == 0 {
		for _, ch := range children {
			c.Destroy(ch)
		}
		return 0
	}
	return sp
}

// Breathe eases a brightness value up and holds a custom interpolation over
// the downslope, picking up from wherever the value currently sits.
func Breathe(c *anim.Context) anim.Handle {
	var brightness float64 = 0.2

	rise := c.Create()
	if rise == 0 {
		return 0
	}
	c.SetImplementation(rise, &prop.Float64{
		To:          1,
		FromCurrent: true,
		Get:         func() float64 { return brightness },
		Set:         func(v float64) { brightness = v },
	})
	c.SetDuration(rise, 900)
	c.SetCurve(rise, anim.CurveEaseInOut)

	fall := c.Create()
	if fall == 0 {
		c.Destroy(rise)
		return 0
	}
	c.SetImplementation(fall, &prop.Int32{From: 100, To: 20, Set: func(v int32) { brightness = float64(v) / 100 }})
	c.SetDuration(fall, 1200)
	// Overshoot on the way down before settling.
	c.SetCustomInterpolation(fall, func(p anim.Progress, from, to int32) int32 {
		v := prop.Lerp(p, from, to)
		if p > anim.ProgressMax/2 && p < anim.ProgressMax*9/10 {
			v -= 5
		}
		return v
	})

	seq := c.SequenceCreate(rise, fall)
	if seq == 0 {
		c.Destroy(rise)
		c.Destroy(fall)
		return 0
	}
	return seq
}
