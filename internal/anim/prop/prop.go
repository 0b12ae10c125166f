// Package prop provides ready-made animation implementations that drive a
// single property between two values through caller-supplied accessors. They
// exercise the full implementation capability set: setup capture of the
// current value, custom interpolation lookup, and clone support.
package prop

import (
	"animd/internal/anim"
	"animd/internal/anim/ease"
)

// Int32 animates an int32 property from From to To. With FromCurrent set the
// starting value is read through Get when the animation first runs, so the
// transition picks up wherever the property happens to be.
type Int32 struct {
	From, To    int32
	FromCurrent bool

	// Get is required only with FromCurrent; Set receives every frame.
	Get func() int32
	Set func(v int32)
}

var (
	_ anim.Implementation = (*Int32)(nil)
	_ anim.SetupHook      = (*Int32)(nil)
	_ anim.Cloner         = (*Int32)(nil)
)

func (p *Int32) Setup(c *anim.Context, h anim.Handle) {
	if p.FromCurrent && p.Get != nil {
		p.From = p.Get()
	}
}

func (p *Int32) Update(c *anim.Context, h anim.Handle, prog anim.Progress) {
	if p.Set == nil {
		return
	}
	if fn := c.CustomInterpolation(h); fn != nil {
		p.Set(fn(prog, p.From, p.To))
		return
	}
	p.Set(Lerp(prog, p.From, p.To))
}

// CloneImplementation copies the endpoints so a cloned animation does not
// share FromCurrent capture with its source. The accessors stay shared.
func (p *Int32) CloneImplementation() anim.Implementation {
	cp := *p
	return &cp
}

// Float64 animates a float64 property. The fixed-point progress is widened to
// a float fraction; no custom interpolation hook applies here.
type Float64 struct {
	From, To    float64
	FromCurrent bool

	Get func() float64
	Set func(v float64)
}

var (
	_ anim.Implementation = (*Float64)(nil)
	_ anim.SetupHook      = (*Float64)(nil)
	_ anim.Cloner         = (*Float64)(nil)
)

func (p *Float64) Setup(c *anim.Context, h anim.Handle) {
	if p.FromCurrent && p.Get != nil {
		p.From = p.Get()
	}
}

func (p *Float64) Update(c *anim.Context, h anim.Handle, prog anim.Progress) {
	if p.Set == nil {
		return
	}
	f := float64(prog) / float64(ease.Max)
	p.Set(p.From + (p.To-p.From)*f)
}

func (p *Float64) CloneImplementation() anim.Implementation {
	cp := *p
	return &cp
}

// Lerp interpolates between from and to at fixed-point progress prog, with
// round-to-nearest. It is the default interpolation used by Int32 and a
// convenient building block for custom InterpolateFuncs.
func Lerp(prog anim.Progress, from, to int32) int32 {
	span := int64(to) - int64(from)
	half := int64(ease.Max) / 2
	d := span * int64(prog)
	if d >= 0 {
		d += half
	} else {
		d -= half
	}
	return int32(int64(from) + d/int64(ease.Max))
}
