package anim

import "animd/internal/anim/ease"

// Handle is an opaque identifier for an animation node. Handles are
// monotonically increasing per context and offset by a per-context base so a
// handle's context is recognizable in logs. The zero Handle is never valid.
type Handle uint64

// Progress is a fixed-point completion fraction in [ProgressMin, ProgressMax].
type Progress int32

const (
	ProgressMin = Progress(ease.Min)
	ProgressMax = Progress(ease.Max)
)

const (
	// DurationInfinite marks an animation that never completes on its own.
	DurationInfinite uint32 = 0xFFFFFFFF

	// PlayCountInfinite repeats an animation until it is unscheduled.
	PlayCountInfinite uint32 = 0xFFFFFFFF

	// MaxChildren caps the child count of a sequence or spawn.
	MaxChildren = 20

	// DefaultDurationMS and DefaultCurve apply to freshly created nodes.
	DefaultDurationMS uint32 = 250
	DefaultCurve             = CurveEaseInOut
)

// Kind tags a node as a primitive or one of the two composites.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindSequence
	KindSpawn
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindSequence:
		return "sequence"
	case KindSpawn:
		return "spawn"
	}
	return "unknown"
}

// Curve selects the easing applied to normalized progress before it reaches
// the update implementation. The two custom values route through the
// function installed with SetCustomCurve / SetCustomInterpolation.
type Curve uint8

const (
	CurveLinear Curve = iota
	CurveEaseIn
	CurveEaseOut
	CurveEaseInOut

	// CurveCustomFunction eases progress through a caller-supplied CurveFunc.
	CurveCustomFunction

	// CurveCustomInterpolation hands raw progress to the implementation,
	// which is expected to interpolate through the installed
	// InterpolateFunc (see Context.CustomInterpolation).
	CurveCustomInterpolation
)

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveEaseIn:
		return "ease-in"
	case CurveEaseOut:
		return "ease-out"
	case CurveEaseInOut:
		return "ease-in-out"
	case CurveCustomFunction:
		return "custom-curve"
	case CurveCustomInterpolation:
		return "custom-interpolation"
	}
	return "unknown"
}

// CurveFunc maps normalized progress to eased progress.
type CurveFunc func(p Progress) Progress

// InterpolateFunc maps normalized progress onto [from, to].
type InterpolateFunc func(p Progress, from, to int32) int32

// Implementation is the capability set of a primitive animation. Update is
// mandatory; Setup, Teardown and cloning support are optional and detected
// via the SetupHook, TeardownHook and Cloner interfaces.
type Implementation interface {
	Update(c *Context, h Handle, p Progress)
}

// SetupHook runs once before the first frame of a scheduled node.
type SetupHook interface {
	Setup(c *Context, h Handle)
}

// TeardownHook runs once when a node is fully unscheduled or destroyed.
type TeardownHook interface {
	Teardown(c *Context, h Handle)
}

// Cloner lets an implementation deep-copy its per-animation state when the
// owning node is cloned. Implementations without it are shared by reference.
type Cloner interface {
	CloneImplementation() Implementation
}

// UpdateFunc adapts a bare function to Implementation.
type UpdateFunc func(c *Context, h Handle, p Progress)

func (f UpdateFunc) Update(c *Context, h Handle, p Progress) { f(c, h, p) }

// Handlers carries the optional lifecycle callbacks of a node. Context is an
// opaque value handed back to both callbacks.
type Handlers struct {
	// Started fires once per play, on the node's first advanced frame.
	Started func(c *Context, h Handle, userCtx any)

	// Stopped fires when the node leaves the scheduled list; finished is
	// true when it completed naturally rather than being unscheduled.
	Stopped func(c *Context, h Handle, finished bool, userCtx any)

	Context any
}

// listID identifies which of the two per-context lists a node is on. A live
// node is always on exactly one list; listNone only occurs transiently
// inside a move.
type listID uint8

const (
	listNone listID = iota
	listUnscheduled
	listScheduled
)

type node struct {
	handle Handle
	kind   Kind

	next, prev nodeRef
	list       listID

	parent   nodeRef
	childIdx int
	children []nodeRef

	delayMS     uint32
	durationMS  uint32
	playCount   uint32
	timesPlayed uint32

	// absStartMS is zero iff the node is unscheduled; a computed start of
	// exactly zero is remapped to 1.
	absStartMS TimeMS

	curve      Curve
	curveFunc  CurveFunc
	interpFunc InterpolateFunc

	impl     Implementation
	handlers Handlers

	reverse     bool
	autoDestroy bool
	immutable   bool

	started            bool
	isCompleted        bool
	didSetup           bool
	callingEndHandlers bool
	deferDelete        bool
	beingDestroyed     bool
}

// mutable reports whether configuration setters may touch the node.
func (n *node) mutable() bool {
	return !n.immutable && n.parent == noRef && n.absStartMS == 0
}

func (n *node) scheduled() bool { return n.absStartMS != 0 }
