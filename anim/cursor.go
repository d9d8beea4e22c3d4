package anim

import "math"

// EndKind selects what happens when playback reaches the end of an animation.
type EndKind int

const (
	// EndLoop restarts from the first frame.
	EndLoop EndKind = iota
	// EndStay holds the final frame.
	EndStay
	// EndNormal removes the instance from its Set once finished.
	EndNormal
)

func (k EndKind) String() string {
	switch k {
	case EndLoop:
		return "loop"
	case EndStay:
		return "stay"
	case EndNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// EndControl is an EndKind plus, for loops, how many passes to play.
type EndControl struct {
	Kind  EndKind
	Loops int // EndLoop only; 0 loops forever
}

// LoopForever restarts the animation every time it ends.
func LoopForever() EndControl {
	return EndControl{Kind: EndLoop}
}

// LoopTimes plays the animation n times, then holds the final frame.
func LoopTimes(n int) EndControl {
	return EndControl{Kind: EndLoop, Loops: n}
}

// Stay plays once and holds the final frame.
func Stay() EndControl {
	return EndControl{Kind: EndStay}
}

// Normal plays once and is removed when done.
func Normal() EndControl {
	return EndControl{Kind: EndNormal}
}

// DefaultEnd derives an EndControl from the animation's loop policy.
func DefaultEnd(a *Animation) EndControl {
	if a.Loop {
		return LoopForever()
	}
	return Stay()
}

// Cursor is the per-entity playback position inside an Animation.
type Cursor struct {
	Elapsed float64
	Passes  int
}

// Advance moves the cursor by dt seconds of animation time.
// It returns true once playback has finished under end.
func (c *Cursor) Advance(a *Animation, dt float64, end EndControl) bool {
	d := a.Duration()
	if dt < 0 {
		dt = 0
	}
	t := c.Elapsed + dt

	if end.Kind != EndLoop {
		if t >= d {
			c.Elapsed = d
			c.Passes = 1
			return true
		}
		c.Elapsed = t
		return false
	}

	if t < d {
		c.Elapsed = t
		return false
	}

	wraps := int(t / d)
	if end.Loops > 0 && c.Passes+wraps >= end.Loops {
		c.Passes = end.Loops
		c.Elapsed = d
		return true
	}
	c.Passes += wraps
	c.Elapsed = math.Mod(t, d)
	return false
}

// Reset rewinds the cursor to the first frame.
func (c *Cursor) Reset() {
	c.Elapsed = 0
	c.Passes = 0
}

// Frame returns the frame position the cursor points at.
func (c Cursor) Frame(a *Animation) int {
	return a.FrameAt(c.Elapsed)
}

// Sprite returns the sprite index the cursor points at.
func (c Cursor) Sprite(a *Animation) int {
	return a.SpriteAt(c.Elapsed)
}
