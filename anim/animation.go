// Package anim builds frame-stepping sprite animations and plays them back.
//
// An Animation is immutable once built and is shared by pointer between every
// entity that plays it. Each entity owns its playback state in an Instance,
// held in the entity's Set component.
package anim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/plus3/sprites/sprite"
)

var (
	// ErrOutOfRange is returned when a frame references a sprite the sheet does not have.
	ErrOutOfRange = errors.New("anim: sprite index out of range")
	// ErrInvalidAnimation is returned for animations with no frames or non-positive holds.
	ErrInvalidAnimation = errors.New("anim: invalid animation")
)

// Frame shows one sprite of the sheet for Hold seconds.
type Frame struct {
	Sprite int
	Hold   float64
}

// Animation is an ordered list of frames over one sprite sheet plus its
// default playback policy.
type Animation struct {
	Name   string
	Sheet  *sprite.Sheet
	Frames []Frame
	Loop   bool
	Rate   float64

	ends     []float64
	duration float64
	built    bool
}

// Option configures an Animation at build time.
type Option func(*Animation)

// WithName labels the animation for logs and debug views.
func WithName(name string) Option {
	return func(a *Animation) {
		a.Name = name
	}
}

// WithLoop sets the default loop policy. Animations loop unless told otherwise.
func WithLoop(loop bool) Option {
	return func(a *Animation) {
		a.Loop = loop
	}
}

// WithRate sets the default playback rate multiplier.
func WithRate(rate float64) Option {
	return func(a *Animation) {
		a.Rate = rate
	}
}

// Build creates an animation that visits indices in order, holding each for hold seconds.
func Build(sheet *sprite.Sheet, indices []int, hold float64, opts ...Option) (*Animation, error) {
	frames := make([]Frame, len(indices))
	for i, idx := range indices {
		frames[i] = Frame{Sprite: idx, Hold: hold}
	}
	return BuildFrames(sheet, frames, opts...)
}

// BuildFrames creates an animation from frames with individual hold times.
func BuildFrames(sheet *sprite.Sheet, frames []Frame, opts ...Option) (*Animation, error) {
	if sheet == nil {
		return nil, fmt.Errorf("%w: nil sprite sheet", ErrInvalidAnimation)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrInvalidAnimation)
	}

	a := &Animation{
		Sheet:  sheet,
		Frames: make([]Frame, len(frames)),
		Loop:   true,
		Rate:   1,
		ends:   make([]float64, len(frames)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if !(a.Rate > 0) {
		return nil, fmt.Errorf("%w: rate %g", ErrInvalidAnimation, a.Rate)
	}

	var end float64
	for i, f := range frames {
		if f.Sprite < 0 || f.Sprite >= sheet.Len() {
			return nil, fmt.Errorf("%w: frame %d uses sprite %d, sheet has %d", ErrOutOfRange, i, f.Sprite, sheet.Len())
		}
		if !(f.Hold > 0) {
			return nil, fmt.Errorf("%w: frame %d hold %g", ErrInvalidAnimation, i, f.Hold)
		}
		end += f.Hold
		a.Frames[i] = f
		a.ends[i] = end
	}
	a.duration = end
	a.built = true

	return a, nil
}

// Check reports whether a came from Build or BuildFrames over sheet and
// still shows only sprites sheet has. Animations that fail it must not be
// played: the per-frame path does not check again.
func (a *Animation) Check(sheet *sprite.Sheet) error {
	if a == nil {
		return fmt.Errorf("%w: nil animation", ErrInvalidAnimation)
	}
	if !a.built || len(a.ends) != len(a.Frames) || !(a.Rate > 0) {
		return fmt.Errorf("%w: %q was not built", ErrInvalidAnimation, a.Name)
	}
	if a.Sheet != sheet {
		return fmt.Errorf("%w: %q is built over another sheet", ErrInvalidAnimation, a.Name)
	}
	for i, f := range a.Frames {
		if f.Sprite < 0 || f.Sprite >= sheet.Len() {
			return fmt.Errorf("%w: %q frame %d uses sprite %d, sheet has %d", ErrOutOfRange, a.Name, i, f.Sprite, sheet.Len())
		}
	}
	return nil
}

// Duration is the sum of all frame holds, in seconds.
func (a *Animation) Duration() float64 {
	return a.duration
}

// FrameAt returns the position in Frames shown at time t.
// Times at or past the end show the final frame.
func (a *Animation) FrameAt(t float64) int {
	last := len(a.Frames) - 1
	if t >= a.duration {
		return last
	}
	i := sort.Search(len(a.ends), func(i int) bool {
		return a.ends[i] > t
	})
	return min(i, last)
}

// SpriteAt returns the sprite index shown at time t.
func (a *Animation) SpriteAt(t float64) int {
	return a.Frames[a.FrameAt(t)].Sprite
}
