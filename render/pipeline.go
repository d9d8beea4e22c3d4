// Package render draws composed sprite scenes with ebiten.
package render

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/scene"
)

// PassKind selects what a Pass draws.
type PassKind int

const (
	// PassFlat draws every sprite entity through the active camera.
	PassFlat PassKind = iota
	// PassUiOverlay draws the debug UI on top of the frame.
	PassUiOverlay
)

func (k PassKind) String() string {
	switch k {
	case PassFlat:
		return "flat"
	case PassUiOverlay:
		return "ui-overlay"
	default:
		return "unknown"
	}
}

type Pass struct {
	Kind PassKind
	// Disabled passes are skipped without being removed from the order.
	Disabled bool
}

// DefaultPasses draws sprites, then the overlay.
func DefaultPasses() []Pass {
	return []Pass{{Kind: PassFlat}, {Kind: PassUiOverlay}}
}

// Overlay is drawn by PassUiOverlay. The ImGui ebiten backend satisfies it.
type Overlay interface {
	Draw(screen *ebiten.Image)
}

// Pipeline clears the screen and runs its passes in order.
type Pipeline struct {
	Clear   color.Color
	Passes  []Pass
	Overlay Overlay
	Logger  *slog.Logger

	storage  *ecs.Storage
	textures *scene.TextureSet
	batcher  *Batcher
	options  ebiten.DrawTrianglesOptions

	warnedNoCamera bool
}

func NewPipeline(storage *ecs.Storage, textures *scene.TextureSet) *Pipeline {
	return &Pipeline{
		Clear:    color.Black,
		Passes:   DefaultPasses(),
		storage:  storage,
		textures: textures,
		batcher:  NewBatcher(storage, textures),
		options: ebiten.DrawTrianglesOptions{
			Blend:  ebiten.BlendSourceOver,
			Filter: ebiten.FilterNearest,
		},
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Draw renders one frame to screen.
func (p *Pipeline) Draw(screen *ebiten.Image) {
	if p.Clear != nil {
		screen.Fill(p.Clear)
	}

	for _, pass := range p.Passes {
		if pass.Disabled {
			continue
		}
		switch pass.Kind {
		case PassFlat:
			p.drawFlat(screen)
		case PassUiOverlay:
			if p.Overlay != nil {
				p.Overlay.Draw(screen)
			}
		}
	}
}

func (p *Pipeline) drawFlat(screen *ebiten.Image) {
	cam := scene.ActiveCameraOf(p.storage)
	if cam == nil {
		if !p.warnedNoCamera {
			p.logger().Warn("flat pass skipped: no active camera")
			p.warnedNoCamera = true
		}
		return
	}

	for _, batch := range p.batcher.Build(cam) {
		tex, _ := p.textures.Get(batch.Texture)
		screen.DrawTriangles(batch.Vertices, batch.Indices, tex.Image(), &p.options)
	}
}

// SetEnabled turns every pass of kind on or off.
func (p *Pipeline) SetEnabled(kind PassKind, enabled bool) {
	for i := range p.Passes {
		if p.Passes[i].Kind == kind {
			p.Passes[i].Disabled = !enabled
		}
	}
}
