package main

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/asset"
	"github.com/plus3/sprites/config"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/ecs/debugui"
	debugui_ebiten "github.com/plus3/sprites/ecs/debugui/ebiten"
	"github.com/plus3/sprites/mesh"
	"github.com/plus3/sprites/render"
	"github.com/plus3/sprites/scene"
	"github.com/plus3/sprites/sprite"
)

//go:embed bats.png
var batSheet []byte

type options struct {
	debug     bool
	resizable bool
	logger    *slog.Logger
}

// Game is the ebiten.Game driving one composed row.
type Game struct {
	logger    *slog.Logger
	cfg       *config.File
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	pipeline  *render.Pipeline
	composer  *scene.Composer
	sets      *ecs.View[struct{ *anim.Set }]
	ids       []ecs.EntityId

	width, height int
	resizable     bool
	paused        bool

	imgui   *debugui_ebiten.ImguiBackend
	input   *ecs.Singleton[debugui.ImguiInputState]
	watcher *config.Watcher
}

func loadSheetTexture(path string) (*asset.Texture, error) {
	if path == "" {
		return asset.DecodeBytes(batSheet)
	}
	return asset.Load(path)
}

// newScene builds everything but the window: storage, systems, the composed
// row, its camera and the render pipeline.
func newScene(cfg *config.File, logger *slog.Logger) (*Game, error) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	tex, err := loadSheetTexture(cfg.Sheet.Path)
	if err != nil {
		return nil, err
	}
	sheet, err := sprite.Build(cfg.Sheet.Index, cfg.Sheet.Definition)
	if err != nil {
		return nil, err
	}
	if w, h := sheet.Width, sheet.Height; float32(tex.Width) != w || float32(tex.Height) != h {
		logger.Warn("texture size differs from sheet layout",
			"texture", fmt.Sprintf("%dx%d", tex.Width, tex.Height),
			"layout", fmt.Sprintf("%gx%g", w, h))
	}

	textures := scene.NewTextureSet()
	textures.Put(cfg.Sheet.Index, tex)

	variants, err := cfg.BuildAll(sheet)
	if err != nil {
		return nil, err
	}
	partition, err := cfg.Scene.PartitionFunc(len(variants))
	if err != nil {
		return nil, err
	}

	vw, vh := float32(cfg.Display.Width), float32(cfg.Display.Height)
	composer := &scene.Composer{
		Sheet:          sheet,
		SheetIndex:     cfg.Sheet.Index,
		Textures:       textures,
		Meshes:         mesh.NewCache(),
		SpriteWidth:    cfg.Sheet.SpriteWidth,
		SpriteHeight:   cfg.Sheet.SpriteHeight,
		ViewportWidth:  vw,
		ViewportHeight: vh,
		Variants:       variants,
		Partition:      partition,
		Logger:         logger,
	}
	ids, err := composer.Compose(storage, cfg.Scene.Count)
	if err != nil {
		return nil, err
	}
	if _, err := scene.SetupCamera(storage, vw, vh); err != nil {
		return nil, err
	}

	scheduler := ecs.NewScheduler(storage)
	scene.RegisterSystems(scheduler)

	pipeline := render.NewPipeline(storage, textures)
	pipeline.Clear = cfg.Display.Background
	pipeline.Logger = logger

	return &Game{
		logger:    logger,
		cfg:       cfg,
		storage:   storage,
		scheduler: scheduler,
		pipeline:  pipeline,
		composer:  composer,
		sets:      ecs.NewView[struct{ *anim.Set }](storage),
		ids:       ids,
		width:     cfg.Display.Width,
		height:    cfg.Display.Height,
	}, nil
}

func newGame(cfg *config.File, opts options) (*Game, error) {
	g, err := newScene(cfg, opts.logger)
	if err != nil {
		return nil, err
	}
	g.resizable = opts.resizable

	if opts.debug {
		g.imgui = debugui_ebiten.NewImguiBackend(cfg.Display.Title, cfg.Display.Width, cfg.Display.Height)
		g.scheduler.Register(&debugui.ImguiSystem{})
		g.input = ecs.NewSingleton[debugui.ImguiInputState](g.storage)
		debugui.SpawnDebugUI(g.storage, g.scheduler)
		g.pipeline.Overlay = g.imgui
	} else {
		ebiten.SetWindowTitle(cfg.Display.Title)
		ebiten.SetWindowSize(cfg.Display.Width, cfg.Display.Height)
		g.pipeline.SetEnabled(render.PassUiOverlay, false)
	}
	if opts.resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return g, nil
}

func (g *Game) watch(w *config.Watcher) {
	g.watcher = w
}

// applyReloads takes every pending config revision without blocking.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case f, ok := <-g.watcher.Reloads:
			if !ok {
				g.watcher = nil
				return
			}
			g.apply(f)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("config reload failed", "err", err)
		default:
			return
		}
	}
}

func (g *Game) apply(f *config.File) {
	g.pipeline.Clear = f.Display.Background
	changed := f.ApplyRates(g.storage)
	g.cfg = f
	g.logger.Info("config reloaded", "rates_changed", changed)
}

func (g *Game) keyboardCaptured() bool {
	return g.input != nil && g.input.Exists() && g.input.Get().WantCaptureKeyboard
}

// togglePause pauses every sprite, or restarts them all from where they
// stopped.
func (g *Game) togglePause() {
	g.paused = !g.paused
	cmd := anim.CommandStart
	if g.paused {
		cmd = anim.CommandPause
	}
	for s := range g.sets.Values() {
		s.Set.CommandAll(cmd)
	}
	g.logger.Debug("playback toggled", "paused", g.paused)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !g.keyboardCaptured() && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	g.applyReloads()

	if g.imgui != nil {
		g.imgui.BeginFrame()
	}
	g.scheduler.Once(1.0 / float64(ebiten.TPS()))
	if g.imgui != nil {
		g.imgui.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.pipeline.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	minimized := outsideWidth <= 0 || outsideHeight <= 0
	if g.resizable && !minimized && (outsideWidth != g.width || outsideHeight != g.height) {
		if err := g.relayout(outsideWidth, outsideHeight); err != nil {
			g.logger.Warn("relayout failed", "err", err)
		}
	}
	if g.imgui != nil {
		g.imgui.Layout(g.width, g.height)
	}
	return g.width, g.height
}

// relayout resizes the camera and composes the row again, centred in the new
// viewport. Playback restarts at the configured rates.
func (g *Game) relayout(w, h int) error {
	vw, vh := float32(w), float32(h)
	if err := scene.ResizeCamera(g.storage, vw, vh); err != nil {
		return err
	}

	scene.Teardown(g.storage, g.ids)
	g.ids = nil
	g.composer.ViewportWidth, g.composer.ViewportHeight = vw, vh
	ids, err := g.composer.Compose(g.storage, g.cfg.Scene.Count)
	if err != nil {
		return err
	}
	g.ids = ids
	g.width, g.height = w, h
	g.paused = false
	g.cfg.ApplyRates(g.storage)
	return nil
}
