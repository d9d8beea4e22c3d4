// Command sprite-stress composes a large sprite row and measures the
// per-frame cost of animating it and building its draw batches.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/asset"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/mesh"
	"github.com/plus3/sprites/render"
	"github.com/plus3/sprites/scene"
	"github.com/plus3/sprites/sprite"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	spriteCount := flag.Uint("sprites", 10000, "The number of sprites to compose.")
	variantCount := flag.Int("variants", 2, "The number of animation variants, one per sheet row.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileKind := flag.String("profile", "", "Write a profile of the run: cpu, mem, allocs or trace.")
	profileDir := flag.String("profile-path", ".", "Directory the profile is written to.")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *profileKind != "" {
		mode, err := profileMode(*profileKind)
		if err != nil {
			logger.Error("bad -profile", "err", err)
			os.Exit(2)
		}
		defer profile.Start(mode, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	world, err := newWorld(uint32(*spriteCount), *variantCount)
	if err != nil {
		logger.Error("set up", "err", err)
		os.Exit(1)
	}
	logger.Info("composed", "sprites", *spriteCount, "variants", *variantCount)

	report := &Report{
		Duration:       *duration,
		Sprites:        int(*spriteCount),
		Variants:       *variantCount,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStart)

	logger.Info("running", "duration", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	world.run(ctx, report)

	runtime.ReadMemStats(&report.MemEnd)
	report.Finish()

	fmt.Println("\n\n--- Sprite Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("generate report", "err", err)
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

func profileMode(kind string) (func(*profile.Profile), error) {
	switch kind {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfileHeap, nil
	case "allocs":
		return profile.MemProfileAllocs, nil
	case "trace":
		return profile.TraceProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile %q", kind)
	}
}

type world struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	batcher   *render.Batcher
}

func newWorld(count uint32, variants int) (*world, error) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	const cell, columns = 32, 6
	sheet, err := sprite.Build(0, sprite.NewDefinition(cell, cell, uint32(variants), columns, false))
	if err != nil {
		return nil, err
	}
	textures := scene.NewTextureSet()
	textures.Put(0, asset.FromImage(image.NewRGBA(image.Rect(0, 0, cell*columns, cell*variants))))

	anims := make([]*anim.Animation, variants)
	for v := range anims {
		frames := make([]int, columns)
		for c := range frames {
			frames[c] = sheet.Definition.Index(uint32(v), uint32(c))
		}
		// Staggered holds keep the variants out of phase.
		anims[v], err = anim.Build(sheet, frames, 0.05+0.01*float64(v), anim.WithName(fmt.Sprintf("row%d", v)))
		if err != nil {
			return nil, err
		}
	}

	composer := &scene.Composer{
		Sheet:          sheet,
		Textures:       textures,
		Meshes:         mesh.NewCache(),
		SpriteWidth:    cell,
		SpriteHeight:   cell,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Variants:       anims,
		Partition:      scene.Alternate(variants),
	}
	if _, err := composer.Compose(storage, count); err != nil {
		return nil, err
	}
	if _, err := scene.SetupCamera(storage, 1920, 1080); err != nil {
		return nil, err
	}

	scheduler := ecs.NewScheduler(storage)
	scene.RegisterSystems(scheduler)

	return &world{
		storage:   storage,
		scheduler: scheduler,
		batcher:   render.NewBatcher(storage, textures),
	}, nil
}

// run ticks and batches until ctx is done, recording both timings.
func (w *world) run(ctx context.Context, report *Report) {
	start := time.Now()
	last := start
	cam := scene.ActiveCameraOf(w.storage)

	for ctx.Err() == nil {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		w.scheduler.Once(dt.Seconds())
		updated := time.Now()
		batches := w.batcher.Build(cam)
		report.record(updated.Sub(now), time.Since(updated), batches)
	}
	report.Elapsed = time.Since(start)
}
