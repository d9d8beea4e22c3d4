package ecs_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/plus3/sprites/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for item := range s.Movers.Values() {
		item.Position.X += item.Velocity.DX * dt
		item.Position.Y += item.Velocity.DY * dt
	}
}

type ClockSystem struct {
	Clock ecs.Singleton[Clock]
	seen  []int64
}

func (s *ClockSystem) Execute(frame *ecs.UpdateFrame) {
	s.Clock.Get().Ticks++
	s.seen = append(s.seen, frame.Frame)
}

// FlipbookSystem advances Frame on a fixed tick and spawns a marker on the
// second frame through commands.
type FlipbookSystem struct {
	Frames ecs.Query[struct{ *Frame }]
}

func (s *FlipbookSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Frames.Values() {
		item.Frame.Sprite = (item.Frame.Sprite + 1) % 6
	}
	if frame.Frame == 2 {
		frame.Commands.Spawn(Frame{Sprite: 0})
	}
}

func TestSchedulerExecutesQueries(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Velocity{DX: 2, DY: -1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})

	scheduler.Once(0.5)
	scheduler.Once(0.5)

	assert.Equal(t, Position{X: 2, Y: -1}, *ecs.ReadComponent[Position](storage, id))
}

func TestSchedulerSeesCommandsNextFrame(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Frame{Sprite: 5})

	scheduler := ecs.NewScheduler(storage)
	flip := &FlipbookSystem{}
	scheduler.Register(flip)

	scheduler.Once(1.0 / 60)
	scheduler.Once(1.0 / 60)
	assert.Equal(t, 1, flip.Frames.Len(), "spawn is flushed after the frame")

	scheduler.Once(1.0 / 60)
	assert.Equal(t, 2, flip.Frames.Len())
}

func TestSchedulerBindsSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Clock{Ticks: 10})

	scheduler := ecs.NewScheduler(storage)
	clock := &ClockSystem{}
	scheduler.Register(clock)

	for range 3 {
		scheduler.Once(0.1)
	}

	var got *Clock
	require.True(t, storage.ReadSingleton(&got))
	assert.Equal(t, 13, got.Ticks)
	assert.Equal(t, []int64{1, 2, 3}, clock.seen)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&FlipbookSystem{})

	for range 4 {
		scheduler.Once(0.25)
	}

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(8), stats.TotalExecutions)
	assert.Equal(t, int64(4), stats.Frames)
	assert.Equal(t, time.Second, stats.Elapsed)
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "FlipbookSystem", stats.Systems[1].Name)
	assert.Equal(t, int64(4), stats.Systems[1].ExecutionCount)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
}

func TestSchedulerRun(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Clock{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ClockSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	scheduler.Run(ctx, time.Millisecond)

	assert.Positive(t, ecs.NewSingleton[Clock](storage).Get().Ticks)
}

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	keep := storage.Spawn(Frame{Sprite: 1})
	drop := storage.Spawn(Frame{Sprite: 2})

	var order []string
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Defer(func() { order = append(order, "defer") })
		frame.Commands.AddComponent(drop, Tint{})
		frame.Commands.Delete(drop)
		frame.Commands.AddComponent(keep, Tint{G: 1})
		frame.Commands.RemoveComponent(keep, reflect.TypeFor[Layer]())
		assert.Equal(t, 5, frame.Commands.Len())
		order = append(order, "system")
	}))

	scheduler.Once(0)

	assert.Equal(t, []string{"system", "defer"}, order)
	assert.Nil(t, ecs.ReadComponent[Frame](storage, drop))
	archetype := storage.GetArchetype(Frame{}, Tint{})
	require.NotNil(t, archetype)
	assert.Equal(t, 1, archetype.Len())
}

type systemFunc func(frame *ecs.UpdateFrame)

func (f systemFunc) Execute(frame *ecs.UpdateFrame) { f(frame) }
