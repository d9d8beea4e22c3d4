package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/sprites/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingletonSharedValue(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := ecs.NewSingleton(storage, Clock{Ticks: 1})
	second := ecs.NewSingleton[Clock](storage, Clock{Ticks: 99})

	assert.Equal(t, 1, second.Get().Ticks, "initializer only applies on creation")

	first.Get().Ticks = 5
	assert.Equal(t, 5, second.Get().Ticks)

	storage.AddSingleton(Clock{Ticks: 8})
	assert.Equal(t, 8, first.Get().Ticks, "replacement is visible through old accessors")
}

func TestSingletonMissing(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var clock ecs.Singleton[Clock]
	clock.Init(storage)
	assert.False(t, clock.Exists())
	assert.Nil(t, clock.Get())

	storage.AddSingleton(&Clock{Ticks: 3})
	assert.True(t, clock.Exists())
	assert.Equal(t, 3, clock.Get().Ticks)

	storage.RemoveSingleton(reflect.TypeFor[Clock]())
	var got *Clock
	assert.False(t, storage.ReadSingleton(&got))
	assert.Nil(t, got)

	assert.Panics(t, func() { storage.ReadSingleton(got) })
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Zero(t, stats.ArchetypeCount)
	assert.Zero(t, stats.TotalEntityCount)
	assert.Zero(t, stats.SingletonCount)

	storage.Spawn(Position{}, Frame{})
	storage.Spawn(Position{}, Frame{})
	gone := storage.Spawn(Frame{})
	storage.Spawn(Frame{})
	storage.Delete(gone)
	storage.AddSingleton(Clock{})

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Clock"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	counts := map[int][]string{}
	for _, arch := range stats.ArchetypeBreakdown {
		require.NotNil(t, storage.GetArchetypeById(arch.ID))
		counts[len(arch.ComponentTypes)] = arch.ComponentTypes
	}
	assert.Equal(t, []string{"ecs_test.Frame", "ecs_test.Position"}, counts[2])
	assert.Equal(t, []string{"ecs_test.Frame"}, counts[1])
	assert.Len(t, storage.GetArchetypes(), 2)
}

// ExampleNewSingleton keeps a frame counter outside any entity.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	clock := ecs.NewSingleton(storage, Clock{Ticks: 1})
	clock.Get().Ticks++

	var read *Clock
	if storage.ReadSingleton(&read) {
		fmt.Println("ticks:", read.Ticks)
	}
	// Output:
	// ticks: 2
}
