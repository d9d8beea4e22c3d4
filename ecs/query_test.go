package ecs_test

import (
	"testing"

	"github.com/plus3/sprites/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type animated struct {
	*Position
	*Frame
}

type tinted struct {
	*Frame
	Tint *Tint `ecs:"optional"`
}

func TestViewRequiredComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1}, Frame{Sprite: 1})
	storage.Spawn(Position{X: 2}, Frame{Sprite: 2}, Tint{})
	storage.Spawn(Position{X: 3})

	view := ecs.NewView[animated](storage)

	total := 0
	for item := range view.Values() {
		assert.Equal(t, item.Position.X, float32(item.Frame.Sprite))
		total++
	}
	assert.Equal(t, 2, total)
}

func TestViewOptionalComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	plain := storage.Spawn(Frame{})
	colored := storage.Spawn(Frame{}, Tint{R: 10})

	view := ecs.NewView[tinted](storage)

	got := view.Get(plain)
	require.NotNil(t, got)
	assert.Nil(t, got.Tint)

	got = view.Get(colored)
	require.NotNil(t, got)
	require.NotNil(t, got.Tint)
	assert.Equal(t, uint8(10), got.Tint.R)

	got.Frame.Sprite = 5
	assert.Equal(t, 5, ecs.ReadComponent[Frame](storage, colored).Sprite)

	assert.Nil(t, view.Get(storage.Spawn(Tint{})))
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Frame{Sprite: 3})
	ref := storage.CreateEntityRef(id)

	view := ecs.NewView[animated](storage)
	storage.AddComponent(id, Visible{})

	got := view.GetRef(ref)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Frame.Sprite)

	assert.Nil(t, view.GetRef(nil))
}

func TestViewRejectsBadShapes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[Position](storage) })
	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			F *Frame `ecs:"maybe"`
		}](storage)
	})
}

func TestQueryExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[animated](storage)

	assert.Panics(t, func() { query.Iter() })

	storage.Spawn(Position{}, Frame{})
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{}, Frame{}, Layer(1))
	storage.Spawn(Position{}, Frame{})
	assert.Equal(t, 1, query.Len(), "matches are fixed until the next Execute")

	query.Execute()
	assert.Equal(t, 3, query.Len())

	seen := map[ecs.EntityId]bool{}
	for id, item := range query.Iter() {
		require.NotNil(t, item.Frame)
		seen[id] = true
	}
	assert.Len(t, seen, 3)
}
