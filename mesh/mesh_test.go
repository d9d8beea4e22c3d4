package mesh_test

import (
	"math"
	"testing"

	"github.com/plus3/sprites/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	m, err := mesh.Generate(32, 16)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, mesh.VertexCount)
	for _, v := range m.Vertices {
		assert.Contains(t, []float32{0, 32}, v.Position[0])
		assert.Contains(t, []float32{0, 16}, v.Position[1])
		assert.Equal(t, float32(0), v.Position[2])

		// pixel top maps to v=0, pixel bottom to v=1
		assert.Equal(t, v.Position[0]/32, v.TexCoord[0])
		assert.Equal(t, v.Position[1]/16, v.TexCoord[1])
	}
}

func TestGenerateSharesDiagonal(t *testing.T) {
	m, err := mesh.Generate(8, 8)
	require.NoError(t, err)

	first := m.Vertices[0:3]
	second := m.Vertices[3:6]

	topLeft := mesh.Vertex{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0, 0}}
	bottomRight := mesh.Vertex{Position: [3]float32{8, 8, 0}, TexCoord: [2]float32{1, 1}}

	for _, tri := range [][]mesh.Vertex{first, second} {
		assert.Contains(t, tri, topLeft)
		assert.Contains(t, tri, bottomRight)
	}
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, m.Indices())
}

func TestGenerateIdempotent(t *testing.T) {
	a, err := mesh.Generate(32, 32)
	require.NoError(t, err)
	b, err := mesh.Generate(32, 32)
	require.NoError(t, err)

	assert.Equal(t, a.Vertices, b.Vertices)
	assert.NotSame(t, a, b)
}

func TestGenerateInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h float32
	}{
		{"zero width", 0, 32},
		{"zero height", 32, 0},
		{"negative", -4, 4},
		{"nan", float32(math.NaN()), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := mesh.Generate(tt.w, tt.h)
			assert.ErrorIs(t, err, mesh.ErrInvalidDimensions)
			assert.Nil(t, m)
		})
	}
}

func TestCache(t *testing.T) {
	cache := mesh.NewCache()

	a, err := cache.Get(32, 32)
	require.NoError(t, err)
	b, err := cache.Get(32, 32)
	require.NoError(t, err)
	c, err := cache.Get(16, 32)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, cache.Len())

	_, err = cache.Get(0, 32)
	assert.ErrorIs(t, err, mesh.ErrInvalidDimensions)
	assert.Equal(t, 2, cache.Len())
}
