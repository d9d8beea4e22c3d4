package sprite_test

import (
	"fmt"
	"testing"

	"github.com/plus3/sprites/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func TestBuildSpriteCount(t *testing.T) {
	tests := []sprite.Definition{
		sprite.NewDefinition(32, 32, 2, 6, false),
		sprite.NewDefinition(16, 24, 1, 1, false),
		sprite.NewDefinition(8, 8, 5, 3, true),
		sprite.NewDefinition(10, 20, 4, 7, false),
	}

	for _, def := range tests {
		t.Run(fmt.Sprintf("%dx%d border=%v", def.Rows, def.Columns, def.HasBorder), func(t *testing.T) {
			sheet, err := sprite.Build(3, def)
			require.NoError(t, err)
			assert.Equal(t, int(def.Rows*def.Columns), sheet.Len())
			assert.Equal(t, uint64(3), sheet.Index)
		})
	}
}

func TestBuildTilesUnitSquare(t *testing.T) {
	defs := []sprite.Definition{
		sprite.NewDefinition(32, 32, 2, 6, false),
		sprite.NewDefinition(7, 13, 3, 5, false),
		sprite.NewDefinition(1, 1, 1, 1, false),
	}

	for _, def := range defs {
		sheet, err := sprite.Build(0, def)
		require.NoError(t, err)

		var area float32
		for i, a := range sheet.Sprites {
			area += a.TexCoords.Area()
			for j, b := range sheet.Sprites {
				if i == j {
					continue
				}
				overlapW := min(a.TexCoords.Right, b.TexCoords.Right) - max(a.TexCoords.Left, b.TexCoords.Left)
				overlapH := min(a.TexCoords.Bottom, b.TexCoords.Bottom) - max(a.TexCoords.Top, b.TexCoords.Top)
				if overlapW > tolerance && overlapH > tolerance {
					t.Fatalf("sprites %d and %d overlap", i, j)
				}
			}
		}
		assert.InDelta(t, 1.0, area, tolerance)
	}
}

func TestBuildRowMajorOrder(t *testing.T) {
	def := sprite.NewDefinition(32, 32, 2, 6, false)
	sheet, err := sprite.Build(0, def)
	require.NoError(t, err)

	assert.Equal(t, float32(192), sheet.Width)
	assert.Equal(t, float32(64), sheet.Height)

	second := sheet.Sprites[1]
	assert.Equal(t, sprite.Rect{X: 32, Y: 0, Width: 32, Height: 32}, second.Pixels)

	firstOfRow1 := sheet.Sprites[def.Index(1, 0)]
	assert.Equal(t, 6, def.Index(1, 0))
	assert.Equal(t, sprite.Rect{X: 0, Y: 32, Width: 32, Height: 32}, firstOfRow1.Pixels)
	assert.InDelta(t, 0.5, firstOfRow1.TexCoords.Top, tolerance)
	assert.InDelta(t, 1.0, firstOfRow1.TexCoords.Bottom, tolerance)
}

func TestBuildExcludesBorder(t *testing.T) {
	def := sprite.NewDefinition(10, 10, 2, 3, true)
	sheet, err := sprite.Build(0, def)
	require.NoError(t, err)

	assert.Equal(t, float32(32), sheet.Width)
	assert.Equal(t, float32(21), sheet.Height)

	last, ok := sheet.Sprite(5)
	require.True(t, ok)
	assert.Equal(t, sprite.Rect{X: 22, Y: 11, Width: 10, Height: 10}, last.Pixels)
	assert.InDelta(t, 1.0, last.TexCoords.Right, tolerance)
	assert.InDelta(t, 1.0, last.TexCoords.Bottom, tolerance)
}

func TestBuildInvalidLayout(t *testing.T) {
	tests := []struct {
		name string
		def  sprite.Definition
	}{
		{"zero rows", sprite.NewDefinition(32, 32, 0, 6, false)},
		{"zero columns", sprite.NewDefinition(32, 32, 2, 0, false)},
		{"zero cell width", sprite.NewDefinition(0, 32, 2, 6, false)},
		{"negative cell height", sprite.NewDefinition(32, -1, 2, 6, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := sprite.Build(0, tt.def)
			assert.ErrorIs(t, err, sprite.ErrInvalidLayout)
			assert.Nil(t, sheet)
		})
	}
}

func TestSpriteOutOfBounds(t *testing.T) {
	sheet, err := sprite.Build(0, sprite.NewDefinition(4, 4, 1, 2, false))
	require.NoError(t, err)

	_, ok := sheet.Sprite(2)
	assert.False(t, ok)
	_, ok = sheet.Sprite(-1)
	assert.False(t, ok)

	var nilSheet *sprite.Sheet
	assert.Equal(t, 0, nilSheet.Len())
}
