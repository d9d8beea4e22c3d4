// Package sprite describes sprite sheets: a grid layout over a single texture
// and the normalized texture rectangle of every cell in that grid.
package sprite

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLayout is returned when a Definition cannot describe a grid.
var ErrInvalidLayout = errors.New("sprite: invalid sheet layout")

// borderPixels is the gutter between adjacent cells of a bordered sheet.
const borderPixels = 1

// Definition is the grid layout of a sprite sheet texture.
// CellWidth and CellHeight exclude the border pixel, if any.
type Definition struct {
	CellWidth  float32 `yaml:"cell_width"`
	CellHeight float32 `yaml:"cell_height"`
	Rows       uint32  `yaml:"rows"`
	Columns    uint32  `yaml:"columns"`
	HasBorder  bool    `yaml:"has_border"`
}

// NewDefinition mirrors the field order of Definition.
func NewDefinition(cellWidth, cellHeight float32, rows, columns uint32, hasBorder bool) Definition {
	return Definition{
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Rows:       rows,
		Columns:    columns,
		HasBorder:  hasBorder,
	}
}

// Validate reports ErrInvalidLayout for empty grids and non-positive cells.
func (d Definition) Validate() error {
	if uint64(d.Rows)*uint64(d.Columns) == 0 {
		return fmt.Errorf("%w: %d rows x %d columns", ErrInvalidLayout, d.Rows, d.Columns)
	}
	if !positive(d.CellWidth) || !positive(d.CellHeight) {
		return fmt.Errorf("%w: cell size %gx%g", ErrInvalidLayout, d.CellWidth, d.CellHeight)
	}
	return nil
}

// Count is the number of cells in the grid.
func (d Definition) Count() int {
	return int(d.Rows) * int(d.Columns)
}

func (d Definition) border() float32 {
	if d.HasBorder {
		return borderPixels
	}
	return 0
}

// SheetSize returns the pixel size of the whole texture the grid covers.
// Gutters only sit between cells, never on the outer edge.
func (d Definition) SheetSize() (width, height float32) {
	b := d.border()
	width = float32(d.Columns)*d.CellWidth + float32(d.Columns-1)*b
	height = float32(d.Rows)*d.CellHeight + float32(d.Rows-1)*b
	return width, height
}

// CellOrigin returns the top-left pixel of the cell at row r, column c.
func (d Definition) CellOrigin(r, c uint32) (x, y float32) {
	b := d.border()
	return float32(c) * (d.CellWidth + b), float32(r) * (d.CellHeight + b)
}

// Sprite is one cell of a sheet.
type Sprite struct {
	TexCoords TexCoords
	Pixels    Rect
}

// Sheet is the immutable, row-major list of sprites of one texture.
// It is built once and shared by pointer between animations and entities.
type Sheet struct {
	Index      uint64
	Definition Definition
	Width      float32
	Height     float32
	Sprites    []Sprite
}

// Build derives the sprites of def. index identifies the backing texture.
func Build(index uint64, def Definition) (*Sheet, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	width, height := def.SheetSize()
	sheet := &Sheet{
		Index:      index,
		Definition: def,
		Width:      width,
		Height:     height,
		Sprites:    make([]Sprite, 0, def.Count()),
	}

	for r := uint32(0); r < def.Rows; r++ {
		for c := uint32(0); c < def.Columns; c++ {
			x, y := def.CellOrigin(r, c)
			px := Rect{X: x, Y: y, Width: def.CellWidth, Height: def.CellHeight}
			sheet.Sprites = append(sheet.Sprites, Sprite{
				TexCoords: PixelsToTexCoords(px, width, height),
				Pixels:    px,
			})
		}
	}

	return sheet, nil
}

// Len returns the number of sprites, zero for a nil sheet.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Sprites)
}

// Sprite returns the sprite at index i.
func (s *Sheet) Sprite(i int) (Sprite, bool) {
	if i < 0 || i >= s.Len() {
		return Sprite{}, false
	}
	return s.Sprites[i], true
}

// Index returns the sprite index of the cell at row r, column c.
func (d Definition) Index(r, c uint32) int {
	return int(r)*int(d.Columns) + int(c)
}

func positive(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 1)
}
