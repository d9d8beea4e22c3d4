// Package mesh generates the flat quad every sprite of a given size is drawn on.
package mesh

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidDimensions is returned for non-positive mesh sizes.
var ErrInvalidDimensions = errors.New("mesh: invalid dimensions")

// VertexCount is the number of vertices in a sprite mesh: two triangles.
const VertexCount = 6

// Vertex is a position in local pixel space plus a texture coordinate.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
}

// Mesh is a w x h rectangle. Its texture coordinates always cover the unit
// square; the visible sprite is picked by the material, not by the mesh.
type Mesh struct {
	Width    float32
	Height   float32
	Vertices [VertexCount]Vertex
}

// Generate returns the mesh for a sprite of w x h pixels.
//
// Positions use pixel coordinates: origin at the top left, y growing down.
// Texture coordinates are flipped against that axis, so pixel top is v=0,
// which is what renderers with an upward texture v expect at the image top.
// The triangles are (TL, TR, BR) and (TL, BR, BL).
func Generate(w, h float32) (*Mesh, error) {
	if !(w > 0) || !(h > 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidDimensions, w, h)
	}

	const (
		texLeft   = 0
		texRight  = 1
		texTop    = 0
		texBottom = 1
	)

	topLeft := Vertex{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{texLeft, texTop}}
	topRight := Vertex{Position: [3]float32{w, 0, 0}, TexCoord: [2]float32{texRight, texTop}}
	bottomRight := Vertex{Position: [3]float32{w, h, 0}, TexCoord: [2]float32{texRight, texBottom}}
	bottomLeft := Vertex{Position: [3]float32{0, h, 0}, TexCoord: [2]float32{texLeft, texBottom}}

	return &Mesh{
		Width:  w,
		Height: h,
		Vertices: [VertexCount]Vertex{
			topLeft, topRight, bottomRight,
			topLeft, bottomRight, bottomLeft,
		},
	}, nil
}

var indices = []uint16{0, 1, 2, 3, 4, 5}

// Indices returns the triangle list indices for Vertices.
func (m *Mesh) Indices() []uint16 {
	return indices
}

type size struct {
	w, h float32
}

// Cache shares one Mesh between all sprites of the same pixel size.
type Cache struct {
	mu     sync.Mutex
	meshes map[size]*Mesh
}

// NewCache creates an empty mesh cache.
func NewCache() *Cache {
	return &Cache{meshes: make(map[size]*Mesh)}
}

// Get returns the shared mesh for w x h, generating it on first use.
func (c *Cache) Get(w, h float32) (*Mesh, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := size{w, h}
	if m, ok := c.meshes[key]; ok {
		return m, nil
	}

	m, err := Generate(w, h)
	if err != nil {
		return nil, err
	}
	if c.meshes == nil {
		c.meshes = make(map[size]*Mesh)
	}
	c.meshes[key] = m
	return m, nil
}

// Len returns the number of distinct meshes held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.meshes)
}
