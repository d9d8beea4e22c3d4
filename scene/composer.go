// Package scene turns a sprite sheet and its animations into a row of
// animated entities, plus the camera they are drawn through.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/layout"
	"github.com/plus3/sprites/mesh"
	"github.com/plus3/sprites/sprite"
)

var (
	ErrAssetMissing    = errors.New("scene: texture not resident")
	ErrInvalidViewport = errors.New("scene: invalid viewport")
	ErrNoCamera        = errors.New("scene: no active camera")
)

// PartitionFunc picks the animation variant for slot i of count.
type PartitionFunc func(i, count int) int

// HalfSplit gives the first count/2 slots variant 0 and the rest variant 1.
func HalfSplit(i, count int) int {
	if i < count/2 {
		return 0
	}
	return 1
}

// Alternate cycles through n variants slot by slot.
func Alternate(n int) PartitionFunc {
	return func(i, _ int) int {
		return i % n
	}
}

// Composer builds one drawable, animated entity per slot of a centred row.
type Composer struct {
	Sheet      *sprite.Sheet
	SheetIndex uint64
	Textures   *TextureSet
	Meshes     *mesh.Cache

	SpriteWidth    float32
	SpriteHeight   float32
	ViewportWidth  float32
	ViewportHeight float32

	// Variants are the shared animations slots are started on.
	Variants []*anim.Animation
	// Partition defaults to HalfSplit.
	Partition PartitionFunc

	Logger *slog.Logger
}

func (c *Composer) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Composer) partition() PartitionFunc {
	if c.Partition != nil {
		return c.Partition
	}
	return HalfSplit
}

// Compose spawns count entities into storage and returns their ids in slot
// order. Every input is checked before the first spawn, so on error nothing
// has been added to storage.
func (c *Composer) Compose(storage *ecs.Storage, count uint32) ([]ecs.EntityId, error) {
	if err := validViewport(c.ViewportWidth, c.ViewportHeight); err != nil {
		return nil, err
	}

	if _, ok := c.Textures.Get(c.SheetIndex); !ok || c.Sheet == nil {
		return nil, fmt.Errorf("%w: sheet %d", ErrAssetMissing, c.SheetIndex)
	}

	shared, err := c.mesh()
	if err != nil {
		return nil, err
	}

	variants, err := c.assignVariants(int(count))
	if err != nil {
		return nil, err
	}

	off := layout.CenterRow(count, c.SpriteWidth, c.SpriteHeight, c.ViewportWidth, c.ViewportHeight)
	log := c.logger().With("sheet", c.SheetIndex, "count", count)
	log.Debug("composing sprite row", "offset_x", off.X, "offset_y", off.Y, "variants", len(c.Variants))

	ids := make([]ecs.EntityId, count)
	perVariant := make([]int, len(c.Variants))
	for i := range ids {
		v := variants[i]
		perVariant[v]++

		var set anim.Set
		set.Add(0, c.Variants[v], anim.LoopForever(), 1, anim.CommandStart)

		x, y := off.Slot(i, c.SpriteWidth)
		transform := NewTransform(x, y, 0)

		ids[i] = storage.Spawn(
			transform,
			GlobalTransform{Matrix: transform.Matrix()},
			MeshRef{Mesh: shared},
			Material{Texture: c.SheetIndex, Sheet: c.Sheet, Sprite: 0},
			SpriteSlot{Index: i, Variant: v},
			set,
		)
	}

	log.Info("sprite row composed", "per_variant", perVariant)
	return ids, nil
}

func (c *Composer) mesh() (*mesh.Mesh, error) {
	if c.Meshes == nil {
		return mesh.Generate(c.SpriteWidth, c.SpriteHeight)
	}
	return c.Meshes.Get(c.SpriteWidth, c.SpriteHeight)
}

func (c *Composer) assignVariants(count int) ([]int, error) {
	if len(c.Variants) == 0 {
		return nil, fmt.Errorf("%w: no animation variants", anim.ErrOutOfRange)
	}
	for n, v := range c.Variants {
		if v == nil {
			return nil, fmt.Errorf("%w: variant %d is nil", anim.ErrOutOfRange, n)
		}
		if err := v.Check(c.Sheet); err != nil {
			return nil, fmt.Errorf("variant %d: %w", n, err)
		}
	}

	partition := c.partition()
	variants := make([]int, count)
	for i := range variants {
		v := partition(i, count)
		if v < 0 || v >= len(c.Variants) {
			return nil, fmt.Errorf("%w: slot %d assigned variant %d of %d", anim.ErrOutOfRange, i, v, len(c.Variants))
		}
		variants[i] = v
	}
	return variants, nil
}

// Teardown deletes ids from storage and compacts it.
func Teardown(storage *ecs.Storage, ids []ecs.EntityId) {
	for _, id := range ids {
		storage.Delete(id)
	}
	storage.Compact()
}

func validViewport(w, h float32) error {
	usable := func(v float32) bool { return v > 0 && !math.IsInf(float64(v), 0) }
	if !usable(w) || !usable(h) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, w, h)
	}
	return nil
}
