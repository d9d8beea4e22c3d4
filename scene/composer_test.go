package scene_test

import (
	"image"
	"math"
	"slices"
	"testing"

	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/asset"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/mesh"
	"github.com/plus3/sprites/scene"
	"github.com/plus3/sprites/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batHold = 0.25

type fixture struct {
	storage  *ecs.Storage
	composer *scene.Composer
	grey     *anim.Animation
	brown    *anim.Animation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)

	sheet, err := sprite.Build(1, sprite.NewDefinition(32, 32, 2, 6, false))
	require.NoError(t, err)

	grey, err := anim.Build(sheet, []int{0, 1, 2, 3, 4, 5}, batHold, anim.WithName("grey"))
	require.NoError(t, err)
	brown, err := anim.Build(sheet, []int{6, 7, 8, 9, 10, 11}, batHold, anim.WithName("brown"))
	require.NoError(t, err)

	textures := scene.NewTextureSet()
	textures.Put(1, asset.FromImage(image.NewRGBA(image.Rect(0, 0, 192, 64))))

	return &fixture{
		storage: ecs.NewStorage(registry),
		composer: &scene.Composer{
			Sheet:          sheet,
			SheetIndex:     1,
			Textures:       textures,
			Meshes:         mesh.NewCache(),
			SpriteWidth:    32,
			SpriteHeight:   32,
			ViewportWidth:  800,
			ViewportHeight: 600,
			Variants:       []*anim.Animation{grey, brown},
		},
		grey:  grey,
		brown: brown,
	}
}

type composed struct {
	*scene.Transform
	*scene.MeshRef
	*scene.Material
	*scene.SpriteSlot
	*anim.Set
}

func TestComposeHalfSplit(t *testing.T) {
	f := newFixture(t)

	ids, err := f.composer.Compose(f.storage, 6)
	require.NoError(t, err)
	require.Len(t, ids, 6)

	view := ecs.NewView[composed](f.storage)
	perVariant := map[*anim.Animation]int{}
	var shared *mesh.Mesh

	for i, id := range ids {
		e := view.Get(id)
		require.NotNil(t, e, "slot %d", i)

		assert.Equal(t, i, e.SpriteSlot.Index)
		assert.Equal(t, scene.HalfSplit(i, 6), e.SpriteSlot.Variant)
		assert.Equal(t, 0, e.Material.Sprite)
		assert.Equal(t, uint64(1), e.Material.Texture)

		in := e.Set.Get(0)
		require.NotNil(t, in)
		assert.Equal(t, anim.CommandStart, in.Command)
		assert.Equal(t, anim.LoopForever(), in.End)
		assert.Equal(t, 1.0, in.Rate)
		perVariant[in.Animation]++

		assert.Equal(t, float32(304+32*i), e.Transform.Translation.X())
		assert.Equal(t, float32(284), e.Transform.Translation.Y())
		assert.Zero(t, e.Transform.Translation.Z())

		if shared == nil {
			shared = e.MeshRef.Mesh
		}
		assert.Same(t, shared, e.MeshRef.Mesh)
	}

	assert.Equal(t, 3, perVariant[f.grey])
	assert.Equal(t, 3, perVariant[f.brown])
	assert.Equal(t, 1, f.composer.Meshes.Len())

	for i := 1; i < len(ids); i++ {
		prev := view.Get(ids[i-1]).Transform.Translation
		cur := view.Get(ids[i]).Transform.Translation
		assert.Equal(t, float32(32), cur.X()-prev.X())
		assert.Equal(t, prev.Y(), cur.Y())
	}
}

func TestComposeCustomPartition(t *testing.T) {
	f := newFixture(t)
	f.composer.Partition = scene.Alternate(2)

	ids, err := f.composer.Compose(f.storage, 4)
	require.NoError(t, err)

	for i, id := range ids {
		slot := ecs.ReadComponent[scene.SpriteSlot](f.storage, id)
		assert.Equal(t, i%2, slot.Variant)
	}
}

// withSprite copies a with its last frame showing sprite.
func withSprite(a *anim.Animation, sprite int) *anim.Animation {
	bad := *a
	bad.Frames = slices.Clone(a.Frames)
	bad.Frames[len(bad.Frames)-1].Sprite = sprite
	return &bad
}

func TestComposeErrors(t *testing.T) {
	otherSheet, err := sprite.Build(2, sprite.NewDefinition(16, 16, 4, 4, false))
	require.NoError(t, err)
	wide, err := anim.Build(otherSheet, []int{15}, batHold)
	require.NoError(t, err)

	tests := []struct {
		name   string
		modify func(c *scene.Composer)
		want   error
	}{
		{"texture not resident", func(c *scene.Composer) { c.SheetIndex = 9 }, scene.ErrAssetMissing},
		{"no texture set", func(c *scene.Composer) { c.Textures = nil }, scene.ErrAssetMissing},
		{"zero sprite width", func(c *scene.Composer) { c.SpriteWidth = 0 }, mesh.ErrInvalidDimensions},
		{"nan sprite height", func(c *scene.Composer) { c.SpriteHeight = float32(math.NaN()) }, mesh.ErrInvalidDimensions},
		{"no variants", func(c *scene.Composer) { c.Variants = nil }, anim.ErrOutOfRange},
		{"partition past variants", func(c *scene.Composer) { c.Variants = c.Variants[:1] }, anim.ErrOutOfRange},
		{"built over another sheet", func(c *scene.Composer) { c.Variants = []*anim.Animation{wide, wide} }, anim.ErrInvalidAnimation},
		{"literal animation", func(c *scene.Composer) {
			c.Variants[1] = &anim.Animation{Name: "raw", Sheet: c.Sheet, Rate: 1}
		}, anim.ErrInvalidAnimation},
		{"literal with frames", func(c *scene.Composer) {
			c.Variants[1] = &anim.Animation{Sheet: c.Sheet, Frames: []anim.Frame{{Sprite: 1, Hold: batHold}}, Loop: true, Rate: 1}
		}, anim.ErrInvalidAnimation},
		{"negative sprite", func(c *scene.Composer) { c.Variants[0] = withSprite(c.Variants[0], -1) }, anim.ErrOutOfRange},
		{"sprite past sheet", func(c *scene.Composer) { c.Variants[1] = withSprite(c.Variants[1], 12) }, anim.ErrOutOfRange},
		{"zero rate", func(c *scene.Composer) {
			zero := *c.Variants[0]
			zero.Rate = 0
			c.Variants[0] = &zero
		}, anim.ErrInvalidAnimation},
		{"zero viewport", func(c *scene.Composer) { c.ViewportWidth = 0 }, scene.ErrInvalidViewport},
		{"negative viewport", func(c *scene.Composer) { c.ViewportHeight = -600 }, scene.ErrInvalidViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.modify(f.composer)

			ids, err := f.composer.Compose(f.storage, 6)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, ids)
			assert.Zero(t, f.storage.CollectStats().TotalEntityCount, "nothing spawned")
		})
	}
}

func TestComposeOverflowRow(t *testing.T) {
	f := newFixture(t)

	ids, err := f.composer.Compose(f.storage, 30)
	require.NoError(t, err)

	first := ecs.ReadComponent[scene.Transform](f.storage, ids[0])
	last := ecs.ReadComponent[scene.Transform](f.storage, ids[29])
	assert.Equal(t, float32(-80), first.Translation.X())
	assert.Equal(t, float32(848), last.Translation.X())
}

func TestTeardown(t *testing.T) {
	f := newFixture(t)

	ids, err := f.composer.Compose(f.storage, 6)
	require.NoError(t, err)
	_, err = scene.SetupCamera(f.storage, 800, 600)
	require.NoError(t, err)

	scene.Teardown(f.storage, ids)

	assert.Equal(t, 1, f.storage.CollectStats().TotalEntityCount)
	assert.NotNil(t, scene.ActiveCameraOf(f.storage))
}

func TestTextureSet(t *testing.T) {
	set := scene.NewTextureSet()
	tex := asset.FromImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))

	set.Put(3, tex)
	got, ok := set.Get(3)
	require.True(t, ok)
	assert.Same(t, tex, got)
	assert.Equal(t, 1, set.Len())

	assert.True(t, set.Remove(3))
	_, ok = set.Get(3)
	assert.False(t, ok)

	var none *scene.TextureSet
	_, ok = none.Get(3)
	assert.False(t, ok)
	assert.Zero(t, none.Len())
}
