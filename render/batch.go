package render

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/mesh"
	"github.com/plus3/sprites/scene"
)

// maxBatchVertices keeps every index of a batch addressable by uint16.
const maxBatchVertices = (1<<16 - 1) / mesh.VertexCount * mesh.VertexCount

// Batch is one DrawTriangles call: every sprite sharing a texture, up to the
// uint16 index limit.
type Batch struct {
	Texture  uint64
	Vertices []ebiten.Vertex
	Indices  []uint16
}

type drawable struct {
	*scene.GlobalTransform
	*scene.MeshRef
	*scene.Material
}

type item struct {
	id ecs.EntityId
	drawable
}

// Batcher turns drawable entities into screen-space triangle batches.
type Batcher struct {
	view     *ecs.View[drawable]
	textures *scene.TextureSet
	items    []item
	batches  []Batch
}

func NewBatcher(storage *ecs.Storage, textures *scene.TextureSet) *Batcher {
	return &Batcher{
		view:     ecs.NewView[drawable](storage),
		textures: textures,
	}
}

// Build collects every entity with a mesh and material and projects it
// through cam. Batches are ordered by texture index, sprites by entity id.
// Sprites whose texture is not resident are skipped. The returned slice is
// reused by the next call.
func (b *Batcher) Build(cam *scene.CameraView) []Batch {
	b.items = b.items[:0]
	for id, d := range b.view.Iter() {
		b.items = append(b.items, item{id: id, drawable: d})
	}
	slices.SortFunc(b.items, func(x, y item) int {
		if c := cmp.Compare(x.Material.Texture, y.Material.Texture); c != 0 {
			return c
		}
		return cmp.Compare(x.id, y.id)
	})

	b.batches = b.batches[:0]
	var cur *Batch
	for _, it := range b.items {
		tex, ok := b.textures.Get(it.Material.Texture)
		if !ok {
			continue
		}
		region, ok := it.Material.Region()
		if !ok {
			continue
		}

		if cur == nil || cur.Texture != it.Material.Texture || len(cur.Vertices)+mesh.VertexCount > maxBatchVertices {
			b.batches = append(b.batches, Batch{Texture: it.Material.Texture})
			cur = &b.batches[len(b.batches)-1]
		}

		texW, texH := tex.Size()
		for _, v := range it.MeshRef.Mesh.Vertices {
			world := mgl32.TransformCoordinate(mgl32.Vec3(v.Position), it.GlobalTransform.Matrix)
			dx, dy := cam.Camera.WorldToScreen(*cam.GlobalTransform, world)
			u, w := region.Lerp(v.TexCoord[0], v.TexCoord[1])

			cur.Indices = append(cur.Indices, uint16(len(cur.Vertices)))
			cur.Vertices = append(cur.Vertices, ebiten.Vertex{
				DstX:   dx,
				DstY:   dy,
				SrcX:   u * texW,
				SrcY:   w * texH,
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			})
		}
	}
	return b.batches
}
