package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/mesh"
	"github.com/plus3/sprites/sprite"
)

// Transform is an entity's local placement. Build it with NewTransform; the
// zero value has a zero rotation quaternion and collapses everything.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func NewTransform(x, y, z float32) Transform {
	return Transform{
		Translation: mgl32.Vec3{x, y, z},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// GlobalTransform is the world matrix computed from Transform each frame.
type GlobalTransform struct {
	Matrix mgl32.Mat4
}

func (g GlobalTransform) Translation() mgl32.Vec3 {
	return g.Matrix.Col(3).Vec3()
}

// MeshRef points at the mesh shared by every sprite of the same size.
type MeshRef struct {
	Mesh *mesh.Mesh
}

// Material binds a sheet texture and the sprite currently shown from it.
type Material struct {
	Texture uint64
	Sheet   *sprite.Sheet
	Sprite  int
}

// Region returns the texture rectangle of the bound sprite.
func (m Material) Region() (sprite.TexCoords, bool) {
	s, ok := m.Sheet.Sprite(m.Sprite)
	return s.TexCoords, ok
}

// SpriteSlot records where in the row an entity was composed and which
// animation variant it was given.
type SpriteSlot struct {
	Index   int
	Variant int
}

// Camera is an orthographic view of Width x Height world units with the
// origin at the top left and y growing down.
type Camera struct {
	Width      float32
	Height     float32
	Projection mgl32.Mat4
}

// WorldToScreen maps p to pixel coordinates for a camera placed at view.
func (c Camera) WorldToScreen(view GlobalTransform, p mgl32.Vec3) (x, y float32) {
	ndc := mgl32.TransformCoordinate(p, c.Projection.Mul4(view.Matrix.Inv()))
	return (ndc[0] + 1) / 2 * c.Width, (1 - ndc[1]) / 2 * c.Height
}

// ActiveCamera is the singleton naming the camera the flat pass draws with.
type ActiveCamera struct {
	Ref *ecs.EntityRef
}

// RegisterComponents registers every component a composed scene spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[MeshRef](registry)
	ecs.RegisterComponent[Material](registry)
	ecs.RegisterComponent[SpriteSlot](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[anim.Set](registry)
}
