package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func TestSetupCamera(t *testing.T) {
	storage := newStorage()

	id, err := scene.SetupCamera(storage, 800, 600)
	require.NoError(t, err)

	cam := ecs.ReadComponent[scene.Camera](storage, id)
	require.NotNil(t, cam)
	assert.Equal(t, float32(800), cam.Width)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, ecs.ReadComponent[scene.GlobalTransform](storage, id).Translation())

	active := scene.ActiveCameraOf(storage)
	require.NotNil(t, active)
	assert.Same(t, cam, active.Camera)
}

func TestSetupCameraInvalidViewport(t *testing.T) {
	for _, vp := range [][2]float32{{0, 600}, {800, 0}, {-1, -1}} {
		storage := newStorage()
		_, err := scene.SetupCamera(storage, vp[0], vp[1])
		assert.ErrorIs(t, err, scene.ErrInvalidViewport)
		assert.Zero(t, storage.CollectStats().TotalEntityCount)
		assert.Nil(t, scene.ActiveCameraOf(storage))
	}
}

func TestWorldToScreen(t *testing.T) {
	storage := newStorage()
	_, err := scene.SetupCamera(storage, 800, 600)
	require.NoError(t, err)
	active := scene.ActiveCameraOf(storage)
	require.NotNil(t, active)

	tests := []struct {
		world mgl32.Vec3
		x, y  float32
	}{
		{mgl32.Vec3{0, 0, 0}, 0, 0},
		{mgl32.Vec3{304, 284, 0}, 304, 284},
		{mgl32.Vec3{800, 600, 0}, 800, 600},
	}

	for _, tt := range tests {
		x, y := active.Camera.WorldToScreen(*active.GlobalTransform, tt.world)
		assert.InDelta(t, tt.x, x, 1e-3)
		assert.InDelta(t, tt.y, y, 1e-3)
	}
}

func TestResizeCamera(t *testing.T) {
	storage := newStorage()
	assert.ErrorIs(t, scene.ResizeCamera(storage, 640, 480), scene.ErrNoCamera)

	_, err := scene.SetupCamera(storage, 800, 600)
	require.NoError(t, err)
	require.NoError(t, scene.ResizeCamera(storage, 640, 480))

	active := scene.ActiveCameraOf(storage)
	x, y := active.Camera.WorldToScreen(*active.GlobalTransform, mgl32.Vec3{320, 240, 0})
	assert.InDelta(t, 320, x, 1e-3)
	assert.InDelta(t, 240, y, 1e-3)

	assert.ErrorIs(t, scene.ResizeCamera(storage, 0, 480), scene.ErrInvalidViewport)

	cam := scene.ActiveCameraOf(storage)
	require.NotNil(t, cam)
	var id ecs.EntityId
	for camID := range ecs.NewView[scene.CameraView](storage).Iter() {
		id = camID
	}
	storage.Delete(id)
	assert.ErrorIs(t, scene.ResizeCamera(storage, 640, 480), scene.ErrNoCamera, "deleted camera")
}

func TestTransformMatrix(t *testing.T) {
	tr := scene.NewTransform(10, 20, 0)
	tr.Scale = mgl32.Vec3{2, 2, 1}

	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 1, 0}, tr.Matrix())
	assert.True(t, p.ApproxEqual(mgl32.Vec3{12, 22, 0}), "got %v", p)
	assert.Equal(t, mgl32.Vec3{10, 20, 0}, scene.GlobalTransform{Matrix: tr.Matrix()}.Translation())
}
