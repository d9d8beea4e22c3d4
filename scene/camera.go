package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sprites/ecs"
)

const (
	cameraNear = 0.1
	cameraFar  = 100
	cameraZ    = 1
)

// SetupCamera spawns the orthographic camera covering vw x vh and makes it
// the active camera. Sprites sit at z=0, one unit in front of it.
func SetupCamera(storage *ecs.Storage, vw, vh float32) (ecs.EntityId, error) {
	if err := validViewport(vw, vh); err != nil {
		return 0, err
	}

	id := storage.Spawn(
		Camera{
			Width:      vw,
			Height:     vh,
			Projection: mgl32.Ortho(0, vw, vh, 0, cameraNear, cameraFar),
		},
		GlobalTransform{Matrix: mgl32.Translate3D(0, 0, cameraZ)},
	)
	storage.AddSingleton(ActiveCamera{Ref: storage.CreateEntityRef(id)})

	return id, nil
}

// ResizeCamera refits the active camera to a new viewport. It fails with
// ErrNoCamera if SetupCamera has not run or the camera was deleted.
func ResizeCamera(storage *ecs.Storage, vw, vh float32) error {
	if err := validViewport(vw, vh); err != nil {
		return err
	}

	cam := ActiveCameraOf(storage)
	if cam == nil {
		return ErrNoCamera
	}
	cam.Camera.Width, cam.Camera.Height = vw, vh
	cam.Camera.Projection = mgl32.Ortho(0, vw, vh, 0, cameraNear, cameraFar)
	return nil
}

// CameraView is the active camera's components.
type CameraView struct {
	*Camera
	*GlobalTransform
}

// ActiveCameraOf resolves the active camera, or nil if none was set up or
// its entity was deleted.
func ActiveCameraOf(storage *ecs.Storage) *CameraView {
	var active *ActiveCamera
	if !storage.ReadSingleton(&active) {
		return nil
	}
	return ecs.NewView[CameraView](storage).GetRef(active.Ref)
}
