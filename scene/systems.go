package scene

import (
	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/ecs"
)

// SamplerSystem binds each material to the current sprite of the entity's
// active animation. With no visible instance the material keeps its sprite.
type SamplerSystem struct {
	Sprites ecs.Query[struct {
		*anim.Set
		*Material
	}]
}

func (s *SamplerSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Sprites.Values() {
		if active := item.Set.Active(); active != nil {
			item.Material.Sprite = active.Sprite()
		}
	}
}

// TransformSystem copies local transforms into world matrices. Scenes are
// flat, so world equals local.
type TransformSystem struct {
	Transforms ecs.Query[struct {
		*Transform
		*GlobalTransform
	}]
}

func (s *TransformSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Transforms.Values() {
		item.GlobalTransform.Matrix = item.Transform.Matrix()
	}
}

// RegisterSystems registers the per-frame systems in the order the frame
// needs them: cursors advance, then materials sample them, then world
// matrices are rebuilt for drawing.
func RegisterSystems(scheduler *ecs.Scheduler) {
	scheduler.Register(&anim.ControlSystem{})
	scheduler.Register(&SamplerSystem{})
	scheduler.Register(&TransformSystem{})
}
