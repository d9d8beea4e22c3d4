package anim

import "github.com/plus3/sprites/ecs"

// ControlSystem applies pending commands and advances every animation cursor
// by the frame's delta time. Register it before anything that reads the
// current sprite of an entity.
type ControlSystem struct {
	Sets ecs.Query[struct{ *Set }]
}

func (s *ControlSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Sets.Values() {
		item.Set.Step(frame.DeltaTime)
	}
}
