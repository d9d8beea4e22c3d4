package debugui

import "github.com/plus3/sprites/ecs"

// SpawnDebugUI spawns one ImguiItem per debug window. scheduler may be nil,
// in which case per-system timings are not shown.
func SpawnDebugUI(storage *ecs.Storage, scheduler *ecs.Scheduler) Windows {
	w := Windows{
		Performance: NewPerformanceWindow(120, scheduler),
		Archetypes:  NewArchetypeWindow(),
		Animations:  NewAnimationInspector(storage),
		Entities:    NewEntityBrowser(storage, 50),
		Components:  NewComponentInspector(storage),
		Queries:     NewQueryDebugger(),
	}
	storage.Spawn(ImguiItem{Render: func() { w.Performance.Render(storage) }})
	storage.Spawn(ImguiItem{Render: func() { w.Archetypes.Render(storage) }})
	storage.Spawn(ImguiItem{Render: w.Animations.Render})
	storage.Spawn(ImguiItem{Render: func() { w.Entities.Render(storage) }})
	storage.Spawn(ImguiItem{Render: func() { w.Components.Render(storage) }})
	storage.Spawn(ImguiItem{Render: func() { w.Queries.Render(storage) }})
	return w
}
