package debugui

import "github.com/plus3/sprites/ecs"

// SelectedEntity is the singleton shared by the entity browser, which sets
// it, and the component inspector, which shows it. Zero means none.
type SelectedEntity struct {
	ID ecs.EntityId
}

// Windows are the debug windows spawned by SpawnDebugUI.
type Windows struct {
	Performance *PerformanceWindow
	Archetypes  *ArchetypeWindow
	Animations  *AnimationInspector
	Entities    *EntityBrowser
	Components  *ComponentInspector
	Queries     *QueryDebugger
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}
