package debugui

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/scene"
)

// Component sets of the views the frame runs, offered as presets.
var queryPresets = []struct {
	name  string
	types []reflect.Type
}{
	{"drawn", []reflect.Type{
		reflect.TypeFor[scene.GlobalTransform](),
		reflect.TypeFor[scene.MeshRef](),
		reflect.TypeFor[scene.Material](),
	}},
	{"animated", []reflect.Type{
		reflect.TypeFor[anim.Set](),
		reflect.TypeFor[scene.Material](),
	}},
	{"camera", []reflect.Type{
		reflect.TypeFor[scene.Camera](),
		reflect.TypeFor[scene.GlobalTransform](),
	}},
}

// QueryMatch is the result of matching a component set against storage.
type QueryMatch struct {
	Archetypes []*ecs.Archetype
	Entities   int
}

// QueryDebugger shows which archetypes, and how many entities, a set of
// component types would match.
type QueryDebugger struct {
	types          []reflect.Type
	archetypeCount int
	selected       map[reflect.Type]bool
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{
		archetypeCount: -1,
		selected:       make(map[reflect.Type]bool),
	}
}

// Types returns every component type present in storage, ordered by name.
func (qd *QueryDebugger) Types(storage *ecs.Storage) []reflect.Type {
	archetypes := storage.GetArchetypes()
	if len(archetypes) == qd.archetypeCount {
		return qd.types
	}
	qd.archetypeCount = len(archetypes)

	seen := make(map[reflect.Type]bool)
	qd.types = qd.types[:0]
	for _, a := range archetypes {
		for _, t := range a.Types() {
			if !seen[t] {
				seen[t] = true
				qd.types = append(qd.types, t)
			}
		}
	}
	slices.SortFunc(qd.types, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
	return qd.types
}

func (qd *QueryDebugger) Toggle(t reflect.Type) {
	if qd.selected[t] {
		delete(qd.selected, t)
	} else {
		qd.selected[t] = true
	}
}

// Preset replaces the selection with the named preset. It reports false for
// unknown names.
func (qd *QueryDebugger) Preset(name string) bool {
	for _, p := range queryPresets {
		if p.name == name {
			clear(qd.selected)
			for _, t := range p.types {
				qd.selected[t] = true
			}
			return true
		}
	}
	return false
}

// Match returns the archetypes holding every selected type. An empty
// selection matches nothing.
func (qd *QueryDebugger) Match(storage *ecs.Storage) QueryMatch {
	var m QueryMatch
	if len(qd.selected) == 0 {
		return m
	}
	for _, a := range storage.GetArchetypes() {
		matches := true
		for t := range qd.selected {
			if !a.HasComponent(t) {
				matches = false
				break
			}
		}
		if matches {
			m.Archetypes = append(m.Archetypes, a)
			m.Entities += a.Len()
		}
	}
	slices.SortFunc(m.Archetypes, func(a, b *ecs.Archetype) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return m
}

func (qd *QueryDebugger) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(790, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 270), imgui.CondOnce)
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for i, p := range queryPresets {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.Button(p.name) {
			qd.Preset(p.name)
		}
	}
	imgui.SameLine()
	if imgui.Button("Clear") {
		clear(qd.selected)
	}
	imgui.Separator()

	for _, t := range qd.Types(storage) {
		on := qd.selected[t]
		if imgui.Checkbox(t.String(), &on) {
			qd.Toggle(t)
		}
	}
	imgui.Separator()

	if len(qd.selected) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	m := qd.Match(storage)
	imgui.Text(fmt.Sprintf("Matching archetypes: %d", len(m.Archetypes)))
	imgui.Text(fmt.Sprintf("Matching entities: %d", m.Entities))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if len(m.Archetypes) > 0 && imgui.BeginTableV("QueryArchTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()
		for _, a := range m.Archetypes {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", a.ID()))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", a.Len()))
		}
		imgui.EndTable()
	}

	imgui.End()
}
