package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprites/ecs"
)

// ComponentInspector shows every component of the selected entity and edits
// its numeric and boolean fields in place. Edits to Transform move a sprite
// on the next frame; Material.Sprite is overwritten by the sampler while the
// sprite's animation runs, so pause it first.
type ComponentInspector struct {
	selection *ecs.Singleton[SelectedEntity]
}

func NewComponentInspector(storage *ecs.Storage) *ComponentInspector {
	return &ComponentInspector{selection: ecs.NewSingleton[SelectedEntity](storage)}
}

// Component is one component of the inspected entity. Value is addressable
// and aliases storage.
type Component struct {
	Type  reflect.Type
	Value reflect.Value
}

// Components returns the selected entity's components in archetype order, or
// nil if nothing is selected or the entity no longer exists.
func (ci *ComponentInspector) Components(storage *ecs.Storage) []Component {
	id := ci.selection.Get().ID
	if id == 0 {
		return nil
	}
	archetype := storage.GetArchetypeById(id.ArchetypeId())
	if archetype == nil {
		return nil
	}

	var out []Component
	for _, t := range archetype.Types() {
		c := storage.GetComponent(id, t)
		if c == nil {
			continue
		}
		v := reflect.ValueOf(c)
		if v.Kind() == reflect.Pointer {
			v = v.Elem()
		}
		out = append(out, Component{Type: t, Value: v})
	}
	return out
}

// setNumber stores x in v, converting to v's kind. It reports false for
// kinds it does not edit, unsettable values and negative unsigned input.
func setNumber(v reflect.Value, x float64) bool {
	if !v.CanSet() {
		return false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(x))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if x < 0 {
			return false
		}
		v.SetUint(uint64(x))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(x)
	default:
		return false
	}
	return true
}

func (ci *ComponentInspector) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(440, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 270), imgui.CondOnce)
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	id := ci.selection.Get().ID
	components := ci.Components(storage)
	switch {
	case id == 0:
		imgui.Text("No entity selected")
	case components == nil:
		imgui.Text(fmt.Sprintf("Entity %s no longer exists", id))
	default:
		imgui.Text(fmt.Sprintf("Entity %s", id))
		imgui.Separator()
		for _, c := range components {
			if imgui.TreeNodeStr(c.Type.String()) {
				renderStruct(c.Type.Name(), c.Value)
				imgui.TreePop()
			}
		}
	}

	imgui.End()
}

func renderStruct(path string, v reflect.Value) {
	for _, f := range componentFields.get(v.Type()) {
		renderField(path+"."+f.Name, f.Name, v.Field(f.Index), f.Shared)
	}
}

func renderField(path, name string, v reflect.Value, shared bool) {
	if shared {
		switch v.Kind() {
		case reflect.Slice, reflect.Map:
			imgui.Text(fmt.Sprintf("%s: %d items", name, v.Len()))
		default:
			if v.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", name))
			} else {
				imgui.Text(fmt.Sprintf("%s: shared %s", name, v.Type()))
			}
		}
		return
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n int32
		if v.CanInt() {
			n = int32(v.Int())
		} else {
			n = int32(v.Uint())
		}
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("%s##%s", name, path), &n) {
			setNumber(v, float64(n))
		}

	case reflect.Float32, reflect.Float64:
		f := float32(v.Float())
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("%s##%s", name, path), &f) {
			setNumber(v, float64(f))
		}

	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(fmt.Sprintf("%s##%s", name, path), &b) {
			v.SetBool(b)
		}

	case reflect.Array:
		// Vectors are edited per component; matrices are only shown.
		if v.Len() > 4 {
			imgui.Text(fmt.Sprintf("%s: %v", name, v.Interface()))
			return
		}
		if imgui.TreeNodeStr(fmt.Sprintf("%s##%s", name, path)) {
			for i := range v.Len() {
				renderField(fmt.Sprintf("%s[%d]", path, i), fmt.Sprintf("[%d]", i), v.Index(i), false)
			}
			imgui.TreePop()
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(fmt.Sprintf("%s##%s", name, path)) {
			renderStruct(path, v)
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, v.Interface()))
	}
}
