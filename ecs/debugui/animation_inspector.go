package debugui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprites/anim"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/scene"
)

type animated struct {
	*scene.SpriteSlot
	*scene.Material
	*anim.Set
}

// AnimationRow is one composed sprite as shown by the inspector.
type AnimationRow struct {
	Entity    ecs.EntityId
	Slot      int
	Variant   int
	Animation string
	State     anim.State
	Frame     int
	Sprite    int
}

// AnimationInspector lists composed sprites and their playback state, and
// issues playback commands to one or all of them.
type AnimationInspector struct {
	view *ecs.View[animated]
	rows []AnimationRow
}

func NewAnimationInspector(storage *ecs.Storage) *AnimationInspector {
	return &AnimationInspector{view: ecs.NewView[animated](storage)}
}

// Rows snapshots every composed sprite, ordered by slot.
func (ai *AnimationInspector) Rows() []AnimationRow {
	ai.rows = ai.rows[:0]
	for id, a := range ai.view.Iter() {
		row := AnimationRow{
			Entity:  id,
			Slot:    a.SpriteSlot.Index,
			Variant: a.SpriteSlot.Variant,
			Sprite:  a.Material.Sprite,
		}
		in := a.Set.Active()
		if in == nil && len(a.Set.Instances) > 0 {
			in = &a.Set.Instances[0]
		}
		if in != nil {
			row.Animation = in.Animation.Name
			row.State = in.State
			row.Frame = in.Cursor.Frame(in.Animation)
		}
		ai.rows = append(ai.rows, row)
	}
	slices.SortFunc(ai.rows, func(a, b AnimationRow) int {
		return cmp.Compare(a.Slot, b.Slot)
	})
	return ai.rows
}

// Command requests cmd on every instance of entity. It reports false if the
// entity has no animation set.
func (ai *AnimationInspector) Command(id ecs.EntityId, cmd anim.Command) bool {
	a := ai.view.Get(id)
	if a == nil {
		return false
	}
	a.Set.CommandAll(cmd)
	return true
}

// CommandAll requests cmd on every composed sprite.
func (ai *AnimationInspector) CommandAll(cmd anim.Command) {
	for a := range ai.view.Values() {
		a.Set.CommandAll(cmd)
	}
}

// VariantRate is the playback rate of one animation variant, read from the
// first composed sprite using it.
type VariantRate struct {
	Variant int
	Name    string
	Rate    float64
}

// VariantRates returns one entry per variant in use, ordered by variant.
func (ai *AnimationInspector) VariantRates() []VariantRate {
	var out []VariantRate
	seen := map[int]bool{}
	for a := range ai.view.Values() {
		v := a.SpriteSlot.Variant
		in := a.Set.Get(0)
		if seen[v] || in == nil {
			continue
		}
		seen[v] = true
		out = append(out, VariantRate{Variant: v, Name: in.Animation.Name, Rate: in.EffectiveRate()})
	}
	slices.SortFunc(out, func(a, b VariantRate) int {
		return cmp.Compare(a.Variant, b.Variant)
	})
	return out
}

// SetVariantRate retimes every sprite composed with variant so that it plays
// at rate. It returns how many instances changed.
func (ai *AnimationInspector) SetVariantRate(variant int, rate float64) int {
	changed := 0
	for a := range ai.view.Values() {
		if a.SpriteSlot.Variant != variant {
			continue
		}
		for i := range a.Set.Instances {
			if a.Set.Instances[i].Retime(rate) {
				changed++
			}
		}
	}
	return changed
}

var commandButtons = []anim.Command{anim.CommandStart, anim.CommandPause, anim.CommandStop}

func (ai *AnimationInspector) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(340, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(440, 300), imgui.CondOnce)
	if !imgui.BeginV("Animations", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("All:")
	for _, cmd := range commandButtons {
		imgui.SameLine()
		if imgui.Button(fmt.Sprintf("%s##all", cmd)) {
			ai.CommandAll(cmd)
		}
	}

	for _, vr := range ai.VariantRates() {
		rate := float32(vr.Rate)
		imgui.SetNextItemWidth(120)
		if imgui.InputFloat(fmt.Sprintf("rate %d (%s)", vr.Variant, vr.Name), &rate) && rate > 0 {
			ai.SetVariantRate(vr.Variant, float64(rate))
		}
	}

	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("AnimationTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Slot")
		imgui.TableSetupColumn("Animation")
		imgui.TableSetupColumn("State")
		imgui.TableSetupColumn("Frame")
		imgui.TableSetupColumn("Sprite")
		imgui.TableSetupColumn("")
		imgui.TableHeadersRow()

		for _, row := range ai.Rows() {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Slot))
			imgui.TableNextColumn()
			imgui.Text(row.Animation)
			imgui.TableNextColumn()
			imgui.Text(row.State.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Frame))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Sprite))
			imgui.TableNextColumn()
			for j, cmd := range commandButtons {
				if j > 0 {
					imgui.SameLine()
				}
				if imgui.Button(fmt.Sprintf("%s##%d", cmd, row.Entity)) {
					ai.Command(row.Entity, cmd)
				}
			}
		}
		imgui.EndTable()
	}

	imgui.End()
}
