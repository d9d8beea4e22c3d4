package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprites/ecs"
)

// Sort columns of the archetype table.
const (
	columnID = iota
	columnComponents
	columnComponentCount
	columnEntityCount
)

const maxListedEntities = 64

// ArchetypeWindow lists archetypes with their component sets and sizes.
// Selecting a row lists the ids of its entities.
type ArchetypeWindow struct {
	rows          []ecs.ArchetypeStats
	selected      *uint32
	sortColumn    int
	sortAscending bool
}

func NewArchetypeWindow() *ArchetypeWindow {
	return &ArchetypeWindow{sortColumn: columnEntityCount}
}

// Refresh reloads the rows from storage in the current sort order.
func (av *ArchetypeWindow) Refresh(storage *ecs.Storage) []ecs.ArchetypeStats {
	av.rows = storage.CollectStats().ArchetypeBreakdown
	sortArchetypes(av.rows, av.sortColumn, av.sortAscending)
	return av.rows
}

func (av *ArchetypeWindow) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 220), imgui.CondOnce)
	if !imgui.BeginV("Archetypes", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	av.Refresh(storage)

	maxEntityCount := 0
	for _, arch := range av.rows {
		maxEntityCount = max(maxEntityCount, arch.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 140), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			av.sortColumn = int(spec.ColumnIndex())
			av.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortArchetypes(av.rows, av.sortColumn, av.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, arch := range av.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := av.selected != nil && *av.selected == arch.ID
			if imgui.SelectableBoolV(fmt.Sprintf("0x%X", arch.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				id := arch.ID
				av.selected = &id
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(arch.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(arch.ComponentTypes)))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(arch.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}
		imgui.EndTable()
	}

	if av.selected != nil {
		if archetype := storage.GetArchetypeById(*av.selected); archetype != nil {
			imgui.Separator()
			ids := make([]string, 0, min(archetype.Len(), maxListedEntities))
			for id := range archetype.Iter() {
				if len(ids) == maxListedEntities {
					break
				}
				ids = append(ids, fmt.Sprintf("%d", id))
			}
			imgui.Text(fmt.Sprintf("Entities (%d): %s", archetype.Len(), strings.Join(ids, " ")))
		}
	}

	imgui.End()
}

func sortArchetypes(rows []ecs.ArchetypeStats, column int, ascending bool) {
	less := func(a, b ecs.ArchetypeStats) bool {
		switch column {
		case columnID:
			return a.ID < b.ID
		case columnComponents:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case columnComponentCount:
			return len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			return a.EntityCount < b.EntityCount
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}
