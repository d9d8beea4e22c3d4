package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sprites/ecs"
	"github.com/plus3/sprites/scene"
)

// Sort columns of the entity table.
const (
	entityColumnID = iota
	entityColumnSlot
	entityColumnArchetype
	entityColumnComponents
)

// EntityRow is one entity as listed by the browser. Slot is the row slot of
// a composed sprite and -1 for anything else, such as the camera.
type EntityRow struct {
	ID          ecs.EntityId
	ArchetypeID uint32
	Slot        int
	Components  []string
}

type browserKey struct {
	archetypes int
	entities   int
}

// EntityBrowser lists every entity, filtered by id, slot or component name.
// Clicking a row selects it for the component inspector.
type EntityBrowser struct {
	selection *ecs.Singleton[SelectedEntity]
	slots     *ecs.View[struct{ *scene.SpriteSlot }]

	rows          []EntityRow
	key           browserKey
	filter        string
	perPage       int
	page          int
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowser(storage *ecs.Storage, perPage int) *EntityBrowser {
	return &EntityBrowser{
		selection:     ecs.NewSingleton[SelectedEntity](storage),
		slots:         ecs.NewView[struct{ *scene.SpriteSlot }](storage),
		perPage:       perPage,
		sortColumn:    entityColumnSlot,
		sortAscending: true,
	}
}

// Refresh rebuilds the rows when the number of archetypes or entities
// changed since the last call, and returns them.
func (eb *EntityBrowser) Refresh(storage *ecs.Storage) []EntityRow {
	archetypes := storage.GetArchetypes()
	key := browserKey{archetypes: len(archetypes)}
	for _, a := range archetypes {
		key.entities += a.Len()
	}
	if eb.rows != nil && key == eb.key {
		return eb.rows
	}
	eb.key = key

	eb.rows = make([]EntityRow, 0, key.entities)
	for _, a := range archetypes {
		names := make([]string, len(a.Types()))
		for i, t := range a.Types() {
			names[i] = t.Name()
		}
		for id := range a.Iter() {
			row := EntityRow{ID: id, ArchetypeID: a.ID(), Slot: -1, Components: names}
			if s := eb.slots.Get(id); s != nil {
				row.Slot = s.SpriteSlot.Index
			}
			eb.rows = append(eb.rows, row)
		}
	}
	sortEntityRows(eb.rows, eb.sortColumn, eb.sortAscending)
	return eb.rows
}

func sortEntityRows(rows []EntityRow, column int, ascending bool) {
	compare := func(a, b EntityRow) int {
		switch column {
		case entityColumnSlot:
			if c := cmp.Compare(a.Slot, b.Slot); c != 0 {
				return c
			}
		case entityColumnArchetype:
			if c := cmp.Compare(a.ArchetypeID, b.ArchetypeID); c != 0 {
				return c
			}
		case entityColumnComponents:
			if c := cmp.Compare(len(a.Components), len(b.Components)); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	}
	slices.SortStableFunc(rows, func(a, b EntityRow) int {
		if ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
}

// Filtered returns the rows matching the filter text. The text matches the
// entity id, its slot or any component name, case-insensitively.
func (eb *EntityBrowser) Filtered() []EntityRow {
	if eb.filter == "" {
		return eb.rows
	}
	needle := strings.ToLower(eb.filter)
	var out []EntityRow
	for _, row := range eb.rows {
		if strings.Contains(row.ID.String(), needle) ||
			(row.Slot >= 0 && fmt.Sprintf("slot %d", row.Slot) == needle) ||
			strings.Contains(strings.ToLower(strings.Join(row.Components, " ")), needle) {
			out = append(out, row)
		}
	}
	return out
}

func (eb *EntityBrowser) SetFilter(text string) {
	eb.filter = text
	eb.page = 0
}

// Select makes id the entity shown by the component inspector.
func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selection.Get().ID = id
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(790, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 300), imgui.CondOnce)
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(storage)

	filter := eb.filter
	if imgui.InputTextWithHint("##filter", "id, \"slot 3\" or component", &filter, imgui.InputTextFlagsNone, nil) {
		eb.SetFilter(filter)
	}
	imgui.SameLine()
	if imgui.Button("Clear") {
		eb.SetFilter("")
	}

	rows := eb.Filtered()
	pages := max(1, (len(rows)+eb.perPage-1)/eb.perPage)
	eb.page = min(eb.page, pages-1)
	selected := eb.selection.Get().ID

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Slot")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntityRows(eb.rows, eb.sortColumn, eb.sortAscending)
			rows = eb.Filtered()
			sortSpecs.SetSpecsDirty(false)
		}

		start := eb.page * eb.perPage
		for _, row := range rows[start:min(start+eb.perPage, len(rows))] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(row.ID.String(), row.ID == selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(row.ID)
			}
			imgui.TableNextColumn()
			if row.Slot >= 0 {
				imgui.Text(fmt.Sprintf("%d", row.Slot))
			} else {
				imgui.Text("-")
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.ArchetypeID))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))
		}
		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(rows)))
	imgui.SameLine()
	if imgui.Button("Prev") && eb.page > 0 {
		eb.page--
	}
	imgui.SameLine()
	if imgui.Button("Next") && eb.page < pages-1 {
		eb.page++
	}

	imgui.End()
}
