package debugui

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/circles/ecs"
)

// EntityBrowser is a searchable, sortable table of every entity.
type EntityBrowser struct {
	rows          []EntityInfo
	version       uint64
	built         bool
	selected      *ecs.EntityRef
	filterText    string
	sortColumn    int
	sortAscending bool
	perPage       int
	page          int
}

func NewEntityBrowser(perPage int) *EntityBrowser {
	return &EntityBrowser{perPage: perPage, sortAscending: true}
}

// Selected returns the current id of the entity clicked last, or 0 once it
// has been deleted. The selection follows the entity when components are
// added or removed.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	if eb.selected == nil {
		return 0
	}
	return eb.selected.Id
}

// Select makes id the inspected entity.
func (eb *EntityBrowser) Select(storage *ecs.Storage, id ecs.EntityId) {
	eb.selected = storage.CreateEntityRef(id)
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !eb.built || eb.version != storage.Version() {
		eb.rows = CollectEntities(storage)
		SortEntities(eb.rows, eb.sortColumn, eb.sortAscending)
		eb.version = storage.Version()
		eb.built = true
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	rows := FilterEntities(eb.rows, eb.filterText)
	pages := max((len(rows)+eb.perPage-1)/eb.perPage, 1)
	eb.page = min(eb.page, pages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortEntities(eb.rows, eb.sortColumn, eb.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start := eb.page * eb.perPage
		end := min(start+eb.perPage, len(rows))
		for _, row := range rows[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.ID), eb.Selected() == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(storage, row.ID)
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.ArchetypeID))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.ComponentTypes, ", "))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.ComponentTypes)))
		}
		imgui.EndTable()
	}

	if pages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.page < pages-1 {
			eb.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(rows)))
	}

	imgui.End()
}

func renderInspector(storage *ecs.Storage, id ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if id.IsZero() {
		imgui.Text("No entity selected")
		return
	}
	if !storage.Alive(id) {
		imgui.Text(fmt.Sprintf("Entity %d is gone", id))
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", id.ArchetypeId()))
	imgui.Separator()

	for _, a := range storage.Archetypes() {
		if a.ID() != id.ArchetypeId() {
			continue
		}
		for _, t := range a.Types() {
			component := storage.GetComponent(id, t)
			if component == nil {
				continue
			}
			if imgui.TreeNodeStr(t.String()) {
				for _, f := range Fields(component) {
					renderField(f)
				}
				imgui.TreePop()
			}
		}
	}
}

func renderField(f Field) {
	label := "##" + f.Path
	v := f.Value
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		n := int32(toInt(v))
		imgui.Text(f.Path + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) {
			SetField(v, n)
		}
	case reflect.Float32, reflect.Float64:
		x := float32(v.Float())
		imgui.Text(f.Path + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &x) {
			SetField(v, x)
		}
	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(f.Path, &b) {
			SetField(v, b)
		}
	case reflect.String:
		s := v.String()
		imgui.Text(f.Path + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &s, imgui.InputTextFlagsNone, nil) {
			SetField(v, s)
		}
	case reflect.Slice, reflect.Map:
		imgui.Text(fmt.Sprintf("%s: [%d items]", f.Path, v.Len()))
	case reflect.Pointer:
		imgui.Text(f.Path + ": nil")
	default:
		imgui.Text(fmt.Sprintf("%s: %v", f.Path, v.Interface()))
	}
}

// StatsPanel shows storage and scheduler statistics with a frame time graph.
type StatsPanel struct {
	history []float32
	index   int
	last    time.Time
}

func NewStatsPanel(historyFrames int) *StatsPanel {
	return &StatsPanel{history: make([]float32, historyFrames)}
}

func (sp *StatsPanel) Render(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	now := time.Now()
	if !sp.last.IsZero() {
		sp.history[sp.index] = float32(now.Sub(sp.last).Seconds() * 1000)
		sp.index = (sp.index + 1) % len(sp.history)
	}
	sp.last = now

	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := storage.CollectStats()
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	var avg float32
	for _, ft := range sp.history {
		avg += ft
	}
	avg /= float32(len(sp.history))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &sp.history[0], int32(len(sp.history)))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, st := range scheduler.Stats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(st.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", st.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(st.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(st.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()
			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(strings.Join(arch.ComponentTypes, ", "))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
