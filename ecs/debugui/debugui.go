// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/circles/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the debug UI component types.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// Spawn adds the standard debug windows to storage: an entity browser with a
// component inspector, and storage and scheduler statistics. Extra render
// functions get their own items.
func Spawn(storage *ecs.Storage, scheduler *ecs.Scheduler, extra ...func()) {
	ecs.NewSingleton[ImguiInputState](storage)

	browser := NewEntityBrowser(100)
	stats := NewStatsPanel(120)
	storage.Spawn(ImguiItem{Render: func() {
		browser.Render(storage)
		renderInspector(storage, browser.Selected())
	}})
	storage.Spawn(ImguiItem{Render: func() { stats.Render(storage, scheduler) }})
	for _, fn := range extra {
		storage.Spawn(ImguiItem{Render: fn})
	}
}
