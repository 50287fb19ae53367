package game

import "github.com/plus3/circles/ecs"

// Transform places an entity in world space. Z orders drawing, higher on top.
type Transform struct {
	Position Vec2
	Scale    float64
	Z        float64
}

// Circle is drawn with radius Radius*Transform.Scale.
type Circle struct {
	Radius float64
	Color  Color
}

// Shrinking marks a circle that decays every tick.
type Shrinking struct{}

// Clickable marks a circle that can be hit for score.
type Clickable struct{}

// Menu marks entities owned by the main menu or the game-over overlay.
type Menu struct{}

// Temporary is attached to short-lived notifications.
type Temporary struct {
	Timer Timer
	Alive bool
}

// Text is a single line of text centred on its Transform.
type Text struct {
	Value string
	Color Color
	Size  float64
}

// Rect is a filled rectangle centred on its Transform.
type Rect struct {
	Size  Vec2
	Color Color
}

// UINode is a rectangular, hit-testable UI element centred on its Transform.
type UINode struct {
	Size Vec2
	Fill Color
}

// ButtonAction is what happens when a button is clicked.
type ButtonAction int

const (
	ActionPlay ButtonAction = iota
	ActionDifficulty
	ActionRetry
	ActionMenu
)

func (a ButtonAction) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionDifficulty:
		return "difficulty"
	case ActionRetry:
		return "retry"
	case ActionMenu:
		return "menu"
	}
	return "unknown"
}

// Button is a clickable UINode with a label.
type Button struct {
	Action    ButtonAction
	Label     string
	TextColor Color
	TextSize  float64
	Normal    Color
	Hovered   Color
}

// Interaction is the pointer state of a UINode for the current frame.
type Interaction int

const (
	InteractionNone Interaction = iota
	InteractionHovered
	InteractionClicked
)

func (i Interaction) String() string {
	switch i {
	case InteractionHovered:
		return "hovered"
	case InteractionClicked:
		return "clicked"
	}
	return "none"
}

// RegisterComponents registers every component type the game spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Circle](registry)
	ecs.RegisterComponent[Shrinking](registry)
	ecs.RegisterComponent[Clickable](registry)
	ecs.RegisterComponent[Menu](registry)
	ecs.RegisterComponent[Temporary](registry)
	ecs.RegisterComponent[Text](registry)
	ecs.RegisterComponent[Rect](registry)
	ecs.RegisterComponent[UINode](registry)
	ecs.RegisterComponent[Button](registry)
	ecs.RegisterComponent[Interaction](registry)
}
