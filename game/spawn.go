package game

import (
	"strconv"

	"github.com/plus3/circles/ecs"
)

// Draw layers.
const (
	LayerCircles      = 0
	LayerNotification = 5
	LayerBackdrop     = 10
	LayerUI           = 20
)

var (
	buttonNormal  = RGB(0.15, 0.15, 0.15)
	buttonHovered = RGB(0.25, 0.25, 0.25)
	buttonText    = MustHex("ffe9ba")
	backdropColor = RGBA(0.1, 0.1, 0.1, 0.4)
	gainColor     = MustHex("8cff9e")
	lossColor     = MustHex("ff7b7b")

	buttonSize = Vec2{X: 150, Y: 65}
	wideButton = Vec2{X: 260, Y: 65}
)

const (
	buttonTextSize       = 40
	titleTextSize        = 64
	notificationTextSize = 32
)

// spawner queues entity spawns for the systems. It is shared by every system
// that creates circles or UI so they lay things out the same way.
type spawner struct {
	settings *Settings
	viewport *Viewport
	rng      Rand
}

// circle queues one shrinking circle at a random position and, with the
// preset's extra chance, recursively a few more.
func (s *spawner) circle(cmd *ecs.Commands, clickable bool, depth int) {
	d := s.settings.Current()
	scale := s.rng.Range(d.MinScale, d.MaxScale)

	margin := s.settings.CircleRadius * d.MaxScale
	halfW := max(s.viewport.Width/2-margin, 0)
	halfH := max(s.viewport.Height/2-margin, 0)
	pos := Vec2{X: s.rng.Range(-halfW, halfW), Y: s.rng.Range(-halfH, halfH)}

	palette := s.settings.CirclePalette
	color := palette[s.rng.IntN(len(palette))]

	components := []any{
		Transform{Position: pos, Scale: scale, Z: LayerCircles},
		Circle{Radius: s.settings.CircleRadius, Color: color},
		Shrinking{},
	}
	if clickable {
		components = append(components, Clickable{})
	}
	cmd.Spawn(components...)

	if depth < d.MaxExtra && s.rng.Float64() < d.ExtraChance {
		s.circle(cmd, clickable, depth+1)
	}
}

// notification queues a fading "+n" or "-n" label at pos.
func (s *spawner) notification(cmd *ecs.Commands, delta int, pos Vec2) {
	value := strconv.Itoa(delta)
	color := lossColor
	if delta > 0 {
		value = "+" + value
		color = gainColor
	}
	cmd.Spawn(
		Transform{Position: pos, Scale: 1, Z: LayerNotification},
		Text{Value: value, Color: color, Size: notificationTextSize},
		Temporary{Timer: NewTimer(s.settings.NotificationTTL, false), Alive: true},
	)
}

func (s *spawner) button(cmd *ecs.Commands, action ButtonAction, label string, pos, size Vec2) {
	cmd.Spawn(
		Transform{Position: pos, Scale: 1, Z: LayerUI},
		UINode{Size: size, Fill: buttonNormal},
		Button{
			Action:    action,
			Label:     label,
			TextColor: buttonText,
			TextSize:  buttonTextSize,
			Normal:    buttonNormal,
			Hovered:   buttonHovered,
		},
		InteractionNone,
		Menu{},
	)
}

func (s *spawner) label(cmd *ecs.Commands, value string, pos Vec2, size float64) {
	cmd.Spawn(
		Transform{Position: pos, Scale: 1, Z: LayerUI},
		Text{Value: value, Color: buttonText, Size: size},
		Menu{},
	)
}

func (s *spawner) backdrop(cmd *ecs.Commands) {
	cmd.Spawn(
		Transform{Scale: 1, Z: LayerBackdrop},
		Rect{Size: Vec2{X: 2000, Y: 2000}, Color: backdropColor},
		Menu{},
	)
}

// mainMenu queues the title screen.
func (s *spawner) mainMenu(cmd *ecs.Commands) {
	s.backdrop(cmd)
	s.label(cmd, "Circle Clicker", Vec2{Y: 160}, titleTextSize)
	s.button(cmd, ActionPlay, "Play", Vec2{}, buttonSize)
	s.button(cmd, ActionDifficulty, difficultyLabel(s.settings.Current().Name), Vec2{Y: -90}, wideButton)
}

// gameOver queues the results overlay.
func (s *spawner) gameOver(cmd *ecs.Commands, session *Session) {
	s.backdrop(cmd)
	s.label(cmd, "Game Over", Vec2{Y: 180}, titleTextSize)
	s.label(cmd, "Score "+strconv.Itoa(session.Score), Vec2{Y: 100}, buttonTextSize)
	if session.HasBest {
		s.label(cmd, "Best "+strconv.Itoa(session.Best), Vec2{Y: 50}, buttonTextSize)
	}
	s.button(cmd, ActionRetry, "Retry", Vec2{Y: -30}, buttonSize)
	s.button(cmd, ActionMenu, "Menu", Vec2{Y: -120}, buttonSize)
}

func difficultyLabel(name string) string {
	return "Mode: " + name
}
