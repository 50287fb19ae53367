package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/circles/ecs"
	"github.com/plus3/circles/frontend/scene"
	"github.com/plus3/circles/game"
)

// Debug font glyph size.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// RenderSystem draws the scene onto the Screen singleton.
type RenderSystem struct {
	Screen   ecs.Singleton[Screen]
	Viewport ecs.Singleton[game.Viewport]
	State    ecs.Singleton[game.State]
	Session  ecs.Singleton[game.Session]

	settings *game.Settings
	builder  *scene.Builder
	labels   map[string]*ebiten.Image
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	if screen == nil {
		return
	}
	if s.builder == nil {
		s.builder = scene.NewBuilder(frame.Storage)
		s.labels = make(map[string]*ebiten.Image)
	}

	screen.Fill(s.settings.ClearColor.NRGBA())

	for _, item := range s.builder.Build(*s.Viewport.Get()) {
		switch item.Kind {
		case scene.KindCircle:
			vector.DrawFilledCircle(screen, float32(item.X), float32(item.Y), float32(item.Radius), item.Color.NRGBA(), true)
		case scene.KindRect:
			vector.DrawFilledRect(screen,
				float32(item.X-item.Width/2), float32(item.Y-item.Height/2),
				float32(item.Width), float32(item.Height),
				item.Color.NRGBA(), false)
		case scene.KindText:
			s.drawText(screen, item.Text, item.X, item.Y, item.TextSize, item.Color.NRGBA())
		}
	}

	if s.State.Get().Is(game.StatePlay) {
		session := s.Session.Get()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d  Time: %.1fs", session.Score, session.Elapsed), 8, 8)
	}
}

// drawText renders the debug font scaled to size pixels high, centred on
// (x, y).
func (s *RenderSystem) drawText(screen *ebiten.Image, text string, x, y, size float64, c color.Color) {
	if text == "" {
		return
	}
	img, ok := s.labels[text]
	if !ok {
		img = ebiten.NewImage(len(text)*glyphWidth, glyphHeight)
		ebitenutil.DebugPrint(img, text)
		s.labels[text] = img
	}

	scale := size / glyphHeight
	w := float64(img.Bounds().Dx()) * scale
	h := float64(img.Bounds().Dy()) * scale

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x-w/2, y-h/2)
	op.ColorScale.ScaleWithColor(c)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}
