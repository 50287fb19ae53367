// Package desktop runs the game in an ebiten window with an optional Dear
// ImGui debug overlay.
package desktop

import (
	"errors"
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/circles/audio"
	"github.com/plus3/circles/ecs"
	"github.com/plus3/circles/ecs/debugui"
	debugui_ebiten "github.com/plus3/circles/ecs/debugui/ebiten"
	"github.com/plus3/circles/game"
)

// Options configure the window.
type Options struct {
	Title     string
	VSync     bool
	Resizable bool
	Debug     bool
	Audio     bool
	Volume    float64
	Logger    *log.Logger
}

// Screen holds the image being drawn this frame.
type Screen struct {
	Image *ebiten.Image
}

// Game implements ebiten.Game around a game.World.
type Game struct {
	world  *game.World
	render *ecs.Scheduler
	screen *ecs.Singleton[Screen]
	player audio.Player
	logger *log.Logger

	imgui      *ecs.Singleton[debugui_ebiten.ImguiBackend]
	imguiInput *ecs.Singleton[debugui.ImguiInputState]
}

// RegisterComponents registers the component types the desktop frontend
// adds to a world.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Screen](registry)
	debugui.RegisterComponents(registry)
	debugui_ebiten.RegisterComponents(registry)
}

// New builds the world described by gopts and wraps it for ebiten.
func New(gopts game.Options, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	register := gopts.Register
	gopts.Register = func(registry *ecs.ComponentRegistry) {
		RegisterComponents(registry)
		if register != nil {
			register(registry)
		}
	}
	if gopts.Logger == nil {
		gopts.Logger = opts.Logger
	}

	w := game.NewWorld(gopts)
	vp := w.Viewport()
	g := &Game{
		world:  w,
		screen: ecs.NewSingleton[Screen](w.Storage),
		logger: opts.Logger,
		player: audio.Mute{},
	}

	if opts.Debug {
		g.imgui = debugui_ebiten.New(w.Storage, opts.Title, int(vp.Width), int(vp.Height))
		debugui.Spawn(w.Storage, w.Scheduler, sessionWindow(w))
		g.imguiInput = ecs.NewSingleton[debugui.ImguiInputState](w.Storage)
		w.Scheduler.Register(&debugui.ImguiSystem{})
	} else {
		ebiten.SetWindowSize(int(vp.Width), int(vp.Height))
		ebiten.SetWindowTitle(opts.Title)
	}
	if opts.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetVsyncEnabled(opts.VSync)

	if opts.Audio {
		player, err := newEbitenPlayer(opts.Volume)
		if err != nil {
			g.logger.Warn("audio disabled", "err", err)
		} else {
			g.player = player
		}
	}

	g.render = ecs.NewScheduler(w.Storage)
	g.render.Register(&RenderSystem{settings: w.Settings()})
	return g, nil
}

// World returns the wrapped world.
func (g *Game) World() *game.World {
	return g.world
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	defer g.player.Close()
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("desktop: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.imgui != nil {
		g.imgui.Get().BeginFrame()
	}

	g.readInput()
	g.world.Update(1.0 / float64(ebiten.TPS()))

	if g.imgui != nil {
		g.imgui.Get().EndFrame()
	}

	audio.PlayAll(g.player, g.world.DrainSounds())
	return nil
}

func (g *Game) readInput() {
	input := g.world.Input()
	if g.imguiInput != nil && g.imguiInput.Get().WantCaptureMouse {
		input.CursorValid = false
		return
	}

	mx, my := ebiten.CursorPosition()
	p := g.world.Viewport().ToWorld(float64(mx), float64(my))
	input.Down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		input.Press(p)
		return
	}
	input.Move(p)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Get().Image = screen
	g.render.Once(0)

	if g.imgui != nil {
		g.imgui.Get().Draw(screen)
	}
}

// Layout keeps a fixed logical resolution so cursor positions map straight
// to the viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := g.world.Viewport()
	w, h := int(vp.Width), int(vp.Height)
	if g.imgui != nil {
		g.imgui.Get().Layout(w, h)
	}
	return w, h
}

func sessionWindow(w *game.World) func() {
	return func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
		if imgui.BeginV("Session", nil, 0) {
			s := w.Session()
			imgui.Text(fmt.Sprintf("State: %s", w.State().Current))
			imgui.Text(fmt.Sprintf("Difficulty: %s", s.Difficulty))
			imgui.Text(fmt.Sprintf("Score: %d (best %d)", s.Score, s.Best))
			imgui.Text(fmt.Sprintf("Hits/Misses/Expired: %d/%d/%d", s.Hits, s.Misses, s.Expired))
			imgui.Text(fmt.Sprintf("Accuracy: %.0f%%", s.Accuracy()*100))
			imgui.Text(fmt.Sprintf("Elapsed: %.1fs", s.Elapsed))
			imgui.Text(fmt.Sprintf("Run: %s", s.RunID))
		}
		imgui.End()
	}
}
