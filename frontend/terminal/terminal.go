// Package terminal runs the game inside a terminal using tcell, drawing
// circles as blocks of coloured cells and reading clicks from the mouse.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/plus3/circles/audio"
	"github.com/plus3/circles/frontend/scene"
	"github.com/plus3/circles/game"
)

// FrameInterval is the tick rate of Run.
const FrameInterval = time.Second / 60

// Terminal drives a world from terminal events.
type Terminal struct {
	screen  tcell.Screen
	world   *game.World
	builder *scene.Builder
	canvas  *canvas
	player  audio.Player
	logger  *log.Logger

	down  bool
	debug bool
}

// New wraps an initialised screen. A nil player is treated as muted.
func New(screen tcell.Screen, w *game.World, player audio.Player) *Terminal {
	if player == nil {
		player = audio.Mute{}
	}
	cols, rows := screen.Size()
	screen.EnableMouse()
	return &Terminal{
		screen:  screen,
		world:   w,
		builder: scene.NewBuilder(w.Storage),
		canvas:  newCanvas(cols, rows, *w.Viewport()),
		player:  player,
		logger:  w.Logger(),
	}
}

// Open creates and initialises the default terminal screen.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: init: %w", err)
	}
	return screen, nil
}

// Run ticks the world until the context ends or the player quits. The screen
// is finalised on return.
func (t *Terminal) Run(ctx context.Context) error {
	defer t.screen.Fini()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || !t.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			t.Step(FrameInterval.Seconds())
		}
	}
}

// SetDebug toggles a status line with world statistics on the bottom row.
func (t *Terminal) SetDebug(on bool) {
	t.debug = on
}

// HandleEvent applies a terminal event to the world input. It returns false
// when the player asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		p := t.CellToWorld(col, row)
		down := ev.Buttons()&tcell.Button1 != 0
		input := t.world.Input()
		if down && !t.down {
			input.Press(p)
		} else {
			input.Move(p)
		}
		input.Down = down
		t.down = down
	case *tcell.EventResize:
		cols, rows := t.screen.Size()
		t.canvas.resize(cols, rows, *t.world.Viewport())
		t.logger.Debug("terminal resized", "cols", cols, "rows", rows)
		t.screen.Sync()
	}
	return true
}

// Step advances the world by dt seconds, plays queued sounds and redraws.
func (t *Terminal) Step(dt float64) {
	t.world.Update(dt)
	audio.PlayAll(t.player, t.world.DrainSounds())
	t.Draw()
}

// Draw renders the current world to the screen.
func (t *Terminal) Draw() {
	vp := *t.world.Viewport()
	t.canvas.clear(t.world.Settings().ClearColor)
	t.canvas.draw(t.builder.Build(vp))

	if t.world.State().Is(game.StatePlay) {
		s := t.world.Session()
		t.canvas.line(0, fmt.Sprintf(" Score: %d  Time: %.1fs ", s.Score, s.Elapsed), game.RGB(1, 1, 1))
	}
	if t.debug {
		status := fmt.Sprintf(" %s  entities %d  archetypes %d ",
			t.world.State().Current, t.world.Storage.EntityCount(), len(t.world.Storage.Archetypes()))
		t.canvas.line(t.canvas.rows-1, status, game.RGB(1, 1, 1))
	}

	t.canvas.flush(t.screen)
	t.screen.Show()
}

// CellToWorld maps the centre of a terminal cell to world coordinates.
func (t *Terminal) CellToWorld(col, row int) game.Vec2 {
	x, y := t.canvas.cellCenter(col, row)
	return t.world.Viewport().ToWorld(x, y)
}
