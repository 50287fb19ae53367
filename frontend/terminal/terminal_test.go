package terminal

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/circles/game"
)

const frame = 1.0 / 60

func newTestTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(128, 36)

	w := game.NewWorld(game.Options{Seed: 3})
	return New(screen, w, nil), screen
}

func screenText(screen tcell.SimulationScreen) []string {
	cells, width, height := screen.GetContents()
	rows := make([]string, height)
	for y := range height {
		var b strings.Builder
		for x := range width {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		rows[y] = b.String()
	}
	return rows
}

func TestCellToWorld(t *testing.T) {
	term, _ := newTestTerminal(t)

	p := term.CellToWorld(63, 17)
	assert.InDelta(t, -5, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)

	p = term.CellToWorld(0, 0)
	assert.InDelta(t, -635, p.X, 1e-9)
	assert.InDelta(t, 350, p.Y, 1e-9)
}

func TestDrawsMainMenu(t *testing.T) {
	term, screen := newTestTerminal(t)
	term.Step(frame)

	rows := screenText(screen)
	assert.Contains(t, rows[10], "Circle Clicker")
	assert.Contains(t, rows[18], "Play")
	assert.Contains(t, strings.Join(rows, "\n"), "Mode: easy")
}

func TestClickPlayStartsGame(t *testing.T) {
	term, _ := newTestTerminal(t)
	term.Step(frame)

	assert.True(t, term.HandleEvent(tcell.NewEventMouse(64, 18, tcell.Button1, tcell.ModNone)))
	term.Step(frame)
	assert.True(t, term.HandleEvent(tcell.NewEventMouse(64, 18, tcell.ButtonNone, tcell.ModNone)))
	for range 4 {
		term.Step(frame)
	}

	assert.True(t, term.world.State().Is(game.StatePlay), "got %s", term.world.State().Current)
}

func TestHeldButtonPressesOnce(t *testing.T) {
	term, _ := newTestTerminal(t)
	input := term.world.Input()

	term.HandleEvent(tcell.NewEventMouse(10, 10, tcell.Button1, tcell.ModNone))
	assert.True(t, input.JustPressed)
	input.JustPressed = false

	term.HandleEvent(tcell.NewEventMouse(12, 10, tcell.Button1, tcell.ModNone))
	assert.False(t, input.JustPressed, "drag is not a new press")
	assert.Equal(t, term.CellToWorld(12, 10), input.Cursor)
}

func TestQuitKeys(t *testing.T) {
	term, _ := newTestTerminal(t)

	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
}

func TestBlendClampsAlpha(t *testing.T) {
	dst := game.RGB(0, 0, 0)
	assert.Equal(t, dst, blend(dst, game.RGBA(1, 1, 1, -0.5)))
	assert.Equal(t, game.RGB(1, 1, 1), blend(dst, game.RGBA(1, 1, 1, 2)))
}

func TestDebugStatusLine(t *testing.T) {
	term, screen := newTestTerminal(t)
	term.Step(frame)
	assert.NotContains(t, screenText(screen)[35], "entities")

	term.SetDebug(true)
	term.Draw()
	rows := screenText(screen)
	assert.Contains(t, rows[35], "main-menu")
	assert.Contains(t, rows[35], "entities ")
	assert.Contains(t, rows[35], "archetypes ")
}
