package main

import (
	"math/rand/v2"

	"github.com/plus3/circles/ecs"
	"github.com/plus3/circles/game"
)

// Button positions of the menus, in world coordinates.
var (
	playButton  = game.Vec2{X: 0, Y: 0}
	retryButton = game.Vec2{X: 0, Y: -30}
)

// Bot plays a world by pressing menu buttons and clicking the circle closest
// to its cursor, deliberately missing now and then.
type Bot struct {
	world    *game.World
	circles  *ecs.Query[game.ClickableCircle]
	rng      *rand.Rand
	missRate float64
	every    int

	frame  int
	cursor game.Vec2

	Clicks int
	Aimed  int
	Missed int
	Menus  int
}

// NewBot returns a bot that acts once every `every` frames.
func NewBot(w *game.World, seed uint64, missRate float64, every int) *Bot {
	return &Bot{
		world:    w,
		circles:  ecs.NewQuery[game.ClickableCircle](w.Storage),
		rng:      rand.New(rand.NewPCG(seed, seed+1)),
		missRate: missRate,
		every:    max(every, 1),
	}
}

// Act feeds this frame's input to the world. Call it before World.Update.
func (b *Bot) Act() {
	b.frame++
	if b.frame%b.every != 0 {
		return
	}

	state := b.world.State()
	if _, pending := state.Pending(); pending {
		return
	}
	switch {
	case state.Is(game.StateMainMenu):
		b.press(playButton)
		b.Menus++
	case state.Is(game.StateGameOver):
		b.press(retryButton)
		b.Menus++
	case state.Is(game.StatePlay):
		b.play()
	}
}

func (b *Bot) play() {
	if b.rng.Float64() < b.missRate {
		if p, ok := b.emptySpot(); ok {
			b.press(p)
			b.Missed++
			b.Clicks++
		}
		return
	}

	target, ok := b.nearest()
	if !ok {
		return
	}
	b.press(target)
	b.Aimed++
	b.Clicks++
}

func (b *Bot) nearest() (game.Vec2, bool) {
	var best game.Vec2
	bestDist := -1.0
	for circle := range b.circles.Values() {
		d := circle.Position.Distance(b.cursor)
		if bestDist < 0 || d < bestDist {
			best, bestDist = circle.Position, d
		}
	}
	return best, bestDist >= 0
}

// emptySpot looks for a point on screen that no circle covers.
func (b *Bot) emptySpot() (game.Vec2, bool) {
	vp := b.world.Viewport()
	margin := b.world.Settings().HitMargin
	for range 8 {
		p := game.Vec2{
			X: (b.rng.Float64() - 0.5) * vp.Width,
			Y: (b.rng.Float64() - 0.5) * vp.Height,
		}
		if len(game.FindCirclesNear(b.circles, p, margin)) == 0 {
			return p, true
		}
	}
	return game.Vec2{}, false
}

func (b *Bot) press(p game.Vec2) {
	b.cursor = p
	b.world.Input().Press(p)
}
