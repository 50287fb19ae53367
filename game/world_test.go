package game

import (
	"math"
	"testing"

	"github.com/plus3/circles/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameDelta = 1.0 / 60

func newTestWorld(t *testing.T) (*World, *MemoryRecorder) {
	t.Helper()
	recorder := &MemoryRecorder{}
	w := NewWorld(Options{Seed: 7, Recorder: recorder})
	return w, recorder
}

func step(w *World, frames int) {
	for range frames {
		w.Update(frameDelta)
	}
}

func menuCount(w *World) int {
	return ecs.NewQuery[menuEntity](w.Storage).Len()
}

func clickableCount(w *World) int {
	return ecs.NewQuery[ClickableCircle](w.Storage).Len()
}

// startPlay presses the Play button and runs the world into the Play state.
func startPlay(t *testing.T, w *World) {
	t.Helper()
	step(w, 1)
	w.Input().Press(Vec2{})
	step(w, 1)
	step(w, 3)
	require.True(t, w.State().Is(StatePlay), "expected play, got %s", w.State().Current)
}

func TestWorldStartsInMainMenu(t *testing.T) {
	w, _ := newTestWorld(t)
	step(w, 1)

	assert.True(t, w.State().Is(StateMainMenu))
	assert.Equal(t, 4, menuCount(w), "backdrop, title and two buttons")
}

func TestMenuCirclesDoNotScore(t *testing.T) {
	w, _ := newTestWorld(t)
	step(w, 5*60)

	assert.Equal(t, 0, w.Session().Score)
	assert.Zero(t, clickableCount(w))
	assert.Positive(t, ecs.NewQuery[struct{ *Shrinking }](w.Storage).Len())
	assert.Empty(t, w.DrainSounds())
}

func TestPlayButtonStartsRun(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)

	assert.Zero(t, menuCount(w))
	assert.False(t, w.SpawnTimer().Repeating)
	assert.NotEmpty(t, w.Session().RunID)
	assert.Equal(t, 1, w.Session().Games)

	step(w, 30)
	assert.Positive(t, clickableCount(w))
	assert.True(t, w.Session().WaveSpawned)
}

func TestClickHitScores(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)
	step(w, 30)
	w.DrainSounds()

	id, circle, ok := ecs.NewQuery[ClickableCircle](w.Storage).First()
	require.True(t, ok)

	w.Input().Press(circle.Position)
	step(w, 1)

	assert.Equal(t, 1, w.Session().Score)
	assert.Equal(t, 1, w.Session().Hits)
	assert.False(t, w.Storage.Alive(id))
	assert.Positive(t, clickableCount(w), "a replacement is spawned")
	assert.Contains(t, w.DrainSounds(), SoundHit)

	texts := ecs.NewQuery[fadingText](w.Storage)
	_, text, ok := texts.First()
	require.True(t, ok)
	assert.Equal(t, "+1", text.Value)
}

func TestClickMissCosts(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)
	step(w, 30)
	w.DrainSounds()

	// Circles keep their full radius inside the viewport, so the corner is
	// never covered.
	corner := Vec2{X: 639, Y: 359}
	require.Empty(t, FindCirclesNear(ecs.NewQuery[ClickableCircle](w.Storage), corner, 1))

	w.Input().Press(corner)
	step(w, 1)

	assert.Equal(t, -1, w.Session().Score)
	assert.Equal(t, 1, w.Session().Misses)
	assert.Equal(t, []Sound{SoundMiss}, w.DrainSounds())
}

func TestNotificationsFadeOut(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)
	step(w, 30)

	w.Input().Press(Vec2{X: 639, Y: 359})
	step(w, 1)
	texts := ecs.NewQuery[fadingText](w.Storage)
	require.Equal(t, 1, texts.Len())

	_, text, _ := texts.First()
	before := text.Color.A
	step(w, 10)
	assert.Less(t, text.Color.A, before)

	step(w, 60)
	assert.Zero(t, texts.Len())
}

func TestExpiryEndsGame(t *testing.T) {
	w, recorder := newTestWorld(t)
	startPlay(t, w)

	for range 20 * 60 {
		if w.State().Is(StateGameOver) {
			break
		}
		step(w, 1)
	}
	require.True(t, w.State().Is(StateGameOver))
	step(w, 1)

	session := w.Session()
	assert.Positive(t, session.Expired)
	assert.Equal(t, -session.Expired, session.Score)
	assert.Positive(t, session.Elapsed)

	require.Len(t, recorder.Results, 1)
	assert.Equal(t, session.Score, recorder.Results[0].Score)
	assert.Equal(t, session.RunID, recorder.Results[0].RunID)
	assert.True(t, session.HasBest)
	assert.Equal(t, session.Score, session.Best)

	assert.Contains(t, w.DrainSounds(), SoundGameOver)
	assert.Positive(t, menuCount(w), "game over overlay")
}

func playUntilGameOver(t *testing.T, w *World) {
	t.Helper()
	for range 20 * 60 {
		if w.State().Is(StateGameOver) {
			step(w, 1)
			return
		}
		step(w, 1)
	}
	t.Fatal("game never ended")
}

func TestRetryStartsNewRun(t *testing.T) {
	w, recorder := newTestWorld(t)
	startPlay(t, w)
	playUntilGameOver(t, w)
	first := w.Session().RunID

	w.Input().Press(Vec2{Y: -30})
	step(w, 4)

	require.True(t, w.State().Is(StatePlay))
	assert.NotEqual(t, first, w.Session().RunID)
	assert.Equal(t, 2, w.Session().Games)
	assert.Zero(t, w.Session().Score)
	assert.True(t, w.Session().HasBest)
	assert.Zero(t, menuCount(w))

	playUntilGameOver(t, w)
	assert.Len(t, recorder.Results, 2)
}

func TestMenuButtonReturnsToMainMenu(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)
	playUntilGameOver(t, w)

	w.Input().Press(Vec2{Y: -120})
	step(w, 2)

	assert.True(t, w.State().Is(StateMainMenu))
	assert.Equal(t, 4, menuCount(w))
	assert.True(t, w.SpawnTimer().Repeating)
}

func TestDifficultyButtonCycles(t *testing.T) {
	w, _ := newTestWorld(t)
	step(w, 1)

	w.Input().Press(Vec2{Y: -90})
	step(w, 1)
	assert.Equal(t, "hard", w.Settings().Difficulty)
	assert.Equal(t, "hard", w.Session().Difficulty)

	buttons := ecs.NewQuery[buttonNode](w.Storage)
	var labels []string
	for b := range buttons.Values() {
		labels = append(labels, b.Label)
	}
	assert.Contains(t, labels, "Mode: hard")

	w.Input().Press(Vec2{Y: -90})
	step(w, 1)
	assert.Equal(t, "easy", w.Settings().Difficulty)
}

func TestButtonHover(t *testing.T) {
	w, _ := newTestWorld(t)
	step(w, 1)

	w.Input().Move(Vec2{})
	step(w, 1)

	buttons := ecs.NewQuery[buttonNode](w.Storage)
	for b := range buttons.Values() {
		if b.Action == ActionPlay {
			assert.Equal(t, InteractionHovered, *b.Interaction)
			assert.Equal(t, buttonHovered, b.Fill)
		} else {
			assert.Equal(t, buttonNormal, b.Fill)
		}
	}
}

func TestSeededWorldsMatch(t *testing.T) {
	a := NewWorld(Options{Seed: 42})
	b := NewWorld(Options{Seed: 42})
	step(a, 120)
	step(b, 120)

	positions := func(w *World) []Vec2 {
		var out []Vec2
		for c := range ecs.NewQuery[shrinkingCircle](w.Storage).Values() {
			out = append(out, c.Position)
		}
		return out
	}
	assert.Equal(t, positions(a), positions(b))
}

func newWorldWithSettings(t *testing.T, tune func(s *Settings)) *World {
	t.Helper()
	settings := DefaultSettings()
	tune(&settings)
	require.NoError(t, settings.Validate())
	return NewWorld(Options{Seed: 7, Settings: settings})
}

func TestSpawnStopsAboveMaxCircles(t *testing.T) {
	w := newWorldWithSettings(t, func(s *Settings) {
		s.MaxCircles = 2
		s.Difficulties = []Difficulty{
			{Name: "still", ShrinkPerSecond: 1, MinScale: 0.6, MaxScale: 1},
		}
		s.Difficulty = "still"
	})
	shrinking := ecs.NewQuery[struct{ *Shrinking }](w.Storage)

	// Menu circles spawn every 0.4s and never shrink here.
	step(w, 5*60)
	assert.Equal(t, 3, shrinking.Len(), "spawns while at most MaxCircles exist")

	step(w, 5*60)
	assert.Equal(t, 3, shrinking.Len())
}

func TestExtraSpawnsStopAtMaxExtra(t *testing.T) {
	w := newWorldWithSettings(t, func(s *Settings) {
		s.Difficulties = []Difficulty{
			{Name: "chain", ShrinkPerSecond: 0.65, ExtraChance: 1, MaxExtra: 3, MinScale: 0.6, MaxScale: 1},
		}
		s.Difficulty = "chain"
	})
	startPlay(t, w)
	step(w, 30)
	require.Equal(t, 4, clickableCount(w), "one circle plus three extras")

	_, circle, ok := ecs.NewQuery[ClickableCircle](w.Storage).First()
	require.True(t, ok)
	w.Input().Press(circle.Position)
	step(w, 1)

	assert.Equal(t, 1, w.Session().Hits)
	assert.Equal(t, 4-1+4, clickableCount(w), "a hit spawns a full chain")
}

func TestClickAndExpiryInOneFrame(t *testing.T) {
	for _, tc := range []struct {
		name  string
		click bool
	}{
		{name: "expires without a click", click: false},
		{name: "click scores once", click: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			startPlay(t, w)
			step(w, 30)
			w.DrainSounds()

			id, circle, ok := ecs.NewQuery[ClickableCircle](w.Storage).First()
			require.True(t, ok)

			threshold := w.Settings().ShrinkThreshold
			factor := math.Pow(w.Settings().Current().ShrinkPerSecond, frameDelta)
			circle.Transform.Scale = (threshold + threshold/factor) / 2
			require.GreaterOrEqual(t, circle.Transform.Scale, threshold)
			require.Less(t, circle.Transform.Scale*factor, threshold)

			if tc.click {
				w.Input().Press(circle.Position)
			}
			step(w, 1)

			session := w.Session()
			assert.False(t, w.Storage.Alive(id))
			if !tc.click {
				assert.Equal(t, -1, session.Score)
				assert.Equal(t, 1, session.Expired)
				sounds := w.DrainSounds()
				assert.Contains(t, sounds, SoundExpire)
				assert.NotContains(t, sounds, SoundHit)
				return
			}
			assert.Equal(t, 1, session.Score)
			assert.Equal(t, 1, session.Hits)
			assert.Zero(t, session.Expired)
			assert.Equal(t, []Sound{SoundHit}, w.DrainSounds())

			texts := ecs.NewQuery[fadingText](w.Storage)
			require.Equal(t, 1, texts.Len())
			_, text, _ := texts.First()
			assert.Equal(t, "+1", text.Value)
		})
	}
}

func TestPlayButtonPressIsNotAMiss(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)

	assert.Zero(t, w.Session().Misses)
	assert.Zero(t, w.Session().Score)
	assert.Zero(t, ecs.NewQuery[fadingText](w.Storage).Len())
	assert.NotContains(t, w.DrainSounds(), SoundMiss)
}

func TestPressOnUINodeDuringPlayIsNotAMiss(t *testing.T) {
	w, _ := newTestWorld(t)
	startPlay(t, w)
	step(w, 30)
	w.DrainSounds()

	corner := Vec2{X: 639, Y: 359}
	require.Empty(t, FindCirclesNear(ecs.NewQuery[ClickableCircle](w.Storage), corner, 1))
	node := w.Storage.Spawn(
		Transform{Position: corner, Scale: 1, Z: LayerUI},
		UINode{Size: Vec2{X: 80, Y: 60}},
		InteractionNone,
	)

	w.Input().Press(corner)
	step(w, 1)

	assert.Equal(t, InteractionClicked, *ecs.ReadComponent[Interaction](w.Storage, node))
	assert.Zero(t, w.Session().Misses)
	assert.Zero(t, w.Session().Score)
	assert.Zero(t, ecs.NewQuery[fadingText](w.Storage).Len())
	assert.Empty(t, w.DrainSounds())
}
