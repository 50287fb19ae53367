package game

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/plus3/circles/ecs"
)

// shared is the state every game system needs besides its queries.
type shared struct {
	logger   *log.Logger
	spawn    *spawner
	recorder Recorder
	settings *Settings
}

type menuEntity struct {
	ecs.EntityId
	*Menu
}

type clickableTag struct {
	*Shrinking
	*Clickable
}

// StateTransitionSystem applies a pending state change and runs the enter
// actions of the new state.
type StateTransitionSystem struct {
	*shared
	state   ecs.Singleton[State]
	session ecs.Singleton[Session]
	timer   ecs.Singleton[SpawnTimer]
	sounds  ecs.Singleton[SoundQueue]
	menu    ecs.Query[menuEntity]
}

func (s *StateTransitionSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.state.Get()
	from, to, ok := state.apply()
	if !ok {
		return
	}
	s.logger.Info("state changed", "from", from, "to", to)

	cmd := frame.Commands
	switch to {
	case StateMainMenu:
		for id := range s.menu.Iter() {
			cmd.Delete(id)
		}
		s.spawn.mainMenu(cmd)
		timer := s.timer.Get()
		timer.SetRepeating(true)
		timer.Reset()

	case StateLoading:
		session := s.session.Get()
		difficulty := s.settings.Current().Name
		session.reset(uuid.NewString(), difficulty)
		session.Games++
		if s.recorder != nil {
			best, found, err := s.recorder.Best(difficulty)
			if err != nil {
				s.logger.Warn("best score lookup failed", "difficulty", difficulty, "err", err)
			} else {
				session.Best, session.HasBest = best, found
			}
		}

	case StatePlay:
		timer := s.timer.Get()
		timer.SetRepeating(false)
		timer.Reset()

	case StateGameOver:
		session := s.session.Get()
		result := Result{
			RunID:      session.RunID,
			Difficulty: session.Difficulty,
			Score:      session.Score,
			Hits:       session.Hits,
			Misses:     session.Misses,
			Expired:    session.Expired,
			Duration:   session.Duration(),
		}
		if !session.HasBest || session.Score > session.Best {
			session.Best, session.HasBest = session.Score, true
		}
		if s.recorder != nil {
			if err := s.recorder.Record(result); err != nil {
				s.logger.Error("recording run failed", "run", result.RunID, "err", err)
			}
		}
		s.logger.Info("game over",
			"score", result.Score,
			"hits", result.Hits,
			"misses", result.Misses,
			"expired", result.Expired,
			"duration", result.Duration)
		s.spawn.gameOver(cmd, session)
		s.sounds.Get().Push(SoundGameOver)
	}
}

type uiNode struct {
	*Transform
	*UINode
	*Interaction
}

// InteractionSystem hit-tests the cursor against UI nodes.
type InteractionSystem struct {
	input ecs.Singleton[Input]
	nodes ecs.Query[uiNode]
}

func (s *InteractionSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.input.Get()
	for node := range s.nodes.Values() {
		if !input.CursorValid || !contains(node.Transform, node.UINode.Size, input.Cursor) {
			*node.Interaction = InteractionNone
			continue
		}
		if input.JustPressed && !input.UIClaimed {
			*node.Interaction = InteractionClicked
			input.UIClaimed = true
			continue
		}
		*node.Interaction = InteractionHovered
	}
}

func contains(t *Transform, size Vec2, p Vec2) bool {
	halfW := size.X * t.Scale / 2
	halfH := size.Y * t.Scale / 2
	return math.Abs(p.X-t.Position.X) <= halfW && math.Abs(p.Y-t.Position.Y) <= halfH
}

type buttonNode struct {
	*UINode
	*Button
	*Interaction
}

// ButtonSystem colours buttons and carries out their actions.
type ButtonSystem struct {
	*shared
	state   ecs.Singleton[State]
	session ecs.Singleton[Session]
	timer   ecs.Singleton[SpawnTimer]
	buttons ecs.Query[buttonNode]
}

func (s *ButtonSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.state.Get()
	_, pending := state.Pending()
	active := !pending && (state.Is(StateMainMenu) || state.Is(StateGameOver))

	for b := range s.buttons.Values() {
		switch *b.Interaction {
		case InteractionClicked:
			b.Fill = b.Hovered
			if active {
				s.press(state, b.Button)
			}
		case InteractionHovered:
			b.Fill = b.Hovered
		default:
			b.Fill = b.Normal
		}
	}
}

func (s *ButtonSystem) press(state *State, b *Button) {
	s.logger.Debug("button pressed", "action", b.Action)
	switch b.Action {
	case ActionPlay:
		timer := s.timer.Get()
		timer.SetRepeating(false)
		timer.Reset()
		state.Set(StateLoading)
	case ActionDifficulty:
		next := s.settings.Next(s.settings.Difficulty)
		s.settings.Difficulty = next.Name
		s.session.Get().Difficulty = next.Name
		b.Label = difficultyLabel(next.Name)
		s.logger.Info("difficulty changed", "difficulty", next.Name)
	case ActionRetry:
		state.Set(StateLoading)
	case ActionMenu:
		state.Set(StateMainMenu)
	}
}

// LoadingSystem clears the menu and then starts play.
type LoadingSystem struct {
	state ecs.Singleton[State]
	menu  ecs.Query[menuEntity]
}

func (s *LoadingSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.state.Get()
	if !state.Is(StateLoading) {
		return
	}
	if _, pending := state.Pending(); pending {
		return
	}
	if s.menu.Len() == 0 {
		state.Set(StatePlay)
		return
	}
	for id := range s.menu.Iter() {
		frame.Commands.Delete(id)
	}
}

// CircleSpawnSystem ticks the spawn timer and spawns circles.
type CircleSpawnSystem struct {
	*shared
	state     ecs.Singleton[State]
	session   ecs.Singleton[Session]
	timer     ecs.Singleton[SpawnTimer]
	shrinking ecs.Query[struct{ *Shrinking }]
}

func (s *CircleSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.state.Get()
	if state.Is(StateLoading) {
		return
	}
	if s.shrinking.Len() > s.settings.MaxCircles {
		return
	}
	if !s.timer.Get().Tick(frame.DeltaTime) {
		return
	}

	play := state.Is(StatePlay)
	s.spawn.circle(frame.Commands, play, 0)
	if play {
		session := s.session.Get()
		// Only counts once the circles actually exist.
		frame.Commands.Defer(func() { session.WaveSpawned = true })
	}
}

// ClickSystem scores presses during play.
type ClickSystem struct {
	*shared
	state   ecs.Singleton[State]
	input   ecs.Singleton[Input]
	session ecs.Singleton[Session]
	sounds  ecs.Singleton[SoundQueue]
	circles ecs.Query[ClickableCircle]
}

func (s *ClickSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.state.Get().Is(StatePlay) {
		return
	}
	input := s.input.Get()
	if !input.JustPressed || input.UIClaimed || !input.CursorValid {
		return
	}

	cmd := frame.Commands
	session := s.session.Get()
	sounds := s.sounds.Get()
	for _, hit := range FindCirclesNear(&s.circles, input.Cursor, s.settings.HitMargin) {
		if cmd.Deleted(hit.Entity) {
			continue
		}
		cmd.Delete(hit.Entity)
		s.spawn.circle(cmd, true, 0)
		session.Score++
		session.Hits++
		s.spawn.notification(cmd, 1, input.Cursor)
		sounds.Push(SoundHit)
		s.logger.Debug("hit", "entity", hit.Entity, "distance", hit.Distance, "score", session.Score)
		return
	}

	session.Score--
	session.Misses++
	s.spawn.notification(cmd, -1, input.Cursor)
	sounds.Push(SoundMiss)
	s.logger.Debug("miss", "x", input.Cursor.X, "y", input.Cursor.Y, "score", session.Score)
}

type shrinkingCircle struct {
	ecs.EntityId
	*Transform
	*Shrinking
	Clickable *Clickable `ecs:"optional"`
}

// ShrinkSystem scales circles down and removes the ones that got too small.
type ShrinkSystem struct {
	*shared
	state   ecs.Singleton[State]
	session ecs.Singleton[Session]
	sounds  ecs.Singleton[SoundQueue]
	circles ecs.Query[shrinkingCircle]
}

func (s *ShrinkSystem) Execute(frame *ecs.UpdateFrame) {
	factor := math.Pow(s.settings.Current().ShrinkPerSecond, frame.DeltaTime)
	play := s.state.Get().Is(StatePlay)
	cmd := frame.Commands

	for c := range s.circles.Values() {
		if cmd.Deleted(c.EntityId) {
			continue
		}
		c.Scale *= factor
		if c.Scale >= s.settings.ShrinkThreshold {
			continue
		}
		cmd.Delete(c.EntityId)
		if !play || c.Clickable == nil {
			continue
		}
		session := s.session.Get()
		session.Score--
		session.Expired++
		s.spawn.notification(cmd, -1, c.Position)
		s.sounds.Get().Push(SoundExpire)
		s.logger.Debug("expired", "entity", c.EntityId, "score", session.Score)
	}
}

// GameOverSystem ends play once every clickable circle is gone.
type GameOverSystem struct {
	state     ecs.Singleton[State]
	session   ecs.Singleton[Session]
	clickable ecs.Query[clickableTag]
}

func (s *GameOverSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.state.Get()
	if !state.Is(StatePlay) {
		return
	}
	if _, pending := state.Pending(); pending {
		return
	}
	session := s.session.Get()
	session.Elapsed += frame.DeltaTime
	if session.WaveSpawned && s.clickable.Len() == 0 {
		state.Set(StateGameOver)
	}
}

// TemporarySystem runs down the timers of transient entities.
type TemporarySystem struct {
	temporaries ecs.Query[struct{ *Temporary }]
}

func (s *TemporarySystem) Execute(frame *ecs.UpdateFrame) {
	for t := range s.temporaries.Values() {
		if t.Timer.Tick(frame.DeltaTime) {
			t.Alive = false
		}
	}
}

type fadingText struct {
	ecs.EntityId
	*Temporary
	*Text
}

// FadeSystem fades transient text and despawns it once it expires.
type FadeSystem struct {
	*shared
	texts ecs.Query[fadingText]
}

func (s *FadeSystem) Execute(frame *ecs.UpdateFrame) {
	step := float32(s.settings.FadePerSecond * frame.DeltaTime)
	for t := range s.texts.Values() {
		t.Text.Color.A = max(t.Text.Color.A-step, 0)
		if !t.Alive {
			frame.Commands.Delete(t.EntityId)
		}
	}
}
