package game

import (
	"math/rand/v2"
	"time"
)

// GameState is the top-level flow: menu, loading, playing, game over.
type GameState int

const (
	StateMainMenu GameState = iota
	StateLoading
	StatePlay
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StateMainMenu:
		return "main-menu"
	case StateLoading:
		return "loading"
	case StatePlay:
		return "play"
	case StateGameOver:
		return "game-over"
	}
	return "unknown"
}

// State holds the current GameState and at most one pending transition.
// Transitions requested with Set take effect at the start of the next frame.
type State struct {
	Current GameState
	next    GameState
	pending bool
	entered bool
}

// NewState returns a State that enters initial on the first frame.
func NewState(initial GameState) State {
	return State{Current: initial, next: initial, pending: true}
}

// Set schedules a transition to next. A later Set in the same frame wins.
func (s *State) Set(next GameState) {
	s.next = next
	s.pending = true
}

// Pending returns the scheduled state, if any.
func (s *State) Pending() (GameState, bool) {
	return s.next, s.pending
}

// Is reports whether the current state is st.
func (s *State) Is(st GameState) bool {
	return s.Current == st
}

func (s *State) apply() (from, to GameState, ok bool) {
	if !s.pending {
		return s.Current, s.Current, false
	}
	from, to = s.Current, s.next
	s.Current = s.next
	s.pending = false
	// The very first transition always runs enter actions, even when it
	// "changes" to the state the game already starts in.
	if !s.entered {
		s.entered = true
		return from, to, true
	}
	return from, to, from != to
}

// Session is the score keeping for the current run.
type Session struct {
	RunID       string
	Difficulty  string
	Score       int
	Hits        int
	Misses      int
	Expired     int
	Elapsed     float64
	Best        int
	HasBest     bool
	WaveSpawned bool
	Games       int
}

// Duration returns the play time as a time.Duration.
func (s *Session) Duration() time.Duration {
	return time.Duration(s.Elapsed * float64(time.Second))
}

// Accuracy returns hits over all clicks, 0 when nothing was clicked.
func (s *Session) Accuracy() float64 {
	clicks := s.Hits + s.Misses
	if clicks == 0 {
		return 0
	}
	return float64(s.Hits) / float64(clicks)
}

func (s *Session) reset(runID, difficulty string) {
	*s = Session{
		RunID:      runID,
		Difficulty: difficulty,
		Best:       s.Best,
		HasBest:    s.HasBest && s.Difficulty == difficulty,
		Games:      s.Games,
	}
}

// SpawnTimer paces circle spawning.
type SpawnTimer struct {
	Timer
}

// Input is the pointer snapshot for the current frame, written by the
// frontend before the scheduler runs.
type Input struct {
	Cursor      Vec2
	CursorValid bool
	Down        bool
	JustPressed bool
	// UIClaimed is set once a UI node consumed this frame's press.
	UIClaimed bool
}

// Press records a pointer press at p for the next frame.
func (in *Input) Press(p Vec2) {
	in.Cursor = p
	in.CursorValid = true
	in.Down = true
	in.JustPressed = true
}

// Move updates the cursor without pressing.
func (in *Input) Move(p Vec2) {
	in.Cursor = p
	in.CursorValid = true
}

func (in *Input) endFrame() {
	in.JustPressed = false
	in.UIClaimed = false
}

// Viewport is the logical size of the play field. World coordinates put the
// origin at its centre with +Y up.
type Viewport struct {
	Width  float64
	Height float64
}

// ToWorld maps a screen position (origin top-left, +Y down) to world space.
func (v Viewport) ToWorld(x, y float64) Vec2 {
	return Vec2{X: x - v.Width/2, Y: v.Height/2 - y}
}

// ToScreen maps a world position to screen space.
func (v Viewport) ToScreen(p Vec2) (float64, float64) {
	return p.X + v.Width/2, v.Height/2 - p.Y
}

// Rand is the world's seeded random source.
type Rand struct {
	*rand.Rand
}

// NewRand returns a PCG-backed generator seeded with seed.
func NewRand(seed uint64) Rand {
	return Rand{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Range returns a float in [lo, hi).
func (r Rand) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// Sound is a cue for the frontend to play.
type Sound int

const (
	SoundHit Sound = iota
	SoundMiss
	SoundExpire
	SoundGameOver
)

func (s Sound) String() string {
	switch s {
	case SoundHit:
		return "hit"
	case SoundMiss:
		return "miss"
	case SoundExpire:
		return "expire"
	case SoundGameOver:
		return "game-over"
	}
	return "unknown"
}

// SoundQueue collects cues raised during a frame.
type SoundQueue struct {
	cues []Sound
}

// Push queues a cue.
func (q *SoundQueue) Push(s Sound) {
	q.cues = append(q.cues, s)
}

// Drain returns and clears the queued cues.
func (q *SoundQueue) Drain() []Sound {
	out := q.cues
	q.cues = nil
	return out
}

// Len returns the number of queued cues.
func (q *SoundQueue) Len() int {
	return len(q.cues)
}
