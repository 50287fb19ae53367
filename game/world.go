package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/plus3/circles/ecs"
)

// Options configure a World.
type Options struct {
	Settings Settings
	Seed     uint64
	Viewport Viewport
	Logger   *log.Logger
	Recorder Recorder
	// Register adds extra component types, for frontends that spawn their
	// own entities into the world.
	Register func(registry *ecs.ComponentRegistry)
}

// World owns the storage, the resources and the update scheduler of one
// game.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	settings *Settings
	logger   *log.Logger

	state    *ecs.Singleton[State]
	session  *ecs.Singleton[Session]
	input    *ecs.Singleton[Input]
	viewport *ecs.Singleton[Viewport]
	sounds   *ecs.Singleton[SoundQueue]
	timer    *ecs.Singleton[SpawnTimer]
}

// NewWorld builds a world that starts in the main menu on its first Update.
func NewWorld(opts Options) *World {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if len(opts.Settings.Difficulties) == 0 {
		opts.Settings = DefaultSettings()
	}
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = Viewport{Width: 1280, Height: 720}
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	if opts.Register != nil {
		opts.Register(registry)
	}
	storage := ecs.NewStorage(registry)

	settings := ecs.NewSingleton(storage, opts.Settings).Get()
	w := &World{
		Storage:  storage,
		settings: settings,
		logger:   opts.Logger,
		state:    ecs.NewSingleton(storage, NewState(StateMainMenu)),
		session:  ecs.NewSingleton(storage, Session{Difficulty: settings.Current().Name}),
		input:    ecs.NewSingleton[Input](storage),
		viewport: ecs.NewSingleton(storage, opts.Viewport),
		sounds:   ecs.NewSingleton[SoundQueue](storage),
		timer:    ecs.NewSingleton(storage, SpawnTimer{Timer: NewTimer(settings.SpawnInterval, true)}),
	}
	rng := ecs.NewSingleton(storage, NewRand(opts.Seed)).Get()

	sh := &shared{
		logger:   opts.Logger,
		recorder: opts.Recorder,
		settings: w.settings,
		spawn:    &spawner{settings: w.settings, viewport: w.viewport.Get(), rng: *rng},
	}

	w.Scheduler = ecs.NewScheduler(storage)
	w.Scheduler.Register(&StateTransitionSystem{shared: sh})
	w.Scheduler.Register(&InteractionSystem{})
	w.Scheduler.Register(&ButtonSystem{shared: sh})
	w.Scheduler.Register(&LoadingSystem{})
	w.Scheduler.Register(&CircleSpawnSystem{shared: sh})
	w.Scheduler.Register(&ClickSystem{shared: sh})
	w.Scheduler.Register(&ShrinkSystem{shared: sh})
	w.Scheduler.Register(&GameOverSystem{})
	w.Scheduler.Register(&TemporarySystem{})
	w.Scheduler.Register(&FadeSystem{shared: sh})
	return w
}

// Update advances the world by dt seconds. Pointer input for the frame must
// be written to Input beforehand.
func (w *World) Update(dt float64) {
	w.Scheduler.Once(dt)
	w.input.Get().endFrame()
}

// Input returns the pointer snapshot frontends write into.
func (w *World) Input() *Input {
	return w.input.Get()
}

// Session returns the current run.
func (w *World) Session() *Session {
	return w.session.Get()
}

// State returns the game flow state.
func (w *World) State() *State {
	return w.state.Get()
}

// Viewport returns the logical play field size.
func (w *World) Viewport() *Viewport {
	return w.viewport.Get()
}

// Settings returns the live settings. Changing the difficulty through the
// menu updates them.
func (w *World) Settings() *Settings {
	return w.settings
}

// SpawnTimer returns the circle spawn timer.
func (w *World) SpawnTimer() *SpawnTimer {
	return w.timer.Get()
}

// DrainSounds returns the cues queued since the last call.
func (w *World) DrainSounds() []Sound {
	return w.sounds.Get().Drain()
}

// Logger returns the world's logger.
func (w *World) Logger() *log.Logger {
	return w.logger
}
