package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plus3/circles/config"
	"github.com/plus3/circles/game"
	"github.com/plus3/circles/scores"
)

// app is the configuration and services shared by the commands.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  *scores.Store
}

func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "circles",
		Level:           level,
	}), nil
}

// loadConfig resolves the config file, then applies command-line flags on
// top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDifficulty != "" {
		cfg.Game.Difficulty = flagDifficulty
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Scores.DB = flagDBPath
	}
	if flagMute {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func newApp(logOutput io.Writer) (*app, error) {
	logger, err := newLogger(logOutput)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "source", cfg.Source)

	a := &app{cfg: cfg, logger: logger}
	store, err := scores.Open(cfg.Scores.DB)
	if err != nil {
		logger.Warn("scores disabled", "db", cfg.Scores.DB, "err", err)
	} else {
		a.store = store
	}
	return a, nil
}

// gameOptions builds world options from the resolved config.
func (a *app) gameOptions() (game.Options, error) {
	settings, err := a.cfg.Settings()
	if err != nil {
		return game.Options{}, err
	}
	seed := a.cfg.Game.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var recorder game.Recorder = &game.MemoryRecorder{}
	if a.store != nil {
		recorder = a.store
	}
	return game.Options{
		Settings: settings,
		Seed:     seed,
		Viewport: a.cfg.Viewport(),
		Logger:   a.logger,
		Recorder: recorder,
	}, nil
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing scores", "err", err)
	}
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	expanded, err := scores.ExpandPath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
