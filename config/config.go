// Package config loads the game's YAML configuration, applies environment
// overrides and turns the result into game settings.
package config

import (
	"errors"
	"fmt"

	"github.com/plus3/circles/game"
)

// Config is the whole configuration file.
type Config struct {
	Window       WindowConfig       `yaml:"window"`
	Game         GameConfig         `yaml:"game"`
	Difficulties []DifficultyConfig `yaml:"difficulties"`
	Scores       ScoresConfig       `yaml:"scores"`
	Audio        AudioConfig        `yaml:"audio"`

	// Source names where the configuration was read from.
	Source string `yaml:"-"`
}

// WindowConfig describes the desktop window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	VSync      bool   `yaml:"vsync"`
	Resizable  bool   `yaml:"resizable"`
	ClearColor string `yaml:"clear_color"`
}

// GameConfig holds the gameplay tunables.
type GameConfig struct {
	MaxCircles      int      `yaml:"max_circles"`
	SpawnInterval   float64  `yaml:"spawn_interval"`
	ShrinkThreshold float64  `yaml:"shrink_threshold"`
	CircleRadius    float64  `yaml:"circle_radius"`
	HitMargin       float64  `yaml:"hit_margin"`
	NotificationTTL float64  `yaml:"notification_ttl"`
	FadePerSecond   float64  `yaml:"fade_per_second"`
	Difficulty      string   `yaml:"difficulty"`
	Seed            uint64   `yaml:"seed"`
	Palette         []string `yaml:"palette"`
}

// DifficultyConfig is one named preset.
type DifficultyConfig struct {
	Name            string  `yaml:"name"`
	ShrinkPerSecond float64 `yaml:"shrink_per_second"`
	ExtraChance     float64 `yaml:"extra_chance"`
	MaxExtra        int     `yaml:"max_extra"`
	MinScale        float64 `yaml:"min_scale"`
	MaxScale        float64 `yaml:"max_scale"`
}

// ScoresConfig locates the score database.
type ScoresConfig struct {
	DB string `yaml:"db"`
}

// AudioConfig controls sound cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

var (
	ErrInvalidWindow     = errors.New("invalid window size")
	ErrInvalidGame       = errors.New("invalid game setting")
	ErrInvalidDifficulty = errors.New("invalid difficulty preset")
	ErrUnknownDifficulty = game.ErrUnknownDifficulty
)

// Validate reports the first problem found in the configuration.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height)
	}

	g := c.Game
	switch {
	case g.MaxCircles <= 0:
		return fmt.Errorf("%w: max_circles must be positive", ErrInvalidGame)
	case g.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn_interval must be positive", ErrInvalidGame)
	case g.CircleRadius <= 0:
		return fmt.Errorf("%w: circle_radius must be positive", ErrInvalidGame)
	case g.HitMargin <= 0:
		return fmt.Errorf("%w: hit_margin must be positive", ErrInvalidGame)
	case g.ShrinkThreshold <= 0:
		return fmt.Errorf("%w: shrink_threshold must be positive", ErrInvalidGame)
	case g.NotificationTTL <= 0:
		return fmt.Errorf("%w: notification_ttl must be positive", ErrInvalidGame)
	case len(g.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", ErrInvalidGame)
	}

	if len(c.Difficulties) == 0 {
		return fmt.Errorf("%w: none configured", ErrInvalidDifficulty)
	}
	found := false
	for _, d := range c.Difficulties {
		if d.Name == "" {
			return fmt.Errorf("%w: preset without a name", ErrInvalidDifficulty)
		}
		if d.ShrinkPerSecond <= 0 || d.ShrinkPerSecond >= 1 {
			return fmt.Errorf("%w: %s: shrink_per_second must be in (0, 1)", ErrInvalidDifficulty, d.Name)
		}
		if d.MinScale <= 0 || d.MinScale > d.MaxScale {
			return fmt.Errorf("%w: %s: scale range %.2f..%.2f", ErrInvalidDifficulty, d.Name, d.MinScale, d.MaxScale)
		}
		if d.ExtraChance < 0 || d.ExtraChance > 1 || d.MaxExtra < 0 {
			return fmt.Errorf("%w: %s: extra spawns", ErrInvalidDifficulty, d.Name)
		}
		if d.Name == g.Difficulty {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, g.Difficulty)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume %.2f", ErrInvalidGame, c.Audio.Volume)
	}
	return nil
}

// Settings converts the configuration into game settings.
func (c *Config) Settings() (game.Settings, error) {
	clearColor, err := game.ParseHex(c.Window.ClearColor)
	if err != nil {
		return game.Settings{}, fmt.Errorf("config: window.clear_color: %w", err)
	}
	palette := make([]game.Color, 0, len(c.Game.Palette))
	for _, code := range c.Game.Palette {
		col, err := game.ParseHex(code)
		if err != nil {
			return game.Settings{}, fmt.Errorf("config: game.palette: %w", err)
		}
		palette = append(palette, col)
	}

	s := game.Settings{
		MaxCircles:      c.Game.MaxCircles,
		SpawnInterval:   c.Game.SpawnInterval,
		ShrinkThreshold: c.Game.ShrinkThreshold,
		CircleRadius:    c.Game.CircleRadius,
		HitMargin:       c.Game.HitMargin,
		NotificationTTL: c.Game.NotificationTTL,
		FadePerSecond:   c.Game.FadePerSecond,
		ClearColor:      clearColor,
		CirclePalette:   palette,
		Difficulty:      c.Game.Difficulty,
	}
	for _, d := range c.Difficulties {
		s.Difficulties = append(s.Difficulties, game.Difficulty{
			Name:            d.Name,
			ShrinkPerSecond: d.ShrinkPerSecond,
			ExtraChance:     d.ExtraChance,
			MaxExtra:        d.MaxExtra,
			MinScale:        d.MinScale,
			MaxScale:        d.MaxScale,
		})
	}
	if err := s.Validate(); err != nil {
		return game.Settings{}, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

// Viewport is the logical play field described by the window section.
func (c *Config) Viewport() game.Viewport {
	return game.Viewport{Width: float64(c.Window.Width), Height: float64(c.Window.Height)}
}
