package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/circle-clicker.yaml
var defaultYAML []byte

// SourceEmbedded is the Source of a configuration built from the embedded
// defaults.
const SourceEmbedded = "embedded"

// Load reads the configuration, applies CLICKER_* environment overrides and
// validates the result.
// Search order: customPath -> ~/.circle-clicker/config.yaml ->
// ./configs/circle-clicker.yaml -> embedded default. The first file that
// exists is used; if it cannot be read or parsed, Load fails rather than
// falling through to the next candidate.
func Load(customPath string) (*Config, error) {
	cfg, err := read(customPath)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfg.Source, err)
	}
	return cfg, nil
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := parse(defaultYAML, SourceEmbedded)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

func read(customPath string) (*Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data, customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(), filepath.Join("configs", "circle-clicker.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		cfg, err := parse(data, path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, nil
	}
	return Default(), nil
}

// parse overlays data on the embedded default so a file only needs the keys
// it changes. Lists in data replace the default lists.
func parse(data []byte, source string) (*Config, error) {
	var base Config
	if err := yaml.Unmarshal(defaultYAML, &base); err != nil {
		return nil, err
	}
	if source == SourceEmbedded {
		base.Source = source
		return &base, nil
	}

	cfg := base
	cfg.Difficulties = nil
	cfg.Game.Palette = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Difficulties == nil {
		cfg.Difficulties = base.Difficulties
	}
	if cfg.Game.Palette == nil {
		cfg.Game.Palette = base.Game.Palette
	}
	cfg.Source = source
	return &cfg, nil
}

// userConfigPath returns ~/.circle-clicker/config.yaml, or empty if home is
// unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".circle-clicker", "config.yaml")
}

type envOverrides struct {
	Difficulty *string  `env:"CLICKER_DIFFICULTY"`
	MaxCircles *int     `env:"CLICKER_MAX_CIRCLES"`
	DB         *string  `env:"CLICKER_DB"`
	Width      *int     `env:"CLICKER_WIDTH"`
	Height     *int     `env:"CLICKER_HEIGHT"`
	Seed       *uint64  `env:"CLICKER_SEED"`
	Mute       *bool    `env:"CLICKER_MUTE"`
	Volume     *float64 `env:"CLICKER_VOLUME"`
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Difficulty != nil {
		cfg.Game.Difficulty = *o.Difficulty
	}
	if o.MaxCircles != nil {
		cfg.Game.MaxCircles = *o.MaxCircles
	}
	if o.DB != nil {
		cfg.Scores.DB = *o.DB
	}
	if o.Width != nil {
		cfg.Window.Width = *o.Width
	}
	if o.Height != nil {
		cfg.Window.Height = *o.Height
	}
	if o.Seed != nil {
		cfg.Game.Seed = *o.Seed
	}
	if o.Mute != nil {
		cfg.Audio.Enabled = !*o.Mute
	}
	if o.Volume != nil {
		cfg.Audio.Volume = *o.Volume
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}
