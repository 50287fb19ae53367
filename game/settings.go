package game

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty governs how fast circles shrink and how many appear at once.
type Difficulty struct {
	Name string
	// ShrinkPerSecond is the fraction of its scale a circle keeps after one
	// second.
	ShrinkPerSecond float64
	// ExtraChance is the probability that spawning a circle also spawns
	// another one, checked again for every extra up to MaxExtra.
	ExtraChance float64
	MaxExtra    int
	MinScale    float64
	MaxScale    float64
}

// Settings are the tunables the systems read every frame.
type Settings struct {
	MaxCircles      int
	SpawnInterval   float64
	ShrinkThreshold float64
	CircleRadius    float64
	HitMargin       float64
	NotificationTTL float64
	FadePerSecond   float64
	ClearColor      Color
	CirclePalette   []Color
	Difficulties    []Difficulty
	Difficulty      string
}

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNoDifficulties    = errors.New("no difficulties configured")
)

// DefaultSettings returns the stock tuning: a 0.4 s spawn timer, at most 30
// circles and a 0.25 despawn scale.
func DefaultSettings() Settings {
	return Settings{
		MaxCircles:      30,
		SpawnInterval:   0.4,
		ShrinkThreshold: 0.25,
		CircleRadius:    64,
		HitMargin:       1,
		NotificationTTL: 1,
		FadePerSecond:   0.6,
		ClearColor:      MustHex("5c8bd6"),
		CirclePalette: []Color{
			MustHex("ffe9ba"),
			MustHex("ffb3ba"),
			MustHex("baffc9"),
			MustHex("bae1ff"),
		},
		Difficulties: []Difficulty{
			{Name: "easy", ShrinkPerSecond: 0.65, ExtraChance: 0.2, MaxExtra: 1, MinScale: 0.6, MaxScale: 1.0},
			{Name: "hard", ShrinkPerSecond: 0.45, ExtraChance: 0.5, MaxExtra: 3, MinScale: 0.4, MaxScale: 0.8},
		},
		Difficulty: "easy",
	}
}

// Lookup returns the difficulty preset called name (case-insensitive).
func (s *Settings) Lookup(name string) (Difficulty, error) {
	for _, d := range s.Difficulties {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// Next returns the preset after name, wrapping around.
func (s *Settings) Next(name string) Difficulty {
	for i, d := range s.Difficulties {
		if strings.EqualFold(d.Name, name) {
			return s.Difficulties[(i+1)%len(s.Difficulties)]
		}
	}
	return s.Difficulties[0]
}

// Current returns the selected preset, falling back to the first one.
func (s *Settings) Current() Difficulty {
	if d, err := s.Lookup(s.Difficulty); err == nil {
		return d
	}
	return s.Difficulties[0]
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if len(s.Difficulties) == 0 {
		return ErrNoDifficulties
	}
	if _, err := s.Lookup(s.Difficulty); err != nil {
		return err
	}
	if len(s.CirclePalette) == 0 {
		return errors.New("settings: circle palette is empty")
	}
	return nil
}
