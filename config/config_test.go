package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs so only
// the embedded default is found.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadEmbeddedDefault(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, cfg.Source)
	assert.Equal(t, "Circle Clicker Game", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 30, cfg.Game.MaxCircles)
	assert.Len(t, cfg.Difficulties, 2)

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, "5c8bd6", settings.ClearColor.Hex())
	assert.Equal(t, 0.4, settings.SpawnInterval)
	assert.Equal(t, "easy", settings.Current().Name)
}

func TestLoadSearchOrder(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, "configs", "circle-clicker.yaml"), "game:\n  max_circles: 12\n")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Game.MaxCircles)
	assert.Equal(t, filepath.Join("configs", "circle-clicker.yaml"), cfg.Source)

	writeFile(t, filepath.Join(dir, ".circle-clicker", "config.yaml"), "game:\n  max_circles: 20\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Game.MaxCircles)

	custom := filepath.Join(dir, "custom.yaml")
	writeFile(t, custom, "game:\n  max_circles: 5\n")
	cfg, err = Load(custom)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Game.MaxCircles)
	assert.Equal(t, custom, cfg.Source)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "partial.yaml")
	writeFile(t, path, `
game:
  difficulty: insane
difficulties:
  - name: insane
    shrink_per_second: 0.3
    extra_chance: 0.9
    max_extra: 5
    min_scale: 0.3
    max_scale: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Difficulties, 1)
	assert.Equal(t, "insane", cfg.Difficulties[0].Name)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Len(t, cfg.Game.Palette, 4)
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "window: [not, a, map]\n")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadMalformedSearchPathErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(dir string) string
	}{
		{"user config", func(dir string) string { return filepath.Join(dir, ".circle-clicker", "config.yaml") }},
		{"working directory", func(dir string) string { return filepath.Join(dir, "configs", "circle-clicker.yaml") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeFile(t, tt.path(dir), "game: [broken\n")

			cfg, err := Load("")
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, "failed to parse config")
			assert.ErrorContains(t, err, "circle-clicker")
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CLICKER_DIFFICULTY", "hard")
	t.Setenv("CLICKER_MAX_CIRCLES", "8")
	t.Setenv("CLICKER_DB", "/tmp/scores.db")
	t.Setenv("CLICKER_WIDTH", "800")
	t.Setenv("CLICKER_HEIGHT", "600")
	t.Setenv("CLICKER_SEED", "99")
	t.Setenv("CLICKER_MUTE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hard", cfg.Game.Difficulty)
	assert.Equal(t, 8, cfg.Game.MaxCircles)
	assert.Equal(t, "/tmp/scores.db", cfg.Scores.DB)
	assert.Equal(t, 800.0, cfg.Viewport().Width)
	assert.Equal(t, 600.0, cfg.Viewport().Height)
	assert.Equal(t, uint64(99), cfg.Game.Seed)
	assert.False(t, cfg.Audio.Enabled)
}

func TestEnvParseError(t *testing.T) {
	isolate(t)
	t.Setenv("CLICKER_MAX_CIRCLES", "lots")

	_, err := Load("")
	assert.ErrorContains(t, err, "parse env:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, ErrInvalidWindow},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, ErrInvalidWindow},
		{"no circles", func(c *Config) { c.Game.MaxCircles = 0 }, ErrInvalidGame},
		{"no spawn interval", func(c *Config) { c.Game.SpawnInterval = 0 }, ErrInvalidGame},
		{"empty palette", func(c *Config) { c.Game.Palette = nil }, ErrInvalidGame},
		{"unknown difficulty", func(c *Config) { c.Game.Difficulty = "nope" }, ErrUnknownDifficulty},
		{"inverted scale", func(c *Config) { c.Difficulties[0].MinScale = 2 }, ErrInvalidDifficulty},
		{"no presets", func(c *Config) { c.Difficulties = nil }, ErrInvalidDifficulty},
		{"shrink grows", func(c *Config) { c.Difficulties[1].ShrinkPerSecond = 1.2 }, ErrInvalidDifficulty},
		{"loud", func(c *Config) { c.Audio.Volume = 3 }, ErrInvalidGame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSettingsRejectsBadColour(t *testing.T) {
	cfg := Default()
	cfg.Window.ClearColor = "blue"
	_, err := cfg.Settings()
	assert.ErrorContains(t, err, "window.clear_color")
}

func TestMarshalRoundTrip(t *testing.T) {
	dir := isolate(t)
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := filepath.Join(dir, "dump.yaml")
	writeFile(t, path, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Source = path
	assert.Equal(t, want, cfg)
}
