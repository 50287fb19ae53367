package game

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"5c8bd6", color.NRGBA{R: 0x5c, G: 0x8b, B: 0xd6, A: 0xff}},
		{"#ffe9ba", color.NRGBA{R: 0xff, G: 0xe9, B: 0xba, A: 0xff}},
		{"1a1a1a66", color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0x66}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.NRGBA())
		})
	}
}

func TestParseHexRejects(t *testing.T) {
	for _, in := range []string{"", "fff", "zzzzzz", "#1234567"} {
		_, err := ParseHex(in)
		assert.Error(t, err, in)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	assert.Equal(t, "5c8bd6", MustHex("5c8bd6").Hex())
	assert.Equal(t, "5c8bd680", MustHex("5c8bd6").WithAlpha(128.0/255).Hex())
	assert.Panics(t, func() { MustHex("nope") })
}

func TestSettingsDifficulty(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	d, err := s.Lookup("HARD")
	require.NoError(t, err)
	assert.Equal(t, "hard", d.Name)

	_, err = s.Lookup("nightmare")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)

	assert.Equal(t, "hard", s.Next("easy").Name)
	assert.Equal(t, "easy", s.Next("hard").Name)

	s.Difficulty = "nightmare"
	assert.ErrorIs(t, s.Validate(), ErrUnknownDifficulty)
	assert.Equal(t, "easy", s.Current().Name)

	s.Difficulties = nil
	assert.ErrorIs(t, s.Validate(), ErrNoDifficulties)
}
