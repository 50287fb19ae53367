package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/circles/game"
)

var allCues = []game.Sound{game.SoundHit, game.SoundMiss, game.SoundExpire, game.SoundGameOver}

func TestRenderLength(t *testing.T) {
	for _, cue := range allCues {
		t.Run(cue.String(), func(t *testing.T) {
			pcm, err := Render(cue, 1)
			require.NoError(t, err)
			// 2 channels of 2 bytes.
			assert.Equal(t, Length(cue)*4, len(pcm))
		})
	}
}

func TestRenderIsNotSilent(t *testing.T) {
	pcm, err := Render(game.SoundHit, 1)
	require.NoError(t, err)

	peak := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int(int16(binary.LittleEndian.Uint16(pcm[i:])))
		peak = max(peak, v, -v)
	}
	assert.Greater(t, peak, 1000)
}

func TestRenderMutedVolume(t *testing.T) {
	pcm, err := Render(game.SoundMiss, 0)
	require.NoError(t, err)
	for _, b := range pcm {
		if b != 0 {
			t.Fatalf("expected silence, got byte %#x", b)
		}
	}
}

func TestRenderStartsFromSilence(t *testing.T) {
	pcm, err := Render(game.SoundExpire, 1)
	require.NoError(t, err)
	first := int16(binary.LittleEndian.Uint16(pcm))
	assert.Zero(t, first)
}

func TestUnknownCue(t *testing.T) {
	_, err := Render(game.Sound(99), 1)
	assert.Error(t, err)
}

func TestBank(t *testing.T) {
	bank, err := NewBank(0.5)
	require.NoError(t, err)
	for _, cue := range allCues {
		assert.NotEmpty(t, bank.PCM(cue), cue.String())
	}
	assert.Nil(t, bank.PCM(game.Sound(99)))
}

type recordingPlayer struct {
	played []game.Sound
}

func (r *recordingPlayer) Play(cue game.Sound) { r.played = append(r.played, cue) }
func (r *recordingPlayer) Close() error        { return nil }

func TestPlayAll(t *testing.T) {
	p := &recordingPlayer{}
	PlayAll(p, []game.Sound{game.SoundHit, game.SoundMiss})
	assert.Equal(t, []game.Sound{game.SoundHit, game.SoundMiss}, p.played)

	var m Player = Mute{}
	PlayAll(m, allCues)
	assert.NoError(t, m.Close())
}

func TestOpenDisabledIsMute(t *testing.T) {
	assert.Equal(t, Mute{}, Open(false, 1, nil))
}
