package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/speaker"

	"github.com/plus3/circles/game"
)

// Player plays sound cues.
type Player interface {
	Play(cue game.Sound)
	Close() error
}

// Mute discards every cue.
type Mute struct{}

func (Mute) Play(game.Sound) {}
func (Mute) Close() error    { return nil }

var speakerOnce sync.Once
var speakerErr error

// SpeakerPlayer plays cues through the system audio device via the beep
// speaker.
type SpeakerPlayer struct {
	volume float64
	logger *log.Logger
}

// NewSpeakerPlayer initialises the speaker. The speaker can only be
// initialised once per process.
func NewSpeakerPlayer(volume float64, logger *log.Logger) (*SpeakerPlayer, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("audio: speaker init: %w", speakerErr)
	}
	return &SpeakerPlayer{volume: volume, logger: logger}, nil
}

func (p *SpeakerPlayer) Play(cue game.Sound) {
	s, err := Streamer(cue, p.volume)
	if err != nil {
		p.logger.Warn("cannot play cue", "cue", cue, "err", err)
		return
	}
	speaker.Play(s)
}

func (p *SpeakerPlayer) Close() error {
	speaker.Clear()
	return nil
}

// Open returns a speaker player, or Mute when audio is disabled or the
// device is unavailable.
func Open(enabled bool, volume float64, logger *log.Logger) Player {
	if !enabled {
		return Mute{}
	}
	p, err := NewSpeakerPlayer(volume, logger)
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return Mute{}
	}
	return p
}

// PlayAll plays each cue in order.
func PlayAll(p Player, cues []game.Sound) {
	for _, cue := range cues {
		p.Play(cue)
	}
}
