// Package audio synthesises the game's sound cues with beep and plays them
// either through the beep speaker or as raw PCM for another audio backend.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/plus3/circles/game"
)

// SampleRate is used for every cue.
const SampleRate = beep.SampleRate(44100)

type note struct {
	freq     float64
	duration time.Duration
}

// cueNotes lists the notes of each cue, played in sequence.
var cueNotes = map[game.Sound][]note{
	game.SoundHit:      {{660, 50 * time.Millisecond}, {990, 70 * time.Millisecond}},
	game.SoundMiss:     {{180, 120 * time.Millisecond}},
	game.SoundExpire:   {{330, 90 * time.Millisecond}},
	game.SoundGameOver: {{523.25, 150 * time.Millisecond}, {392, 150 * time.Millisecond}, {261.63, 300 * time.Millisecond}},
}

// Streamer builds the streamer for cue at volume (0..1).
func Streamer(cue game.Sound, volume float64) (beep.Streamer, error) {
	notes, ok := cueNotes[cue]
	if !ok {
		return nil, fmt.Errorf("audio: unknown cue %v", cue)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(SampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("audio: %v tone %.0f Hz: %w", cue, n.freq, err)
		}
		length := SampleRate.N(n.duration)
		parts = append(parts, &fade{
			streamer: beep.Take(length, tone),
			attack:   SampleRate.N(5 * time.Millisecond),
			total:    length,
		})
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// Length returns the number of samples cue lasts.
func Length(cue game.Sound) int {
	n := 0
	for _, note := range cueNotes[cue] {
		n += SampleRate.N(note.duration)
	}
	return n
}

func withVolume(s beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(volume, 1))}
}

// fade ramps a note in over attack samples and linearly out over the rest.
type fade struct {
	streamer beep.Streamer
	pos      int
	attack   int
	total    int
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.streamer.Stream(samples)
	for i := range n {
		gain := 1.0
		if f.pos < f.attack {
			gain = float64(f.pos) / float64(f.attack)
		} else if f.total > f.attack {
			gain = float64(f.total-f.pos) / float64(f.total-f.attack)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// Render synthesises cue as signed 16-bit little-endian stereo PCM at
// SampleRate.
func Render(cue game.Sound, volume float64) ([]byte, error) {
	s, err := Streamer(cue, volume)
	if err != nil {
		return nil, err
	}

	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(frame[0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(frame[1])))
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("audio: render %v: %w", cue, err)
	}
	return out, nil
}

func toInt16(v float64) int16 {
	v = max(-1, min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}

// Bank holds every cue rendered to PCM.
type Bank struct {
	pcm map[game.Sound][]byte
}

// NewBank renders all cues at volume.
func NewBank(volume float64) (*Bank, error) {
	b := &Bank{pcm: make(map[game.Sound][]byte, len(cueNotes))}
	for cue := range cueNotes {
		data, err := Render(cue, volume)
		if err != nil {
			return nil, err
		}
		b.pcm[cue] = data
	}
	return b, nil
}

// PCM returns the rendered bytes for cue, or nil.
func (b *Bank) PCM(cue game.Sound) []byte {
	return b.pcm[cue]
}
