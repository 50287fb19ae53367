package desktop

import (
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/plus3/circles/audio"
	"github.com/plus3/circles/game"
)

// ebitenPlayer plays pre-rendered cues through ebiten's audio context.
type ebitenPlayer struct {
	ctx  *ebitenaudio.Context
	bank *audio.Bank
}

func newEbitenPlayer(volume float64) (*ebitenPlayer, error) {
	bank, err := audio.NewBank(volume)
	if err != nil {
		return nil, err
	}
	ctx := ebitenaudio.CurrentContext()
	if ctx == nil {
		ctx = ebitenaudio.NewContext(int(audio.SampleRate))
	}
	return &ebitenPlayer{ctx: ctx, bank: bank}, nil
}

func (p *ebitenPlayer) Play(cue game.Sound) {
	pcm := p.bank.PCM(cue)
	if pcm == nil {
		return
	}
	p.ctx.NewPlayerFromBytes(pcm).Play()
}

func (p *ebitenPlayer) Close() error {
	return nil
}
