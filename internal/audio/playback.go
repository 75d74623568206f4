package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"solstis/pkg/audioconv"
)

// Player pushes raw mono PCM16 to the speaker through beep. One global
// speaker is initialized at the TTS output rate; the chime is resampled
// to match.
type Player struct {
	rate beep.SampleRate
}

func NewPlayer(sampleRate int) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("bad sample rate %d", sampleRate)
	}
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return &Player{rate: rate}, nil
}

// Play blocks until the clip finishes or ctx is cancelled; cancellation
// cuts the audio off.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("audio: empty clip")
	}
	done := make(chan struct{})
	st := &pcmStreamer{samples: audioconv.BytesToInt16(pcm)}
	speaker.Play(beep.Seq(st, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// Rate is the speaker sample rate, for resampling other sources.
func (p *Player) Rate() beep.SampleRate { return p.rate }

func (p *Player) Close() {
	speaker.Close()
}

// pcmStreamer adapts a mono int16 slice to beep's stereo float frames.
type pcmStreamer struct {
	samples []int16
	pos     int
}

func (s *pcmStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := 0
	for ; n < len(out) && s.pos < len(s.samples); n++ {
		v := float64(s.samples[s.pos]) / 32768.0
		out[n][0] = v
		out[n][1] = v
		s.pos++
	}
	return n, true
}

func (s *pcmStreamer) Err() error { return nil }
