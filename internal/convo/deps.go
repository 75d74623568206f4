// Package convo runs the turn-taking state machine at the heart of the
// assistant: wake word in, utterance captured, reply spoken, LEDs lit,
// next state picked from the reply outcome.
package convo

import (
	"context"
	"time"

	"solstis/internal/kit"
)

// WakeWord identifies which keyword fired.
type WakeWord int

const (
	WakeNone WakeWord = iota
	WakeSolstis
	WakeStepComplete
)

// WakeListener is the microphone side: blocking wake word detection and
// voice-activity-bounded utterance capture. ListenForSpeech returns raw
// 16 kHz mono PCM16 bytes, or nil when no speech started within wait.
type WakeListener interface {
	WaitForWakeWord(ctx context.Context) (WakeWord, error)
	ListenForSpeech(ctx context.Context, wait time.Duration) ([]byte, error)
}

// SpeechServices covers the three cloud calls a turn makes.
type SpeechServices interface {
	Transcribe(ctx context.Context, pcm []byte) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Chat(ctx context.Context, system string, turns []Turn) (string, error)
}

// AudioOut plays raw synthesized PCM on the speaker.
type AudioOut interface {
	Play(ctx context.Context, pcm []byte) error
}

// Illuminator drives the LED strip around the kit compartments.
type Illuminator interface {
	Light(items []kit.Item) error
	Clear() error
	StartSpeakPulse()
	StopSpeakPulse()
}

// LidSensor reports the kit lid position.
type LidSensor interface {
	IsOpen() bool
}
