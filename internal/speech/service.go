package speech

import (
	"context"
	"log/slog"

	"solstis/internal/convo"
	"solstis/pkg/audioconv"
	"solstis/pkg/stt"
)

// Services bundles the cloud calls behind one value. Transcription
// falls back to the local whisper model when the API call fails;
// synthesis tries the streaming endpoint first and retreats to plain
// HTTP.
type Services struct {
	voice     *ElevenLabs
	chat      *ChatClient
	offline   *stt.Transcriber // nil when no model configured
	streaming bool
	log       *slog.Logger
}

func NewServices(voice *ElevenLabs, chat *ChatClient, offline *stt.Transcriber, streaming bool, log *slog.Logger) *Services {
	return &Services{
		voice:     voice,
		chat:      chat,
		offline:   offline,
		streaming: streaming,
		log:       log,
	}
}

var _ convo.SpeechServices = (*Services)(nil)

func (s *Services) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	text, err := s.voice.Transcribe(ctx, pcm)
	if err == nil {
		return text, nil
	}
	if s.offline == nil {
		return "", err
	}
	s.log.Warn("cloud transcription failed, using local model", "err", err)
	samples := audioconv.Int16ToFloat32(audioconv.BytesToInt16(pcm))
	return s.offline.TranscribePCM(ctx, samples)
}

func (s *Services) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.streaming {
		pcm, err := s.voice.SynthesizeStream(ctx, text)
		if err == nil {
			return pcm, nil
		}
		s.log.Warn("streaming synthesis failed, using http", "err", err)
	}
	return s.voice.Synthesize(ctx, text)
}

func (s *Services) Chat(ctx context.Context, system string, turns []convo.Turn) (string, error) {
	return s.chat.Chat(ctx, system, turns)
}
