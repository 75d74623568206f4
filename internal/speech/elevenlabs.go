// Package speech holds the cloud calls a conversation turn makes:
// ElevenLabs speech-to-text and text-to-speech, the OpenAI chat model,
// and the system prompt that frames it. Services composes them behind
// the interface the state machine consumes, with a local whisper
// fallback for transcription when the network is down.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"solstis/pkg/audioconv"
)

const (
	elevenLabsBase = "https://api.elevenlabs.io"
	sttModelID     = "scribe_v1"
	captureRate    = 16000
)

// ElevenLabs is the HTTP client for both speech directions.
type ElevenLabs struct {
	apiKey          string
	voiceID         string
	modelID         string
	stability       float64
	similarityBoost float64
	outRate         int
	baseURL         string

	httpc *http.Client
	log   *slog.Logger
}

type VoiceOptions struct {
	APIKey          string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	OutputRate      int
}

func NewElevenLabs(opts VoiceOptions, httpc *http.Client, log *slog.Logger) *ElevenLabs {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &ElevenLabs{
		apiKey:          opts.APIKey,
		voiceID:         opts.VoiceID,
		modelID:         opts.ModelID,
		stability:       opts.Stability,
		similarityBoost: opts.SimilarityBoost,
		outRate:         opts.OutputRate,
		baseURL:         elevenLabsBase,
		httpc:           httpc,
		log:             log,
	}
}

// Transcribe sends 16 kHz mono PCM16 as a WAV upload and returns the
// transcript text.
func (e *ElevenLabs) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	wavData, err := audioconv.EncodeWAV(pcm, captureRate)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model_id", sttModelID); err != nil {
		return "", fmt.Errorf("stt form: %w", err)
	}
	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("stt form: %w", err)
	}
	if _, err := fw.Write(wavData); err != nil {
		return "", fmt.Errorf("stt form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("stt form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("stt status %d: %s", resp.StatusCode, b)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("stt decode: %w", err)
	}
	return out.Text, nil
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func (e *ElevenLabs) settings() voiceSettings {
	return voiceSettings{
		Stability:       e.stability,
		SimilarityBoost: e.similarityBoost,
		UseSpeakerBoost: true,
	}
}

// Synthesize returns raw mono PCM16 at the configured output rate.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(struct {
		Text          string        `json:"text"`
		ModelID       string        `json:"model_id"`
		VoiceSettings voiceSettings `json:"voice_settings"`
	}{
		Text:          text,
		ModelID:       e.modelID,
		VoiceSettings: e.settings(),
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=pcm_%d", e.baseURL, e.voiceID, e.outRate)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts status %d: %s", resp.StatusCode, b)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts read: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}
	return pcm, nil
}
