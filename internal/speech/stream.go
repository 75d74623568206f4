package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// SynthesizeStream runs the same request over the websocket streaming
// endpoint, collecting PCM chunks as they arrive. The reply is small
// enough to buffer whole; the win over plain HTTP is time to first
// byte on slow links.
func (e *ElevenLabs) SynthesizeStream(ctx context.Context, text string) ([]byte, error) {
	url := fmt.Sprintf("wss://api.elevenlabs.io/v1/text-to-speech/%s/stream-input?model_id=%s&output_format=pcm_%d",
		e.voiceID, e.modelID, e.outRate)

	header := http.Header{}
	header.Set("xi-api-key", e.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("tts dial: %w", err)
	}
	defer conn.Close()

	// The protocol wants an init message with a space, the text, then
	// an empty text to flush and close.
	init := struct {
		Text          string        `json:"text"`
		VoiceSettings voiceSettings `json:"voice_settings"`
	}{Text: " ", VoiceSettings: e.settings()}
	if err := conn.WriteJSON(init); err != nil {
		return nil, fmt.Errorf("tts init: %w", err)
	}
	if err := conn.WriteJSON(map[string]string{"text": text + " "}); err != nil {
		return nil, fmt.Errorf("tts send: %w", err)
	}
	if err := conn.WriteJSON(map[string]string{"text": ""}); err != nil {
		return nil, fmt.Errorf("tts close: %w", err)
	}

	var pcm []byte
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return nil, fmt.Errorf("tts read: %w", err)
		}
		var chunk struct {
			Audio   string `json:"audio"`
			IsFinal bool   `json:"isFinal"`
		}
		if err := json.Unmarshal(msg, &chunk); err != nil {
			return nil, fmt.Errorf("tts chunk: %w", err)
		}
		if chunk.Audio != "" {
			raw, err := base64.StdEncoding.DecodeString(chunk.Audio)
			if err != nil {
				return nil, fmt.Errorf("tts chunk decode: %w", err)
			}
			pcm = append(pcm, raw...)
		}
		if chunk.IsFinal {
			break
		}
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("tts stream returned no audio")
	}
	return pcm, nil
}
