package speech

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"solstis/pkg/audioconv"
)

func testVoice(t *testing.T, handler http.HandlerFunc) *ElevenLabs {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e := NewElevenLabs(VoiceOptions{
		APIKey:          "test-key",
		VoiceID:         "voice-1",
		ModelID:         "eleven_turbo_v2_5",
		Stability:       0.5,
		SimilarityBoost: 0.75,
		OutputRate:      24000,
	}, srv.Client(), slog.New(slog.DiscardHandler))
	e.baseURL = srv.URL
	return e
}

func TestTranscribe(t *testing.T) {
	e := testVoice(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speech-to-text" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("model_id"); got != "scribe_v1" {
			t.Errorf("model_id = %q", got)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		head := make([]byte, 4)
		f.Read(head)
		if string(head) != "RIFF" {
			t.Errorf("upload is not a WAV, header %q", head)
		}
		w.Write([]byte(`{"text":"I cut my finger"}`))
	})

	pcm := audioconv.Int16ToBytes(make([]int16, 1600))
	got, err := e.Transcribe(context.Background(), pcm)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "I cut my finger" {
		t.Errorf("text = %q", got)
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte{1, 2, 3, 4}
	e := testVoice(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/voice-1") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("output_format"); got != "pcm_24000" {
			t.Errorf("output_format = %q", got)
		}
		w.Write(audio)
	})

	got, err := e.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(got) != len(audio) {
		t.Errorf("got %d bytes, want %d", len(got), len(audio))
	}
}

func TestSynthesizeErrorStatus(t *testing.T) {
	e := testVoice(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Error("expected error on 429")
	}
}
