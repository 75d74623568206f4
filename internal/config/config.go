// Package config loads daemon settings from the environment. An .env
// file, if present, is merged in by the caller before Load runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Required API credentials.
	ElevenLabsAPIKey   string
	OpenAIAPIKey       string
	PicovoiceAccessKey string

	// Wake word engine.
	WakewordPath     string // custom .ppn for "solstis"
	StepCompletePath string // custom .ppn for "step complete"
	Wakeword         string // builtin keyword fallback when no .ppn

	// Capture and voice activity detection.
	SpeechThreshold      float64 // RMS floor for the fallback energy VAD
	CobraVADThreshold    float64 // per-frame voice probability floor
	VADCompletion        time.Duration
	MaxSpeechDuration    time.Duration
	MicDevice            string
	AudioDevice          string
	OutputSampleRate     int

	// Listening windows.
	ShortTimeout  time.Duration
	NormalTimeout time.Duration
	LongTimeout   time.Duration

	// Conversation.
	UserName string
	Model    string

	// ElevenLabs voice.
	VoiceID         string
	VoiceModelID    string
	Stability       float64
	SimilarityBoost float64

	// LED strip.
	LEDEnabled    bool
	LEDCount      int
	LEDPin        int
	LEDBrightness int

	// Reed switch on the lid.
	ReedEnabled  bool
	ReedPin      int
	ReedDebounce time.Duration

	// Offline fallback and sounds.
	WhisperModelPath string
	ChimePath        string
}

func Load() Config {
	return Config{
		ElevenLabsAPIKey:   os.Getenv("ELEVENLABS_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		PicovoiceAccessKey: os.Getenv("PICOVOICE_ACCESS_KEY"),

		WakewordPath:     os.Getenv("SOLSTIS_WAKEWORD_PATH"),
		StepCompletePath: os.Getenv("STEP_COMPLETE_WAKEWORD_PATH"),
		Wakeword:         envStr("WAKEWORD", "computer"),

		SpeechThreshold:   envFloat("SPEECH_THRESHOLD", 500),
		CobraVADThreshold: envFloat("COBRA_VAD_THRESHOLD", 0.2),
		VADCompletion:     envDuration("VAD_COMPLETION_THRESHOLD", 800*time.Millisecond),
		MaxSpeechDuration: envDuration("MAX_SPEECH_DURATION", 30*time.Second),
		MicDevice:         os.Getenv("MIC_DEVICE"),
		AudioDevice:       os.Getenv("AUDIO_DEVICE"),
		OutputSampleRate:  envInt("OUT_SR", 24000),

		ShortTimeout:  envDuration("T_SHORT", 7*time.Second),
		NormalTimeout: envDuration("T_NORMAL", 15*time.Second),
		LongTimeout:   envDuration("T_LONG", 30*time.Second),

		UserName: envStr("USER_NAME", "there"),
		Model:    envStr("MODEL", "gpt-4o-mini"),

		VoiceID:         envStr("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		VoiceModelID:    envStr("ELEVENLABS_MODEL_ID", "eleven_turbo_v2_5"),
		Stability:       envFloat("ELEVENLABS_STABILITY", 0.5),
		SimilarityBoost: envFloat("ELEVENLABS_SIMILARITY_BOOST", 0.75),

		LEDEnabled:    envBool("LED_ENABLED", true),
		LEDCount:      envInt("LED_COUNT", 730),
		LEDPin:        envInt("LED_PIN", 13),
		LEDBrightness: envInt("LED_BRIGHTNESS", 70),

		ReedEnabled:  envBool("REED_SWITCH_ENABLED", true),
		ReedPin:      envInt("REED_SWITCH_PIN", 17),
		ReedDebounce: envDuration("REED_SWITCH_DEBOUNCE_MS", 50*time.Millisecond),

		WhisperModelPath: os.Getenv("WHISPER_MODEL_PATH"),
		ChimePath:        os.Getenv("CHIME_PATH"),
	}
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.ElevenLabsAPIKey == "" {
		errs = append(errs, errors.New("ELEVENLABS_API_KEY is not set"))
	}
	if c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
	}
	if c.PicovoiceAccessKey == "" {
		errs = append(errs, errors.New("PICOVOICE_ACCESS_KEY is not set"))
	}
	if c.OutputSampleRate <= 0 {
		errs = append(errs, fmt.Errorf("OUT_SR must be positive, got %d", c.OutputSampleRate))
	}
	if c.LEDEnabled && c.LEDCount <= 0 {
		errs = append(errs, fmt.Errorf("LED_COUNT must be positive, got %d", c.LEDCount))
	}
	return errors.Join(errs...)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// envDuration accepts either a Go duration string ("800ms") or a bare
// number. Bare numbers in *_MS keys are milliseconds, elsewhere seconds.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if len(key) > 3 && key[len(key)-3:] == "_MS" {
			return time.Duration(f * float64(time.Millisecond))
		}
		return time.Duration(f * float64(time.Second))
	}
	return def
}
