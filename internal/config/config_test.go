package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ELEVENLABS_API_KEY", "el-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("PICOVOICE_ACCESS_KEY", "pv-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	c := Load()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.LEDCount != 730 {
		t.Errorf("LEDCount = %d, want 730", c.LEDCount)
	}
	if c.OutputSampleRate != 24000 {
		t.Errorf("OutputSampleRate = %d, want 24000", c.OutputSampleRate)
	}
	if c.VADCompletion != 800*time.Millisecond {
		t.Errorf("VADCompletion = %v, want 800ms", c.VADCompletion)
	}
	if c.NormalTimeout != 15*time.Second {
		t.Errorf("NormalTimeout = %v, want 15s", c.NormalTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("USER_NAME", "Riley")
	t.Setenv("T_NORMAL", "20")
	t.Setenv("REED_SWITCH_DEBOUNCE_MS", "100")
	t.Setenv("LED_ENABLED", "false")
	t.Setenv("COBRA_VAD_THRESHOLD", "0.35")

	c := Load()
	if c.UserName != "Riley" {
		t.Errorf("UserName = %q", c.UserName)
	}
	if c.NormalTimeout != 20*time.Second {
		t.Errorf("NormalTimeout = %v, want 20s", c.NormalTimeout)
	}
	if c.ReedDebounce != 100*time.Millisecond {
		t.Errorf("ReedDebounce = %v, want 100ms", c.ReedDebounce)
	}
	if c.LEDEnabled {
		t.Error("LEDEnabled = true, want false")
	}
	if c.CobraVADThreshold != 0.35 {
		t.Errorf("CobraVADThreshold = %f", c.CobraVADThreshold)
	}
}

func TestValidateReportsAllMissingKeys(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PICOVOICE_ACCESS_KEY", "")

	err := Load().Validate()
	if err == nil {
		t.Fatal("expected error for missing keys")
	}
	for _, key := range []string{"ELEVENLABS_API_KEY", "OPENAI_API_KEY", "PICOVOICE_ACCESS_KEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
}

func TestEnvDurationFormats(t *testing.T) {
	setRequired(t)
	t.Setenv("VAD_COMPLETION_THRESHOLD", "1.5s")
	c := Load()
	if c.VADCompletion != 1500*time.Millisecond {
		t.Errorf("VADCompletion = %v, want 1.5s", c.VADCompletion)
	}

	t.Setenv("VAD_COMPLETION_THRESHOLD", "0.8")
	c = Load()
	if c.VADCompletion != 800*time.Millisecond {
		t.Errorf("bare-number VADCompletion = %v, want 800ms", c.VADCompletion)
	}
}
