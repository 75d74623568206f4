package audioconv

import (
	"bytes"
	"math"
	"testing"
)

func TestInt16BytesRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 12345}
	got := BytesToInt16(Int16ToBytes(in))
	if len(got) != len(in) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("sample %d: got %d want %d", i, got[i], in[i])
		}
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("empty frame RMS = %f, want 0", got)
	}
	// Constant-amplitude frame has RMS equal to the amplitude.
	frame := make([]int16, 320)
	for i := range frame {
		frame[i] = 1000
	}
	if got := RMS(frame); math.Abs(got-1000) > 0.001 {
		t.Errorf("RMS = %f, want 1000", got)
	}
}

func TestResampleLinear(t *testing.T) {
	x := make([]int16, 16000)
	for i := range x {
		x[i] = int16(i % 100)
	}
	y := ResampleLinear(x, 16000, 24000)
	if len(y) != 24000 {
		t.Errorf("resampled length = %d, want 24000", len(y))
	}
	// Same rate is a no-op.
	if got := ResampleLinear(x, 16000, 16000); len(got) != len(x) {
		t.Errorf("same-rate resample changed length: %d", len(got))
	}
}

func TestEncodeWAV(t *testing.T) {
	pcm := Int16ToBytes(make([]int16, 1600))
	out, err := EncodeWAV(pcm, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("RIFF")) {
		t.Errorf("missing RIFF header, got % x", out[:4])
	}
	if len(out) <= len(pcm) {
		t.Errorf("container smaller than payload: %d <= %d", len(out), len(pcm))
	}

	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("expected error for empty pcm")
	}
}
