package audioconv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Helpers for the two PCM paths in the system: 16 kHz mono capture
// (Porcupine/Cobra frames) and 24 kHz mono TTS output. Everything is
// little-endian signed 16-bit unless stated otherwise.

func BytesToInt16(pcm []byte) []int16 {
	n := len(pcm) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return out
}

func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Int16ToFloat32 scales samples into [-1, 1], the format whisper.cpp expects.
func Int16ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}
	return out
}

// RMS of one capture frame, used by the fallback energy VAD.
func RMS(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// ResampleLinear converts mono samples between sample rates with linear
// interpolation. Good enough for speech; not meant for music.
func ResampleLinear(x []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(x) == 0 {
		return x
	}
	ratio := float64(srcRate) / float64(dstRate)
	n := int(float64(len(x)) / ratio)
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(x)-1 {
			out[i] = x[len(x)-1]
			continue
		}
		frac := pos - float64(j)
		v := float64(x[j])*(1-frac) + float64(x[j+1])*frac
		out[i] = int16(v)
	}
	return out
}

// EncodeWAV wraps raw PCM16 mono bytes in a WAV container for upload to
// the transcription API.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("audioconv: empty pcm")
	}
	samples := BytesToInt16(pcm)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	w := &memWriter{}
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("audioconv: wav write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("audioconv: wav close: %w", err)
	}
	return w.buf, nil
}

// memWriter is the io.WriteSeeker the wav encoder wants, backed by a slice.
type memWriter struct {
	buf []byte
	pos int
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.pos+len(p) > len(w.buf) {
		grown := make([]byte, w.pos+len(p))
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *memWriter) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(w.pos) + offset
	case io.SeekEnd:
		pos = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("audioconv: bad whence")
	}
	if pos < 0 {
		return 0, errors.New("audioconv: negative seek")
	}
	w.pos = int(pos)
	return pos, nil
}
