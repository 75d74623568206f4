// Package wake listens on the microphone for the two keywords and
// captures voice-activity-bounded utterances. Porcupine does keyword
// spotting; Cobra scores per-frame voice probability, with a plain RMS
// energy gate as fallback when Cobra is unavailable.
package wake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Picovoice/cobra/binding/go"
	porcupine "github.com/Picovoice/porcupine/binding/go/v3"

	"solstis/internal/audio"
	"solstis/internal/convo"
	"solstis/pkg/audioconv"
)

// preRollFrames of audio kept before speech onset so word starts are
// not clipped.
const preRollFrames = 10

type Options struct {
	AccessKey        string
	WakewordPath     string // "solstis" .ppn; falls back to BuiltinKeyword
	StepCompletePath string // "step complete" .ppn, optional
	BuiltinKeyword   string

	CobraThreshold  float64 // voice probability floor per frame
	SpeechThreshold float64 // RMS floor for the fallback gate
	VADCompletion   time.Duration
	MaxSpeech       time.Duration

	MicDevice string
}

type Engine struct {
	log  *slog.Logger
	opts Options

	porcupine porcupine.Porcupine
	cobra     *cobra.Cobra
	capture   *audio.Capture

	// keyword index -> wake word, in Porcupine keyword order
	stepIndex int
}

func NewEngine(opts Options, log *slog.Logger) (*Engine, error) {
	e := &Engine{log: log, opts: opts, stepIndex: -1}

	p := porcupine.Porcupine{AccessKey: opts.AccessKey}
	switch {
	case opts.WakewordPath != "" && opts.StepCompletePath != "":
		p.KeywordPaths = []string{opts.WakewordPath, opts.StepCompletePath}
		e.stepIndex = 1
	case opts.WakewordPath != "":
		p.KeywordPaths = []string{opts.WakewordPath}
	default:
		p.BuiltInKeywords = []porcupine.BuiltInKeyword{porcupine.BuiltInKeyword(opts.BuiltinKeyword)}
		log.Warn("no keyword models configured, using builtin keyword", "keyword", opts.BuiltinKeyword)
	}
	if err := p.Init(); err != nil {
		return nil, fmt.Errorf("porcupine init: %w", err)
	}
	e.porcupine = p

	c := cobra.NewCobra(opts.AccessKey)
	if err := c.Init(); err != nil {
		log.Warn("cobra init failed, falling back to energy gate", "err", err)
	} else {
		e.cobra = &c
	}

	mic, err := audio.NewCapture(opts.MicDevice, porcupine.SampleRate, porcupine.FrameLength)
	if err != nil {
		e.close()
		return nil, err
	}
	if err := mic.Start(); err != nil {
		mic.Close()
		e.close()
		return nil, fmt.Errorf("start capture: %w", err)
	}
	e.capture = mic
	return e, nil
}

func (e *Engine) Close() error {
	return e.close()
}

func (e *Engine) close() error {
	var err error
	if e.capture != nil {
		err = e.capture.Close()
		e.capture = nil
	}
	if e.cobra != nil {
		e.cobra.Delete()
		e.cobra = nil
	}
	e.porcupine.Delete()
	return err
}

// WaitForWakeWord blocks until a keyword fires or ctx ends.
func (e *Engine) WaitForWakeWord(ctx context.Context) (convo.WakeWord, error) {
	for {
		if err := ctx.Err(); err != nil {
			return convo.WakeNone, err
		}
		frame, err := e.capture.Read()
		if err != nil {
			return convo.WakeNone, fmt.Errorf("read frame: %w", err)
		}
		idx, err := e.porcupine.Process(frame)
		if err != nil {
			return convo.WakeNone, fmt.Errorf("porcupine process: %w", err)
		}
		switch {
		case idx < 0:
		case idx == e.stepIndex:
			return convo.WakeStepComplete, nil
		default:
			return convo.WakeSolstis, nil
		}
	}
}

// ListenForSpeech waits up to wait for speech to begin, then records
// until the trailing silence exceeds the completion threshold or the
// clip hits the duration cap. Returns nil when nobody spoke.
func (e *Engine) ListenForSpeech(ctx context.Context, wait time.Duration) ([]byte, error) {
	frameDur := time.Duration(porcupine.FrameLength) * time.Second / time.Duration(porcupine.SampleRate)

	var (
		preRoll   [][]int16
		recorded  []int16
		started   bool
		silence   time.Duration
		elapsed   time.Duration
		recording time.Duration
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := e.capture.Read()
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		voiced := e.isVoiced(frame)

		if !started {
			elapsed += frameDur
			cp := make([]int16, len(frame))
			copy(cp, frame)
			preRoll = append(preRoll, cp)
			if len(preRoll) > preRollFrames {
				preRoll = preRoll[1:]
			}
			if voiced {
				started = true
				for _, f := range preRoll {
					recorded = append(recorded, f...)
				}
				e.log.Debug("speech started")
				continue
			}
			if elapsed >= wait {
				return nil, nil
			}
			continue
		}

		recorded = append(recorded, frame...)
		recording += frameDur
		if voiced {
			silence = 0
		} else {
			silence += frameDur
		}
		if silence >= e.opts.VADCompletion || recording >= e.opts.MaxSpeech {
			break
		}
	}

	e.log.Debug("speech captured", "duration", recording.Round(10*time.Millisecond))
	return audioconv.Int16ToBytes(recorded), nil
}

func (e *Engine) isVoiced(frame []int16) bool {
	if e.cobra != nil {
		prob, err := e.cobra.Process(frame)
		if err == nil {
			return float64(prob) >= e.opts.CobraThreshold
		}
		e.log.Warn("cobra process failed", "err", err)
	}
	return audioconv.RMS(frame) >= e.opts.SpeechThreshold
}
