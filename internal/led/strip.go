// Package led drives the WS281x strip that outlines the kit
// compartments. Item highlights are a steady frame; while the
// assistant talks, a soft pulse runs on the center segments without
// disturbing the highlights.
package led

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"solstis/internal/kit"
)

const (
	itemColor  = 0x00F0FF // (0, 240, 255)
	pulseColor = 0x00B4FF // (0, 180, 255)

	pulseFrame  = 30 * time.Millisecond
	pulsePeriod = 1200 * time.Millisecond
)

// pulseRanges are the center segments used for the speaking animation.
var pulseRanges = []kit.Range{{Start: 643, End: 663}, {Start: 696, End: 727}}

type Options struct {
	Pin        int
	Count      int
	Brightness int
}

type Strip struct {
	dev   *ws2811.WS2811
	count int
	log   *slog.Logger

	mu        sync.Mutex
	base      []uint32 // steady highlight frame
	pulseStop chan struct{}
	pulseDone chan struct{}
}

func NewStrip(opts Options, log *slog.Logger) (*Strip, error) {
	o := ws2811.DefaultOptions
	o.Channels[0].GpioPin = opts.Pin
	o.Channels[0].LedCount = opts.Count
	o.Channels[0].Brightness = opts.Brightness

	dev, err := ws2811.MakeWS2811(&o)
	if err != nil {
		return nil, fmt.Errorf("ws2811 make: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws2811 init: %w", err)
	}
	return &Strip{
		dev:   dev,
		count: opts.Count,
		base:  make([]uint32, opts.Count),
		log:   log,
	}, nil
}

func (s *Strip) Close() {
	s.StopSpeakPulse()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blankLocked()
	s.dev.Fini()
}

// Light replaces the highlight frame with the given items' ranges.
func (s *Strip) Light(items []kit.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.base {
		s.base[i] = 0
	}
	for _, it := range items {
		for _, r := range it.LEDRanges {
			s.fill(s.base, r, itemColor)
		}
	}
	return s.renderLocked()
}

func (s *Strip) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.base {
		s.base[i] = 0
	}
	return s.renderLocked()
}

// StartSpeakPulse runs the speaking animation until stopped. Calling it
// while a pulse is already running is a no-op.
func (s *Strip) StartSpeakPulse() {
	s.mu.Lock()
	if s.pulseStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.pulseStop = stop
	s.pulseDone = done
	s.mu.Unlock()

	go s.pulse(stop, done)
}

func (s *Strip) StopSpeakPulse() {
	s.mu.Lock()
	stop, done := s.pulseStop, s.pulseDone
	s.pulseStop, s.pulseDone = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.renderLocked(); err != nil {
		s.log.Warn("led render failed", "err", err)
	}
}

func (s *Strip) pulse(stop, done chan struct{}) {
	defer close(done)
	tick := time.NewTicker(pulseFrame)
	defer tick.Stop()

	start := time.Now()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
		}
		phase := float64(time.Since(start)%pulsePeriod) / float64(pulsePeriod)
		level := 0.5 - 0.5*math.Cos(2*math.Pi*phase)

		s.mu.Lock()
		frame := make([]uint32, s.count)
		copy(frame, s.base)
		for _, r := range pulseRanges {
			s.fill(frame, r, scale(pulseColor, level))
		}
		leds := s.dev.Leds(0)
		copy(leds, frame)
		if err := s.dev.Render(); err != nil {
			s.log.Warn("led render failed", "err", err)
		}
		s.mu.Unlock()
	}
}

func (s *Strip) fill(frame []uint32, r kit.Range, color uint32) {
	for i := r.Start; i <= r.End && i < len(frame); i++ {
		if i >= 0 {
			frame[i] = color
		}
	}
}

func (s *Strip) renderLocked() error {
	leds := s.dev.Leds(0)
	copy(leds, s.base)
	if err := s.dev.Render(); err != nil {
		return fmt.Errorf("ws2811 render: %w", err)
	}
	return nil
}

func (s *Strip) blankLocked() {
	leds := s.dev.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	if err := s.dev.Render(); err != nil {
		s.log.Warn("led render failed", "err", err)
	}
}

func scale(color uint32, level float64) uint32 {
	r := uint32(float64((color>>16)&0xFF) * level)
	g := uint32(float64((color>>8)&0xFF) * level)
	b := uint32(float64(color&0xFF) * level)
	return r<<16 | g<<8 | b
}
