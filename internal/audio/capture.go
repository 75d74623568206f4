// Package audio owns the sound card on both ends: a portaudio capture
// stream feeding fixed-size PCM16 frames to the wake word engine, and a
// beep-based speaker for synthesized replies and the wake chime.
package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Capture is a mono int16 input stream delivering frames of a fixed
// length, sized to what Porcupine and Cobra expect.
type Capture struct {
	stream *portaudio.Stream
	buf    []int16
}

// NewCapture opens the microphone. device selects an input by substring
// of its portaudio name; empty means the default input.
func NewCapture(device string, sampleRate, frameLen int) (*Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	c := &Capture{buf: make([]int16, frameLen)}

	in, err := pickInput(device)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	params := portaudio.LowLatencyParameters(in, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = frameLen

	c.stream, err = portaudio.OpenStream(params, c.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open capture stream: %w", err)
	}
	return c, nil
}

func pickInput(device string) (*portaudio.DeviceInfo, error) {
	if device == "" {
		in, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input: %w", err)
		}
		return in, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	for _, d := range devices {
		if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(device)) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no input device matching %q", device)
}

func (c *Capture) Start() error {
	return c.stream.Start()
}

// Read blocks for one frame. The returned slice is reused between
// calls; copy it if it must outlive the next Read.
func (c *Capture) Read() ([]int16, error) {
	if err := c.stream.Read(); err != nil {
		return nil, err
	}
	return c.buf, nil
}

func (c *Capture) Stop() error {
	return c.stream.Stop()
}

func (c *Capture) Close() error {
	err := c.stream.Close()
	portaudio.Terminate()
	return err
}
