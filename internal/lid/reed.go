// Package lid watches the reed switch under the kit lid. The switch
// pulls the line low while the magnet in the lid is near, so a high
// line means the lid is open.
package lid

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

type Reed struct {
	line *gpiocdev.Line
	open atomic.Bool
	log  *slog.Logger
}

func NewReed(chip string, pin int, debounce time.Duration, log *slog.Logger) (*Reed, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	r := &Reed{log: log}

	line, err := gpiocdev.RequestLine(chip, pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithEventHandler(r.onEvent),
	)
	if err != nil {
		return nil, fmt.Errorf("request gpio line %d: %w", pin, err)
	}
	r.line = line

	v, err := line.Value()
	if err != nil {
		line.Close()
		return nil, fmt.Errorf("read gpio line %d: %w", pin, err)
	}
	r.open.Store(v != 0)
	return r, nil
}

func (r *Reed) onEvent(ev gpiocdev.LineEvent) {
	open := ev.Type == gpiocdev.LineEventRisingEdge
	if r.open.Swap(open) != open {
		r.log.Debug("lid moved", "open", open)
	}
}

func (r *Reed) IsOpen() bool {
	return r.open.Load()
}

func (r *Reed) Close() error {
	return r.line.Close()
}
