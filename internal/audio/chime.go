package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
)

// Chime is the short sound played when the wake word fires. The file is
// decoded once at startup into a buffer resampled to the speaker rate.
type Chime struct {
	buf *beep.Buffer
}

// LoadChime reads an mp3 or ogg file. player must already be
// initialized so the buffer lands at the right rate.
func LoadChime(path string, player *Player) (*Chime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chime: %w", err)
	}
	defer f.Close()

	var (
		st     beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		st, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		st, format, err = vorbis.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported chime format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode chime: %w", err)
	}
	defer st.Close()

	target := beep.Format{SampleRate: player.Rate(), NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(target)
	if format.SampleRate == target.SampleRate {
		buf.Append(st)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, target.SampleRate, st))
	}
	return &Chime{buf: buf}, nil
}

// Play fires the chime without blocking.
func (c *Chime) Play() {
	speaker.Play(c.buf.Streamer(0, c.buf.Len()))
}
