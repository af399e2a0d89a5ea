package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// resampleQuality is the beep resampler quality used for rate conversion and pitch.
const resampleQuality = 4

// ErrUnsupportedFormat is returned for clip files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Clip is a fully decoded sound held in memory. Each playback gets its own
// cursor, so one clip can be layered on itself.
type Clip struct {
	name string
	buf  *beep.Buffer
}

// NewClip drains s into a new clip at format.
func NewClip(name string, format beep.Format, s beep.Streamer) *Clip {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return &Clip{name: name, buf: buf}
}

// Name implements cue.Clip.
func (c *Clip) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Len returns the clip length in samples.
func (c *Clip) Len() int { return c.buf.Len() }

// Duration returns the clip length.
func (c *Clip) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// Streamer returns a fresh cursor over the whole clip.
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// LoadClip decodes a wav, mp3 or flac file and converts it to rate.
func LoadClip(name, path string, rate beep.SampleRate) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sound: open %s: %w", path, err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".flac":
		s, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("sound: load %s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != rate {
		src = beep.Resample(resampleQuality, format.SampleRate, rate, s)
	}
	return NewClip(name, outputFormat(rate), src), nil
}

func outputFormat(rate beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
}
