// Package sound is the beep-backed audio output for cue channels: an output
// device, clip decoding, procedural clips and the channel implementation.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the output rate clips are converted to.
const DefaultSampleRate = beep.SampleRate(44100)

// Output plays streamers. Streamers handed to Play are pulled from another
// goroutine, so any mutation of a playing streamer must happen between Lock
// and Unlock. Play must not be called while the lock is held.
type Output interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
	SampleRate() beep.SampleRate
}

// SpeakerOutput plays through the default audio device.
type SpeakerOutput struct {
	rate beep.SampleRate
}

// OpenSpeaker initializes the audio device. buffer trades latency for
// robustness against stalls; a few tens of milliseconds is typical.
func OpenSpeaker(rate beep.SampleRate, buffer time.Duration) (*SpeakerOutput, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("sound: init speaker: %w", err)
	}
	return &SpeakerOutput{rate: rate}, nil
}

func (o *SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (o *SpeakerOutput) Lock() { speaker.Lock() }
func (o *SpeakerOutput) Unlock() { speaker.Unlock() }
func (o *SpeakerOutput) SampleRate() beep.SampleRate { return o.rate }

// Close stops playback and releases the device.
func (o *SpeakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}

// MixOutput mixes streamers in memory. Nothing pulls samples on its own:
// callers advance it with Stream or Advance. Used for sessions without a
// local device and in tests.
type MixOutput struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	mixer beep.Mixer
	skip  [][2]float64
}

// NewMixOutput returns an empty in-memory mixer at rate.
func NewMixOutput(rate beep.SampleRate) *MixOutput {
	return &MixOutput{rate: rate}
}

func (m *MixOutput) Play(s beep.Streamer) {
	m.mu.Lock()
	m.mixer.Add(s)
	m.mu.Unlock()
}

func (m *MixOutput) Lock() { m.mu.Lock() }
func (m *MixOutput) Unlock() { m.mu.Unlock() }
func (m *MixOutput) SampleRate() beep.SampleRate { return m.rate }

// Stream pulls mixed samples. It implements beep.Streamer.
func (m *MixOutput) Stream(samples [][2]float64) (n int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Stream(samples)
}

func (m *MixOutput) Err() error { return nil }

// Advance pulls and discards d worth of samples so finished streamers are
// dropped from the mix.
func (m *MixOutput) Advance(d time.Duration) {
	n := m.rate.N(d)
	if n <= 0 {
		return
	}
	if cap(m.skip) < n {
		m.skip = make([][2]float64, n)
	}
	m.Stream(m.skip[:n])
}

// Active returns the number of streamers still in the mix.
func (m *MixOutput) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Len()
}
