package sound

import (
	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/tomz197/asteroids-audio/internal/cue"
)

// minRatio keeps the resampler ratio positive for zero or negative pitch.
const minRatio = 0.01

// Compile-time check that Channel implements cue.Channel.
var _ cue.Channel = (*Channel)(nil)

// Channel is a cue.Channel on top of an Output. One-shots are rendered at the
// pitch and volume current when they are triggered; the looping voice follows
// volume and pitch changes live.
type Channel struct {
	name   string
	out    Output
	logger *log.Logger

	volume float64
	pitch  float64

	loopClip *Clip
	voice    *voice

	// OnPlay, if set, is called after every one-shot trigger.
	OnPlay func(clip string, volume, pitch float64)
}

// NewChannel returns a channel at full volume and normal pitch.
func NewChannel(name string, out Output, logger *log.Logger) *Channel {
	if logger == nil {
		logger = log.Default()
	}
	return &Channel{
		name:   name,
		out:    out,
		logger: logger.With("channel", name),
		volume: 1,
		pitch:  1,
	}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Play fires clip once. volume is scaled by the channel volume.
func (c *Channel) Play(clip cue.Clip, volume float64) {
	cl, ok := clip.(*Clip)
	if !ok || cl == nil {
		c.logger.Warn("cannot play clip", "clip", clipName(clip))
		return
	}

	gain := clamp01(volume) * c.volume
	var s beep.Streamer = cl.Streamer()
	if c.pitch != 1 {
		s = beep.ResampleRatio(resampleQuality, ratio(c.pitch), s)
	}
	c.out.Play(&effects.Gain{Streamer: s, Gain: gain - 1})

	if c.OnPlay != nil {
		c.OnPlay(cl.Name(), gain, c.pitch)
	}
}

func (c *Channel) Pitch() float64 { return c.pitch }

// SetPitch changes the pitch of later one-shots and of the looping voice.
func (c *Channel) SetPitch(pitch float64) {
	c.pitch = pitch
	if c.voice == nil {
		return
	}
	c.out.Lock()
	c.voice.resampler.SetRatio(ratio(pitch))
	c.out.Unlock()
}

func (c *Channel) Volume() float64 { return c.volume }

// SetVolume sets the channel volume, clamped to [0, 1].
func (c *Channel) SetVolume(volume float64) {
	c.volume = clamp01(volume)
	if c.voice == nil {
		return
	}
	c.out.Lock()
	c.voice.gain.Gain = c.volume - 1
	c.out.Unlock()
}

// SetLoopingClip stops the current loop and assigns clip for the next Start.
func (c *Channel) SetLoopingClip(clip cue.Clip) {
	c.Stop()
	cl, ok := clip.(*Clip)
	if !ok || cl == nil {
		c.logger.Warn("cannot loop clip", "clip", clipName(clip))
		c.loopClip = nil
		return
	}
	c.loopClip = cl
}

// LoopingClip returns the clip assigned for looping, or nil.
func (c *Channel) LoopingClip() *Clip { return c.loopClip }

// Start plays the looping clip from the beginning.
func (c *Channel) Start() {
	if c.loopClip == nil {
		return
	}
	c.Stop()

	loop := beep.Loop(-1, c.loopClip.Streamer())
	resampler := beep.ResampleRatio(resampleQuality, ratio(c.pitch), loop)
	v := &voice{
		resampler: resampler,
		gain:      &effects.Gain{Streamer: resampler, Gain: c.volume - 1},
	}
	c.voice = v
	c.out.Play(v)
}

// Stop ends the looping voice, if any.
func (c *Channel) Stop() {
	if c.voice == nil {
		return
	}
	c.out.Lock()
	c.voice.stopped = true
	c.out.Unlock()
	c.voice = nil
}

// Playing reports whether the looping voice is running.
func (c *Channel) Playing() bool { return c.voice != nil }

// voice is the looping music streamer. Once stopped it reports drained so
// the output drops it.
type voice struct {
	resampler *beep.Resampler
	gain      *effects.Gain
	stopped   bool
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.stopped {
		return 0, false
	}
	return v.gain.Stream(samples)
}

func (v *voice) Err() error { return v.gain.Err() }

func ratio(pitch float64) float64 {
	if pitch < minRatio {
		return minRatio
	}
	return pitch
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clipName(clip cue.Clip) string {
	if clip == nil {
		return ""
	}
	return clip.Name()
}
