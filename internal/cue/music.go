package cue

import "time"

// MusicState is the phase of the background music.
type MusicState int

const (
	MusicIdle      MusicState = iota // Nothing loaded or playing
	MusicFadingOut                   // Current track ramping down
	MusicFadingIn                    // New track ramping up
	MusicPlaying                     // Steady loop
)

func (s MusicState) String() string {
	switch s {
	case MusicIdle:
		return "idle"
	case MusicFadingOut:
		return "fading out"
	case MusicFadingIn:
		return "fading in"
	case MusicPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// PlayMainMenuMusic crossfades to the main menu track.
func (c *Controller) PlayMainMenuMusic(fadeTime time.Duration) {
	c.StartCrossfade(c.clips.MainMenuMusic, fadeTime)
}

// PlayGameplayMusic crossfades to the gameplay track.
func (c *Controller) PlayGameplayMusic(fadeTime time.Duration) {
	c.StartCrossfade(c.clips.GameplayMusic, fadeTime)
}

// StartCrossfade fades the music channel out, swaps in clip as a loop and
// fades back to the volume the channel had when the crossfade started.
// A crossfade already in flight is cancelled first. The first step runs
// before StartCrossfade returns; the rest advance on Tick.
func (c *Controller) StartCrossfade(clip Clip, fadeTime time.Duration) {
	if c.music == nil || clip == nil {
		return
	}
	c.begin(clip, fadeTime)
}

// StopMusic fades the current track out and stops it. The channel volume is
// put back afterwards so the next track fades in to the same level.
func (c *Controller) StopMusic(fadeTime time.Duration) {
	if c.music == nil {
		return
	}
	if !c.musicOn && c.fade == nil {
		return
	}
	c.begin(nil, fadeTime)
}

// SetMusicPitchForWave scales music tempo with the wave index. The pitch is
// clamped to [0.5, MaxMusicPitch] and applied immediately, whatever the
// crossfade is doing.
func (c *Controller) SetMusicPitchForWave(wave int) {
	if c.music == nil {
		return
	}
	c.music.SetPitch(WavePitch(wave, c.settings))
}

// WavePitch returns the music pitch for wave under s.
func WavePitch(wave int, s Settings) float64 {
	pitch := 1 + float64(wave)*s.TempoPerWave
	if pitch < minMusicPitch {
		return minMusicPitch
	}
	if pitch > s.MaxMusicPitch {
		return s.MaxMusicPitch
	}
	return pitch
}

// Tick resumes the in-flight crossfade once, using delta as the time step.
// Call it once per frame.
func (c *Controller) Tick(delta time.Duration) {
	if c.fade == nil {
		return
	}
	dt := delta.Seconds()
	if dt < 0 {
		dt = 0
	}
	c.resume(dt)
}

// MusicState reports the current music phase.
func (c *Controller) MusicState() MusicState {
	if c.fade != nil {
		if c.fade.phase == phaseOut {
			return MusicFadingOut
		}
		return MusicFadingIn
	}
	if c.musicOn {
		return MusicPlaying
	}
	return MusicIdle
}

// Crossfading reports whether a music transition is in flight.
func (c *Controller) Crossfading() bool {
	return c.fade != nil
}

func (c *Controller) begin(clip Clip, fadeTime time.Duration) {
	if c.fade != nil {
		c.fade.cancel()
		c.fade = nil
	}
	c.fade = newCrossfade(c.music, clip, fadeTime.Seconds())
	c.logger.Debug("music transition", "clip", clipName(clip), "fade", fadeTime)
	c.resume(0)
}

func (c *Controller) resume(dt float64) {
	x := c.fade
	done := x.resume(dt)
	if x.phase != phaseOut {
		c.musicOn = x.clip != nil
	}
	if done && c.fade == x {
		c.fade = nil
	}
}

func clipName(clip Clip) string {
	if clip == nil {
		return ""
	}
	return clip.Name()
}

type fadePhase int

const (
	phaseOut fadePhase = iota
	phaseIn
	phaseDone
)

// crossfade is a resumable music transition. Each resume takes one volume
// sample and suspends; the clip swap happens inside a resume, between the
// last fade-out sample and the first fade-in sample.
type crossfade struct {
	ch          Channel
	clip        Clip    // Track to swap in, nil to stop instead
	duration    float64 // Seconds per half, <= 0 means an instant cut
	startVolume float64
	elapsed     float64
	phase       fadePhase
}

func newCrossfade(ch Channel, clip Clip, duration float64) *crossfade {
	return &crossfade{
		ch:          ch,
		clip:        clip,
		duration:    duration,
		startVolume: ch.Volume(),
		phase:       phaseOut,
	}
}

// resume advances the transition by dt seconds. It returns true once the
// transition has finished or was cancelled.
func (x *crossfade) resume(dt float64) bool {
	for {
		switch x.phase {
		case phaseOut:
			if x.elapsed < x.duration {
				x.elapsed += dt
				x.ch.SetVolume(lerp(x.startVolume, 0, x.elapsed/x.duration))
				return false
			}
			x.swap()
		case phaseIn:
			if x.elapsed < x.duration {
				x.elapsed += dt
				x.ch.SetVolume(lerp(0, x.startVolume, x.elapsed/x.duration))
				return false
			}
			x.ch.SetVolume(x.startVolume)
			x.phase = phaseDone
			return true
		default:
			return true
		}
	}
}

func (x *crossfade) swap() {
	x.ch.SetVolume(0)
	if x.clip == nil {
		x.ch.Stop()
		x.ch.SetVolume(x.startVolume)
		x.phase = phaseDone
		return
	}
	x.ch.SetLoopingClip(x.clip)
	x.ch.Start()
	x.elapsed = 0
	x.phase = phaseIn
}

// cancel stops the transition where it is; later resumes do nothing.
func (x *crossfade) cancel() {
	x.phase = phaseDone
}

// lerp interpolates from a to b, clamping t to [0, 1].
func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
