// Package cue turns gameplay events into sound: one-shot effects with pitch
// jitter and milestone bonuses, and looping background music with crossfades
// and wave-based tempo.
package cue

import "time"

// Default tunables.
const (
	DefaultPitchJitter       = 0.05
	DefaultTempoPerWave      = 0.02
	DefaultMaxMusicPitch     = 1.5
	DefaultMilestoneInterval = 10
	DefaultFadeTime          = 500 * time.Millisecond
)

// minMusicPitch is the lower bound for wave-scaled music pitch.
const minMusicPitch = 0.5

// Clip is a playable sound. Channels decide what concrete clips they accept.
type Clip interface {
	Name() string
}

// Channel is an audio output the controller drives. Implementations are not
// required to be safe for concurrent use; the controller calls them from a
// single goroutine.
type Channel interface {
	// Play fires clip once at volume (scaled by the channel volume). It must not block.
	Play(clip Clip, volume float64)

	Pitch() float64
	SetPitch(pitch float64)

	Volume() float64
	SetVolume(volume float64)

	// SetLoopingClip assigns the clip played by Start, looping until Stop.
	SetLoopingClip(clip Clip)
	Start()
	Stop()
}

// Clips holds every clip the controller can trigger. Nil entries are allowed
// and turn the matching trigger into a no-op.
type Clips struct {
	Shoot             Clip
	PlayerDamage      Clip
	PlayerExplosion   Clip
	AsteroidExplosion Clip
	Milestone         Clip

	MainMenuMusic Clip
	GameplayMusic Clip
}

// Settings are the numeric tunables of a controller.
type Settings struct {
	PitchJitter       float64 // Fraction of random pitch offset on jittered one-shots
	TempoPerWave      float64 // Music pitch added per wave
	MaxMusicPitch     float64 // Upper clamp for wave-scaled music pitch
	MilestoneInterval int     // Kills between milestone cues; <= 0 disables them
}

// DefaultSettings returns the stock tunables.
func DefaultSettings() Settings {
	return Settings{
		PitchJitter:       DefaultPitchJitter,
		TempoPerWave:      DefaultTempoPerWave,
		MaxMusicPitch:     DefaultMaxMusicPitch,
		MilestoneInterval: DefaultMilestoneInterval,
	}
}
