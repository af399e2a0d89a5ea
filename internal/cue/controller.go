package cue

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Config is everything a Controller needs at construction. It is read once
// and never mutated by the controller.
type Config struct {
	Effects  Channel // One-shot channel, nil disables effects
	Music    Channel // Background music channel, nil disables music
	Clips    Clips
	Settings Settings
}

// Options carries optional collaborators.
type Options struct {
	Logger *log.Logger
	Rand   *rand.Rand // Jitter source, seeded from the clock when nil
}

// Controller plays effect and music cues for one game session.
// It is not safe for concurrent use: all methods, including Tick, must be
// called from the goroutine that owns the game loop.
type Controller struct {
	effects  Channel
	music    Channel
	clips    Clips
	settings Settings

	logger *log.Logger
	rng    *rand.Rand

	kills   int
	fade    *crossfade // In-flight music transition, nil when none
	musicOn bool       // A music clip was started and not stopped since
}

// New builds a controller from cfg. Missing channels are logged and leave
// the matching triggers as no-ops.
func New(cfg Config, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if cfg.Effects == nil {
		logger.Warn("effects channel missing, sound effects disabled")
	}
	if cfg.Music == nil {
		logger.Warn("music channel missing, background music disabled")
	}

	return &Controller{
		effects:  cfg.Effects,
		music:    cfg.Music,
		clips:    cfg.Clips,
		settings: cfg.Settings,
		logger:   logger,
		rng:      rng,
	}
}

// PlayOneShot fires clip on the effects channel. With jitter the channel
// pitch is offset by up to ±PitchJitter for this trigger only; the previous
// pitch is restored as soon as playback has been started.
func (c *Controller) PlayOneShot(clip Clip, volume float64, jitter bool) {
	if clip == nil || c.effects == nil {
		return
	}

	if !jitter {
		c.effects.Play(clip, volume)
		return
	}

	prev := c.effects.Pitch()
	j := c.settings.PitchJitter
	c.effects.SetPitch(1 + (c.rng.Float64()*2-1)*j)
	c.effects.Play(clip, volume)
	c.effects.SetPitch(prev)
}

// OnPlayerShoot plays the shot sound with pitch jitter.
func (c *Controller) OnPlayerShoot() {
	c.PlayOneShot(c.clips.Shoot, 1, true)
}

// OnPlayerDamage plays the damage sound.
func (c *Controller) OnPlayerDamage() {
	c.PlayOneShot(c.clips.PlayerDamage, 1, false)
}

// OnPlayerExplosion plays the player death sound.
func (c *Controller) OnPlayerExplosion() {
	c.PlayOneShot(c.clips.PlayerExplosion, 1, false)
}

// OnAsteroidDestroyed counts the kill, plays the explosion and, every
// MilestoneInterval kills, layers the milestone cue on top.
func (c *Controller) OnAsteroidDestroyed() {
	c.kills++
	c.PlayOneShot(c.clips.AsteroidExplosion, 1, false)

	interval := c.settings.MilestoneInterval
	if c.clips.Milestone != nil && interval > 0 && c.kills%interval == 0 {
		c.logger.Debug("milestone reached", "kills", c.kills)
		c.PlayOneShot(c.clips.Milestone, 1, false)
	}
}

// ResetKillCount zeroes the kill counter.
func (c *Controller) ResetKillCount() {
	c.kills = 0
}

// KillCount returns the asteroids destroyed since the last reset.
func (c *Controller) KillCount() int {
	return c.kills
}

// Settings returns the controller tunables.
func (c *Controller) Settings() Settings {
	return c.settings
}
