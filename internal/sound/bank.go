package sound

import (
	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"

	"github.com/tomz197/asteroids-audio/internal/config"
	"github.com/tomz197/asteroids-audio/internal/cue"
)

// LoadBank resolves every cue in sheet to a clip at rate. A file that fails
// to load falls back to the synth preset; a cue with neither stays nil and
// the controller skips it.
func LoadBank(sheet config.CueSheet, rate beep.SampleRate, logger *log.Logger) cue.Clips {
	if logger == nil {
		logger = log.Default()
	}
	b := bankLoader{rate: rate, logger: logger}
	c := sheet.Clips
	return cue.Clips{
		Shoot:             b.load("shoot", c.Shoot),
		PlayerDamage:      b.load("player_damage", c.PlayerDamage),
		PlayerExplosion:   b.load("player_explosion", c.PlayerExplosion),
		AsteroidExplosion: b.load("asteroid_explosion", c.AsteroidExplosion),
		Milestone:         b.load("milestone", c.Milestone),
		MainMenuMusic:     b.load("main_menu_music", c.MainMenuMusic),
		GameplayMusic:     b.load("gameplay_music", c.GameplayMusic),
	}
}

type bankLoader struct {
	rate   beep.SampleRate
	logger *log.Logger
}

// load returns a cue.Clip rather than *Clip so a missing clip is a nil
// interface and not a typed nil.
func (b bankLoader) load(cueName string, src config.ClipSource) cue.Clip {
	if src.File != "" {
		clip, err := LoadClip(cueName, src.File, b.rate)
		if err == nil {
			return clip
		}
		b.logger.Warn("clip file unusable", "cue", cueName, "file", src.File, "err", err)
	}
	if src.Synth != "" {
		clip, err := Synth(src.Synth, b.rate)
		if err == nil {
			clip.name = cueName
			return clip
		}
		b.logger.Warn("synth preset unusable", "cue", cueName, "err", err)
	}
	b.logger.Debug("cue has no clip", "cue", cueName)
	return nil
}
