package sound

import (
	"github.com/tomz197/asteroids-audio/internal/config"
	"github.com/tomz197/asteroids-audio/internal/cue"
)

// Rig is a cue controller wired to an effects and a music channel on one
// output.
type Rig struct {
	Controller *cue.Controller
	Effects    *Channel
	Music      *Channel
}

// NewRig builds the channels at the sheet's volumes and a controller with
// the sheet's tunables. clips are shared read-only between rigs.
func NewRig(out Output, clips cue.Clips, sheet config.CueSheet, opts cue.Options) *Rig {
	effects := NewChannel("effects", out, opts.Logger)
	effects.SetVolume(sheet.Volumes.Effects)
	music := NewChannel("music", out, opts.Logger)
	music.SetVolume(sheet.Volumes.Music)

	ctl := cue.New(cue.Config{
		Effects:  effects,
		Music:    music,
		Clips:    clips,
		Settings: sheet.Settings(),
	}, opts)

	return &Rig{Controller: ctl, Effects: effects, Music: music}
}
