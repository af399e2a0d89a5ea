package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/asteroids-audio/internal/cue"
)

// Environment overrides applied by ApplyEnv.
const (
	EnvPitchJitter       = "CUE_PITCH_JITTER"
	EnvTempoPerWave      = "CUE_TEMPO_PER_WAVE"
	EnvMaxMusicPitch     = "CUE_MAX_MUSIC_PITCH"
	EnvMilestoneInterval = "CUE_MILESTONE_INTERVAL"

	// EnvSheet names the cue sheet read by LoadFromEnv.
	EnvSheet = "CUE_SHEET"
)

// CueSheet describes where each cue's clip comes from, the channel volumes
// and the tunables handed to the cue controller.
type CueSheet struct {
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`
	FadeTime   time.Duration `yaml:"fade_time"` // Zero means cue.DefaultFadeTime, negative an instant cut
	Tunables   Tunables      `yaml:"tunables"`
	Volumes    Volumes       `yaml:"volumes"`
	Clips      ClipSheet     `yaml:"clips"`
}

type Tunables struct {
	PitchJitter       float64 `yaml:"pitch_jitter"`
	TempoPerWave      float64 `yaml:"tempo_per_wave"`
	MaxMusicPitch     float64 `yaml:"max_music_pitch"`
	MilestoneInterval int     `yaml:"milestone_interval"`
}

// Volumes are the starting channel volumes, each in [0, 1].
type Volumes struct {
	Effects float64 `yaml:"effects"`
	Music   float64 `yaml:"music"`
}

// ClipSource names a clip file, a synth preset, or both. The file wins when
// it loads; the preset is the fallback. Empty means the cue has no clip;
// a sheet clears a default with `synth: ""`.
type ClipSource struct {
	File  string `yaml:"file,omitempty"`
	Synth string `yaml:"synth,omitempty"`
}

// Empty reports whether neither a file nor a preset is set.
func (s ClipSource) Empty() bool { return s.File == "" && s.Synth == "" }

type ClipSheet struct {
	Shoot             ClipSource `yaml:"shoot"`
	PlayerDamage      ClipSource `yaml:"player_damage"`
	PlayerExplosion   ClipSource `yaml:"player_explosion"`
	AsteroidExplosion ClipSource `yaml:"asteroid_explosion"`
	Milestone         ClipSource `yaml:"milestone"`
	MainMenuMusic     ClipSource `yaml:"main_menu_music"`
	GameplayMusic     ClipSource `yaml:"gameplay_music"`
}

// Default returns a sheet that synthesizes every clip.
func Default() CueSheet {
	s := cue.DefaultSettings()
	return CueSheet{
		SampleRate: 44100,
		Buffer:     50 * time.Millisecond,
		FadeTime:   cue.DefaultFadeTime,
		Tunables: Tunables{
			PitchJitter:       s.PitchJitter,
			TempoPerWave:      s.TempoPerWave,
			MaxMusicPitch:     s.MaxMusicPitch,
			MilestoneInterval: s.MilestoneInterval,
		},
		Volumes: Volumes{Effects: 1, Music: 0.8},
		Clips: ClipSheet{
			Shoot:             ClipSource{Synth: "laser"},
			PlayerDamage:      ClipSource{Synth: "hit"},
			PlayerExplosion:   ClipSource{Synth: "bigboom"},
			AsteroidExplosion: ClipSource{Synth: "boom"},
			Milestone:         ClipSource{Synth: "chime"},
			MainMenuMusic:     ClipSource{Synth: "menu"},
			GameplayMusic:     ClipSource{Synth: "gameplay"},
		},
	}
}

// Load reads a YAML cue sheet. Fields the file leaves out keep their
// Default values. Relative clip paths resolve against the sheet's directory.
func Load(path string) (CueSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CueSheet{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	sheet := Default()
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return CueSheet{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	sheet.resolvePaths(filepath.Dir(path))

	if err := sheet.Validate(); err != nil {
		return CueSheet{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return sheet, nil
}

// LoadFromEnv loads the sheet named by CUE_SHEET, or Default when it is
// unset, and applies the environment overrides.
func LoadFromEnv() (CueSheet, error) {
	sheet := Default()
	if path := GetEnv(EnvSheet, ""); path != "" {
		var err error
		if sheet, err = Load(path); err != nil {
			return CueSheet{}, err
		}
	}
	if err := sheet.ApplyEnv(); err != nil {
		return CueSheet{}, err
	}
	return sheet, nil
}

// ApplyEnv overrides tunables from the CUE_* environment variables.
func (c *CueSheet) ApplyEnv() error {
	var errs []error
	var err error

	if c.Tunables.PitchJitter, err = GetEnvFloat(EnvPitchJitter, c.Tunables.PitchJitter); err != nil {
		errs = append(errs, err)
	}
	if c.Tunables.TempoPerWave, err = GetEnvFloat(EnvTempoPerWave, c.Tunables.TempoPerWave); err != nil {
		errs = append(errs, err)
	}
	if c.Tunables.MaxMusicPitch, err = GetEnvFloat(EnvMaxMusicPitch, c.Tunables.MaxMusicPitch); err != nil {
		errs = append(errs, err)
	}
	if c.Tunables.MilestoneInterval, err = GetEnvInt(EnvMilestoneInterval, c.Tunables.MilestoneInterval); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the values the audio layer cannot work around.
func (c CueSheet) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Buffer < 0 {
		return fmt.Errorf("buffer must not be negative, got %v", c.Buffer)
	}
	if c.Volumes.Effects < 0 || c.Volumes.Effects > 1 {
		return fmt.Errorf("volumes.effects must be in [0, 1], got %v", c.Volumes.Effects)
	}
	if c.Volumes.Music < 0 || c.Volumes.Music > 1 {
		return fmt.Errorf("volumes.music must be in [0, 1], got %v", c.Volumes.Music)
	}
	return nil
}

// Settings returns the controller tunables.
func (c CueSheet) Settings() cue.Settings {
	return cue.Settings{
		PitchJitter:       c.Tunables.PitchJitter,
		TempoPerWave:      c.Tunables.TempoPerWave,
		MaxMusicPitch:     c.Tunables.MaxMusicPitch,
		MilestoneInterval: c.Tunables.MilestoneInterval,
	}
}

func (c *CueSheet) resolvePaths(dir string) {
	for _, src := range []*ClipSource{
		&c.Clips.Shoot,
		&c.Clips.PlayerDamage,
		&c.Clips.PlayerExplosion,
		&c.Clips.AsteroidExplosion,
		&c.Clips.Milestone,
		&c.Clips.MainMenuMusic,
		&c.Clips.GameplayMusic,
	} {
		if src.File != "" && !filepath.IsAbs(src.File) {
			src.File = filepath.Join(dir, src.File)
		}
	}
}
