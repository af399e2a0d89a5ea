package sound

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"

	"github.com/tomz197/asteroids-audio/internal/config"
	"github.com/tomz197/asteroids-audio/internal/cue"
)

const testRate = beep.SampleRate(1000)

func quietLogger() *log.Logger { return log.New(io.Discard) }

// constant yields n samples of v on both channels.
func constant(v float64, n int) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if n <= 0 {
			return 0, false
		}
		k := len(samples)
		if k > n {
			k = n
		}
		for i := 0; i < k; i++ {
			samples[i] = [2]float64{v, v}
		}
		n -= k
		return k, true
	})
}

func constantClip(name string, v float64, n int) *Clip {
	return NewClip(name, outputFormat(testRate), constant(v, n))
}

func pull(t *testing.T, m *MixOutput, n int) [][2]float64 {
	t.Helper()
	buf := make([][2]float64, n)
	m.Stream(buf)
	return buf
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestChannelPlayGain(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("effects", out, quietLogger())
	ch.SetVolume(0.5)

	var got []float64
	ch.OnPlay = func(clip string, volume, pitch float64) {
		got = append(got, volume, pitch)
		if clip != "blip" {
			t.Errorf("clip = %q, want blip", clip)
		}
	}
	ch.Play(constantClip("blip", 0.5, 100), 0.5)

	if len(got) != 2 || got[0] != 0.25 || got[1] != 1 {
		t.Fatalf("OnPlay got %v, want [0.25 1]", got)
	}
	s := pull(t, out, 10)
	if !near(s[5][0], 0.125) || !near(s[5][1], 0.125) {
		t.Errorf("sample = %v, want 0.125", s[5])
	}
}

func TestChannelPlayClampsVolume(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("effects", out, quietLogger())

	ch.Play(constantClip("blip", 0.5, 100), 3)
	if s := pull(t, out, 10); !near(s[5][0], 0.5) {
		t.Errorf("sample = %v, want 0.5", s[5])
	}
}

func TestChannelPlayLayers(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("effects", out, quietLogger())
	clip := constantClip("blip", 0.25, 100)

	ch.Play(clip, 1)
	ch.Play(clip, 1)
	if out.Active() != 2 {
		t.Fatalf("active = %d, want 2", out.Active())
	}
	if s := pull(t, out, 10); !near(s[5][0], 0.5) {
		t.Errorf("sample = %v, want both voices summed", s[5])
	}
}

func TestChannelPitchShortensOneShot(t *testing.T) {
	for _, c := range []struct {
		pitch  float64
		active int
	}{
		{1, 1},
		{2, 0},
	} {
		out := NewMixOutput(testRate)
		ch := NewChannel("effects", out, quietLogger())
		ch.SetPitch(c.pitch)
		ch.Play(constantClip("blip", 0.5, 1000), 1)

		out.Advance(700 * time.Millisecond)
		if out.Active() != c.active {
			t.Errorf("pitch %v: active = %d, want %d", c.pitch, out.Active(), c.active)
		}
	}
}

func TestChannelRejectsForeignClip(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("effects", out, quietLogger())
	called := false
	ch.OnPlay = func(string, float64, float64) { called = true }

	ch.Play(foreignClip("x"), 1)
	ch.Play(nil, 1)
	var typedNil *Clip
	ch.Play(typedNil, 1)

	if out.Active() != 0 || called {
		t.Errorf("foreign clips played: active %d, hook %v", out.Active(), called)
	}
}

type foreignClip string

func (c foreignClip) Name() string { return string(c) }

func TestChannelLoopFollowsVolume(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("music", out, quietLogger())
	ch.SetVolume(0.5)
	ch.SetLoopingClip(constantClip("loop", 0.5, 200))
	ch.Start()

	if !ch.Playing() || out.Active() != 1 {
		t.Fatalf("loop not playing: active %d", out.Active())
	}

	out.Advance(100 * time.Millisecond)
	if s := pull(t, out, 10); !near(s[5][0], 0.25) {
		t.Errorf("sample = %v, want 0.25", s[5])
	}

	ch.SetVolume(1)
	if s := pull(t, out, 10); !near(s[5][0], 0.5) {
		t.Errorf("sample after volume change = %v, want 0.5", s[5])
	}

	// Well past the clip length, the loop keeps going.
	out.Advance(3 * time.Second)
	if out.Active() != 1 {
		t.Fatalf("loop ended: active %d", out.Active())
	}
}

func TestChannelStop(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("music", out, quietLogger())
	ch.SetLoopingClip(constantClip("loop", 0.5, 200))
	ch.Start()
	ch.Stop()

	if ch.Playing() {
		t.Fatal("still playing after Stop")
	}
	out.Advance(10 * time.Millisecond)
	if out.Active() != 0 {
		t.Fatalf("active = %d after Stop", out.Active())
	}
	if ch.LoopingClip() == nil {
		t.Fatal("Stop dropped the looping clip")
	}

	ch.Start()
	if out.Active() != 1 {
		t.Fatalf("restart: active = %d", out.Active())
	}
}

func TestChannelSetLoopingClipStopsCurrent(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("music", out, quietLogger())
	ch.SetLoopingClip(constantClip("a", 0.5, 200))
	ch.Start()
	ch.SetLoopingClip(constantClip("b", 0.5, 200))
	out.Advance(10 * time.Millisecond)

	if ch.Playing() || out.Active() != 0 {
		t.Fatalf("old loop still running: active %d", out.Active())
	}
	if ch.LoopingClip().Name() != "b" {
		t.Fatalf("looping clip = %q", ch.LoopingClip().Name())
	}
}

func TestStartWithoutClip(t *testing.T) {
	out := NewMixOutput(testRate)
	ch := NewChannel("music", out, quietLogger())
	ch.Start()
	if ch.Playing() || out.Active() != 0 {
		t.Fatal("started with no clip")
	}
}

func TestSynthPresets(t *testing.T) {
	wantLen := map[string]time.Duration{
		"laser":    140 * time.Millisecond,
		"menu":     4 * time.Second,
		"gameplay": 2 * time.Second,
	}

	for _, name := range Presets() {
		t.Run(name, func(t *testing.T) {
			clip, err := Synth(name, testRate)
			if err != nil {
				t.Fatal(err)
			}
			if clip.Len() == 0 {
				t.Fatal("empty clip")
			}
			if want, ok := wantLen[name]; ok && clip.Duration() != want {
				t.Errorf("duration = %v, want %v", clip.Duration(), want)
			}

			buf := make([][2]float64, clip.Len())
			clip.Streamer().Stream(buf)
			for i, s := range buf {
				if math.Abs(s[0]) > 1 || math.IsNaN(s[0]) {
					t.Fatalf("sample %d out of range: %v", i, s)
				}
			}
		})
	}

	if _, err := Synth("kazoo", testRate); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestSynthIsDeterministic(t *testing.T) {
	a, _ := Synth("boom", testRate)
	b, _ := Synth("boom", testRate)
	sa := make([][2]float64, a.Len())
	sb := make([][2]float64, b.Len())
	a.Streamer().Stream(sa)
	b.Streamer().Stream(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, sa[i], sb[i])
		}
	}
}

func writeWav(t *testing.T, path string, rate beep.SampleRate, n int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, constant(0.5, n), format); err != nil {
		t.Fatal(err)
	}
}

func TestLoadClipWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blip.wav")
	writeWav(t, path, testRate, 500)

	clip, err := LoadClip("blip", path, testRate)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Name() != "blip" || clip.Len() != 500 {
		t.Fatalf("got %q with %d samples", clip.Name(), clip.Len())
	}
	buf := make([][2]float64, 10)
	clip.Streamer().Stream(buf)
	if !near(buf[5][0], 0.5) {
		t.Errorf("sample = %v, want 0.5", buf[5])
	}
}

func TestLoadClipResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blip.wav")
	writeWav(t, path, testRate, 500)

	clip, err := LoadClip("blip", path, 2*testRate)
	if err != nil {
		t.Fatal(err)
	}
	if got := clip.Len(); got < 980 || got > 1020 {
		t.Errorf("len = %d, want about 1000", got)
	}
}

func TestLoadClipErrors(t *testing.T) {
	dir := t.TempDir()
	ogg := filepath.Join(dir, "blip.ogg")
	if err := os.WriteFile(ogg, []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClip("blip", ogg, testRate); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ogg: got %v, want ErrUnsupportedFormat", err)
	}

	junk := filepath.Join(dir, "junk.wav")
	if err := os.WriteFile(junk, []byte("not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClip("junk", junk, testRate); err == nil {
		t.Error("junk wav should fail to decode")
	}

	if _, err := LoadClip("missing", filepath.Join(dir, "missing.wav"), testRate); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	shoot := filepath.Join(dir, "shoot.wav")
	writeWav(t, shoot, testRate, 50)

	sheet := config.Default()
	sheet.Clips.Shoot = config.ClipSource{File: shoot, Synth: "laser"}
	sheet.Clips.PlayerDamage = config.ClipSource{File: filepath.Join(dir, "missing.wav"), Synth: "hit"}
	sheet.Clips.Milestone = config.ClipSource{}
	sheet.Clips.MainMenuMusic = config.ClipSource{Synth: "kazoo"}

	clips := LoadBank(sheet, testRate, quietLogger())

	if c, ok := clips.Shoot.(*Clip); !ok || c.Len() != 50 {
		t.Errorf("shoot should come from the file, got %v", clips.Shoot)
	}
	if c, ok := clips.PlayerDamage.(*Clip); !ok || c.Name() != "player_damage" || c.Len() == 50 {
		t.Errorf("player damage should fall back to synth, got %v", clips.PlayerDamage)
	}
	if clips.Milestone != nil {
		t.Errorf("milestone = %v, want nil", clips.Milestone)
	}
	if clips.MainMenuMusic != nil {
		t.Errorf("main menu music = %v, want nil", clips.MainMenuMusic)
	}
	if clips.GameplayMusic == nil {
		t.Error("gameplay music missing")
	}
}

func TestNewRig(t *testing.T) {
	sheet := config.Default()
	sheet.Volumes = config.Volumes{Effects: 0.9, Music: 0.4}
	sheet.Tunables.MilestoneInterval = 3

	out := NewMixOutput(testRate)
	rig := NewRig(out, LoadBank(sheet, testRate, quietLogger()), sheet, cue.Options{Logger: quietLogger()})

	if rig.Effects.Volume() != 0.9 || rig.Music.Volume() != 0.4 {
		t.Fatalf("volumes %v / %v", rig.Effects.Volume(), rig.Music.Volume())
	}
	if rig.Controller.Settings().MilestoneInterval != 3 {
		t.Fatalf("settings = %+v", rig.Controller.Settings())
	}

	rig.Controller.PlayMainMenuMusic(0)
	if !rig.Music.Playing() || rig.Music.Volume() != 0.4 {
		t.Fatalf("music playing %v at %v", rig.Music.Playing(), rig.Music.Volume())
	}

	var played []string
	rig.Effects.OnPlay = func(clip string, volume, pitch float64) { played = append(played, clip) }
	for i := 0; i < 3; i++ {
		rig.Controller.OnAsteroidDestroyed()
	}
	want := []string{"asteroid_explosion", "asteroid_explosion", "asteroid_explosion", "milestone"}
	if len(played) != len(want) {
		t.Fatalf("played %v, want %v", played, want)
	}
	for i := range want {
		if played[i] != want[i] {
			t.Fatalf("played %v, want %v", played, want)
		}
	}
}
