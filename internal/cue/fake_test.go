package cue

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

type testClip string

func (c testClip) Name() string { return string(c) }

type trigger struct {
	clip   string
	volume float64
	pitch  float64
}

// recordingChannel is a Channel that remembers every call.
type recordingChannel struct {
	volume float64
	pitch  float64

	plays   []trigger
	volumes []float64 // Every SetVolume value, in order
	pitches []float64
	loop    string
	started int
	stopped int

	// events interleaves volume sets and clip swaps, e.g. "v:0.5", "clip:menu".
	events []string
}

func newRecordingChannel(volume float64) *recordingChannel {
	return &recordingChannel{volume: volume, pitch: 1}
}

func (r *recordingChannel) Play(clip Clip, volume float64) {
	r.plays = append(r.plays, trigger{clip: clip.Name(), volume: volume, pitch: r.pitch})
}

func (r *recordingChannel) Pitch() float64 { return r.pitch }

func (r *recordingChannel) SetPitch(p float64) {
	r.pitch = p
	r.pitches = append(r.pitches, p)
}

func (r *recordingChannel) Volume() float64 { return r.volume }

func (r *recordingChannel) SetVolume(v float64) {
	r.volume = v
	r.volumes = append(r.volumes, v)
	r.events = append(r.events, "v")
}

func (r *recordingChannel) SetLoopingClip(clip Clip) {
	r.loop = clip.Name()
	r.events = append(r.events, "clip:"+clip.Name())
}

func (r *recordingChannel) Start() {
	r.started++
	r.events = append(r.events, "start")
}

func (r *recordingChannel) Stop() {
	r.stopped++
	r.events = append(r.events, "stop")
}

func (r *recordingChannel) playedNames() []string {
	names := make([]string, len(r.plays))
	for i, p := range r.plays {
		names[i] = p.clip
	}
	return names
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testClips() Clips {
	return Clips{
		Shoot:             testClip("shoot"),
		PlayerDamage:      testClip("damage"),
		PlayerExplosion:   testClip("death"),
		AsteroidExplosion: testClip("boom"),
		Milestone:         testClip("milestone"),
		MainMenuMusic:     testClip("menu"),
		GameplayMusic:     testClip("gameplay"),
	}
}

func newTestController(effects, music Channel, clips Clips, settings Settings) *Controller {
	cfg := Config{Effects: effects, Music: music, Clips: clips, Settings: settings}
	return New(cfg, Options{Logger: quietLogger(), Rand: rand.New(rand.NewSource(7))})
}
