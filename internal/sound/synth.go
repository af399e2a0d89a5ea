package sound

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// Procedural clips used when a cue sheet names a synth preset or a clip file
// is missing. Noise is seeded so every build of a preset sounds the same.

type waveform int

const (
	waveSine waveform = iota
	waveSquare
	waveSaw
	waveNoise
)

// preset builds the raw streamer for a synthesized clip.
type preset func(rate beep.SampleRate) beep.Streamer

var presets = map[string]preset{
	"laser":    laser,
	"hit":      hit,
	"boom":     boom,
	"bigboom":  bigBoom,
	"chime":    chime,
	"menu":     menuLoop,
	"gameplay": gameplayLoop,
}

// Presets lists the synth preset names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Synth renders the named preset into a clip at rate.
func Synth(name string, rate beep.SampleRate) (*Clip, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("sound: unknown synth preset %q", name)
	}
	return NewClip(name, outputFormat(rate), p(rate)), nil
}

// oscillator produces a waveform whose frequency slides linearly from
// freq to endFreq over its duration.
type oscillator struct {
	wave    waveform
	freq    float64
	endFreq float64
	phase   float64
	pos     int
	total   int
	rate    beep.SampleRate
	rng     *rand.Rand
}

func tone(wave waveform, freq float64, d time.Duration, rate beep.SampleRate) *oscillator {
	return sweep(wave, freq, freq, d, rate)
}

func sweep(wave waveform, from, to float64, d time.Duration, rate beep.SampleRate) *oscillator {
	return &oscillator{
		wave:    wave,
		freq:    from,
		endFreq: to,
		total:   rate.N(d),
		rate:    rate,
		rng:     rand.New(rand.NewSource(int64(from*1000) + int64(d))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.total {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case waveSaw:
			val = 2 * (o.phase - 0.5)
		case waveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.pos) / float64(o.total)
		f := o.freq + (o.endFreq-o.freq)*t
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and an exponential-ish
// release (squared linear ramp).
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, i > 0
		}
		g := 1.0
		if e.attack > 0 && e.pos < e.attack {
			g = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			r := float64(left) / float64(e.release)
			g *= r * r
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

func scaled(s beep.Streamer, gain float64) beep.Streamer {
	return &effects.Gain{Streamer: s, Gain: gain - 1}
}

func laser(rate beep.SampleRate) beep.Streamer {
	d := 140 * time.Millisecond
	return scaled(shape(sweep(waveSquare, 1400, 260, d, rate), d, 2*time.Millisecond, 90*time.Millisecond, rate), 0.35)
}

func hit(rate beep.SampleRate) beep.Streamer {
	d := 180 * time.Millisecond
	body := shape(sweep(waveSaw, 220, 90, d, rate), d, time.Millisecond, 150*time.Millisecond, rate)
	crack := shape(tone(waveNoise, 1, 60*time.Millisecond, rate), 60*time.Millisecond, 0, 50*time.Millisecond, rate)
	return scaled(beep.Mix(body, crack), 0.45)
}

func boom(rate beep.SampleRate) beep.Streamer {
	d := 450 * time.Millisecond
	noise := shape(tone(waveNoise, 2, d, rate), d, 3*time.Millisecond, 400*time.Millisecond, rate)
	thump := shape(sweep(waveSine, 120, 40, d, rate), d, 2*time.Millisecond, 380*time.Millisecond, rate)
	return scaled(beep.Mix(scaled(noise, 0.6), thump), 0.5)
}

func bigBoom(rate beep.SampleRate) beep.Streamer {
	d := 1100 * time.Millisecond
	noise := shape(tone(waveNoise, 3, d, rate), d, 5*time.Millisecond, 1000*time.Millisecond, rate)
	thump := shape(sweep(waveSine, 90, 25, d, rate), d, 5*time.Millisecond, 900*time.Millisecond, rate)
	rumble := shape(sweep(waveSaw, 60, 30, d, rate), d, 20*time.Millisecond, 1000*time.Millisecond, rate)
	return scaled(beep.Mix(scaled(noise, 0.7), thump, scaled(rumble, 0.4)), 0.45)
}

func chime(rate beep.SampleRate) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		d := 110 * time.Millisecond
		return beep.Mix(
			scaled(shape(tone(waveSine, freq, d, rate), d, 2*time.Millisecond, 80*time.Millisecond, rate), 0.7),
			scaled(shape(tone(waveSine, freq*2, d, rate), d, 2*time.Millisecond, 60*time.Millisecond, rate), 0.3),
		)
	}
	return scaled(beep.Seq(note(659.25), note(880), note(1318.51)), 0.5)
}

// menuLoop is a slow four-chord pad, four seconds long.
func menuLoop(rate beep.SampleRate) beep.Streamer {
	chords := [][]float64{
		{220.00, 261.63, 329.63}, // Am
		{174.61, 220.00, 261.63}, // F
		{196.00, 246.94, 293.66}, // G
		{164.81, 207.65, 246.94}, // E
	}
	bar := time.Second
	parts := make([]beep.Streamer, 0, len(chords))
	for _, chord := range chords {
		voices := make([]beep.Streamer, 0, len(chord))
		for _, f := range chord {
			voices = append(voices, scaled(shape(tone(waveSine, f, bar, rate), bar, 150*time.Millisecond, 300*time.Millisecond, rate), 0.25))
		}
		parts = append(parts, beep.Mix(voices...))
	}
	return scaled(beep.Seq(parts...), 0.6)
}

// gameplayLoop is a driving bass line with hats, two seconds long.
func gameplayLoop(rate beep.SampleRate) beep.Streamer {
	notes := []float64{55, 55, 82.41, 55, 65.41, 55, 73.42, 61.74}
	step := 250 * time.Millisecond
	parts := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		bass := scaled(shape(tone(waveSquare, f, step, rate), step, 3*time.Millisecond, 120*time.Millisecond, rate), 0.3)
		hat := scaled(shape(tone(waveNoise, f, 40*time.Millisecond, rate), step, time.Millisecond, 40*time.Millisecond, rate), 0.15)
		parts = append(parts, beep.Mix(bass, hat))
	}
	return scaled(beep.Seq(parts...), 0.6)
}
