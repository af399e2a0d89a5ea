package loop

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids-audio/internal/cue"
	"github.com/tomz197/asteroids-audio/internal/draw"
	"github.com/tomz197/asteroids-audio/internal/input"
	"github.com/tomz197/asteroids-audio/internal/loop/config"
)

// Advancer is an output that only produces audio when pulled, such as an
// in-memory mixer. The console advances it by each frame's delta.
type Advancer interface {
	Advance(d time.Duration)
}

// ConsoleOptions configures the console.
type ConsoleOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Hub          *Hub

	// Effects and Music feed the HUD meters. Either may be nil.
	Effects cue.Channel
	Music   cue.Channel

	// FadeTime is used for every music transition. Zero means
	// cue.DefaultFadeTime; negative means an instant cut.
	FadeTime time.Duration

	Output Advancer
	Bell   bool // Ring the terminal bell on every effect trigger
	Logger *log.Logger
}

// Console drives a cue.Controller from the keyboard at a fixed frame rate
// and draws its state. One console per terminal.
type Console struct {
	ctl          *cue.Controller
	opts         ConsoleOptions
	handle       *Handle
	state        *consoleState
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	offCol       int
	offRow       int
	logger       *log.Logger
}

// NewConsole creates a console reading keys from r and drawing to w. It
// registers with opts.Hub when one is set.
func NewConsole(ctl *cue.Controller, r *bufio.Reader, w io.Writer, opts ConsoleOptions) *Console {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.FadeTime == 0 {
		opts.FadeTime = cue.DefaultFadeTime
	}
	if len(opts.Username) > config.MaxUsernameLength {
		opts.Username = opts.Username[:config.MaxUsernameLength]
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Username != "" {
		logger = logger.With("user", opts.Username)
	}

	c := &Console{
		ctl:          ctl,
		opts:         opts,
		state:        newConsoleState(),
		chunkWriter:  draw.NewChunkWriter(w, 0, 0),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
	if opts.Hub != nil {
		c.handle = opts.Hub.Register(opts.Username)
	}
	return c
}

// Run starts the console loop. Blocks until the user quits, input ends, the
// session goes idle, or the hub shuts down.
func (c *Console) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	if c.handle != nil {
		defer c.opts.Hub.Unregister(c.handle.ID)
	}

	c.enterMenu()
	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.update(input.ReadInput(c.inputStream), delta)

		if err := c.drawFrame(); err != nil {
			c.ctl.StopMusic(-1)
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ConsoleTargetFrameTime {
			time.Sleep(config.ConsoleTargetFrameTime - elapsed)
		}
	}

	c.ctl.StopMusic(-1)
	draw.ClearScreen(c.writer)
	return nil
}

// RecordCue logs an effect trigger on the HUD. Wire it to the effects
// channel's play hook; it must be called from the console goroutine.
func (c *Console) RecordCue(clip string, volume, pitch float64) {
	c.state.record(cueLine{clip: clip, volume: volume, pitch: pitch, frame: c.state.frame})
	if c.opts.Bell {
		c.chunkWriter.WriteByte('\a')
	}
}

// Screen returns the console's current view.
func (c *Console) Screen() Screen { return c.state.Screen }

// Wave returns the current wave index.
func (c *Console) Wave() int { return c.state.Wave }

// update advances the console by one frame.
func (c *Console) update(in input.Input, delta time.Duration) {
	c.state.frame++
	c.state.delta = delta

	c.processInput(in)
	c.processHubEvents()

	if c.state.Running {
		switch c.state.Screen {
		case ScreenMenu, ScreenPlaying:
			for _, a := range in.Actions {
				c.dispatch(a)
			}
			if in.Burst >= 0 {
				n := in.Burst
				if n == 0 {
					n = config.BurstOfTen
				}
				c.destroyAsteroids(n)
			}
		case ScreenShutdown:
			c.updateShutdownState()
		}
	}

	c.ctl.Tick(delta)
	if c.opts.Output != nil {
		c.opts.Output.Advance(delta)
	}
}

// processInput tracks inactivity and end of input.
func (c *Console) processInput(in input.Input) {
	if len(in.Pressed) > 0 {
		c.state.idle = 0
		c.state.isInactive = false
	} else {
		c.state.idle += c.state.delta.Seconds()
		if c.state.idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting idle console")
			c.state.Running = false
		} else if c.state.idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	if in.Closed {
		c.state.Running = false
	}
}

// processHubEvents handles events from the hub.
func (c *Console) processHubEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == EventShutdown && c.state.Screen != ScreenShutdown {
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
				c.ctl.StopMusic(c.opts.FadeTime)
			}
		default:
			return
		}
	}
}

func (c *Console) dispatch(a input.Action) {
	switch a {
	case input.ActionShoot:
		c.ctl.OnPlayerShoot()
	case input.ActionDamage:
		c.ctl.OnPlayerDamage()
	case input.ActionExplode:
		c.ctl.OnPlayerExplosion()
	case input.ActionAsteroid:
		c.destroyAsteroids(1)
	case input.ActionWaveUp:
		c.setWave(c.state.Wave + 1)
	case input.ActionWaveDown:
		c.setWave(c.state.Wave - 1)
	case input.ActionMenuMusic:
		c.ctl.PlayMainMenuMusic(c.opts.FadeTime)
	case input.ActionGameplayMusic:
		c.ctl.PlayGameplayMusic(c.opts.FadeTime)
	case input.ActionStopMusic:
		c.ctl.StopMusic(c.opts.FadeTime)
	case input.ActionResetKills:
		c.ctl.ResetKillCount()
	case input.ActionStart:
		if c.state.Screen == ScreenMenu {
			c.startGame()
		}
	case input.ActionBack:
		if c.state.Screen == ScreenPlaying {
			c.enterMenu()
		}
	case input.ActionQuit:
		c.state.Running = false
	}
}

// startGame resets the run and switches to gameplay music.
func (c *Console) startGame() {
	c.ctl.ResetKillCount()
	c.setWave(0)
	c.ctl.PlayGameplayMusic(c.opts.FadeTime)
	c.state.Screen = ScreenPlaying
}

// enterMenu shows the menu and switches to menu music.
func (c *Console) enterMenu() {
	c.setWave(0)
	c.ctl.PlayMainMenuMusic(c.opts.FadeTime)
	c.state.Screen = ScreenMenu
}

// destroyAsteroids reports n asteroid kills. While playing, every
// KillsPerWave kills advance the wave.
func (c *Console) destroyAsteroids(n int) {
	for i := 0; i < n; i++ {
		c.ctl.OnAsteroidDestroyed()
		if c.state.Screen == ScreenPlaying && c.ctl.KillCount()%config.KillsPerWave == 0 {
			c.setWave(c.state.Wave + 1)
		}
	}
}

func (c *Console) setWave(wave int) {
	if wave < 0 {
		wave = 0
	}
	if wave > config.MaxWave {
		wave = config.MaxWave
	}
	c.state.Wave = wave
	c.ctl.SetMusicPitchForWave(wave)
}

// updateShutdownState counts down the shutdown screen.
func (c *Console) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
