package loop

import (
	"time"

	"github.com/tomz197/asteroids-audio/internal/loop/config"
)

// Screen is the console's current view.
type Screen int

const (
	ScreenMenu     Screen = iota // Menu music, waiting for start
	ScreenPlaying                // Gameplay music, waves advance
	ScreenShutdown               // Host is shutting down
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenPlaying:
		return "playing"
	case ScreenShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// cueLine is one entry of the recent-cue log.
type cueLine struct {
	clip   string
	volume float64
	pitch  float64
	frame  int
}

// consoleState holds everything the console loop mutates between frames.
type consoleState struct {
	Running       bool
	Screen        Screen
	Wave          int
	frame         int
	delta         time.Duration
	idle          float64 // Seconds since the last key press
	isInactive    bool
	shutdownTimer float64
	recent        []cueLine

	// Used to clear the terminal on transitions.
	prevScreen  Screen
	wasInactive bool
}

func newConsoleState() *consoleState {
	return &consoleState{
		Running:    true,
		Screen:     ScreenMenu,
		prevScreen: ScreenMenu,
		recent:     make([]cueLine, 0, config.RecentCues),
	}
}

// record appends a cue to the recent log, dropping the oldest when full.
func (s *consoleState) record(line cueLine) {
	if len(s.recent) == config.RecentCues {
		copy(s.recent, s.recent[1:])
		s.recent = s.recent[:len(s.recent)-1]
	}
	s.recent = append(s.recent, line)
}
