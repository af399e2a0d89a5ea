// Package config centralizes the console's tunable parameters.
package config

import "time"

// Panel size - the console is drawn in a fixed-size panel centered in the
// terminal.
const (
	PanelWidth  = 64
	PanelHeight = 26
)

// Meters
const (
	MeterWidth      = 24
	MeterLabelWidth = 8
)

// Waves
const (
	KillsPerWave = 15 // Asteroid kills before the wave advances on its own
	MaxWave      = 99
	BurstOfTen   = 10 // Asteroids destroyed by the 0 key
)

// Cue log
const (
	RecentCues = 6 // Triggers listed on the HUD
)

// Session
const (
	MaxUsernameLength = 16 // Maximum display length for usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
	HubShutdownTimeout     = 15 * time.Second
	HubPollInterval        = 200 * time.Millisecond
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Console rendering
const (
	ConsoleTargetFPS       = 60
	ConsoleTargetFrameTime = time.Second / ConsoleTargetFPS
)
