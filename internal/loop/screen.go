package loop

import (
	"fmt"

	"github.com/tomz197/asteroids-audio/internal/draw"
	"github.com/tomz197/asteroids-audio/internal/input"
	"github.com/tomz197/asteroids-audio/internal/loop/config"
)

// Panel rows.
const (
	rowTitle  = 1
	rowStatus = 3
	rowMusic  = 4
	rowMeters = 6
	rowRecent = 11
	rowHelp   = 19
)

// drawFrame draws the current frame.
func (c *Console) drawFrame() error {
	c.updateScreen()

	// On screen or inactivity transitions, do a full terminal clear
	// so text from the previous screen doesn't persist.
	if c.state.Screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	switch {
	case c.state.Screen == ScreenShutdown:
		c.drawShutdownScreen()
	case c.state.isInactive:
		c.drawInactivityScreen()
	default:
		c.drawHUD()
	}

	return c.chunkWriter.Flush()
}

// updateScreen centers the panel, clearing the terminal when it moves.
func (c *Console) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	col, row := draw.CenterOffset(termWidth, termHeight, config.PanelWidth, config.PanelHeight)
	if col != c.offCol || row != c.offRow {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.offCol, c.offRow = col, row
		c.chunkWriter.SetOffset(col, row)
	}
}

func (c *Console) drawHUD() {
	cw := c.chunkWriter

	title := "ASTEROIDS // audio cues"
	if c.opts.Username != "" {
		title += "  @" + c.opts.Username
	}
	cw.WriteLine(2, rowTitle, fmt.Sprintf("%-44s%18s", title, "["+c.state.Screen.String()+"]"))

	status := fmt.Sprintf("Kills: %-6d Wave: %-3d", c.ctl.KillCount(), c.state.Wave)
	if c.state.Screen == ScreenPlaying {
		next := config.KillsPerWave - c.ctl.KillCount()%config.KillsPerWave
		status += fmt.Sprintf(" Next wave in %d", next)
	}
	cw.WriteLine(2, rowStatus, status)
	cw.WriteLine(2, rowMusic, "Music: "+c.ctl.MusicState().String())

	c.drawMeters()
	c.drawRecent()
	c.drawHelp()

	if c.state.Screen == ScreenMenu && c.state.frame/36%2 == 0 {
		cw.WriteLine(2, rowHelp-1, ">>  Press ENTER to start  <<")
	} else {
		cw.WriteLine(2, rowHelp-1, "")
	}
}

func (c *Console) drawMeters() {
	cw := c.chunkWriter
	row := rowMeters

	if ch := c.opts.Music; ch != nil {
		cw.WriteLine(2, row, draw.Labeled("music", config.MeterLabelWidth, ch.Volume(), config.MeterWidth,
			fmt.Sprintf("%3.0f%%", ch.Volume()*100)))

		maxPitch := c.ctl.Settings().MaxMusicPitch
		span := maxPitch - 0.5
		level := 1.0
		if span > 0 {
			level = (ch.Pitch() - 0.5) / span
		}
		cw.WriteLine(2, row+1, draw.Labeled("tempo", config.MeterLabelWidth, level, config.MeterWidth,
			fmt.Sprintf("x%.2f", ch.Pitch())))
	} else {
		cw.WriteLine(2, row, "music    off")
		cw.WriteLine(2, row+1, "")
	}

	if ch := c.opts.Effects; ch != nil {
		cw.WriteLine(2, row+2, draw.Labeled("effects", config.MeterLabelWidth, ch.Volume(), config.MeterWidth,
			fmt.Sprintf("%3.0f%%", ch.Volume()*100)))
	} else {
		cw.WriteLine(2, row+2, "effects  off")
	}
}

func (c *Console) drawRecent() {
	cw := c.chunkWriter
	cw.WriteLine(2, rowRecent-1, "Recent cues")
	for i := 0; i < config.RecentCues; i++ {
		// Newest first.
		j := len(c.state.recent) - 1 - i
		if j < 0 {
			cw.WriteLine(4, rowRecent+i, "")
			continue
		}
		line := c.state.recent[j]
		cw.WriteLine(4, rowRecent+i, fmt.Sprintf("%-20s vol %.2f  pitch %.3f", line.clip, line.volume, line.pitch))
	}
}

func (c *Console) drawHelp() {
	bindings := input.Bindings()
	half := (len(bindings) + 1) / 2
	for i, b := range bindings {
		col, row := 2, rowHelp+i
		if i >= half {
			col, row = 2+config.PanelWidth/2, rowHelp+i-half
		}
		c.chunkWriter.WriteAt(col, row, fmt.Sprintf("%-8s %-16s", b.Keys, b.Action))
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Console) drawInactivityScreen() {
	cw := c.chunkWriter
	centerX := config.PanelWidth / 2
	centerY := config.PanelHeight / 2

	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf("Disconnecting in %d seconds.",
		int(config.InactivityDisconnectUser-c.state.idle))
	cw.WriteLine(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the shutdown notice with its countdown.
func (c *Console) drawShutdownScreen() {
	cw := c.chunkWriter
	centerX := config.PanelWidth / 2
	centerY := config.PanelHeight / 2

	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	seconds := int(c.state.shutdownTimer + 0.999)
	if seconds < 0 {
		seconds = 0
	}
	msg := fmt.Sprintf("Disconnecting in %d seconds.", seconds)
	cw.WriteLine(centerX-len(msg)/2, centerY, msg)
}
