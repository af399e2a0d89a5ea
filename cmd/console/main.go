package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"golang.org/x/term"

	"github.com/tomz197/asteroids-audio/internal/config"
	"github.com/tomz197/asteroids-audio/internal/cue"
	"github.com/tomz197/asteroids-audio/internal/loop"
	"github.com/tomz197/asteroids-audio/internal/sound"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "cue-console",
		ReportTimestamp: true,
	})
	if level, err := log.ParseLevel(config.GetEnv("CUE_LOG_LEVEL", "warn")); err == nil {
		logger.SetLevel(level)
	}

	sheet, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("cue sheet", "err", err)
	}

	rate := beep.SampleRate(sheet.SampleRate)
	out, err := sound.OpenSpeaker(rate, sheet.Buffer)
	if err != nil {
		logger.Fatal("audio output", "err", err)
	}
	defer out.Close()

	clips := sound.LoadBank(sheet, rate, logger)
	rig := sound.NewRig(out, clips, sheet, cue.Options{Logger: logger})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := loop.NewConsole(rig.Controller, bufio.NewReader(os.Stdin), os.Stdout, loop.ConsoleOptions{
		Effects:  rig.Effects,
		Music:    rig.Music,
		FadeTime: sheet.FadeTime,
		Logger:   logger,
	})
	rig.Effects.OnPlay = c.RecordCue

	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		out.Close()
		fmt.Fprintf(os.Stderr, "console error: %v\n", err)
		os.Exit(1)
	}
}
