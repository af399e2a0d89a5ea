package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/gopxl/beep/v2"

	"github.com/tomz197/asteroids-audio/internal/config"
	"github.com/tomz197/asteroids-audio/internal/cue"
	"github.com/tomz197/asteroids-audio/internal/draw"
	"github.com/tomz197/asteroids-audio/internal/loop"
	loopconfig "github.com/tomz197/asteroids-audio/internal/loop/config"
	"github.com/tomz197/asteroids-audio/internal/sound"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// Shared by every session: clips are decoded once and only read afterwards.
var (
	hub    *loop.Hub
	sheet  config.CueSheet
	clips  cue.Clips
	rate   beep.SampleRate
	logger *log.Logger
)

func main() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "cue-ssh",
		ReportTimestamp: true,
	})
	if level, err := log.ParseLevel(config.GetEnv("CUE_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	var err error
	sheet, err = config.LoadFromEnv()
	if err != nil {
		logger.Fatal("cue sheet", "err", err)
	}
	rate = beep.SampleRate(sheet.SampleRate)
	clips = sound.LoadBank(sheet, rate, logger)
	hub = loop.NewHub(logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			consoleMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY so key presses reach the console without batching
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down", "consoles", hub.Len())

	// Notify consoles and wait for them to disconnect
	hub.Shutdown(loopconfig.HubShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// consoleMiddleware runs a cue console for the session. Each session gets
// its own controller and in-memory mix; effects ring the terminal bell.
func consoleMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		sessLogger := logger.With("user", sess.User())
		sessLogger.Info("new console session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		out := sound.NewMixOutput(rate)
		rig := sound.NewRig(out, clips, sheet, cue.Options{
			Logger: sessLogger,
			Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		})

		c := loop.NewConsole(rig.Controller, bufio.NewReader(sess), sess, loop.ConsoleOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Hub:          hub,
			Effects:      rig.Effects,
			Music:        rig.Music,
			FadeTime:     sheet.FadeTime,
			Output:       out,
			Bell:         true,
			Logger:       sessLogger,
		})
		rig.Effects.OnPlay = c.RecordCue

		if err := c.Run(); err != nil {
			sessLogger.Error("console error", "err", err)
		}

		sessLogger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
