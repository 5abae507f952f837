package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/capture"
	"github.com/ayusman/rochambeau/internal/config"
	"github.com/ayusman/rochambeau/internal/detector"
	"github.com/ayusman/rochambeau/internal/hook"
	"github.com/ayusman/rochambeau/internal/replay"
	"github.com/ayusman/rochambeau/internal/server"
	"github.com/ayusman/rochambeau/internal/store"
	"github.com/ayusman/rochambeau/internal/tray"
)

const version = "v0.1.0"

func main() {
	var (
		addr        = flag.String("addr", "", "address to listen on (overrides ROCHAMBEAU_ADDR)")
		replayPath  = flag.String("replay", "", "play landmarks from a JSON-lines file instead of the camera")
		recordPath  = flag.String("record", "", "write every classified frame to a JSON-lines file")
		withTray    = flag.Bool("tray", false, "show the game in the system tray")
		showVersion = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rochambeau %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rochambeau: %v\n", err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *replayPath != "" {
		cfg.Replay = *replayPath
	}
	if *recordPath != "" {
		cfg.Record = *recordPath
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "tray" {
			cfg.Tray = *withTray
		}
	})

	setupLogger(cfg)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("rochambeau stopped")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(cfg *config.Config) error {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	log.Info().Str("path", st.Path()).Msg("store opened")

	src := newSource(cfg)
	if cfg.Record != "" {
		f, err := os.Create(cfg.Record)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer f.Close()
		src = replay.Record(src, replay.NewWriter(f))
		log.Info().Str("path", cfg.Record).Msg("recording frames")
	}

	a, err := app.New(app.Config{
		Mode:          cfg.GameMode(),
		Policy:        cfg.Policy(),
		Thresholds:    cfg.GestureThresholds(),
		FrameInterval: cfg.FrameInterval,
		Scores:        st.Settings(),
		Rounds:        st.Rounds(),
		Seed:          cfg.Seed,
	}, src)
	if err != nil {
		return err
	}
	defer a.Close()

	hub := server.NewHub()
	defer hub.Close()
	if err := a.AddSink(hub); err != nil {
		return err
	}

	hooksDir, err := cfg.HookPath()
	if err != nil {
		return err
	}
	hooks := hook.NewManager(hooksDir)
	if err := hooks.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", hooksDir).Msg("hook discovery failed")
	}
	if len(hooks.List()) > 0 {
		d := hook.NewDispatcher(hooks, hook.NewExecutor(cfg.HookTimeout))
		defer d.Close()
		if err := a.AddSink(d); err != nil {
			return err
		}
	}

	// An unavailable camera is shown to the player; the server still starts.
	if err := a.Start(); err != nil && !errors.Is(err, app.ErrDeviceUnavailable) {
		return err
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	srv := server.New(server.Config{
		StaticDir:  staticDir,
		Controller: a,
		Hub:        hub,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Addr)
	}()

	if cfg.Tray {
		t := newTray(a, stop)
		if err := a.AddSink(t); err != nil {
			return err
		}
		go func() {
			select {
			case <-ctx.Done():
			case <-errCh:
			}
			t.Quit()
		}()
		// The tray owns the main goroutine until it quits.
		t.Run()
		stop()
	} else {
		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
		}
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSource picks the replay file or the camera. Without the MediaPipe service
// the camera falls back to the mock detector, which never sees a hand.
func newSource(cfg *config.Config) app.Source {
	if cfg.Replay != "" {
		log.Info().Str("path", cfg.Replay).Msg("replaying recorded frames")
		return replay.New(cfg.Replay, replay.Options{FPS: cfg.ReplayFPS, Loop: cfg.ReplayLoop})
	}

	cam := capture.NewDevice(capture.DeviceOptions{
		ID:     cfg.CameraID,
		FPS:    cfg.CameraFPS,
		Width:  cfg.CameraWidth,
		Height: cfg.CameraHeight,
	})

	var det detector.Detector
	if cfg.Detector == "mediapipe" {
		dc := detector.DefaultConfig()
		mp, err := detector.NewMediaPipeDetector(dc)
		if err != nil {
			log.Warn().Err(err).Msg("mediapipe unavailable, using mock detector")
		} else {
			det = mp
		}
	}
	if det == nil {
		det = detector.NewMockDetector()
	}

	var motion *capture.MotionDetector
	if cfg.MotionThreshold > 0 {
		motion = capture.NewMotionDetector(cfg.MotionThreshold)
	}
	return capture.NewCameraSource(cam, det, motion)
}

func newTray(a *app.App, stop context.CancelFunc) *tray.Tray {
	t := tray.New()
	t.OnPlay(func() {
		if _, err := a.StartRound(); err != nil {
			log.Info().Err(err).Msg("round not started")
		}
	})
	t.OnAcknowledge(func() { a.Acknowledge() })
	t.OnSuspend(func(suspend bool) {
		var err error
		if suspend {
			err = a.Suspend()
		} else {
			err = a.Resume()
		}
		if err != nil {
			log.Warn().Err(err).Bool("suspend", suspend).Msg("camera toggle failed")
		}
	})
	t.OnQuit(stop)
	return t
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.rochambeau/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".rochambeau", "web")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
