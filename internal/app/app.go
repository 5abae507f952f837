// Package app wires frame sources, the classifier and the match engine together
// and publishes what the player should see to display sinks.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/game"
	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/hand"
	"github.com/ayusman/rochambeau/internal/score"
	"github.com/ayusman/rochambeau/internal/store"
)

// DefaultFrameInterval classifies every fifth frame.
const DefaultFrameInterval = 5

// ErrDeviceUnavailable is returned when the frame source cannot be opened.
var ErrDeviceUnavailable = errors.New("device unavailable")

// ErrClosed is returned by operations on a closed App.
var ErrClosed = errors.New("app closed")

// Source delivers hand landmarks frame by frame.
type Source interface {
	Open() error
	Close() error
	// Grab advances to the next frame. It returns io.EOF when the source has no more frames.
	Grab() error
	// Retrieve returns the landmarks for the last grabbed frame, or nil when no hand is in view.
	Retrieve() (hand.LandmarkFrame, error)
}

// RoundLog keeps the history of resolved rounds. *store.RoundRepository implements it.
type RoundLog interface {
	Create(r *store.Round) error
	GetByID(id string) (*store.Round, error)
	List(limit int) ([]*store.Round, error)
	Stats() (store.Stats, error)
}

// Config holds configuration options for the application.
type Config struct {
	Mode       game.Mode
	Policy     gesture.Policy
	Thresholds gesture.Thresholds
	// FrameInterval classifies every Nth grabbed frame. Zero means DefaultFrameInterval.
	FrameInterval int
	// Scores persists the high score. Nil keeps it in memory.
	Scores score.Store
	// Rounds records resolved rounds. Nil disables the history.
	Rounds RoundLog
	// Chooser picks the computer's gesture. Nil uses a RandomChooser seeded with Seed.
	Chooser game.Chooser
	Seed    uint64
}

// App runs three kinds of goroutine:
// the pump classifies frames from the source, the coordinator owns all game state
// and publishes views, and the lifecycle goroutine opens, closes and swaps sources.
type App struct {
	config     Config
	throttle   Throttle
	stabilizer *gesture.Stabilizer
	tracker    *score.Tracker
	engine     *game.Engine

	ops  chan func()
	life chan func()
	quit chan struct{}
	wg   sync.WaitGroup

	closeOnce sync.Once

	// Owned by the coordinator goroutine.
	state coordinatorState

	// Owned by the lifecycle goroutine.
	session lifecycleState
}

// New creates an App reading from source. Call Start to begin delivering frames.
func New(config Config, source Source) (*App, error) {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}

	tracker, err := score.New(config.Scores)
	if err != nil {
		return nil, fmt.Errorf("create score tracker: %w", err)
	}

	chooser := config.Chooser
	if chooser == nil {
		chooser = game.NewRandomChooser(config.Seed)
	}

	a := &App{
		config:     config,
		throttle:   NewThrottle(config.FrameInterval),
		stabilizer: gesture.NewStabilizer(config.Policy),
		tracker:    tracker,
		engine:     game.New(game.Config{Mode: config.Mode}, tracker, chooser),
		ops:        make(chan func(), 64),
		life:       make(chan func()),
		quit:       make(chan struct{}),
	}
	a.state.source = SourceStopped
	a.state.reading = a.stabilizer.Current()
	a.session.source = source
	a.observeStreak(tracker.Streak())

	a.wg.Add(2)
	go a.coordinate()
	go a.lifecycle()

	log.Info().
		Stringer("mode", config.Mode).
		Stringer("policy", config.Policy).
		Int("frame_interval", config.FrameInterval).
		Msg("app created")
	return a, nil
}

// Close stops the source and the background goroutines.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		err = a.runLife(a.stopSession)
		close(a.quit)
		a.wg.Wait()
	})
	return err
}

// Mode returns the configured match mode.
func (a *App) Mode() game.Mode {
	return a.engine.Mode()
}

// History returns up to limit resolved rounds, newest first.
func (a *App) History(limit int) ([]*store.Round, error) {
	if a.config.Rounds == nil {
		return nil, nil
	}
	return a.config.Rounds.List(limit)
}

// Round returns one resolved round. It returns store.ErrNotFound for unknown ids
// and when no history is kept.
func (a *App) Round(id string) (*store.Round, error) {
	if a.config.Rounds == nil {
		return nil, store.ErrNotFound
	}
	return a.config.Rounds.GetByID(id)
}

// Stats summarises the round history.
func (a *App) Stats() (store.Stats, error) {
	if a.config.Rounds == nil {
		return store.Stats{}, nil
	}
	return a.config.Rounds.Stats()
}
