package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/metrics"
)

// lifecycleState is only touched from the lifecycle goroutine.
type lifecycleState struct {
	source    Source
	open      bool
	suspended bool
	stop      chan struct{}
	done      chan struct{}
}

func (a *App) lifecycle() {
	defer a.wg.Done()
	for {
		select {
		case op := <-a.life:
			op()
		case <-a.quit:
			return
		}
	}
}

// runLife runs fn on the lifecycle goroutine and returns its error.
func (a *App) runLife(fn func() error) error {
	errCh := make(chan error, 1)
	select {
	case a.life <- func() { errCh <- fn() }:
	case <-a.quit:
		return ErrClosed
	}
	return <-errCh
}

// Start opens the source and begins delivering frames.
// It returns an error wrapping ErrDeviceUnavailable when the source cannot be opened;
// the failure is also shown to the player and the pipeline stays idle.
func (a *App) Start() error {
	return a.runLife(a.startSession)
}

// Suspend stops frame delivery and releases the source. No frames are classified until Resume.
func (a *App) Suspend() error {
	return a.runLife(func() error {
		if err := a.stopSession(); err != nil {
			return err
		}
		a.session.suspended = true
		_ = a.do(func() { a.setSource(SourceSuspended) })
		log.Info().Msg("frame source suspended")
		return nil
	})
}

// Resume reopens the source after Suspend.
func (a *App) Resume() error {
	return a.runLife(func() error {
		a.session.suspended = false
		return a.startSession()
	})
}

// SwitchSource replaces the frame source. If frames were being delivered, the new source is started.
func (a *App) SwitchSource(src Source) error {
	return a.runLife(func() error {
		wasRunning := a.session.open
		if err := a.stopSession(); err != nil {
			log.Warn().Err(err).Msg("failed to close previous source")
		}
		a.session.source = src
		log.Info().Msg("frame source switched")
		if !wasRunning || a.session.suspended {
			_ = a.do(func() { a.setSource(SourceStopped) })
			return nil
		}
		return a.startSession()
	})
}

// startSession runs on the lifecycle goroutine.
func (a *App) startSession() error {
	if a.session.open && !a.pumpDone() {
		return nil
	}
	if a.session.open {
		// The previous pump reached the end of its source.
		if err := a.stopSession(); err != nil {
			log.Warn().Err(err).Msg("failed to close finished source")
		}
	}

	src := a.session.source
	if src == nil {
		return a.unavailable(errors.New("no frame source configured"))
	}
	if err := src.Open(); err != nil {
		return a.unavailable(err)
	}

	a.session.open = true
	a.session.stop = make(chan struct{})
	a.session.done = make(chan struct{})
	go a.pump(src, a.session.stop, a.session.done)

	metrics.SourceRunning.Set(1)
	_ = a.do(func() { a.setSource(SourceRunning) })
	log.Info().Int("frame_interval", a.config.FrameInterval).Msg("detection pipeline started")
	return nil
}

// stopSession runs on the lifecycle goroutine. It waits for the pump to exit before closing the source.
func (a *App) stopSession() error {
	if !a.session.open {
		return nil
	}

	close(a.session.stop)
	<-a.session.done
	a.session.open = false
	metrics.SourceRunning.Set(0)

	if err := a.session.source.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	log.Info().Msg("detection pipeline stopped")
	return nil
}

func (a *App) pumpDone() bool {
	select {
	case <-a.session.done:
		return true
	default:
		return false
	}
}

func (a *App) unavailable(cause error) error {
	err := fmt.Errorf("%w: %v", ErrDeviceUnavailable, cause)
	log.Error().Err(cause).Msg("frame source unavailable")
	metrics.SourceErrors.WithLabelValues("open").Inc()
	_ = a.do(func() { a.setSource(SourceUnavailable) })
	return err
}
