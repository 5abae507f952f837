package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/game"
	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/metrics"
	"github.com/ayusman/rochambeau/internal/overlay"
	"github.com/ayusman/rochambeau/internal/score"
	"github.com/ayusman/rochambeau/internal/store"
)

// coordinatorState is only touched from the coordinator goroutine.
type coordinatorState struct {
	reading gesture.Reading
	overlay *overlay.Overlay
	outcome *OutcomeEvent
	notice  *Notice
	source  SourceState
	seq     uint64
	sinks   []Sink
	last    View
}

// result is the pump's output for one accepted frame.
type result struct {
	seq     uint64
	reading gesture.Reading
	changed bool
	overlay *overlay.Overlay
}

func (a *App) coordinate() {
	defer a.wg.Done()
	for {
		select {
		case op := <-a.ops:
			op()
		case <-a.quit:
			return
		}
	}
}

// do runs fn on the coordinator and waits for it to finish.
func (a *App) do(fn func()) error {
	done := make(chan struct{})
	select {
	case a.ops <- func() { fn(); close(done) }:
	case <-a.quit:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-a.quit:
		return ErrClosed
	}
}

// post queues fn on the coordinator without waiting. It gives up when stop or quit closes.
func (a *App) post(stop <-chan struct{}, fn func()) {
	select {
	case a.ops <- fn:
	case <-stop:
	case <-a.quit:
	}
}

// AddSink registers a display sink and sends it the current view.
func (a *App) AddSink(s Sink) error {
	return a.do(func() {
		a.state.sinks = append(a.state.sinks, s)
		s.Publish(a.buildView())
	})
}

// View returns the latest view, or the zero View once the App is closed.
func (a *App) View() View {
	var v View
	_ = a.do(func() { v = a.buildView() })
	return v
}

// StartRound starts a round.
// In immediate mode it resolves the round with the current gesture and returns
// game.ErrNoGestureAvailable when there is none, leaving the game untouched.
func (a *App) StartRound() (View, error) {
	var (
		v   View
		err error
	)
	if derr := a.do(func() {
		err = a.startRound()
		a.publish()
		v = a.state.last
	}); derr != nil {
		return View{}, derr
	}
	return v, err
}

func (a *App) startRound() error {
	switch a.engine.Mode() {
	case game.ModeImmediate:
		r, err := a.engine.StartRound(a.state.reading.Gesture)
		if errors.Is(err, game.ErrNoGestureAvailable) {
			metrics.NoGesture.Inc()
			a.state.notice = &noGestureNotice
			log.Info().Msg("round not started: no gesture detected")
			return err
		}
		metrics.RoundsStarted.WithLabelValues(game.ModeImmediate.String()).Inc()
		a.state.notice = nil
		a.resolved(r)

	default:
		if a.engine.State() != game.Idle {
			return nil
		}
		// A gesture already being held must register as a change for the new round.
		a.state.reading = a.stabilizer.Reset()
		r, _ := a.engine.StartRound(gesture.None)
		metrics.RoundsStarted.WithLabelValues(game.ModeContinuous.String()).Inc()
		a.state.outcome = nil
		a.state.notice = nil
		log.Info().Stringer("round", r.ID).Msg("round started")
	}
	return nil
}

// Acknowledge dismisses a resolved round and any notice. It reports whether a round was cleared.
func (a *App) Acknowledge() (View, bool) {
	var (
		v       View
		cleared bool
	)
	if err := a.do(func() {
		cleared = a.engine.Acknowledge()
		if cleared {
			a.state.outcome = nil
		}
		a.state.notice = nil
		a.publish()
		v = a.state.last
	}); err != nil {
		return View{}, false
	}
	return v, cleared
}

// handleResult applies one classified frame.
func (a *App) handleResult(res result) {
	if res.reading.Epoch != a.stabilizer.Current().Epoch {
		metrics.FramesStale.Inc()
		log.Debug().Uint64("seq", res.seq).Msg("dropping stale frame result")
		return
	}

	a.state.seq = res.seq
	a.state.reading = res.reading
	a.state.overlay = res.overlay

	if res.changed {
		metrics.GestureChanges.WithLabelValues(res.reading.Gesture.String()).Inc()
		log.Debug().Stringer("gesture", res.reading.Gesture).Msg("gesture changed")

		if a.engine.Mode() == game.ModeContinuous {
			if r, ok := a.engine.GestureChanged(res.reading.Gesture); ok {
				a.resolved(r)
			}
		}
	}
	a.publish()
}

// resolved records a round that just reached the Resolved state.
func (a *App) resolved(r game.Round) {
	streak := a.tracker.Streak()
	a.state.outcome = outcomeEvent(r)

	metrics.RoundsResolved.WithLabelValues(r.Outcome.String()).Inc()
	a.observeStreak(streak)

	log.Info().
		Stringer("round", r.ID).
		Stringer("player", r.Player).
		Stringer("computer", r.Computer).
		Stringer("outcome", r.Outcome).
		Int("streak", streak.Current).
		Int("high", streak.High).
		Msg("round resolved")

	if a.config.Rounds == nil {
		return
	}
	rec := &store.Round{
		ID:         r.ID.String(),
		Mode:       a.engine.Mode().String(),
		Computer:   r.Computer.String(),
		Player:     r.Player.String(),
		Outcome:    r.Outcome.String(),
		Streak:     streak.Current,
		StartedAt:  r.StartedAt,
		ResolvedAt: r.ResolvedAt,
	}
	if err := a.config.Rounds.Create(rec); err != nil {
		log.Warn().Err(err).Msg("failed to record round")
	}
}

func (a *App) observeStreak(s score.Streak) {
	metrics.CurrentStreak.Set(float64(s.Current))
	metrics.HighStreak.Set(float64(s.High))
}

// setSource records the source state and, for failures, the notice to show.
func (a *App) setSource(s SourceState) {
	a.state.source = s
	if s == SourceUnavailable {
		a.state.notice = &deviceUnavailableNotice
	}
	if s != SourceRunning {
		a.state.overlay = nil
	}
	a.publish()
}

func (a *App) buildView() View {
	streak := a.tracker.Streak()
	state := a.engine.State()
	return View{
		GestureLabel:  gestureLabel(a.state.reading.Gesture),
		Gesture:       a.state.reading.Gesture,
		Confirmed:     a.state.reading.Confirmed,
		ComputerLabel: computerLabel(a.engine.Round(), state),
		StreakText:    streakText(streak),
		HighScoreText: highScoreText(streak),
		Streak:        streak,
		State:         state,
		Mode:          a.engine.Mode().String(),
		Outcome:       a.state.outcome,
		Notice:        a.state.notice,
		Source:        a.state.source,
		Overlay:       a.state.overlay,
		FrameSeq:      a.state.seq,
	}
}

func (a *App) publish() {
	v := a.buildView()
	a.state.last = v
	for _, s := range a.state.sinks {
		s.Publish(v)
	}
	metrics.ViewsPublished.Inc()
}
