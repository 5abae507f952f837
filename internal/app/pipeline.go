package app

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/metrics"
	"github.com/ayusman/rochambeau/internal/overlay"
)

// grabErrorBackoff is how long the pump waits after a failed grab before trying again.
const grabErrorBackoff = 100 * time.Millisecond

// Throttle accepts every Nth frame of a sequence numbered from 1.
type Throttle struct {
	every uint64
}

// NewThrottle creates a throttle accepting every nth frame. n below 1 accepts every frame.
func NewThrottle(n int) Throttle {
	if n < 1 {
		n = 1
	}
	return Throttle{every: uint64(n)}
}

// Accept reports whether frame seq should be classified.
func (t Throttle) Accept(seq uint64) bool {
	return seq%t.every == 0
}

// pump is the detection loop for one session.
//
// Pipeline logic:
// 1. Grab every frame the source produces and number it
// 2. Skip frames the throttle does not accept without retrieving their landmarks
// 3. Classify and stabilize accepted frames on this goroutine
// 4. Hand the reading to the coordinator, which owns the game state
func (a *App) pump(src Source, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var seq uint64
	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := src.Grab(); err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Uint64("frames", seq).Msg("frame source ended")
				a.post(stop, func() { a.setSource(SourceEnded) })
				return
			}
			metrics.SourceErrors.WithLabelValues("grab").Inc()
			log.Warn().Err(err).Msg("failed to grab frame")
			select {
			case <-stop:
				return
			case <-time.After(grabErrorBackoff):
			}
			continue
		}

		seq++
		metrics.FramesGrabbed.Inc()
		if !a.throttle.Accept(seq) {
			continue
		}

		frame, err := src.Retrieve()
		if err != nil {
			metrics.SourceErrors.WithLabelValues("retrieve").Inc()
			log.Warn().Err(err).Uint64("seq", seq).Msg("failed to retrieve landmarks")
			frame = nil
		}
		metrics.FramesAccepted.Inc()

		g := gesture.Classify(frame, a.config.Thresholds)
		metrics.Classifications.WithLabelValues(g.String()).Inc()

		reading, changed := a.stabilizer.Update(g)
		res := result{
			seq:     seq,
			reading: reading,
			changed: changed,
			overlay: overlay.Build(frame, g, a.config.Thresholds),
		}
		a.post(stop, func() { a.handleResult(res) })
	}
}
