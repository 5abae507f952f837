package hook

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/metrics"
)

const queueSize = 32

// Dispatcher is a display sink that turns view changes into hook events
// and runs the interested hooks one event at a time on its own goroutine.
type Dispatcher struct {
	manager *Manager
	exec    *Executor
	events  chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	mu         sync.Mutex
	lastRound  string
	lastNotice string
}

// NewDispatcher starts a dispatcher for the hooks the manager discovered.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		manager: m,
		exec:    e,
		events:  make(chan Event, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish implements app.Sink. Events that do not fit in the queue are dropped.
func (d *Dispatcher) Publish(v app.View) {
	for _, ev := range d.detect(v) {
		select {
		case d.events <- ev:
		default:
			metrics.HookDroppedEvents.Inc()
			log.Warn().Str("event", ev.Type).Msg("hook queue full, dropping event")
		}
	}
}

// detect returns the events v represents that have not been sent yet.
func (d *Dispatcher) detect(v app.View) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	var events []Event
	if o := v.Outcome; o != nil && o.RoundID != d.lastRound {
		d.lastRound = o.RoundID
		events = append(events, Event{
			Type:      EventRoundResolved,
			RoundID:   o.RoundID,
			Player:    o.Player.String(),
			Computer:  o.Computer.String(),
			Outcome:   o.Outcome.String(),
			Streak:    v.Streak.Current,
			HighScore: v.Streak.High,
		})
	}

	kind := ""
	if v.Notice != nil {
		kind = v.Notice.Kind
	}
	if kind != d.lastNotice {
		d.lastNotice = kind
		var t string
		switch kind {
		case app.NoticeNoGesture:
			t = EventNoGesture
		case app.NoticeDeviceUnavailable:
			t = EventCameraUnavailable
		}
		if t != "" {
			events = append(events, Event{Type: t, Streak: v.Streak.Current, HighScore: v.Streak.High})
		}
	}
	return events
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case ev := <-d.events:
			d.dispatch(ev)
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	for _, h := range d.manager.List() {
		if !h.Wants(ev.Type) {
			continue
		}

		resp, err := d.exec.Run(d.ctx, h, ev)
		switch {
		case err != nil:
			metrics.HookRuns.WithLabelValues(h.Manifest.Name, "error").Inc()
			log.Warn().Err(err).Str("hook", h.Manifest.Name).Str("event", ev.Type).Msg("hook failed")
		case !resp.Success:
			metrics.HookRuns.WithLabelValues(h.Manifest.Name, "rejected").Inc()
			log.Warn().Str("hook", h.Manifest.Name).Str("event", ev.Type).Str("error", resp.Error).Msg("hook reported failure")
		default:
			metrics.HookRuns.WithLabelValues(h.Manifest.Name, "ok").Inc()
			log.Debug().Str("hook", h.Manifest.Name).Str("event", ev.Type).Msg("hook ran")
		}
	}
}

// Close stops the dispatcher, cancelling any running hook. Queued events are discarded.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.cancel()
		<-d.done
	})
}
