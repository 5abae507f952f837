// Package game runs rock-paper-scissors rounds against the computer.
package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/score"
)

// ErrNoGestureAvailable is returned when an immediate round is started without a detected gesture.
var ErrNoGestureAvailable = errors.New("no gesture available")

// Mode selects how a round is resolved.
type Mode int

const (
	// ModeContinuous waits for the next stabilized gesture change after the round starts.
	ModeContinuous Mode = iota
	// ModeImmediate resolves the round on start with the last known gesture.
	ModeImmediate
)

func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "continuous"
	case ModeImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "continuous" or "immediate".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "continuous":
		return ModeContinuous, nil
	case "immediate":
		return ModeImmediate, nil
	default:
		return ModeContinuous, fmt.Errorf("unknown game mode %q", s)
	}
}

// State is the round state.
type State int

const (
	Idle State = iota
	AwaitingPlayerGesture
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingPlayerGesture:
		return "awaiting_player_gesture"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Idle, AwaitingPlayerGesture, Resolved} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown round state %q", text)
}

// Round is a single play against the computer.
// Player and Outcome are only meaningful once ResolvedAt is set.
type Round struct {
	ID         uuid.UUID       `json:"id"`
	Computer   gesture.Gesture `json:"computer"`
	Player     gesture.Gesture `json:"player"`
	Outcome    gesture.Outcome `json:"outcome"`
	StartedAt  time.Time       `json:"started_at"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// Resolved reports whether the round has an outcome.
func (r Round) Resolved() bool {
	return !r.ResolvedAt.IsZero()
}

// Recorder receives round outcomes. *score.Tracker implements it.
type Recorder interface {
	Record(o gesture.Outcome) (score.Streak, error)
}

// Config configures an Engine.
type Config struct {
	Mode Mode
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine is the round state machine: Idle, AwaitingPlayerGesture, Resolved and back to Idle.
// Operations called in a state where they do not apply are no-ops.
type Engine struct {
	mode    Mode
	now     func() time.Time
	scores  Recorder
	chooser Chooser

	mu    sync.Mutex
	state State
	round Round
}

// New creates an Engine in the Idle state.
func New(cfg Config, scores Recorder, chooser Chooser) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		mode:    cfg.Mode,
		now:     now,
		scores:  scores,
		chooser: chooser,
	}
}

// Mode returns the configured mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Round returns the round in progress, or the zero Round when Idle.
func (e *Engine) Round() Round {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// StartRound starts a round and locks in the computer's choice.
//
// In continuous mode it only applies from Idle; otherwise the existing round is returned unchanged.
// In immediate mode it resolves the round right away with current, replacing any resolved round
// still waiting for acknowledgement, and fails with ErrNoGestureAvailable when current is None.
func (e *Engine) StartRound(current gesture.Gesture) (Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.mode {
	case ModeImmediate:
		if !current.Valid() {
			return e.round, ErrNoGestureAvailable
		}
		e.begin()
		e.resolve(current)
	default:
		if e.state != Idle {
			return e.round, nil
		}
		e.begin()
	}
	return e.round, nil
}

// GestureChanged resolves the pending round with g.
// It only applies while awaiting a gesture and only for a concrete g.
func (e *Engine) GestureChanged(g gesture.Gesture) (Round, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != AwaitingPlayerGesture || !g.Valid() {
		return e.round, false
	}
	e.resolve(g)
	return e.round, true
}

// Acknowledge clears a resolved round and returns to Idle.
func (e *Engine) Acknowledge() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Resolved {
		return false
	}
	e.round = Round{}
	e.state = Idle
	return true
}

func (e *Engine) begin() {
	e.round = Round{
		ID:        uuid.New(),
		Computer:  e.chooser.Choose(),
		StartedAt: e.now(),
	}
	e.state = AwaitingPlayerGesture
}

func (e *Engine) resolve(player gesture.Gesture) {
	outcome, err := gesture.Decide(player, e.round.Computer)
	if err != nil {
		// Callers only resolve with concrete gestures and choosers only return concrete ones.
		log.Error().Err(err).Msg("resolve round")
		return
	}

	e.round.Player = player
	e.round.Outcome = outcome
	e.round.ResolvedAt = e.now()
	e.state = Resolved

	if e.scores == nil {
		return
	}
	if _, err := e.scores.Record(outcome); err != nil {
		log.Warn().Err(err).Msg("record round outcome")
	}
}
