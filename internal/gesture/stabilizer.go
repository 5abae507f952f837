package gesture

import (
	"fmt"
	"strings"
	"sync"
)

// Policy selects how the stabilizer treats frames that classify as None.
type Policy int

const (
	// LatchLastSeen keeps the last concrete gesture until a different one is seen or Reset is called.
	LatchLastSeen Policy = iota
	// ResetOnMiss clears the current gesture on every None frame.
	ResetOnMiss
)

func (p Policy) String() string {
	switch p {
	case LatchLastSeen:
		return "latch"
	case ResetOnMiss:
		return "reset"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "latch" or "reset".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latch", "latch-last-seen":
		return LatchLastSeen, nil
	case "reset", "reset-on-miss":
		return ResetOnMiss, nil
	default:
		return LatchLastSeen, fmt.Errorf("unknown stabilizer policy %q", s)
	}
}

// Reading is the stabilized gesture after a frame.
type Reading struct {
	Gesture Gesture
	// Confirmed is false when Gesture is latched from an earlier frame and the latest frame saw nothing.
	Confirmed bool
	// Epoch increments on every Reset.
	Epoch uint64
}

// Stabilizer smooths per-frame classifications into a current gesture.
// It is safe for concurrent use.
type Stabilizer struct {
	policy Policy

	mu      sync.Mutex
	current Reading
}

// NewStabilizer creates a stabilizer with the given policy.
func NewStabilizer(p Policy) *Stabilizer {
	return &Stabilizer{policy: p}
}

// Policy returns the configured policy.
func (s *Stabilizer) Policy() Policy {
	return s.policy
}

// Update feeds one classified frame and returns the new reading.
// changed is true only when the current gesture differs from the previous one.
func (s *Stabilizer) Update(g Gesture) (r Reading, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Gesture
	switch {
	case g != None:
		s.current.Gesture = g
		s.current.Confirmed = true
	case s.policy == LatchLastSeen:
		s.current.Confirmed = false
	default:
		s.current.Gesture = None
		s.current.Confirmed = false
	}
	return s.current, s.current.Gesture != prev
}

// Reset clears the current gesture and starts a new epoch.
func (s *Stabilizer) Reset() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Reading{Epoch: s.current.Epoch + 1}
	return s.current
}

// Current returns the latest reading.
func (s *Stabilizer) Current() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
