// Package score tracks the player's win streak and keeps the best streak across runs.
package score

import (
	"fmt"
	"sync"

	"github.com/ayusman/rochambeau/internal/gesture"
)

// HighScoreKey is the key the best streak is stored under.
const HighScoreKey = "highScoreWinStreak"

// Store is a durable integer key-value store.
type Store interface {
	// GetInt returns the stored value and whether the key exists.
	GetInt(key string) (int, bool, error)
	SetInt(key string, value int) error
}

// Streak holds the current and best win streaks.
type Streak struct {
	Current int `json:"current"`
	High    int `json:"high"`
}

// Apply returns the streak after an outcome.
// A win extends the current streak and may raise the high score, a loss
// resets the current streak, and a draw leaves both untouched.
func (s Streak) Apply(o gesture.Outcome) Streak {
	switch o {
	case gesture.Win:
		s.Current++
		s.High = max(s.High, s.Current)
	case gesture.Lose:
		s.Current = 0
	}
	return s
}

// Tracker records round outcomes and persists the high score when it grows.
type Tracker struct {
	store Store

	mu     sync.Mutex
	streak Streak
}

// New creates a tracker, loading the persisted high score from store.
// A nil store keeps the high score in memory only.
func New(store Store) (*Tracker, error) {
	t := &Tracker{store: store}
	if store == nil {
		return t, nil
	}

	high, ok, err := store.GetInt(HighScoreKey)
	if err != nil {
		return nil, fmt.Errorf("load high score: %w", err)
	}
	if ok && high > 0 {
		t.streak.High = high
	}
	return t, nil
}

// Record applies an outcome and returns the new streak.
// If persisting a new high score fails the in-memory streak is still updated
// and the error is returned for the caller to report.
func (t *Tracker) Record(o gesture.Outcome) (Streak, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.streak
	t.streak = prev.Apply(o)

	if t.store != nil && t.streak.High > prev.High {
		if err := t.store.SetInt(HighScoreKey, t.streak.High); err != nil {
			return t.streak, fmt.Errorf("save high score: %w", err)
		}
	}
	return t.streak, nil
}

// Streak returns the current streak state.
func (t *Tracker) Streak() Streak {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streak
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int
	// Err, when set, is returned by SetInt.
	Err error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int)}
}

// GetInt implements Store.
func (m *MemoryStore) GetInt(key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// SetInt implements Store.
func (m *MemoryStore) SetInt(key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = value
	return nil
}
