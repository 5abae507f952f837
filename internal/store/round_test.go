package store

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func makeRound(i int, outcome string, at time.Time) *Round {
	return &Round{
		ID:         fmt.Sprintf("round-%d", i),
		Mode:       "continuous",
		Computer:   "Rock",
		Player:     "Paper",
		Outcome:    outcome,
		Streak:     i,
		StartedAt:  at.Add(-time.Second),
		ResolvedAt: at,
	}
}

func TestRounds_CreateAndGet(t *testing.T) {
	rounds := newTestStore(t).Rounds()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	want := makeRound(1, "win", at)
	if err := rounds.Create(want); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := rounds.GetByID(want.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Player != "Paper" || got.Computer != "Rock" || got.Outcome != "win" || got.Streak != 1 {
		t.Errorf("GetByID() = %+v, want %+v", got, want)
	}
	if !got.ResolvedAt.Equal(at) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, at)
	}

	if _, err := rounds.GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRounds_RejectsInvalid(t *testing.T) {
	rounds := newTestStore(t).Rounds()

	bad := makeRound(1, "win", time.Now())
	bad.Player = "Lizard"
	if err := rounds.Create(bad); err == nil {
		t.Error("Create() should reject an unknown gesture")
	}

	bad = makeRound(2, "forfeit", time.Now())
	if err := rounds.Create(bad); err == nil {
		t.Error("Create() should reject an unknown outcome")
	}
}

func TestRounds_ListNewestFirst(t *testing.T) {
	rounds := newTestStore(t).Rounds()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := rounds.Create(makeRound(i, "draw", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
	}

	all, err := rounds.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("List(0) returned %d rounds, want 5", len(all))
	}
	if all[0].ID != "round-4" || all[4].ID != "round-0" {
		t.Errorf("List() order = %s..%s, want round-4..round-0", all[0].ID, all[4].ID)
	}

	limited, err := rounds.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "round-4" {
		t.Errorf("List(2) = %d rounds starting at %v", len(limited), limited)
	}
}

func TestRounds_Stats(t *testing.T) {
	rounds := newTestStore(t).Rounds()

	st, err := rounds.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st != (Stats{}) {
		t.Errorf("Stats() on empty history = %+v, want zero", st)
	}

	outcomes := []string{"win", "win", "lose", "draw", "win"}
	now := time.Now()
	for i, o := range outcomes {
		if err := rounds.Create(makeRound(i, o, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	st, err = rounds.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := Stats{Total: 5, Wins: 3, Losses: 1, Draws: 1}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}
}
