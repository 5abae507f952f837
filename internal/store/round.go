package store

import (
	"database/sql"
	"errors"
	"time"
)

// Round is a resolved round stored in the history.
type Round struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Computer   string    `json:"computer"`
	Player     string    `json:"player"`
	Outcome    string    `json:"outcome"`
	Streak     int       `json:"streak"`
	StartedAt  time.Time `json:"started_at"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Stats summarises the round history.
type Stats struct {
	Total  int `json:"total"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// RoundRepository stores the round history.
type RoundRepository struct {
	db *sql.DB
}

// Rounds returns the round repository for this store.
func (s *Store) Rounds() *RoundRepository {
	return &RoundRepository{db: s.db}
}

// Create inserts a resolved round.
func (r *RoundRepository) Create(rd *Round) error {
	_, err := r.db.Exec(
		`INSERT INTO rounds (id, mode, computer, player, outcome, streak, started_at, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rd.ID, rd.Mode, rd.Computer, rd.Player, rd.Outcome, rd.Streak, rd.StartedAt.UTC(), rd.ResolvedAt.UTC(),
	)
	return err
}

// GetByID retrieves a round by its ID.
func (r *RoundRepository) GetByID(id string) (*Round, error) {
	rd := &Round{}
	err := r.db.QueryRow(
		`SELECT id, mode, computer, player, outcome, streak, started_at, resolved_at
		 FROM rounds WHERE id = ?`,
		id,
	).Scan(&rd.ID, &rd.Mode, &rd.Computer, &rd.Player, &rd.Outcome, &rd.Streak, &rd.StartedAt, &rd.ResolvedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rd, nil
}

// List retrieves up to limit rounds, most recently recorded first. A limit of zero or less returns every round.
func (r *RoundRepository) List(limit int) ([]*Round, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, mode, computer, player, outcome, streak, started_at, resolved_at
		 FROM rounds ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		rd := &Round{}
		err := rows.Scan(&rd.ID, &rd.Mode, &rd.Computer, &rd.Player, &rd.Outcome, &rd.Streak, &rd.StartedAt, &rd.ResolvedAt)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rounds, nil
}

// Stats counts rounds by outcome.
func (r *RoundRepository) Stats() (Stats, error) {
	rows, err := r.db.Query(`SELECT outcome, COUNT(*) FROM rounds GROUP BY outcome`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return Stats{}, err
		}
		switch outcome {
		case "win":
			st.Wins = n
		case "lose":
			st.Losses = n
		case "draw":
			st.Draws = n
		}
		st.Total += n
	}

	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	return st, nil
}
