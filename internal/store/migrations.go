package store

import "fmt"

// migrations are applied in order. The database's user_version records how many have run,
// so entries are only ever appended.
var migrations = []string{
	// Durable key-value pairs such as the high score.
	`CREATE TABLE settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	// One row per resolved round.
	`CREATE TABLE rounds (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL CHECK(mode IN ('continuous', 'immediate')),
		computer TEXT NOT NULL CHECK(computer IN ('Rock', 'Paper', 'Scissors')),
		player TEXT NOT NULL CHECK(player IN ('Rock', 'Paper', 'Scissors')),
		outcome TEXT NOT NULL CHECK(outcome IN ('win', 'lose', 'draw')),
		streak INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		resolved_at DATETIME NOT NULL
	)`,

	`CREATE INDEX idx_rounds_resolved_at ON rounds(resolved_at)`,
}

// SchemaVersion returns the number of migrations applied to the database.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// migrate runs the migrations the database has not seen, each in its own transaction.
func (s *Store) migrate() error {
	applied, err := s.SchemaVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if applied > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", applied, len(migrations))
	}

	for i := applied; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
