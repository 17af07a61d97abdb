package persona

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// #region schema

const personaSchema = `
CREATE TABLE IF NOT EXISTS persona_state (
	user_id                 TEXT PRIMARY KEY,
	trust                   REAL NOT NULL,
	challenge_comfort       REAL NOT NULL,
	humor_appreciation      REAL NOT NULL,
	metaphysics_confidence  REAL NOT NULL,
	integration             INTEGER NOT NULL,
	updated_at              TEXT NOT NULL
);
`

// #endregion schema

// #region sqlite-store

// SQLStore persists persona state in SQLite, sharing a connection with the
// pattern repository.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates the persona_state table if needed and returns a store.
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if _, err := db.Exec(personaSchema); err != nil {
		return nil, fmt.Errorf("migrate persona: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Get reads the user's state, or DefaultState when no row exists.
func (s *SQLStore) Get(ctx context.Context, userID string) (State, error) {
	var st State
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, trust, challenge_comfort, humor_appreciation, metaphysics_confidence, integration
		 FROM persona_state WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &st.Trust, &st.ChallengeComfort, &st.HumorAppreciation,
		&st.MetaphysicsConfidence, &st.Integration)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultState(userID), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("get persona %s: %w", userID, err)
	}
	return st, nil
}

// Put upserts the user's state.
func (s *SQLStore) Put(ctx context.Context, st State) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persona_state
		 (user_id, trust, challenge_comfort, humor_appreciation, metaphysics_confidence, integration, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   trust = excluded.trust,
		   challenge_comfort = excluded.challenge_comfort,
		   humor_appreciation = excluded.humor_appreciation,
		   metaphysics_confidence = excluded.metaphysics_confidence,
		   integration = excluded.integration,
		   updated_at = excluded.updated_at`,
		st.UserID, st.Trust, st.ChallengeComfort, st.HumorAppreciation,
		st.MetaphysicsConfidence, st.Integration,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put persona %s: %w", st.UserID, err)
	}
	return nil
}

// #endregion sqlite-store
