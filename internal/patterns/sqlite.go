package patterns

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema

const patternSchema = `
CREATE TABLE IF NOT EXISTS pattern_records (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id   TEXT NOT NULL UNIQUE,
	user_id     TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	focal       TEXT NOT NULL,
	element     TEXT NOT NULL,
	confidence  REAL NOT NULL,
	keywords    TEXT NOT NULL,
	resolution  TEXT NOT NULL,
	response    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pattern_records_user
ON pattern_records(user_id, seq);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id        TEXT PRIMARY KEY,
	dominant_focal TEXT NOT NULL,
	themes         TEXT NOT NULL,
	trajectory     TEXT NOT NULL,
	stuck_points   TEXT NOT NULL,
	breakthroughs  TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);
`

// #endregion schema

// #region sql-repository

// SQLRepository persists pattern records and profiles in SQLite.
// Related-pattern references are derived per turn and intentionally not
// stored.
type SQLRepository struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at path and runs migrations.
func Open(path string) (*SQLRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(patternSchema); err != nil {
		return nil, fmt.Errorf("migrate patterns: %w", err)
	}
	return &SQLRepository{db: db}, nil
}

// NewSQLRepository runs migrations against an existing connection.
func NewSQLRepository(db *sql.DB) (*SQLRepository, error) {
	if _, err := db.Exec(patternSchema); err != nil {
		return nil, fmt.Errorf("migrate patterns: %w", err)
	}
	return &SQLRepository{db: db}, nil
}

// DB exposes the underlying connection so other stores can share it.
func (s *SQLRepository) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *SQLRepository) Close() error {
	return s.db.Close()
}

// #endregion sql-repository

// #region append

// Append inserts one record. Records are never updated or deleted.
func (s *SQLRepository) Append(ctx context.Context, rec PatternRecord) error {
	kwJSON, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pattern_records
		 (record_id, user_id, created_at, focal, element, confidence, keywords, resolution, response)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.CreatedAt.Format(time.RFC3339Nano),
		string(rec.Focal), rec.Element, rec.Confidence, string(kwJSON), rec.Resolution, rec.Response,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// #endregion append

// #region recent

// Recent returns up to n of the user's newest records, oldest first.
func (s *SQLRepository) Recent(ctx context.Context, userID string, n int) ([]PatternRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, user_id, created_at, focal, element, confidence, keywords, resolution, response
		 FROM pattern_records WHERE user_id = ?
		 ORDER BY seq DESC LIMIT ?`, userID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	defer rows.Close()

	var newest []PatternRecord
	for rows.Next() {
		var rec PatternRecord
		var createdStr, kwJSON, focal string
		if err := rows.Scan(&rec.ID, &rec.UserID, &createdStr, &focal,
			&rec.Element, &rec.Confidence, &kwJSON, &rec.Resolution, &rec.Response); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Focal = FocalPoint(focal)
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		if err := json.Unmarshal([]byte(kwJSON), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
		newest = append(newest, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first, the order the tracker expects.
	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}

// #endregion recent

// #region profile

// Profile reads the stored profile for a user.
func (s *SQLRepository) Profile(ctx context.Context, userID string) (UserProfile, bool, error) {
	var p UserProfile
	var dominant, themesJSON, stuckJSON, breakJSON, updatedStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, dominant_focal, themes, trajectory, stuck_points, breakthroughs, updated_at
		 FROM user_profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &dominant, &themesJSON, &p.Trajectory, &stuckJSON, &breakJSON, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return UserProfile{}, false, nil
	}
	if err != nil {
		return UserProfile{}, false, fmt.Errorf("get profile %s: %w", userID, err)
	}

	p.DominantFocal = FocalPoint(dominant)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	if err := json.Unmarshal([]byte(themesJSON), &p.Themes); err != nil {
		return UserProfile{}, false, fmt.Errorf("unmarshal themes: %w", err)
	}
	if err := json.Unmarshal([]byte(stuckJSON), &p.StuckPoints); err != nil {
		return UserProfile{}, false, fmt.Errorf("unmarshal stuck points: %w", err)
	}
	if err := json.Unmarshal([]byte(breakJSON), &p.Breakthroughs); err != nil {
		return UserProfile{}, false, fmt.Errorf("unmarshal breakthroughs: %w", err)
	}
	return p, true, nil
}

// SaveProfile upserts the user's profile.
func (s *SQLRepository) SaveProfile(ctx context.Context, p UserProfile) error {
	themesJSON, err := json.Marshal(p.Themes)
	if err != nil {
		return fmt.Errorf("marshal themes: %w", err)
	}
	stuckJSON, err := json.Marshal(p.StuckPoints)
	if err != nil {
		return fmt.Errorf("marshal stuck points: %w", err)
	}
	breakJSON, err := json.Marshal(p.Breakthroughs)
	if err != nil {
		return fmt.Errorf("marshal breakthroughs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_profiles
		 (user_id, dominant_focal, themes, trajectory, stuck_points, breakthroughs, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   dominant_focal = excluded.dominant_focal,
		   themes = excluded.themes,
		   trajectory = excluded.trajectory,
		   stuck_points = excluded.stuck_points,
		   breakthroughs = excluded.breakthroughs,
		   updated_at = excluded.updated_at`,
		p.UserID, string(p.DominantFocal), string(themesJSON), p.Trajectory,
		string(stuckJSON), string(breakJSON), p.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, err)
	}
	return nil
}

// #endregion profile
