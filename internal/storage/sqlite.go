// Package storage keeps stage run results in SQLite, using the
// pure-Go modernc.org/sqlite driver so no CGO toolchain is needed.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stage_results (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		stage_id   TEXT    NOT NULL,
		score      INTEGER NOT NULL,
		taps       INTEGER NOT NULL DEFAULT 0,
		items_used INTEGER NOT NULL DEFAULT 0,
		cleared    INTEGER NOT NULL DEFAULT 0,
		remaining  INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_stage_results_stage ON stage_results(stage_id, score DESC);`,
}

// Store is a handle to the results database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// StageResult is the full record of one finished run.
type StageResult struct {
	ID        int64
	StageID   string
	Score     int
	Taps      int
	ItemsUsed int
	Cleared   bool
	Remaining int // Matchable blocks left on the board
	CreatedAt time.Time
}

// StageStats aggregates the runs of one stage.
type StageStats struct {
	StageID    string
	Runs       int
	Clears     int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open opens the database at dbPath, creating it and its directory when
// missing, and brings the schema up to date. A leading ~ is the home directory.
func Open(dbPath string) (*Store, error) {
	if rest, ok := strings.CutPrefix(dbPath, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, rest)
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

// migrate runs the migrations newer than the database's user_version.
func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// toTime converts a scanned DATETIME; the driver returns either time.Time
// or text depending on how the value was written.
func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveResult records a finished run and returns its ID.
func (s *Store) SaveResult(r StageResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO stage_results (stage_id, score, taps, items_used, cleared, remaining)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.StageID, r.Score, r.Taps, r.ItemsUsed, r.Cleared, r.Remaining,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// UpdateResult overwrites the run with r.ID, for a stage that went on after
// it was first recorded. The stage and creation time are kept.
func (s *Store) UpdateResult(r StageResult) error {
	res, err := s.db.Exec(
		`UPDATE stage_results SET score = ?, taps = ?, items_used = ?, cleared = ?, remaining = ?
		 WHERE id = ?`,
		r.Score, r.Taps, r.ItemsUsed, r.Cleared, r.Remaining, r.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update result %d: %w", r.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: no result with id %d", r.ID)
	}
	return nil
}

// TopScores returns the best limit runs of a stage, best first.
// Equal scores keep recording order. A non-positive limit means 10.
func (s *Store) TopScores(stageID string, limit int) ([]StageResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.results(`WHERE stage_id = ? ORDER BY score DESC, id ASC LIMIT ?`, stageID, limit)
}

// HighScore returns the best score of a stage, 0 when none is recorded.
func (s *Store) HighScore(stageID string) (int, error) {
	var best int
	err := s.db.QueryRow("SELECT COALESCE(MAX(score), 0) FROM stage_results WHERE stage_id = ?", stageID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return best, nil
}

// ClearResults deletes every run of a stage and returns how many were removed.
func (s *Store) ClearResults(stageID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM stage_results WHERE stage_id = ?", stageID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared results: %w", err)
	}
	return n, nil
}

// RecentResults returns the latest runs across all stages, newest first.
// A non-positive limit means 10.
func (s *Store) RecentResults(limit int) ([]StageResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.results(`ORDER BY id DESC LIMIT ?`, limit)
}

// StageResults returns every run of a stage, newest first.
func (s *Store) StageResults(stageID string) ([]StageResult, error) {
	return s.results(`WHERE stage_id = ? ORDER BY id DESC`, stageID)
}

func (s *Store) results(where string, args ...any) ([]StageResult, error) {
	rows, err := s.db.Query(
		"SELECT id, stage_id, score, taps, items_used, cleared, remaining, created_at FROM stage_results "+where,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var out []StageResult
	for rows.Next() {
		var r StageResult
		var at any
		if err := rows.Scan(&r.ID, &r.StageID, &r.Score, &r.Taps, &r.ItemsUsed, &r.Cleared, &r.Remaining, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan result: %w", err)
		}
		r.CreatedAt = toTime(at)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

const statsColumns = `COUNT(*), COALESCE(SUM(cleared), 0), COALESCE(MAX(score), 0),
	COALESCE(AVG(score), 0), MAX(created_at)`

// Stats aggregates the runs of a stage. A stage never played has zero Runs.
func (s *Store) Stats(stageID string) (*StageStats, error) {
	st := &StageStats{StageID: stageID}
	var last any
	err := s.db.QueryRow("SELECT "+statsColumns+" FROM stage_results WHERE stage_id = ?", stageID).
		Scan(&st.Runs, &st.Clears, &st.HighScore, &st.AvgScore, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stage stats: %w", err)
	}
	st.LastPlayed = toTime(last)
	return st, nil
}

// AllStats aggregates runs for every stage that has any, keyed by stage ID.
func (s *Store) AllStats() (map[string]*StageStats, error) {
	rows, err := s.db.Query("SELECT stage_id, " + statsColumns + " FROM stage_results GROUP BY stage_id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stage stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*StageStats)
	for rows.Next() {
		st := &StageStats{}
		var last any
		if err := rows.Scan(&st.StageID, &st.Runs, &st.Clears, &st.HighScore, &st.AvgScore, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		st.LastPlayed = toTime(last)
		out[st.StageID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
