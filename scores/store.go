// Package scores persists finished runs in SQLite using the pure-Go
// modernc.org/sqlite driver.
package scores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/plus3/circles/game"
)

// Store manages the score database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded game.
type Run struct {
	ID         int64
	RunID      string
	Difficulty string
	Score      int
	Hits       int
	Misses     int
	Expired    int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Accuracy returns hits over all clicks, 0 when nothing was clicked.
func (r Run) Accuracy() float64 {
	if r.Hits+r.Misses == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Hits+r.Misses)
}

// Open creates or opens the database at path, creating parent directories
// and running migrations. A leading ~ expands to the home directory.
func Open(path string) (*Store, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scores: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scores: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scores: migration failed: %w", err)
	}
	return store, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("scores: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			difficulty TEXT NOT NULL,
			score INTEGER NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			misses INTEGER NOT NULL DEFAULT 0,
			expired INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(difficulty, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun inserts run and returns its row id. An empty RunID is replaced by
// a fresh UUID.
func (s *Store) SaveRun(run Run) (int64, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	result, err := s.db.Exec(
		`INSERT INTO runs (run_id, difficulty, score, hits, misses, expired, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Difficulty, run.Score, run.Hits, run.Misses, run.Expired,
		run.Duration.Milliseconds(), run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("scores: cannot save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scores: cannot get inserted id: %w", err)
	}
	return id, nil
}

// TopScores returns the best runs for difficulty, highest score first and
// earliest first among equal scores. An empty difficulty matches all.
func (s *Store) TopScores(difficulty string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, run_id, difficulty, score, hits, misses, expired, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR difficulty = ?
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`,
		difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMs, createdMs int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Difficulty, &r.Score, &r.Hits, &r.Misses, &r.Expired, &durationMs, &createdMs); err != nil {
			return nil, fmt.Errorf("scores: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdMs)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scores: row iteration error: %w", err)
	}
	return runs, nil
}

// HighScore returns the best score for difficulty. ok is false when no run
// has been recorded.
func (s *Store) HighScore(difficulty string) (score int, ok bool, err error) {
	var best sql.NullInt64
	err = s.db.QueryRow(`SELECT MAX(score) FROM runs WHERE difficulty = ?`, difficulty).Scan(&best)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("scores: cannot get high score: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return int(best.Int64), true, nil
}

// Count returns the number of runs recorded for difficulty, or for all
// difficulties when it is empty.
func (s *Store) Count(difficulty string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE ? = '' OR difficulty = ?`, difficulty, difficulty).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("scores: cannot count runs: %w", err)
	}
	return n, nil
}

// Record implements game.Recorder.
func (s *Store) Record(result game.Result) error {
	_, err := s.SaveRun(Run{
		RunID:      result.RunID,
		Difficulty: result.Difficulty,
		Score:      result.Score,
		Hits:       result.Hits,
		Misses:     result.Misses,
		Expired:    result.Expired,
		Duration:   result.Duration,
	})
	return err
}

// Best implements game.Recorder.
func (s *Store) Best(difficulty string) (int, bool, error) {
	return s.HighScore(difficulty)
}

var _ game.Recorder = (*Store)(nil)
