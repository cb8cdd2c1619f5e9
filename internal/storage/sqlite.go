// Package storage keeps finished match-3 games in SQLite through the pure-Go
// modernc.org/sqlite driver. Games in progress are never stored.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store is the results database.
type Store struct {
	db *sql.DB
}

// Result is the outcome of one finished game.
type Result struct {
	ID         int64
	GameID     string
	Coins      int
	Swaps      int
	Windows    int
	Seed       int64
	Difficulty string // preset name, empty when none was chosen
	CreatedAt  time.Time
}

// GameStats aggregates the results of one variant.
type GameStats struct {
	GameID       string
	GamesCount   int
	HighScore    int
	AvgScore     float64
	TotalCoins   int64
	TotalWindows int64
	LastPlayed   time.Time
}

// migrations are applied in order. PRAGMA user_version holds how many
// already ran, so a database from an older build is upgraded in place.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		coins INTEGER NOT NULL,
		swaps INTEGER NOT NULL DEFAULT 0,
		windows INTEGER NOT NULL DEFAULT 0,
		seed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_results_top ON results(game_id, coins DESC);`,

	`ALTER TABLE results ADD COLUMN difficulty TEXT NOT NULL DEFAULT ''`,
}

// Open opens the database at path, creating it and its directory when
// missing. A leading ~ is the home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory: %w", err)
	}

	// Web sessions finish concurrently; one connection plus a busy timeout
	// keeps writers from failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	return s, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("cannot read schema version: %w", err)
	}

	for v := version; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		// PRAGMA does not take bind parameters
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion reports how many migrations the database has applied.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveResult records a finished game and returns its row ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (game_id, coins, swaps, windows, seed, difficulty)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Coins, r.Swaps, r.Windows, r.Seed, r.Difficulty,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}
	return res.LastInsertId()
}

// TopResults returns up to limit results of gameID, most coins first and
// older results first among ties. A non-positive limit means 10.
func (s *Store) TopResults(gameID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, coins, swaps, windows, seed, difficulty, created_at
		 FROM results WHERE game_id = ?
		 ORDER BY coins DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r       Result
			created any
		)
		if err := rows.Scan(&r.ID, &r.GameID, &r.Coins, &r.Swaps, &r.Windows, &r.Seed, &r.Difficulty, &created); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(created)
		results = append(results, r)
	}
	return results, rows.Err()
}

// HighScore returns the most coins earned in a single game, or 0.
func (s *Store) HighScore(gameID string) (int, error) {
	var coins sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(coins) FROM results WHERE game_id = ?",
		gameID,
	).Scan(&coins)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !coins.Valid {
		return 0, nil
	}
	return int(coins.Int64), nil
}

// ClearResults deletes every result for a game.
func (s *Store) ClearResults(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// GameStats aggregates every result of one game.
func (s *Store) GameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(coins), 0), COALESCE(AVG(coins), 0),
		        COALESCE(SUM(coins), 0), COALESCE(SUM(windows), 0)
		 FROM results WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalCoins, &stats.TotalWindows)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM results WHERE game_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	default:
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// AllGameStats aggregates results for every game that has been played.
func (s *Store) AllGameStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(coins), AVG(coins), SUM(coins), SUM(windows), MAX(created_at)
		 FROM results
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore,
			&gs.TotalCoins, &gs.TotalWindows, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and the driver's text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
