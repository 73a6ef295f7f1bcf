// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/verte-zerg/findsens/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// LeaderboardSize is the number of entries kept on the leaderboard.
const LeaderboardSize = 50

// Defaults applied to leaderboard entries saved without a name or country.
const (
	DefaultName    = "Anonymous"
	DefaultCountry = "Global"
)

// Store wraps SQLite access for run history and the leaderboard.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create data dir")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			life_mode INTEGER NOT NULL,
			game TEXT NOT NULL,
			sens REAL NOT NULL,
			dpi INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			final_interval_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			score INTEGER NOT NULL,
			grade TEXT NOT NULL,
			accuracy REAL NOT NULL,
			avg_distance REAL NOT NULL,
			deviation REAL NOT NULL,
			end_reason TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS leaderboard (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT NOT NULL,
			score INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			grade TEXT NOT NULL,
			mode TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to migrate")
		}
	}
	return nil
}

// InsertRun stores a finished run.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, mode, life_mode, game, sens, dpi, hits, misses, final_interval_ms, duration_ms, score, grade, accuracy, avg_distance, deviation, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.Mode,
		boolToInt(run.LifeMode),
		run.Game,
		run.Sens,
		run.DPI,
		run.Hits,
		run.Misses,
		run.FinalIntervalMs,
		run.DurationMs,
		run.Score,
		run.Grade,
		run.Accuracy,
		run.AvgDistance,
		run.Deviation,
		run.EndReason,
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read run id")
	}
	return id, nil
}

// ListRuns returns run aggregates filtered by stats config, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.StatsConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.LifeOnly {
		clauses = append(clauses, "life_mode = 1")
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, life_mode, hits, misses, final_interval_ms, duration_ms, score, grade, accuracy, avg_distance, deviation
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		var life int
		if err := rows.Scan(&agg.RunID, &endedAt, &agg.Mode, &life, &agg.Hits, &agg.Misses, &agg.FinalIntervalMs, &agg.DurationMs, &agg.Score, &agg.Grade, &agg.Accuracy, &agg.AvgDistance, &agg.Deviation); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, errors.Wrapf(err, "run %d has a bad timestamp", agg.RunID)
		}
		agg.EndedAt = parsed
		agg.LifeMode = life != 0
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read runs")
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// SaveRanking adds an entry to the leaderboard and trims it to the best
// LeaderboardSize scores. Equal scores keep insertion order. The saved entry
// is returned with its id and timestamp filled in.
func (s *Store) SaveRanking(ctx context.Context, entry model.LeaderboardEntry) (model.LeaderboardEntry, error) {
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		entry.Name = DefaultName
	}
	if entry.Country == "" {
		entry.Country = DefaultCountry
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.LeaderboardEntry{}, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO leaderboard (id, name, country, score, hits, misses, accuracy, grade, mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Name,
		entry.Country,
		entry.Score,
		entry.Hits,
		entry.Misses,
		entry.Accuracy,
		entry.Grade,
		entry.Mode,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.LeaderboardEntry{}, errors.Wrap(err, "failed to insert ranking")
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM leaderboard WHERE id NOT IN (
			SELECT id FROM leaderboard ORDER BY score DESC, rowid ASC LIMIT ?
		)`, LeaderboardSize)
	if err != nil {
		return model.LeaderboardEntry{}, errors.Wrap(err, "failed to trim leaderboard")
	}
	if err = tx.Commit(); err != nil {
		return model.LeaderboardEntry{}, errors.Wrap(err, "failed to commit ranking")
	}
	return entry, nil
}

// TopRankings returns the best entries, highest score first. A limit of 0 or
// less returns the whole leaderboard.
func (s *Store) TopRankings(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > LeaderboardSize {
		limit = LeaderboardSize
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, country, score, hits, misses, accuracy, grade, mode, created_at
		 FROM leaderboard
		 ORDER BY score DESC, rowid ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query leaderboard")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Country, &e.Score, &e.Hits, &e.Misses, &e.Accuracy, &e.Grade, &e.Mode, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan ranking")
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, errors.Wrapf(err, "ranking %s has a bad timestamp", e.ID)
		}
		e.CreatedAt = parsed
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read leaderboard")
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
