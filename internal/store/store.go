// Package store persists tracking runs and their per-level samples in
// SQLite.
//
// Non-finite values are stored as NULL: a NULL total or mean log area reads
// back as -Inf and a NULL progress as +Inf, which are the only non-finite
// values the tracker produces.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/areatrack/internal/timeutil"
	"github.com/banshee-data/areatrack/internal/tracker"
)

// Run is one replayed subdivision trace.
type Run struct {
	ID        string
	Dimension int
	Precision float64
	Source    string
	CreatedAt time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, timeutil.RealClock{})
}

// OpenWithClock is Open with an injected clock for run timestamps.
func OpenWithClock(path string, clock timeutil.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, clock: clock}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records a new run and returns it with a fresh ID.
func (s *Store) CreateRun(dimension int, precision float64, source string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Dimension: dimension,
		Precision: precision,
		Source:    source,
		CreatedAt: s.clock.Now().UTC(),
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, dimension, precision_floor, source, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Dimension, run.Precision, run.Source, run.CreatedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// Runs lists every run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, dimension, precision_floor, source, created_at
		FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Dimension, &r.Precision, &r.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// AppendSample stores one level sample for runID.
func (s *Store) AppendSample(runID string, sample tracker.Sample) error {
	return s.AppendSamples(runID, []tracker.Sample{sample})
}

// AppendSamples stores level samples for runID in one transaction.
func (s *Store) AppendSamples(runID string, samples []tracker.Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO level_samples (
			run_id, level, leaves, total_log_area, fraction, progress,
			mean_leaf_log_area, stddev_leaf_log_area
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, sm := range samples {
		_, err := stmt.Exec(runID, sm.Level, sm.Leaves,
			nullFloat(sm.TotalLogArea), sm.Fraction, nullFloat(sm.Progress),
			nullFloat(sm.MeanLeafLogArea), sm.StdDevLeafLogArea)
		if err != nil {
			return fmt.Errorf("failed to insert level %d: %w", sm.Level, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}
	return nil
}

// Samples returns the samples of runID ordered by level.
func (s *Store) Samples(runID string) ([]tracker.Sample, error) {
	rows, err := s.db.Query(`
		SELECT level, leaves, total_log_area, fraction, progress,
		       mean_leaf_log_area, stddev_leaf_log_area
		FROM level_samples WHERE run_id = ? ORDER BY level`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []tracker.Sample
	for rows.Next() {
		var sm tracker.Sample
		var total, progress, mean sql.NullFloat64
		if err := rows.Scan(&sm.Level, &sm.Leaves, &total, &sm.Fraction, &progress,
			&mean, &sm.StdDevLeafLogArea); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		sm.TotalLogArea = floatOr(total, math.Inf(-1))
		sm.Progress = floatOr(progress, math.Inf(1))
		sm.MeanLeafLogArea = floatOr(mean, math.Inf(-1))
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOr(v sql.NullFloat64, fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Float64
}
