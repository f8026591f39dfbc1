package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored experiment.
type Run struct {
	ID           int64
	Label        string
	CreatedAt    time.Time
	Seed         int64
	Width        int
	Height       int
	Wraparound   bool
	Classes      int
	Population   int
	MinNeighbors int
	Trials       int
	Eviction     *systems.EvictionParams // nil for plain runs
}

// ResultStore is a SQLite-backed store of experiment results.
type ResultStore struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if needed) the result database at path. The special
// path ":memory:" opens a private in-memory database.
func Open(path string) (*ResultStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps a :memory: database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &ResultStore{db: db, dbPath: path}, nil
}

// Path returns the database path.
func (s *ResultStore) Path() string { return s.dbPath }

// Close closes the database.
func (s *ResultStore) Close() error { return s.db.Close() }

// SaveRun stores a finished experiment and returns its run id.
func (s *ResultStore) SaveRun(ctx context.Context, label string, seed int64, cfg *config.Config,
	ev *systems.EvictionParams, c *telemetry.Collector) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var rate, prob, class any
	if ev != nil {
		rate, prob, class = ev.Rate, ev.Probability, int(ev.TargetClass)
	}
	trials := c.Trials()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (label, created_at, seed, width, height, wraparound, classes,
			population, min_neighbors, trials, eviction_rate, eviction_probability, eviction_class)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		label, time.Now().UTC().Format(time.RFC3339), seed,
		cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Wraparound, cfg.Population.Classes,
		cfg.Derived.Population, cfg.Satisfaction.MinNeighbors, len(trials),
		rate, prob, class)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ts := range trials {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trials (run_id, trial, rounds, moves, shocks, evicted, converged, homophily)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, ts.Trial, ts.Rounds, ts.Moves, ts.Shocks, ts.Evicted, ts.Converged,
			nullFloat(ts.Homophily)); err != nil {
			return 0, fmt.Errorf("failed to insert trial %d: %w", ts.Trial, err)
		}
	}
	for _, cs := range c.ClassTrials() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO class_results (run_id, trial, class, agents, like_count, unlike_count, homophily)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, cs.Trial, cs.Class, cs.Agents, cs.Like, cs.Unlike,
			nullFloat(cs.Homophily)); err != nil {
			return 0, fmt.Errorf("failed to insert class %d of trial %d: %w", cs.Class, cs.Trial, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns all stored runs, newest first.
func (s *ResultStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id.
func (s *ResultStore) GetRun(ctx context.Context, id int64) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return r, err
}

// AggregateSeries returns a run's per-trial aggregate homophily in trial
// order. Undefined values come back as NaN.
func (s *ResultStore) AggregateSeries(ctx context.Context, id int64) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT homophily FROM trials WHERE run_id = ? ORDER BY trial`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var h sql.NullFloat64
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, fromNull(h))
	}
	return out, rows.Err()
}

// ClassSeries returns a run's per-class homophily keyed by class id, each
// series in trial order.
func (s *ResultStore) ClassSeries(ctx context.Context, id int64) (map[uint8][]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT class, homophily FROM class_results WHERE run_id = ? ORDER BY class, trial`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query class results: %w", err)
	}
	defer rows.Close()

	out := make(map[uint8][]float64)
	for rows.Next() {
		var class int
		var h sql.NullFloat64
		if err := rows.Scan(&class, &h); err != nil {
			return nil, err
		}
		out[uint8(class)] = append(out[uint8(class)], fromNull(h))
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its results.
func (s *ResultStore) DeleteRun(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	// Explicit child deletes; :memory: databases open without foreign_keys.
	for _, table := range []string{"trials", "class_results"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	return tx.Commit()
}

const runColumns = `id, label, created_at, seed, width, height, wraparound, classes,
	population, min_neighbors, trials, eviction_rate, eviction_probability, eviction_class`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var created string
	var rate, prob sql.NullFloat64
	var class sql.NullInt64
	if err := sc.Scan(&r.ID, &r.Label, &created, &r.Seed, &r.Width, &r.Height, &r.Wraparound,
		&r.Classes, &r.Population, &r.MinNeighbors, &r.Trials, &rate, &prob, &class); err != nil {
		return Run{}, err
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		r.CreatedAt = t
	}
	if rate.Valid && prob.Valid && class.Valid {
		r.Eviction = &systems.EvictionParams{
			Rate:        rate.Float64,
			Probability: prob.Float64,
			TargetClass: uint8(class.Int64),
		}
	}
	return r, nil
}

// nullFloat maps NaN to NULL; SQLite has no NaN.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
