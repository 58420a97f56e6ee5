// Package resultsdb keeps an SQLite index of runs, their trials and the clone
// sizes each trial produced.
package resultsdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mad-kmc/internal/kmc"
)

// ErrPath reports an empty database path.
var ErrPath = errors.New("resultsdb: empty db path")

// Run describes one invocation: a rule, its configuration and a trial count.
type Run struct {
	Rule    string
	Size    int
	Horizon float64
	Policy  string
	Runs    int
	Seed    int64
	Params  map[string]string
}

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, ErrPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rule TEXT NOT NULL,
			size INTEGER NOT NULL,
			horizon REAL NOT NULL,
			policy TEXT NOT NULL,
			runs INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			params_json TEXT NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trials (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			trial INTEGER NOT NULL,
			time REAL NOT NULL,
			events INTEGER NOT NULL,
			restarts INTEGER NOT NULL,
			population INTEGER NOT NULL,
			active INTEGER NOT NULL,
			state TEXT NOT NULL,
			PRIMARY KEY (run_id, trial)
		);`,
		`CREATE TABLE IF NOT EXISTS clones (
			run_id INTEGER NOT NULL,
			trial INTEGER NOT NULL,
			label INTEGER NOT NULL,
			size INTEGER NOT NULL,
			PRIMARY KEY (run_id, trial, label),
			FOREIGN KEY (run_id, trial) REFERENCES trials(run_id, trial) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_clones_size ON clones(run_id, size);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }

// BeginRun records a run and returns its id.
func (d *DB) BeginRun(ctx context.Context, r Run) (int64, error) {
	params := r.Params
	if params == nil {
		params = map[string]string{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return 0, err
	}
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO runs(rule,size,horizon,policy,runs,seed,params_json,started_at) VALUES(?,?,?,?,?,?,?,?)`,
		r.Rule, r.Size, r.Horizon, r.Policy, r.Runs, r.Seed, string(b), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// RecordTrial stores one trial result and its clone histogram.
func (d *DB) RecordTrial(ctx context.Context, runID int64, trial int, res kmc.Result) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trials(run_id,trial,time,events,restarts,population,active,state) VALUES(?,?,?,?,?,?,?,?)`,
		runID, trial, res.Time, int64(res.Events), res.Restarts, res.Population, res.Active, res.State.String())
	if err != nil {
		return fmt.Errorf("insert trial %d: %w", trial, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO clones(run_id,trial,label,size) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range res.Clones {
		if _, err = stmt.ExecContext(ctx, runID, trial, int64(c.Label), c.Size); err != nil {
			return fmt.Errorf("insert clone %d: %w", c.Label, err)
		}
	}
	return tx.Commit()
}

// CloneSizes returns every clone size of a run, ordered by trial and label.
func (d *DB) CloneSizes(ctx context.Context, runID int64) ([]int, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT size FROM clones WHERE run_id=? ORDER BY trial, label`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TrialCount returns how many trials a run has recorded.
func (d *DB) TrialCount(ctx context.Context, runID int64) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trials WHERE run_id=?`, runID).Scan(&n)
	return n, err
}
