// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a ledger of merge runs and the output documents
// they produced.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sitebind/pkg/types"
)

const dbFile = "sitebind.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at metadataDir/sitebind.db,
// creating the schema if it does not exist.
func Open(metadataDir string) (*Store, error) {
	if err := os.MkdirAll(metadataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating metadata directory: %w", err)
	}

	dbPath := filepath.Join(metadataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			elapsed_seconds REAL,
			files_processed INTEGER,
			total_pages INTEGER,
			peak_memory_mb REAL,
			error_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_run_id ON outputs(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded merge run with its produced outputs.
type Run struct {
	ID             int64
	StartedAt      time.Time
	ElapsedSeconds float64
	FilesProcessed int
	TotalPages     int
	PeakMemoryMB   float64
	ErrorCount     int
	Outputs        []string
}

// Record appends one run and its outputs to the ledger.
func (s *Store) Record(ctx context.Context, stats types.RunStats, outputs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, elapsed_seconds, files_processed, total_pages, peak_memory_mb, error_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		stats.StartTime.UTC().Format(time.RFC3339Nano),
		stats.Elapsed().Seconds(),
		stats.FilesProcessed,
		stats.TotalPages,
		stats.PeakMemoryMB,
		stats.ErrorCount(),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	for _, path := range outputs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outputs (run_id, path) VALUES (?, ?)`, runID, path,
		); err != nil {
			return fmt.Errorf("inserting output %s: %w", path, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit runs, newest first, with their outputs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, elapsed_seconds, files_processed, total_pages, peak_memory_mb, error_count
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.ElapsedSeconds, &r.FilesProcessed,
			&r.TotalPages, &r.PeakMemoryMB, &r.ErrorCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		outs, err := s.outputsFor(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Outputs = outs
	}
	return runs, nil
}

func (s *Store) outputsFor(ctx context.Context, runID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM outputs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outputs: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
