// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps an optional SQLite record of conversion runs and the
// PDF files each run wrote, so repeated exports of the same transaction can
// be noticed across runs and output directories.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one invocation of the converter.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	InputPath  string    `json:"input_path" yaml:"input_path"`
	OutputDir  string    `json:"output_dir" yaml:"output_dir"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero" yaml:"finished_at,omitempty"`
	Counts     `yaml:",inline"`
}

// Counts are the row totals of a finished run.
type Counts struct {
	Processed int `json:"processed" yaml:"processed"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Export is one PDF written by a run.
type Export struct {
	RunID         string    `json:"run_id" yaml:"run_id"`
	TransactionID string    `json:"transaction_id" yaml:"transaction_id"`
	Path          string    `json:"path" yaml:"path"`
	SHA256        string    `json:"sha256" yaml:"sha256"`
	Size          int       `json:"size" yaml:"size"`
	ExportedAt    time.Time `json:"exported_at" yaml:"exported_at"`
}

// Ledger manages the ledger database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db, now: time.Now}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			processed INTEGER NOT NULL DEFAULT 0,
			succeeded INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS exports (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			transaction_id TEXT NOT NULL,
			path TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			size INTEGER NOT NULL,
			exported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_transaction_id ON exports(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_run_id ON exports(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun records the start of a run and returns its id.
func (l *Ledger) StartRun(ctx context.Context, inputPath, outputDir string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_path, output_dir, started_at) VALUES (?, ?, ?, ?)`,
		id, inputPath, outputDir, formatTime(l.now()),
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counts of a run.
func (l *Ledger) FinishRun(ctx context.Context, runID string, c Counts) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, succeeded = ?, skipped = ?, failed = ?
		 WHERE id = ?`,
		formatTime(l.now()), c.Processed, c.Succeeded, c.Skipped, c.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("recording run finish: unknown run %s", runID)
	}
	return nil
}

// Record stores one written file. ExportedAt defaults to now.
func (l *Ledger) Record(ctx context.Context, e Export) error {
	if e.ExportedAt.IsZero() {
		e.ExportedAt = l.now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO exports (run_id, transaction_id, path, sha256, size, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.TransactionID, e.Path, e.SHA256, e.Size, formatTime(e.ExportedAt),
	)
	if err != nil {
		return fmt.Errorf("recording export of %s: %w", e.TransactionID, err)
	}
	return nil
}

// Previous returns exports of transactionID made by runs other than runID.
func (l *Ledger) Previous(ctx context.Context, transactionID, runID string) ([]Export, error) {
	return l.Exports(ctx, QueryOptions{TransactionID: transactionID, ExcludeRunID: runID})
}

// Runs lists all recorded runs, oldest first.
func (l *Ledger) Runs(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, input_path, output_dir, started_at, COALESCE(finished_at, ''),
		        processed, succeeded, skipped, failed
		 FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.InputPath, &r.OutputDir, &started, &finished,
			&r.Processed, &r.Succeeded, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
