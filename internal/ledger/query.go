// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// QueryOptions filters Exports. Zero values do not filter.
type QueryOptions struct {
	TransactionID string
	RunID         string
	ExcludeRunID  string
	Limit         int
}

// Exports lists recorded files matching opts in the order they were written.
func (l *Ledger) Exports(ctx context.Context, opts QueryOptions) ([]Export, error) {
	var where []string
	var args []any
	if opts.TransactionID != "" {
		where = append(where, "transaction_id = ?")
		args = append(args, opts.TransactionID)
	}
	if opts.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, opts.RunID)
	}
	if opts.ExcludeRunID != "" {
		where = append(where, "run_id <> ?")
		args = append(args, opts.ExcludeRunID)
	}

	q := `SELECT run_id, transaction_id, path, sha256, size, exported_at FROM exports`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY rowid"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		var e Export
		var at string
		if err := rows.Scan(&e.RunID, &e.TransactionID, &e.Path, &e.SHA256, &e.Size, &at); err != nil {
			return nil, fmt.Errorf("scanning export: %w", err)
		}
		e.ExportedAt = parseTime(at)
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// ExportYAML writes the matching exports to w as a YAML list.
func (l *Ledger) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	exports, err := l.Exports(ctx, opts)
	if err != nil {
		return err
	}
	if exports == nil {
		exports = []Export{}
	}
	data, err := yaml.Marshal(exports)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the matching exports to w as an indented JSON array.
func (l *Ledger) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions) error {
	exports, err := l.Exports(ctx, opts)
	if err != nil {
		return err
	}
	if exports == nil {
		exports = []Export{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exports)
}
