// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report reads payment report CSV exports into PaymentRecords.
//
// A Reader validates the header when it is opened and then decodes one row
// per call to Next. Structural problems surface as *FormatError from Open;
// a bad data row surfaces as *RowError from Next and does not stop the
// reader.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"golang.org/x/text/transform"

	"github.com/petli/payson2pdf/pkg/types"
)

// Reader yields PaymentRecords from a report in source order. It is not
// restartable: once Next has returned io.EOF it keeps doing so.
type Reader struct {
	path   string
	schema types.Schema
	loc    *time.Location
	csv    *csv.Reader
	closer io.Closer

	header []string
	index  map[types.Field]int

	row  int
	done bool
}

// Open opens the report at path, decodes it with the schema's text encoding
// and validates its header row. The returned Reader must be closed.
func Open(path string, schema types.Schema) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	r, err := newReader(f, path, schema)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads a report from an arbitrary stream. Close is a no-op for
// readers created this way.
func NewReader(src io.Reader, schema types.Schema) (*Reader, error) {
	return newReader(src, "", schema)
}

func newReader(src io.Reader, path string, schema types.Schema) (*Reader, error) {
	if err := ValidateSchema(schema); err != nil {
		return nil, err
	}
	enc, err := textEncoding(schema.Encoding)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(schema.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", schema.TimeZone, err)
	}

	cr := csv.NewReader(transform.NewReader(src, enc.NewDecoder()))
	cr.Comma = []rune(schema.Delimiter)[0]
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	r := &Reader{
		path:   path,
		schema: schema,
		loc:    loc,
		csv:    cr,
	}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// readHeader matches header cells to schema columns by trimmed,
// case-insensitive name. Column order is free.
func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err == io.EOF {
		return &FormatError{Path: r.path, Problems: []string{"report is empty (no header row)"}}
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return &FormatError{Path: r.path, Problems: []string{fmt.Sprintf("unreadable header: %v", pe)}}
		}
		return fmt.Errorf("reading report header: %w", err)
	}

	positions := make(map[string][]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		key := strings.ToLower(h)
		positions[key] = append(positions[key], i)
	}

	var problems []string
	index := make(map[types.Field]int)
	lookup := func(field types.Field, required bool) {
		name := strings.TrimSpace(r.schema.Columns[field])
		if name == "" {
			index[field] = -1
			return
		}
		pos := positions[strings.ToLower(name)]
		switch {
		case len(pos) == 0 && required:
			problems = append(problems, fmt.Sprintf("missing column %q", name))
		case len(pos) == 0:
			index[field] = -1
		case len(pos) > 1:
			problems = append(problems, fmt.Sprintf("column %q appears %d times", name, len(pos)))
		default:
			index[field] = pos[0]
		}
	}
	for _, f := range types.RequiredFields {
		lookup(f, true)
	}
	for _, f := range types.OptionalFields {
		lookup(f, false)
	}
	if len(problems) > 0 {
		return &FormatError{Path: r.path, Problems: problems}
	}

	r.header = header
	r.index = index
	return nil
}

// Header returns the header row as read, with cells trimmed.
func (r *Reader) Header() []string {
	return r.header
}

// Next decodes the next data row. It returns io.EOF after the last row and
// a *RowError for a row that cannot be decoded; in the latter case the
// caller may call Next again to continue with the following row. Any other
// error means the underlying stream failed and reading cannot continue.
func (r *Reader) Next() (*types.PaymentRecord, error) {
	if r.done {
		return nil, io.EOF
	}

	fields, err := r.csv.Read()
	if err == io.EOF {
		r.done = true
		return nil, io.EOF
	}
	r.row++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &RowError{Row: r.row, Line: pe.StartLine, Err: pe.Err}
		}
		r.done = true
		return nil, fmt.Errorf("reading report row %d: %w", r.row, err)
	}

	line, _ := r.csv.FieldPos(0)
	if len(fields) != len(r.header) {
		return nil, &RowError{
			Row:  r.row,
			Line: line,
			Err:  fmt.Errorf("row has %d fields, header has %d", len(fields), len(r.header)),
		}
	}
	return r.decode(fields, line)
}

// Records returns the remaining rows as an iterator. Each step yields either
// a record or the error Next returned for that row; iteration stops after
// io.EOF or a non-row error.
func (r *Reader) Records() iter.Seq2[*types.PaymentRecord, error] {
	return func(yield func(*types.PaymentRecord, error) bool) {
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			var rowErr *RowError
			if err != nil && !errors.As(err, &rowErr) {
				yield(nil, err)
				return
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	r.done = true
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
