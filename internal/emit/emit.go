// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit renders receipt layouts to single-page PDF files named after
// their transaction id. An Emitter never overwrites: a name already written
// in this run, or already present on disk, is reported as an *IOError.
package emit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/petli/payson2pdf/pkg/types"
)

const maxNameLen = 120

var (
	// ErrDuplicate reports a file name already written earlier in the run.
	ErrDuplicate = errors.New("output name already used in this run")

	// ErrExists reports an output file left by a previous run.
	ErrExists = errors.New("output file already exists")
)

// IOError reports a PDF that could not be written. It is recoverable: the
// emitter remains usable for other layouts.
type IOError struct {
	Path          string
	TransactionID string
	Err           error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing %s for transaction %q: %v", e.Path, e.TransactionID, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Options tunes an Emitter.
type Options struct {
	// SkipIdentical accepts an existing file whose content equals the
	// rendered PDF, reporting it as skipped instead of failing.
	SkipIdentical bool
}

// Output describes one emitted file.
type Output struct {
	Path    string
	Size    int
	SHA256  string
	Skipped bool
}

// Emitter writes PDFs into one output directory and remembers which file
// names it has used.
type Emitter struct {
	dir  string
	opts Options
	used map[string]string
}

// New returns an Emitter writing into dir. The directory is created on the
// first Emit, so nothing is touched if no layout is ever emitted.
func New(dir string, opts Options) *Emitter {
	return &Emitter{
		dir:  dir,
		opts: opts,
		used: make(map[string]string),
	}
}

// Emit renders l and writes it to <dir>/<sanitized id>.pdf.
func (e *Emitter) Emit(l types.Layout) (Output, error) {
	name := FileName(l.TransactionID)
	path := filepath.Join(e.dir, name)
	fail := func(err error) (Output, error) {
		return Output{Path: path}, &IOError{Path: path, TransactionID: l.TransactionID, Err: err}
	}

	if prev, ok := e.used[name]; ok {
		if prev == l.TransactionID {
			return fail(fmt.Errorf("%w: duplicate transaction id", ErrDuplicate))
		}
		return fail(fmt.Errorf("%w: transaction %q maps to the same name", ErrDuplicate, prev))
	}
	e.used[name] = l.TransactionID

	data, err := Render(l)
	if err != nil {
		return fail(err)
	}
	out := Output{Path: path, Size: len(data), SHA256: digest(data)}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		if e.opts.SkipIdentical && sameContent(path, data) {
			out.Skipped = true
			return out, nil
		}
		return fail(ErrExists)
	}
	if err != nil {
		return fail(err)
	}

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr != nil {
		os.Remove(path)
		return fail(writeErr)
	}
	if closeErr != nil {
		os.Remove(path)
		return fail(closeErr)
	}
	return out, nil
}

// FileName returns the output file name for a transaction id.
func FileName(transactionID string) string {
	return Sanitize(transactionID) + ".pdf"
}

// windowsReserved are device names that cannot be used as file names on
// Windows, with or without an extension.
var windowsReserved = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// Sanitize maps a transaction id to a safe file name stem: ASCII letters,
// digits, '-', '_' and '.' are kept, everything else becomes '_'. Leading
// dots are dropped and the result is capped at 120 bytes. Distinct ids may
// sanitize to the same stem; Emit detects that.
func Sanitize(id string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.TrimLeft(b.String(), ".")
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	if s == "" {
		return "_"
	}
	stem, _, _ := strings.Cut(s, ".")
	if windowsReserved[strings.ToLower(stem)] {
		s = "_" + s
	}
	return s
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sameContent(path string, data []byte) bool {
	existing, err := os.ReadFile(path)
	return err == nil && bytes.Equal(existing, data)
}
