// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/petli/payson2pdf/internal/ledger"
	"github.com/petli/payson2pdf/internal/logging"
	"github.com/petli/payson2pdf/internal/report"
	"github.com/petli/payson2pdf/pkg/types"
)

const header = "Transaction ID;Date;Type;Gross;Fee;Net;Currency;Name;Email;Description\n"

func row(id string, amount string) string {
	return fmt.Sprintf("%s;2024-03-05 10:00;Payment;%s;-1,00;%s;SEK;Anna Andersson;anna@example.com;Order %s\n",
		id, amount, amount, id)
}

// writeReport writes a report to a temp file and returns its path.
func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func config(input, outDir string) types.ConversionConfig {
	schema := types.DefaultSchema()
	schema.Encoding = "utf-8"
	return types.ConversionConfig{
		InputPath: input,
		OutputDir: outDir,
		Schema:    schema,
		Language:  types.LanguageEnglish,
	}
}

func run(t *testing.T, cfg types.ConversionConfig) (Summary, string, error) {
	t.Helper()
	var out bytes.Buffer
	var logs bytes.Buffer
	s, err := Run(context.Background(), Options{Config: cfg, Logger: logging.New(&logs, 0)}, &out)
	return s, out.String(), err
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRun_OnePDFPerRow(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00")+row("T/2", "20,00")+row("T-3", "30,00"))
	outDir := filepath.Join(t.TempDir(), "pdf")

	s, out, err := run(t, config(input, outDir))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Processed)
	assert.Equal(t, 3, s.Succeeded)
	assert.False(t, s.HasFailures())
	assert.Equal(t, []string{"T-1.pdf", "T-3.pdf", "T_2.pdf"}, listDir(t, outDir))
	assert.Equal(t, filepath.Join(outDir, "T-1.pdf"), s.Files[0])
	assert.Contains(t, out, "converted: T/2 -> "+filepath.Join(outDir, "T_2.pdf"))
	assert.Contains(t, out, "Batch summary: 3 processed, 3 converted, 0 skipped, 0 failed")

	for _, name := range listDir(t, outDir) {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), name)
	}
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00")+row("T-2", "20,00"))
	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")

	_, _, err := run(t, config(input, first))
	require.NoError(t, err)
	_, _, err = run(t, config(input, second))
	require.NoError(t, err)

	names := listDir(t, first)
	require.Equal(t, names, listDir(t, second))
	for _, name := range names {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s differs between runs", name)
	}
}

func TestRun_DuplicateTransactionID(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00")+row("T-2", "20,00")+row("T-1", "99,00"))
	outDir := t.TempDir()

	s, out, err := run(t, config(input, outDir))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, FailureIO, s.Failures[0].Kind)
	assert.Equal(t, 3, s.Failures[0].Row)
	assert.Equal(t, "T-1", s.Failures[0].TransactionID)
	assert.Contains(t, s.Failures[0].Message, "duplicate transaction id")
	assert.Contains(t, out, "failed:    row 3 T-1")
	assert.Equal(t, []string{"T-1.pdf", "T-2.pdf"}, listDir(t, outDir))
}

func TestRun_MissingColumnIsFatal(t *testing.T) {
	content := "Transaction ID;Date;Gross;Fee;Currency;Name;Email;Description\n" +
		"T-1;2024-03-05;10,00;0;SEK;A;;d\n"
	input := writeReport(t, content)
	outDir := filepath.Join(t.TempDir(), "pdf")

	s, out, err := run(t, config(input, outDir))

	var fe *report.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Problems, `missing column "Net"`)
	assert.Zero(t, s.Processed)
	assert.Empty(t, out)
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "no output may be produced for a malformed report")
}

func TestRun_MalformedRowDoesNotStopRun(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	for i := 1; i <= 10; i++ {
		amount := fmt.Sprintf("%d,00", i*10)
		if i == 5 {
			amount = "5O,00"
		}
		b.WriteString(row(fmt.Sprintf("T-%02d", i), amount))
	}
	input := writeReport(t, b.String())
	outDir := t.TempDir()

	s, out, err := run(t, config(input, outDir))
	require.NoError(t, err)

	assert.Equal(t, 10, s.Processed)
	assert.Equal(t, 9, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.True(t, s.HasFailures())
	require.Len(t, s.Failures, 1)
	assert.Equal(t, FailureRow, s.Failures[0].Kind)
	assert.Equal(t, 5, s.Failures[0].Row)
	assert.Equal(t, 6, s.Failures[0].Line)
	assert.Contains(t, s.Failures[0].Message, `column "Gross"`)
	assert.Len(t, listDir(t, outDir), 9)
	assert.NotContains(t, listDir(t, outDir), "T-05.pdf")
	assert.Contains(t, out, "Batch summary: 10 processed, 9 converted, 0 skipped, 1 failed")
}

func TestRun_HeaderOnly(t *testing.T) {
	input := writeReport(t, header)
	outDir := filepath.Join(t.TempDir(), "pdf")

	s, out, err := run(t, config(input, outDir))
	require.NoError(t, err)

	assert.Zero(t, s.Processed)
	assert.False(t, s.HasFailures())
	assert.Empty(t, s.Files)
	assert.Contains(t, out, "Batch summary: 0 processed")
}

func TestRun_ExistingFiles(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00")+row("T-2", "20,00"))
	outDir := t.TempDir()

	_, _, err := run(t, config(input, outDir))
	require.NoError(t, err)

	s, _, err := run(t, config(input, outDir))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Failed, "existing exports must never be overwritten")
	for _, f := range s.Failures {
		assert.Equal(t, FailureIO, f.Kind)
	}

	cfg := config(input, outDir)
	cfg.SkipIdentical = true
	s, out, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Skipped)
	assert.False(t, s.HasFailures())
	assert.Contains(t, out, "skipped:   T-1")
}

func TestRun_MissingInput(t *testing.T) {
	_, _, err := run(t, config(filepath.Join(t.TempDir(), "nope.csv"), t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Cancelled(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00"))
	outDir := filepath.Join(t.TempDir(), "pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &fakeRecorder{}
	var out bytes.Buffer
	s, err := Run(ctx, Options{Config: config(input, outDir), Ledger: rec}, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Processed)
	assert.True(t, rec.finished, "ledger run must be closed on cancellation")
}

func TestRun_Ledger(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00")+row("T-2", "x")+row("T-3", "30,00"))
	outDir := t.TempDir()

	rec := &fakeRecorder{previous: map[string][]ledger.Export{
		"T-3": {{RunID: "older", TransactionID: "T-3", Path: "/elsewhere/T-3.pdf"}},
	}}
	var out, logs bytes.Buffer
	cfg := config(input, outDir)
	s, err := Run(context.Background(), Options{Config: cfg, Ledger: rec, Logger: logging.New(&logs, 0)}, &out)
	require.NoError(t, err)

	assert.Equal(t, input, rec.input)
	require.Len(t, rec.exports, 2)
	assert.Equal(t, "T-1", rec.exports[0].TransactionID)
	assert.Equal(t, "run-1", rec.exports[0].RunID)
	assert.Len(t, rec.exports[0].SHA256, 64)
	assert.Equal(t, ledger.Counts{Processed: 3, Succeeded: 2, Failed: 1}, rec.counts)
	assert.Equal(t, 2, s.Succeeded)
	assert.Contains(t, logs.String(), "transaction exported before")
}

func TestRun_RealLedger(t *testing.T) {
	input := writeReport(t, header+row("T-1", "10,00"))
	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	for _, dir := range []string{t.TempDir(), t.TempDir()} {
		var out bytes.Buffer
		_, err := Run(context.Background(), Options{Config: config(input, dir), Ledger: l}, &out)
		require.NoError(t, err)
	}

	exports, err := l.Exports(context.Background(), ledger.QueryOptions{TransactionID: "T-1"})
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, exports[0].SHA256, exports[1].SHA256)
	assert.NotEqual(t, exports[0].RunID, exports[1].RunID)

	runs, err := l.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 1, runs[1].Succeeded)
}

func TestWriteSummary(t *testing.T) {
	s := Summary{
		Input:     "report.csv",
		OutputDir: "out",
		Processed: 2,
		Succeeded: 1,
		Failed:    1,
		Files:     []string{"out/T-1.pdf"},
		Failures:  []Failure{{Row: 2, Line: 3, Kind: FailureRow, Message: "bad amount"}},
	}
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "summary.json")
	require.NoError(t, WriteSummary(jsonPath, s))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Summary
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, s, fromJSON)

	yamlPath := filepath.Join(dir, "nested", "summary.yaml")
	require.NoError(t, WriteSummary(yamlPath, s))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Summary
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, s, fromYAML)

	err = WriteSummary(filepath.Join(dir, "summary.txt"), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported summary format")
}

// fakeRecorder implements Recorder in memory.
type fakeRecorder struct {
	input    string
	exports  []ledger.Export
	previous map[string][]ledger.Export
	counts   ledger.Counts
	finished bool
}

func (f *fakeRecorder) StartRun(_ context.Context, inputPath, _ string) (string, error) {
	f.input = inputPath
	return "run-1", nil
}

func (f *fakeRecorder) Record(_ context.Context, e ledger.Export) error {
	f.exports = append(f.exports, e)
	return nil
}

func (f *fakeRecorder) Previous(_ context.Context, transactionID, _ string) ([]ledger.Export, error) {
	return f.previous[transactionID], nil
}

func (f *fakeRecorder) FinishRun(_ context.Context, _ string, c ledger.Counts) error {
	f.counts = c
	f.finished = true
	return nil
}

var _ Recorder = (*ledger.Ledger)(nil)
