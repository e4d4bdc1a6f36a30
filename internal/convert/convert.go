// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives a payment report through the reader, formatter and
// PDF emitter, one row at a time in source order. A bad row or an
// unwritable file is recorded in the Summary and the run continues; only a
// structurally broken report stops the run before any output.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/petli/payson2pdf/internal/emit"
	"github.com/petli/payson2pdf/internal/layout"
	"github.com/petli/payson2pdf/internal/ledger"
	"github.com/petli/payson2pdf/internal/report"
	"github.com/petli/payson2pdf/pkg/types"
)

// Recorder receives a run's exports. *ledger.Ledger implements it.
type Recorder interface {
	StartRun(ctx context.Context, inputPath, outputDir string) (string, error)
	Record(ctx context.Context, e ledger.Export) error
	Previous(ctx context.Context, transactionID, runID string) ([]ledger.Export, error)
	FinishRun(ctx context.Context, runID string, c ledger.Counts) error
}

// Options configures Run.
type Options struct {
	Config types.ConversionConfig

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Ledger, when non-nil, records the run and every written file.
	Ledger Recorder
}

// Run converts every row of the configured report into a PDF, printing a
// status line per row and a final summary to w. The returned error is
// non-nil only for failures that stop the run: an unreadable or malformed
// report (*report.FormatError), a failing input stream, a ledger that cannot
// start the run, or context cancellation. Per-row failures are reported in
// the Summary instead.
func Run(ctx context.Context, opts Options, w io.Writer) (Summary, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	summary := Summary{Input: cfg.InputPath, OutputDir: cfg.OutputDir}

	r, err := report.Open(cfg.InputPath, cfg.Schema)
	if err != nil {
		return summary, err
	}
	defer r.Close()

	c := &converter{
		formatter: layout.New(cfg.Language),
		emitter:   emit.New(cfg.OutputDir, emit.Options{SkipIdentical: cfg.SkipIdentical}),
		ledger:    opts.Ledger,
		logger:    logger,
		w:         w,
	}

	if c.ledger != nil {
		if c.runID, err = c.ledger.StartRun(ctx, cfg.InputPath, cfg.OutputDir); err != nil {
			return summary, err
		}
		defer c.finishRun(ctx, &summary)
	}

	for {
		if err := ctx.Err(); err != nil {
			c.printSummary(summary)
			return summary, err
		}

		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		var rowErr *report.RowError
		if errors.As(err, &rowErr) {
			summary.Processed++
			summary.fail(Failure{
				Row:     rowErr.Row,
				Line:    rowErr.Line,
				Kind:    FailureRow,
				Message: rowErr.Error(),
			})
			fmt.Fprintf(w, "failed:    %v\n", rowErr)
			logger.Warn("skipping malformed row", "row", rowErr.Row, "line", rowErr.Line, "column", rowErr.Field, "err", rowErr.Err)
			continue
		}
		if err != nil {
			c.printSummary(summary)
			return summary, err
		}

		summary.Processed++
		c.convertRow(ctx, rec, &summary)
	}

	c.printSummary(summary)
	return summary, nil
}

// converter holds the per-run collaborators.
type converter struct {
	formatter *layout.Formatter
	emitter   *emit.Emitter
	ledger    Recorder
	runID     string
	logger    *slog.Logger
	w         io.Writer
}

func (c *converter) convertRow(ctx context.Context, rec *types.PaymentRecord, summary *Summary) {
	l := c.formatter.Format(*rec)
	c.warnIfExportedBefore(ctx, rec.TransactionID)

	out, err := c.emitter.Emit(l)
	if err != nil {
		summary.fail(Failure{
			Row:           rec.Row,
			Line:          rec.Line,
			TransactionID: rec.TransactionID,
			Kind:          FailureIO,
			Message:       err.Error(),
		})
		fmt.Fprintf(c.w, "failed:    row %d %s (%v)\n", rec.Row, rec.TransactionID, err)
		c.logger.Warn("skipping unwritable receipt", "row", rec.Row, "transaction_id", rec.TransactionID, "err", err)
		return
	}

	if out.Skipped {
		summary.Skipped++
		fmt.Fprintf(c.w, "skipped:   %s (identical %s exists)\n", rec.TransactionID, out.Path)
		return
	}

	summary.Succeeded++
	summary.Files = append(summary.Files, out.Path)
	fmt.Fprintf(c.w, "converted: %s -> %s\n", rec.TransactionID, out.Path)
	c.logger.Debug("wrote receipt", "row", rec.Row, "transaction_id", rec.TransactionID, "path", out.Path, "bytes", out.Size)

	if c.ledger == nil {
		return
	}
	err = c.ledger.Record(ctx, ledger.Export{
		RunID:         c.runID,
		TransactionID: rec.TransactionID,
		Path:          out.Path,
		SHA256:        out.SHA256,
		Size:          out.Size,
	})
	if err != nil {
		c.logger.Warn("ledger record failed", "transaction_id", rec.TransactionID, "err", err)
	}
}

// warnIfExportedBefore logs when an earlier run already exported the
// transaction, possibly to another directory.
func (c *converter) warnIfExportedBefore(ctx context.Context, transactionID string) {
	if c.ledger == nil {
		return
	}
	prev, err := c.ledger.Previous(ctx, transactionID, c.runID)
	if err != nil {
		c.logger.Warn("ledger lookup failed", "transaction_id", transactionID, "err", err)
		return
	}
	if len(prev) > 0 {
		c.logger.Warn("transaction exported before", "transaction_id", transactionID,
			"previous_path", prev[0].Path, "previous_run", prev[0].RunID, "times", len(prev))
	}
}

func (c *converter) finishRun(ctx context.Context, summary *Summary) {
	// The run's own context may already be cancelled; the record still matters.
	err := c.ledger.FinishRun(context.WithoutCancel(ctx), c.runID, ledger.Counts{
		Processed: summary.Processed,
		Succeeded: summary.Succeeded,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
	})
	if err != nil {
		c.logger.Warn("ledger finish failed", "run", c.runID, "err", err)
	}
}

func (c *converter) printSummary(s Summary) {
	fmt.Fprintf(c.w, "\nBatch summary: %d processed, %d converted, %d skipped, %d failed\n",
		s.Processed, s.Succeeded, s.Skipped, s.Failed)
}
