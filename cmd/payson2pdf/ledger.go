// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petli/payson2pdf/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the export ledger (list, runs, export)",
	Long: `Ledger reads the SQLite export ledger written by conversions run with
--ledger. The ledger path comes from --ledger or the config file.`,
}

// --- list subcommand ---

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported files",
	Args:  cobra.NoArgs,
	RunE:  runLedgerList,
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	exports, err := l.Exports(cmd.Context(), ledgerQueryFromFlags(cmd))
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exports recorded.")
		return nil
	}
	return writeExportTable(cmd.OutOrStdout(), exports)
}

func writeExportTable(w io.Writer, exports []ledger.Export) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSACTION\tEXPORTED\tSIZE\tSHA256\tPATH")
	for _, e := range exports {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.12s\t%s\n",
			e.TransactionID, e.ExportedAt.Local().Format(time.DateTime), e.Size, e.SHA256, e.Path)
	}
	return tw.Flush()
}

// --- runs subcommand ---

var ledgerRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded conversion runs",
	Args:  cobra.NoArgs,
	RunE:  runLedgerRuns,
}

func runLedgerRuns(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	runs, err := l.Runs(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}
	return writeRunTable(cmd.OutOrStdout(), runs)
}

func writeRunTable(w io.Writer, runs []ledger.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tPROCESSED\tCONVERTED\tSKIPPED\tFAILED\tINPUT")
	for _, r := range runs {
		started := r.StartedAt.Local().Format(time.DateTime)
		if r.FinishedAt.IsZero() {
			started += " (unfinished)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, started, r.Processed, r.Succeeded, r.Skipped, r.Failed, r.InputPath)
	}
	return tw.Flush()
}

// --- export subcommand ---

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write recorded exports as YAML or JSON to stdout",
	Args:  cobra.NoArgs,
	RunE:  runLedgerExport,
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	opts := ledgerQueryFromFlags(cmd)
	switch format {
	case "yaml", "":
		return l.ExportYAML(cmd.Context(), cmd.OutOrStdout(), opts)
	case "json":
		return l.ExportJSON(cmd.Context(), cmd.OutOrStdout(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

func openLedger() (*ledger.Ledger, error) {
	path := viper.GetString("ledger")
	if path == "" {
		return nil, errors.New("no ledger configured: pass --ledger or set ledger in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	return ledger.Open(path)
}

func ledgerQueryFromFlags(cmd *cobra.Command) ledger.QueryOptions {
	txID, _ := cmd.Flags().GetString("transaction")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")
	return ledger.QueryOptions{
		TransactionID: txID,
		RunID:         runID,
		Limit:         limit,
	}
}

func init() {
	for _, c := range []*cobra.Command{ledgerListCmd, ledgerExportCmd} {
		c.Flags().String("transaction", "", "only exports of this transaction id")
		c.Flags().String("run", "", "only exports of this run id")
		c.Flags().Int("limit", 0, "maximum exports to show (0 = all)")
	}
	ledgerExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerRunsCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)

	rootCmd.AddCommand(ledgerCmd)
}
