// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the payson2pdf CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petli/payson2pdf/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit statuses.
const (
	exitOK     = 0
	exitFailed = 1 // some rows produced no PDF
	exitFatal  = 2 // nothing was converted: bad input, bad configuration
)

// exitError carries an exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFatal
}

// configErr is set by initConfig and reported once logging is up.
var configErr error

// rootCmd converts a report; subcommands inspect schemas and the ledger.
var rootCmd = &cobra.Command{
	Use:   "payson2pdf <input.csv> <output_dir>",
	Short: "Convert a Payson payment report into one PDF receipt per payment",
	Long: `payson2pdf reads a Payson payment report (CSV) and writes one single-page
PDF per payment row into the output directory, named after the transaction id.

Malformed rows and files that cannot be written are reported and skipped; the
rest of the report is still converted. A report with missing or duplicated
columns is rejected before anything is written. Existing files are never
overwritten.

Exit status is 0 when every row was converted, 1 when some rows failed and
2 on a fatal error.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logging.Setup(level)
		if configErr != nil {
			return configErr
		}
		if f := viper.ConfigFileUsed(); f != "" {
			slog.Debug("using config file", "path", f)
		}
		return nil
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./payson2pdf.yaml or ~/.config/payson2pdf/config.yaml)")
	pf.String("log-level", "warn", "diagnostic log level: debug, info, warn or error")
	pf.String("schema", "", "report schema file (YAML); see the schema command")
	pf.String("ledger", "", "SQLite export ledger to record runs in (off by default)")

	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("schema", pf.Lookup("schema"))
	viper.BindPFlag("ledger", pf.Lookup("ledger"))
}

// initConfig reads the optional config file. Environment variables are not
// consulted.
func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("payson2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "payson2pdf"))
		}
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		configErr = fmt.Errorf("reading config: %w", err)
	}
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}
