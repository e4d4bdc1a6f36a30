// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petli/payson2pdf/internal/convert"
	"github.com/petli/payson2pdf/internal/ledger"
	"github.com/petli/payson2pdf/internal/report"
	"github.com/petli/payson2pdf/pkg/types"
)

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := conversionConfig(args[0], args[1])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := convert.Options{Config: cfg, Logger: slog.Default()}
	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer l.Close()
		opts.Ledger = l
	}

	summary, err := convert.Run(ctx, opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if cfg.SummaryPath != "" {
		if err := convert.WriteSummary(cfg.SummaryPath, summary); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return &exitError{
			code: exitFailed,
			err:  fmt.Errorf("%d of %d row(s) failed", summary.Failed, summary.Processed),
		}
	}
	return nil
}

// conversionConfig assembles the run configuration from flags and the
// config file.
func conversionConfig(input, outDir string) (types.ConversionConfig, error) {
	schema, err := effectiveSchema()
	if err != nil {
		return types.ConversionConfig{}, err
	}

	lang := types.Language(viper.GetString("lang"))
	switch lang {
	case types.LanguageEnglish, types.LanguageSwedish:
	case "":
		lang = types.LanguageEnglish
	default:
		return types.ConversionConfig{}, fmt.Errorf("unsupported language %q: use en or sv", lang)
	}

	return types.ConversionConfig{
		InputPath:     input,
		OutputDir:     outDir,
		Schema:        schema,
		Language:      lang,
		SkipIdentical: viper.GetBool("skip_identical"),
		SummaryPath:   viper.GetString("summary"),
		LedgerPath:    viper.GetString("ledger"),
	}, nil
}

// effectiveSchema returns the schema named by --schema, or the default.
func effectiveSchema() (types.Schema, error) {
	path := viper.GetString("schema")
	if path == "" {
		return types.DefaultSchema(), nil
	}
	return report.LoadSchema(path)
}

func init() {
	f := rootCmd.Flags()
	f.String("lang", "en", "receipt language: en or sv")
	f.Bool("skip-identical", false, "accept existing output files whose content is identical")
	f.String("summary", "", "also write the run summary to this file (.yaml or .json)")

	viper.BindPFlag("lang", f.Lookup("lang"))
	viper.BindPFlag("skip_identical", f.Lookup("skip-identical"))
	viper.BindPFlag("summary", f.Lookup("summary"))
}
