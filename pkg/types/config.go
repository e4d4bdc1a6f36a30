// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Language selects the label set used on rendered receipts.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSwedish Language = "sv"
)

// ConversionConfig holds settings for one report-to-PDF run.
type ConversionConfig struct {
	// InputPath is the CSV report to read.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputDir receives one PDF per payment. Created on first write.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Schema describes the report's columns and conventions.
	Schema Schema `json:"schema" yaml:"schema"`

	// Language selects receipt labels (default en).
	Language Language `json:"language" yaml:"language"`

	// SkipIdentical treats an existing output file with identical content
	// as skipped rather than failed.
	SkipIdentical bool `json:"skip_identical" yaml:"skip_identical"`

	// SummaryPath, when set, receives the run summary as YAML or JSON.
	SummaryPath string `json:"summary_path,omitempty" yaml:"summary_path,omitempty"`

	// LedgerPath, when set, names the SQLite export ledger.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}
