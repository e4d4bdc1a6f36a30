// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FailureKind tells a bad input row from an output file that could not be
// written.
type FailureKind string

const (
	FailureRow FailureKind = "row"
	FailureIO  FailureKind = "io"
)

// Failure is one row that produced no PDF.
type Failure struct {
	Row           int         `json:"row" yaml:"row"`
	Line          int         `json:"line,omitempty" yaml:"line,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty" yaml:"transaction_id,omitempty"`
	Kind          FailureKind `json:"kind" yaml:"kind"`
	Message       string      `json:"message" yaml:"message"`
}

// Summary is the outcome of a run. Processed counts every data row read,
// so Processed == Succeeded + Skipped + Failed once a run completes.
type Summary struct {
	Input     string    `json:"input" yaml:"input"`
	OutputDir string    `json:"output_dir" yaml:"output_dir"`
	Processed int       `json:"processed" yaml:"processed"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Failed    int       `json:"failed" yaml:"failed"`
	Files     []string  `json:"files,omitempty" yaml:"files,omitempty"`
	Failures  []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// HasFailures reports whether any row failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) fail(f Failure) {
	s.Failed++
	s.Failures = append(s.Failures, f)
}

// WriteSummary writes s to path as JSON (.json) or YAML (.yaml, .yml).
func WriteSummary(path string, s Summary) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		return fmt.Errorf("unsupported summary format %q: use .yaml or .json", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating summary directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
