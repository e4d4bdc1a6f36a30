// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LayoutLine is one labeled line on a rendered receipt.
type LayoutLine struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Layout is the printable description of one payment, produced by the
// formatter and consumed by the PDF emitter. It fits on a single page.
type Layout struct {
	Title    string       `json:"title" yaml:"title"`
	Subtitle string       `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Lines    []LayoutLine `json:"lines" yaml:"lines"`

	// NotesLabel heads the Notes block; both are omitted when Notes is empty.
	NotesLabel string `json:"notes_label,omitempty" yaml:"notes_label,omitempty"`
	Notes      string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Footer string `json:"footer,omitempty" yaml:"footer,omitempty"`

	// TransactionID names the output file.
	TransactionID string `json:"transaction_id" yaml:"transaction_id"`

	// Date is stamped into the PDF metadata so output is reproducible.
	Date time.Time `json:"date" yaml:"date"`
}
