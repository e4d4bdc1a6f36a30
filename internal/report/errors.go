// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyValue reports a required cell left blank.
	ErrEmptyValue = errors.New("value is empty")

	// ErrInvalidAmount reports a cell that is not a decimal amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDate reports a cell that matches none of the date layouts.
	ErrInvalidDate = errors.New("unrecognized date")

	// ErrInvalidCurrency reports a currency that is not a three-letter code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidEmail reports an unparseable counterparty address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrNetMismatch reports net != gross - |fee| when the schema checks it.
	ErrNetMismatch = errors.New("net amount does not equal gross minus fee")
)

// FormatError reports a report whose structure cannot be read: an empty file,
// an unreadable header, or missing or duplicated columns. It is fatal for the
// whole run.
type FormatError struct {
	Path     string
	Problems []string
}

func (e *FormatError) Error() string {
	name := e.Path
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("malformed report %s: %s", name, strings.Join(e.Problems, "; "))
}

// RowError reports one data row that could not be decoded. The reader stays
// usable after returning it.
type RowError struct {
	// Row is the 1-based data row number.
	Row int
	// Line is the physical line in the source file, 0 when unknown.
	Line int
	// Field is the offending column's header text; empty for row-level problems.
	Field string
	// Value is the offending cell as read.
	Value string
	Err   error
}

func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", e.Row)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": column %q value %q", e.Field, e.Value)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *RowError) Unwrap() error {
	return e.Err
}
