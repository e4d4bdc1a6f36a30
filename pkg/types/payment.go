// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the payson2pdf pipeline:
// the parsed PaymentRecord, the Layout handed from the formatter to the PDF
// emitter, the report Schema, and command configuration.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one data row of a payment report. Records are built by
// the report reader and never mutated afterwards.
type PaymentRecord struct {
	// Row is the 1-based data row number (the header is not counted).
	Row int `json:"row" yaml:"row"`

	// Line is the physical line in the source file where the row starts.
	Line int `json:"line" yaml:"line"`

	// TransactionID is the provider's transaction identifier. Never empty.
	TransactionID string `json:"transaction_id" yaml:"transaction_id"`

	// Date is when the payment was made, in the schema's time zone.
	Date time.Time `json:"date" yaml:"date"`

	// Type is the transaction kind as exported (e.g. "Payment", "Refund").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Status is the transaction status as exported.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	Gross decimal.Decimal `json:"gross" yaml:"gross"`
	Fee   decimal.Decimal `json:"fee" yaml:"fee"`
	Net   decimal.Decimal `json:"net" yaml:"net"`

	// Currency is an upper-case ISO 4217 code (e.g. "SEK").
	Currency string `json:"currency" yaml:"currency"`

	CounterpartyName  string `json:"counterparty_name,omitempty" yaml:"counterparty_name,omitempty"`
	CounterpartyEmail string `json:"counterparty_email,omitempty" yaml:"counterparty_email,omitempty"`

	// Description is the free-text message attached to the payment.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// OrderReference is the merchant's own reference, when exported.
	OrderReference string `json:"order_reference,omitempty" yaml:"order_reference,omitempty"`
}
