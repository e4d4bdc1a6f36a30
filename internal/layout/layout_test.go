// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petli/payson2pdf/pkg/types"
)

func sampleRecord() types.PaymentRecord {
	return types.PaymentRecord{
		Row:               1,
		Line:              2,
		TransactionID:     "T-1001",
		Date:              time.Date(2024, 3, 5, 14, 22, 10, 0, time.UTC),
		Type:              "Payment",
		Gross:             decimal.RequireFromString("1250"),
		Fee:               decimal.RequireFromString("-31.25"),
		Net:               decimal.RequireFromString("1218.75"),
		Currency:          "SEK",
		CounterpartyName:  "Anna Andersson",
		CounterpartyEmail: "anna@example.com",
		Description:       "Membership fee 2024",
	}
}

func TestFormat_English(t *testing.T) {
	got := New(types.LanguageEnglish).Format(sampleRecord())

	assert.Equal(t, "Payment receipt", got.Title)
	assert.Equal(t, "Transaction T-1001", got.Subtitle)
	assert.Equal(t, "T-1001", got.TransactionID)
	assert.Equal(t, []types.LayoutLine{
		{Label: "Transaction ID", Value: "T-1001"},
		{Label: "Date", Value: "2024-03-05 14:22"},
		{Label: "Type", Value: "Payment"},
		{Label: "Counterparty", Value: "Anna Andersson"},
		{Label: "Email", Value: "anna@example.com"},
		{Label: "Gross amount", Value: "1,250.00 SEK"},
		{Label: "Fee", Value: "-31.25 SEK"},
		{Label: "Net amount", Value: "1,218.75 SEK"},
	}, got.Lines)
	assert.Equal(t, "Description", got.NotesLabel)
	assert.Equal(t, "Membership fee 2024", got.Notes)
	assert.NotEmpty(t, got.Footer)
}

func TestFormat_Swedish(t *testing.T) {
	rec := sampleRecord()
	rec.OrderReference = "ORD-7"
	rec.Status = "Completed"

	got := New(types.LanguageSwedish).Format(rec)

	assert.Equal(t, "Betalningskvitto", got.Title)
	labels := make([]string, len(got.Lines))
	for i, l := range got.Lines {
		labels[i] = l.Label
	}
	assert.Equal(t, []string{
		"Transaktions-ID", "Datum", "Typ", "Status", "Orderreferens",
		"Motpart", "E-post", "Bruttobelopp", "Avgift", "Nettobelopp",
	}, labels)
	assert.Equal(t, "1 250,00 SEK", got.Lines[7].Value)
}

func TestFormat_OmitsEmptyOptionalFields(t *testing.T) {
	rec := sampleRecord()
	rec.Type = ""
	rec.CounterpartyName = ""
	rec.CounterpartyEmail = ""
	rec.Description = "   "

	got := New(types.LanguageEnglish).Format(rec)

	require.Len(t, got.Lines, 5)
	assert.Empty(t, got.Notes)
	assert.Empty(t, got.NotesLabel)
}

func TestFormat_IsPure(t *testing.T) {
	f := New(types.LanguageEnglish)
	rec := sampleRecord()
	assert.Equal(t, f.Format(rec), f.Format(rec))
	assert.Equal(t, sampleRecord(), rec)
}

func TestFormat_TruncatesLongDescription(t *testing.T) {
	rec := sampleRecord()
	rec.Description = strings.Repeat("å", maxNotesRunes+50)

	got := New(types.LanguageEnglish).Format(rec)

	assert.Equal(t, maxNotesRunes, len([]rune(got.Notes)))
	assert.True(t, strings.HasSuffix(got.Notes, "…"))
}

func TestNew_UnknownLanguageFallsBack(t *testing.T) {
	f := New("de")
	assert.Equal(t, types.LanguageEnglish, f.Language())
}

func TestAmount(t *testing.T) {
	en := New(types.LanguageEnglish)
	sv := New(types.LanguageSwedish)

	tests := []struct {
		name     string
		f        *Formatter
		value    string
		currency string
		want     string
	}{
		{name: "small", f: en, value: "5", currency: "SEK", want: "5.00 SEK"},
		{name: "exact thousand", f: en, value: "1000", currency: "EUR", want: "1,000.00 EUR"},
		{name: "millions", f: en, value: "1234567.891", currency: "SEK", want: "1,234,567.89 SEK"},
		{name: "negative grouped", f: en, value: "-123456.5", currency: "SEK", want: "-123,456.50 SEK"},
		{name: "swedish", f: sv, value: "1234567.8", currency: "SEK", want: "1 234 567,80 SEK"},
		{name: "no currency", f: en, value: "12", currency: "", want: "12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.Amount(decimal.RequireFromString(tt.value), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}
