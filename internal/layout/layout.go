// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout maps PaymentRecords to printable receipt layouts.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/petli/payson2pdf/pkg/types"
)

const (
	// maxNotesRunes keeps the description within a single A4 page.
	maxNotesRunes = 1000

	dateLayout = "2006-01-02 15:04"
)

// labels is the text of one receipt language.
type labels struct {
	title          string
	subtitle       string
	transactionID  string
	date           string
	kind           string
	status         string
	orderReference string
	counterparty   string
	email          string
	gross          string
	fee            string
	net            string
	notes          string
	footer         string

	decimalSep   string
	thousandsSep string
}

var languages = map[types.Language]labels{
	types.LanguageEnglish: {
		title:          "Payment receipt",
		subtitle:       "Transaction ",
		transactionID:  "Transaction ID",
		date:           "Date",
		kind:           "Type",
		status:         "Status",
		orderReference: "Order reference",
		counterparty:   "Counterparty",
		email:          "Email",
		gross:          "Gross amount",
		fee:            "Fee",
		net:            "Net amount",
		notes:          "Description",
		footer:         "Generated from Payson payment report",
		decimalSep:     ".",
		thousandsSep:   ",",
	},
	types.LanguageSwedish: {
		title:          "Betalningskvitto",
		subtitle:       "Transaktion ",
		transactionID:  "Transaktions-ID",
		date:           "Datum",
		kind:           "Typ",
		status:         "Status",
		orderReference: "Orderreferens",
		counterparty:   "Motpart",
		email:          "E-post",
		gross:          "Bruttobelopp",
		fee:            "Avgift",
		net:            "Nettobelopp",
		notes:          "Beskrivning",
		footer:         "Skapad från Payson-betalningsrapport",
		decimalSep:     ",",
		thousandsSep:   " ",
	},
}

// Formatter turns records into layouts in one language. It holds no
// per-record state and may be reused for a whole report.
type Formatter struct {
	lang types.Language
	l    labels
}

// New returns a Formatter for lang, falling back to English for unknown
// languages.
func New(lang types.Language) *Formatter {
	l, ok := languages[lang]
	if !ok {
		lang = types.LanguageEnglish
		l = languages[lang]
	}
	return &Formatter{lang: lang, l: l}
}

// Language reports the language actually in use.
func (f *Formatter) Language() types.Language {
	return f.lang
}

// Format builds the receipt layout for rec. Optional fields that are empty
// are left out; amounts always appear.
func (f *Formatter) Format(rec types.PaymentRecord) types.Layout {
	l := f.l
	lines := []types.LayoutLine{
		{Label: l.transactionID, Value: rec.TransactionID},
		{Label: l.date, Value: rec.Date.Format(dateLayout)},
	}
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, types.LayoutLine{Label: label, Value: value})
		}
	}
	add(l.kind, rec.Type)
	add(l.status, rec.Status)
	add(l.orderReference, rec.OrderReference)
	add(l.counterparty, rec.CounterpartyName)
	add(l.email, rec.CounterpartyEmail)
	lines = append(lines,
		types.LayoutLine{Label: l.gross, Value: f.Amount(rec.Gross, rec.Currency)},
		types.LayoutLine{Label: l.fee, Value: f.Amount(rec.Fee, rec.Currency)},
		types.LayoutLine{Label: l.net, Value: f.Amount(rec.Net, rec.Currency)},
	)

	out := types.Layout{
		Title:         l.title,
		Subtitle:      l.subtitle + rec.TransactionID,
		Lines:         lines,
		Footer:        l.footer,
		TransactionID: rec.TransactionID,
		Date:          rec.Date,
	}
	if notes := truncate(strings.TrimSpace(rec.Description), maxNotesRunes); notes != "" {
		out.NotesLabel = l.notes
		out.Notes = notes
	}
	return out
}

// Amount renders d with two decimals, digit grouping and the currency code,
// e.g. "1,234.50 SEK" in English and "1 234,50 SEK" in Swedish.
func (f *Formatter) Amount(d decimal.Decimal, currency string) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.l.thousandsSep)
		}
		b.WriteRune(c)
	}
	b.WriteString(f.l.decimalSep)
	b.WriteString(frac)
	if currency != "" {
		b.WriteString(" ")
		b.WriteString(currency)
	}
	return b.String()
}

// truncate shortens s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
