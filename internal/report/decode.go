// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/petli/payson2pdf/pkg/types"
)

var (
	amountPattern   = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// decode turns one row of cells into a record. The first invalid cell wins.
func (r *Reader) decode(fields []string, line int) (*types.PaymentRecord, error) {
	cell := func(f types.Field) string {
		i, ok := r.index[f]
		if !ok || i < 0 {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	fail := func(f types.Field, err error) error {
		return &RowError{
			Row:   r.row,
			Line:  line,
			Field: r.header[r.index[f]],
			Value: cell(f),
			Err:   err,
		}
	}

	rec := &types.PaymentRecord{
		Row:              r.row,
		Line:             line,
		TransactionID:    cell(types.FieldTransactionID),
		Type:             cell(types.FieldType),
		Status:           cell(types.FieldStatus),
		CounterpartyName: cell(types.FieldCounterpartyName),
		Description:      cell(types.FieldDescription),
		OrderReference:   cell(types.FieldOrderReference),
	}
	if rec.TransactionID == "" {
		return nil, fail(types.FieldTransactionID, ErrEmptyValue)
	}

	date, err := parseDate(cell(types.FieldDate), r.schema.DateLayouts, r.loc)
	if err != nil {
		return nil, fail(types.FieldDate, err)
	}
	rec.Date = date

	if rec.Gross, err = parseAmount(cell(types.FieldGross), r.schema, false); err != nil {
		return nil, fail(types.FieldGross, err)
	}
	if rec.Fee, err = parseAmount(cell(types.FieldFee), r.schema, true); err != nil {
		return nil, fail(types.FieldFee, err)
	}
	if rec.Net, err = parseAmount(cell(types.FieldNet), r.schema, false); err != nil {
		return nil, fail(types.FieldNet, err)
	}
	if r.schema.CheckNetAmount && !rec.Gross.Sub(rec.Fee.Abs()).Equal(rec.Net) {
		return nil, fail(types.FieldNet, fmt.Errorf("%w (gross %s, fee %s)", ErrNetMismatch, rec.Gross, rec.Fee))
	}

	currency := strings.ToUpper(cell(types.FieldCurrency))
	if !currencyPattern.MatchString(currency) {
		return nil, fail(types.FieldCurrency, ErrInvalidCurrency)
	}
	rec.Currency = currency

	if email := cell(types.FieldCounterpartyEmail); email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return nil, fail(types.FieldCounterpartyEmail, ErrInvalidEmail)
		}
		rec.CounterpartyEmail = addr.Address
	}

	return rec, nil
}

// parseDate tries each layout in order, interpreting the value in loc.
func parseDate(value string, layouts []string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// parseAmount reads a decimal amount written with the schema's separators.
// Grouping spaces (including non-breaking ones), a leading plus sign and a
// Unicode minus sign are accepted. Blank cells are zero when allowEmpty is
// set and an error otherwise.
func parseAmount(value string, schema types.Schema, allowEmpty bool) (decimal.Decimal, error) {
	if value == "" {
		if allowEmpty {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, ErrEmptyValue
	}

	s := strings.NewReplacer("\u00a0", "", "\u202f", "", "\u2212", "-").Replace(value)
	if schema.ThousandsSeparator != "" {
		s = strings.ReplaceAll(s, schema.ThousandsSeparator, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "+")
	if schema.DecimalSeparator != "." {
		if strings.Contains(s, ".") {
			return decimal.Decimal{}, ErrInvalidAmount
		}
		s = strings.Replace(s, schema.DecimalSeparator, ".", 1)
	}
	if !amountPattern.MatchString(s) {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return d, nil
}
