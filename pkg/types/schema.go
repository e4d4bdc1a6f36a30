// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Field names a logical column of a payment report. The header text a field
// is read from is configured per report in Schema.Columns.
type Field string

const (
	FieldTransactionID     Field = "transaction_id"
	FieldDate              Field = "date"
	FieldType              Field = "type"
	FieldStatus            Field = "status"
	FieldGross             Field = "gross"
	FieldFee               Field = "fee"
	FieldNet               Field = "net"
	FieldCurrency          Field = "currency"
	FieldCounterpartyName  Field = "counterparty_name"
	FieldCounterpartyEmail Field = "counterparty_email"
	FieldDescription       Field = "description"
	FieldOrderReference    Field = "order_reference"
)

// RequiredFields lists the columns every report must carry, in the order
// they are reported when missing.
var RequiredFields = []Field{
	FieldTransactionID,
	FieldDate,
	FieldGross,
	FieldFee,
	FieldNet,
	FieldCurrency,
	FieldCounterpartyName,
	FieldCounterpartyEmail,
	FieldDescription,
}

// OptionalFields are read when their column is present and left empty otherwise.
var OptionalFields = []Field{
	FieldType,
	FieldStatus,
	FieldOrderReference,
}

// Schema describes the shape and conventions of a payment report export.
type Schema struct {
	// Delimiter is the CSV field separator (a single character).
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// Encoding is the report's text encoding: utf-8, iso-8859-1 or windows-1252.
	Encoding string `json:"encoding" yaml:"encoding"`

	// DecimalSeparator separates whole units from the fraction in amounts.
	DecimalSeparator string `json:"decimal_separator" yaml:"decimal_separator"`

	// ThousandsSeparator groups digits in amounts. A non-breaking space is
	// always accepted in addition.
	ThousandsSeparator string `json:"thousands_separator" yaml:"thousands_separator"`

	// DateLayouts are tried in order when parsing the date column.
	DateLayouts []string `json:"date_layouts" yaml:"date_layouts"`

	// TimeZone is the IANA zone dates are interpreted in.
	TimeZone string `json:"time_zone" yaml:"time_zone"`

	// CheckNetAmount rejects rows where net != gross - |fee|.
	CheckNetAmount bool `json:"check_net_amount" yaml:"check_net_amount"`

	// Columns maps each logical field to its header text.
	Columns map[Field]string `json:"columns" yaml:"columns"`
}

// DefaultSchema returns the schema of a Swedish-locale Payson payment export.
func DefaultSchema() Schema {
	return Schema{
		Delimiter:          ";",
		Encoding:           "iso-8859-1",
		DecimalSeparator:   ",",
		ThousandsSeparator: " ",
		DateLayouts: []string{
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
		},
		TimeZone: "Europe/Stockholm",
		Columns: map[Field]string{
			FieldTransactionID:     "Transaction ID",
			FieldDate:              "Date",
			FieldType:              "Type",
			FieldStatus:            "Status",
			FieldGross:             "Gross",
			FieldFee:               "Fee",
			FieldNet:               "Net",
			FieldCurrency:          "Currency",
			FieldCounterpartyName:  "Name",
			FieldCounterpartyEmail: "Email",
			FieldDescription:       "Description",
			FieldOrderReference:    "Order Reference",
		},
	}
}
