// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/petli/payson2pdf/pkg/types"
)

// LoadSchema reads a YAML schema file. Keys absent from the file keep the
// values of types.DefaultSchema, so a file may override only the column
// names or only the separators.
func LoadSchema(path string) (types.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Schema{}, fmt.Errorf("reading schema %s: %w", path, err)
	}
	schema := types.DefaultSchema()
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return types.Schema{}, fmt.Errorf("parsing schema %s: %w", path, err)
	}
	if err := ValidateSchema(schema); err != nil {
		return types.Schema{}, fmt.Errorf("schema %s: %w", path, err)
	}
	return schema, nil
}

// MarshalSchema renders a schema as YAML, suitable as a starting point for
// a custom schema file.
func MarshalSchema(schema types.Schema) ([]byte, error) {
	return yaml.Marshal(schema)
}

// ValidateSchema checks that a schema is usable before any report is opened.
func ValidateSchema(s types.Schema) error {
	var problems []string

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		problems = append(problems, fmt.Sprintf("delimiter %q must be a single character", s.Delimiter))
	} else if s.Delimiter == `"` || s.Delimiter == "\n" || s.Delimiter == "\r" {
		problems = append(problems, fmt.Sprintf("delimiter %q is not allowed", s.Delimiter))
	}

	if s.DecimalSeparator != "." && s.DecimalSeparator != "," {
		problems = append(problems, fmt.Sprintf("decimal separator %q must be \".\" or \",\"", s.DecimalSeparator))
	}
	if s.ThousandsSeparator != "" && s.ThousandsSeparator == s.DecimalSeparator {
		problems = append(problems, "thousands separator must differ from decimal separator")
	}

	if _, err := textEncoding(s.Encoding); err != nil {
		problems = append(problems, err.Error())
	}
	if len(s.DateLayouts) == 0 {
		problems = append(problems, "at least one date layout is required")
	}
	if _, err := time.LoadLocation(s.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("time zone %q: %v", s.TimeZone, err))
	}

	for field := range s.Columns {
		if !slices.Contains(types.RequiredFields, field) && !slices.Contains(types.OptionalFields, field) {
			problems = append(problems, fmt.Sprintf("unknown column field %q", field))
		}
	}
	for _, field := range types.RequiredFields {
		if strings.TrimSpace(s.Columns[field]) == "" {
			problems = append(problems, fmt.Sprintf("no header configured for %q", field))
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}
	return nil
}

// textEncoding resolves an encoding name. UTF-8 input has any byte order
// mark stripped.
func textEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
