// Package model defines domain types for spendtrack ledgers and summaries.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical on-disk date format.
const DateLayout = "2006-01-02"

// Field indexes a column of the ledger schema.
type Field int

// Ledger columns in declared order.
const (
	FieldDate Field = iota
	FieldSource
	FieldDescription
	FieldCategory
	FieldSpender
	FieldAmount
	fieldCount // sentinel
)

// Kind is the value type of a schema column.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindDecimal:
		return "decimal"
	default:
		return "text"
	}
}

// Column is one (name, kind) pair of the schema.
type Column struct {
	Name     string
	Kind     Kind
	Optional bool // may be blank
}

// Schema is the ordered column list of a ledger. Edits and imports consult it
// by index.
var Schema = []Column{
	{Name: "Date", Kind: KindDate},
	{Name: "Source", Kind: KindText},
	{Name: "Description", Kind: KindText, Optional: true},
	{Name: "Category", Kind: KindText},
	{Name: "Spender", Kind: KindText},
	{Name: "Amount", Kind: KindDecimal},
}

// ColumnNames returns the header row.
func ColumnNames() []string {
	names := make([]string, len(Schema))
	for i, c := range Schema {
		names[i] = c.Name
	}
	return names
}

// Valid reports whether f names a schema column.
func (f Field) Valid() bool {
	return f >= 0 && f < fieldCount
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return Schema[f].Name
}

// ParseField resolves a column by name (case-insensitive).
func ParseField(name string) (Field, error) {
	for i, c := range Schema {
		if strings.EqualFold(strings.TrimSpace(name), c.Name) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q (want one of %s)", name, strings.Join(ColumnNames(), ", "))
}

// ParseGroupField resolves a grouping key. Only category, spender and source
// can be grouped on.
func ParseGroupField(name string) (Field, error) {
	f, err := ParseField(name)
	if err != nil {
		return 0, err
	}
	switch f {
	case FieldCategory, FieldSpender, FieldSource:
		return f, nil
	}
	return 0, fmt.Errorf("cannot group by %s (want category, spender or source)", f)
}

// Record is one transaction row.
type Record struct {
	Date        time.Time
	Source      string
	Description string
	Category    string
	Spender     string
	Amount      decimal.Decimal
}

// Key returns the grouping key of r for a text field.
func (r Record) Key(f Field) string {
	switch f {
	case FieldSource:
		return r.Source
	case FieldDescription:
		return r.Description
	case FieldCategory:
		return r.Category
	case FieldSpender:
		return r.Spender
	case FieldDate:
		return r.Date.Format(DateLayout)
	case FieldAmount:
		return r.Amount.String()
	}
	return ""
}

// Fields formats r as text cells in schema order.
func (r Record) Fields() []string {
	out := make([]string, fieldCount)
	for i := range out {
		out[i] = r.Key(Field(i))
	}
	return out
}

// ErrBlank is returned for a required cell with no value.
var ErrBlank = errors.New("value is required")

// FieldError reports a cell that does not parse as its column's kind.
type FieldError struct {
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %v", e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

var dateLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate accepts ISO dates plus the few variants spreadsheet exports produce.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// WithCell returns a copy of r with column f set from text. It is the single
// validation path for manual entry, cell edits, and imports.
func (r Record) WithCell(f Field, text string) (Record, error) {
	if !f.Valid() {
		return r, fmt.Errorf("column index %d out of range", int(f))
	}
	col := Schema[f]
	text = strings.TrimSpace(text)
	if text == "" && !col.Optional {
		return r, &FieldError{Column: col.Name, Value: text, Err: ErrBlank}
	}

	switch col.Kind {
	case KindDate:
		d, err := ParseDate(text)
		if err != nil {
			return r, &FieldError{Column: col.Name, Value: text, Err: errors.New("want YYYY-MM-DD")}
		}
		r.Date = d
	case KindDecimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return r, &FieldError{Column: col.Name, Value: text, Err: errors.New("not a decimal number")}
		}
		r.Amount = d
	default:
		switch f {
		case FieldSource:
			r.Source = text
		case FieldDescription:
			r.Description = text
		case FieldCategory:
			r.Category = text
		case FieldSpender:
			r.Spender = text
		}
	}
	return r, nil
}

// ParseRecord builds a record from cells in schema order. A row with fewer
// cells than the schema is rejected.
func ParseRecord(cells []string) (Record, error) {
	if len(cells) < int(fieldCount) {
		return Record{}, fmt.Errorf("want %d fields, got %d", fieldCount, len(cells))
	}
	var r Record
	for i := 0; i < int(fieldCount); i++ {
		var err error
		if r, err = r.WithCell(Field(i), cells[i]); err != nil {
			return Record{}, err
		}
	}
	return r, nil
}

// RequiresLimit reports whether a payment source is expected to carry a
// credit limit. Cash and debit sources are exempt.
func RequiresLimit(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return s != "" && s != "cash" && !strings.Contains(s, "debit")
}
