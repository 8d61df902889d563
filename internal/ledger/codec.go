package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/model"
)

// Format is an import file format.
type Format string

// Supported import formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", &ParseError{Value: name, Err: ErrUnsupportedFormat}
}

// FormatFromPath resolves a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// decode parses raw import bytes in the given format.
func decode(raw []byte, format Format) ([]model.Record, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(raw)
	case FormatXLSX:
		return decodeXLSX(raw)
	}
	return nil, &ParseError{Value: string(format), Err: ErrUnsupportedFormat}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeCSV(raw []byte) ([]model.Record, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Row: pe.Line - 1, Err: pe.Err}
		}
		return nil, &ParseError{Err: err}
	}
	return decodeRows(rows)
}

// decodeRows maps a header row plus data rows onto the schema. The header
// must name every schema column exactly once, in any order.
func decodeRows(rows [][]string) ([]model.Record, error) {
	if len(rows) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("%w: file has no header row", ErrColumnMismatch)}
	}

	order, err := columnOrder(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 1
		if isBlankRow(row) {
			continue
		}
		if len(row) < len(order) {
			return nil, &ParseError{
				Row: rowNum,
				Err: fmt.Errorf("%w: want %d, got %d", ErrMissingField, len(order), len(row)),
			}
		}
		if len(row) > len(order) && !isBlankRow(row[len(order):]) {
			return nil, &ParseError{
				Row: rowNum,
				Err: fmt.Errorf("%w: want %d, got %d", ErrExtraField, len(order), len(row)),
			}
		}

		cells := make([]string, len(model.Schema))
		for j, f := range order {
			cells[f] = row[j]
		}
		r, err := model.ParseRecord(cells)
		if err != nil {
			pe := &ParseError{Row: rowNum, Err: err}
			var fe *model.FieldError
			if errors.As(err, &fe) {
				pe.Column = fe.Column
				pe.Value = fe.Value
			}
			return nil, pe
		}
		records = append(records, r)
	}
	return records, nil
}

func columnOrder(header []string) ([]model.Field, error) {
	order := make([]model.Field, 0, len(header))
	seen := make(map[model.Field]bool)

	for _, h := range header {
		f, err := model.ParseField(h)
		if err != nil || seen[f] {
			return nil, &ParseError{Column: strings.TrimSpace(h), Err: ErrColumnMismatch}
		}
		seen[f] = true
		order = append(order, f)
	}

	for i, col := range model.Schema {
		if !seen[model.Field(i)] {
			return nil, &ParseError{
				Column: col.Name,
				Err:    fmt.Errorf("%w: missing column", ErrColumnMismatch),
			}
		}
	}
	return order, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// encodeCSV renders the ledger file: header plus one row per record.
func encodeCSV(records []model.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(model.ColumnNames()); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(r.Fields()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
