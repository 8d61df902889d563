package ledger

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads the first worksheet of a workbook. Cells are read raw so
// date cells arrive as Excel serial numbers and are converted here.
func decodeXLSX(raw []byte) ([]model.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("opening workbook: %w", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("%w: workbook has no sheets", ErrColumnMismatch)}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("reading sheet %q: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return decodeRows(rows)
	}

	dateCol := -1
	for i, h := range rows[0] {
		if fld, err := model.ParseField(h); err == nil && fld == model.FieldDate {
			dateCol = i
		}
	}

	// excelize drops trailing empty cells; pad so a blank last column
	// reaches the field validator instead of failing as a short row.
	width := len(rows[0])
	for i := 1; i < len(rows); i++ {
		for len(rows[i]) < width && !isBlankRow(rows[i]) {
			rows[i] = append(rows[i], "")
		}
		if dateCol >= 0 && dateCol < len(rows[i]) {
			rows[i][dateCol] = excelDate(rows[i][dateCol])
		}
	}
	return decodeRows(rows)
}

// excelDate converts an Excel serial date to YYYY-MM-DD; other text is
// returned unchanged for the date parser to judge.
func excelDate(cell string) string {
	cell = strings.TrimSpace(cell)
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t.Format(model.DateLayout)
}
