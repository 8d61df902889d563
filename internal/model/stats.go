package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthTotal is the summed amount for one calendar month.
type MonthTotal struct {
	Month Month
	Total decimal.Decimal
}

// KeyTotal is the summed amount for one group key.
type KeyTotal struct {
	Key   string
	Total decimal.Decimal
}

// DayTotal is the summed amount for one calendar date.
type DayTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// Totals holds the top-level aggregate across a ledger.
type Totals struct {
	Records    int
	Total      decimal.Decimal
	BySpender  map[string]decimal.Decimal
	ByCategory map[string]decimal.Decimal
	FirstDate  time.Time
	LastDate   time.Time
}

// CrossTab is a row key × month table of sums. Missing cells read as zero.
type CrossTab struct {
	Field  Field
	Rows   []string // sorted
	Months []Month  // chronological
	Cells  map[string]map[Month]decimal.Decimal
}

// Value returns the cell for (row, month), zero when the pair never occurred.
func (c CrossTab) Value(row string, m Month) decimal.Decimal {
	if byMonth, ok := c.Cells[row]; ok {
		if v, ok := byMonth[m]; ok {
			return v
		}
	}
	return decimal.Zero
}

// RowTotal sums one row across all months.
func (c CrossTab) RowTotal(row string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range c.Cells[row] {
		total = total.Add(v)
	}
	return total
}

// MonthTotal sums one month column across all rows.
func (c CrossTab) MonthTotal(m Month) decimal.Decimal {
	total := decimal.Zero
	for _, byMonth := range c.Cells {
		total = total.Add(byMonth[m])
	}
	return total
}
