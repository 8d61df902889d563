// Package pipeline aggregates ledger records into grouped totals, credit and
// budget summaries, and trend forecasts. Every function is a pure function of
// the records it is given.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/shopspring/decimal"
)

// Totals computes the grand total plus per-spender and per-category sums.
func Totals(records []model.Record) model.Totals {
	totals := model.Totals{
		Records:    len(records),
		Total:      decimal.Zero,
		BySpender:  SumBy(records, model.FieldSpender),
		ByCategory: SumBy(records, model.FieldCategory),
	}
	for _, r := range records {
		totals.Total = totals.Total.Add(r.Amount)
		if totals.FirstDate.IsZero() || r.Date.Before(totals.FirstDate) {
			totals.FirstDate = r.Date
		}
		if r.Date.After(totals.LastDate) {
			totals.LastDate = r.Date
		}
	}
	return totals
}

// SumByMonth groups records by calendar month and returns totals in
// chronological order. An empty ledger yields an empty slice.
func SumByMonth(records []model.Record) []model.MonthTotal {
	monthMap := make(map[model.Month]decimal.Decimal)
	for _, r := range records {
		m := model.MonthOf(r.Date)
		monthMap[m] = monthMap[m].Add(r.Amount)
	}

	months := make([]model.MonthTotal, 0, len(monthMap))
	for m, total := range monthMap {
		months = append(months, model.MonthTotal{Month: m, Total: total})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}

// SumBy groups records on a single text field.
func SumBy(records []model.Record, field model.Field) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range records {
		key := r.Key(field)
		sums[key] = sums[key].Add(r.Amount)
	}
	return sums
}

// sumByOrdered is SumBy that remembers first-encountered key order.
func sumByOrdered(records []model.Record, field model.Field) []model.KeyTotal {
	idx := make(map[string]int)
	var out []model.KeyTotal
	for _, r := range records {
		key := r.Key(field)
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, model.KeyTotal{Key: key, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(r.Amount)
	}
	return out
}

// CrossTab sums records by (rowField, month). Cells are rounded to cents;
// absent combinations read as zero through CrossTab.Value.
func CrossTab(records []model.Record, rowField model.Field) model.CrossTab {
	ct := model.CrossTab{
		Field: rowField,
		Cells: make(map[string]map[model.Month]decimal.Decimal),
	}
	seenMonth := make(map[model.Month]struct{})

	for _, r := range records {
		key := r.Key(rowField)
		m := model.MonthOf(r.Date)
		byMonth, ok := ct.Cells[key]
		if !ok {
			byMonth = make(map[model.Month]decimal.Decimal)
			ct.Cells[key] = byMonth
			ct.Rows = append(ct.Rows, key)
		}
		byMonth[m] = byMonth[m].Add(r.Amount)
		if _, ok := seenMonth[m]; !ok {
			seenMonth[m] = struct{}{}
			ct.Months = append(ct.Months, m)
		}
	}

	for _, byMonth := range ct.Cells {
		for m, v := range byMonth {
			byMonth[m] = v.Round(2)
		}
	}
	sort.Strings(ct.Rows)
	sort.Slice(ct.Months, func(i, j int) bool {
		return ct.Months[i].Before(ct.Months[j])
	})
	return ct
}

// TopN returns the n largest groups of field, descending by total. Ties keep
// the order in which keys first appear in records.
func TopN(records []model.Record, field model.Field, n int) []model.KeyTotal {
	if n <= 0 {
		return nil
	}
	groups := sumByOrdered(records, field)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.GreaterThan(groups[j].Total)
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TopExpenseDays returns the n calendar dates with the largest totals, using
// the same ordering rules as TopN.
func TopExpenseDays(records []model.Record, n int) []model.DayTotal {
	if n <= 0 {
		return nil
	}
	idx := make(map[time.Time]int)
	var days []model.DayTotal
	for _, r := range records {
		i, ok := idx[r.Date]
		if !ok {
			i = len(days)
			idx[r.Date] = i
			days = append(days, model.DayTotal{Date: r.Date, Total: decimal.Zero})
		}
		days[i].Total = days[i].Total.Add(r.Amount)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Total.GreaterThan(days[j].Total)
	})
	if len(days) > n {
		days = days[:n]
	}
	return days
}
