package pipeline

import (
	"strings"

	"github.com/theirongolddev/spendtrack/internal/model"
)

// FilterByMonthRange returns records whose month falls within [from, to].
// A zero bound is open.
func FilterByMonthRange(records []model.Record, from, to model.Month) []model.Record {
	if from.IsZero() && to.IsZero() {
		return records
	}

	var result []model.Record
	for _, r := range records {
		m := model.MonthOf(r.Date)
		if !from.IsZero() && m.Before(from) {
			continue
		}
		if !to.IsZero() && to.Before(m) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// FilterByField returns records whose field contains substr (case-insensitive).
func FilterByField(records []model.Record, field model.Field, substr string) []model.Record {
	if substr == "" {
		return records
	}
	var result []model.Record
	for _, r := range records {
		if containsIgnoreCase(r.Key(field), substr) {
			result = append(result, r)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Filter narrows a ledger by month window and field substrings. The zero
// Filter matches everything.
type Filter struct {
	From, To model.Month
	Category string
	Spender  string
	Source   string
}

// IsZero reports whether f matches every record.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match reports whether r passes every set criterion.
func (f Filter) Match(r model.Record) bool {
	m := model.MonthOf(r.Date)
	if !f.From.IsZero() && m.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && f.To.Before(m) {
		return false
	}
	if f.Category != "" && !containsIgnoreCase(r.Category, f.Category) {
		return false
	}
	if f.Spender != "" && !containsIgnoreCase(r.Spender, f.Spender) {
		return false
	}
	if f.Source != "" && !containsIgnoreCase(r.Source, f.Source) {
		return false
	}
	return true
}

// Apply returns the matching records in ledger order.
func (f Filter) Apply(records []model.Record) []model.Record {
	if f.IsZero() {
		return records
	}
	var result []model.Record
	for _, r := range records {
		if f.Match(r) {
			result = append(result, r)
		}
	}
	return result
}

// Indices returns the ledger row indices of the matching records, so a
// filtered view can address rows for editing.
func (f Filter) Indices(records []model.Record) []int {
	idx := make([]int, 0, len(records))
	for i, r := range records {
		if f.Match(r) {
			idx = append(idx, i)
		}
	}
	return idx
}
