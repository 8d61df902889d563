package pipeline

import (
	"testing"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditSummary(t *testing.T) {
	limits := map[string]decimal.Decimal{"CardA": dec("500")}

	under := CreditSummary([]model.Record{
		rec(t, "2025-01-01", "CardA", "Food", "Alice", "100"),
		rec(t, "2025-01-02", "CardA", "Rent", "Alice", "200"),
		rec(t, "2025-01-03", "Cash", "Food", "Alice", "999"),
	}, limits)
	require.Len(t, under, 1)
	assert.Equal(t, "CardA", under[0].Source)
	assertDecimal(t, "300", under[0].Used)
	assertDecimal(t, "200", under[0].Remaining)
	assert.InDelta(t, 0.6, under[0].Utilization, 1e-9)

	over := CreditSummary([]model.Record{
		rec(t, "2025-01-01", "CardA", "Food", "Alice", "600"),
	}, limits)
	require.Len(t, over, 1)
	assertDecimal(t, "600", over[0].Used)
	assertDecimal(t, "-100", over[0].Remaining)
}

func TestCreditSummary_UnusedSource(t *testing.T) {
	out := CreditSummary(nil, map[string]decimal.Decimal{"CardZ": dec("250"), "CardY": dec("0")})
	require.Len(t, out, 2)
	assert.Equal(t, "CardY", out[0].Source)
	assertDecimal(t, "0", out[0].Used)
	assert.Zero(t, out[0].Utilization)
	assertDecimal(t, "250", out[1].Remaining)
}

func TestBudgetSummary(t *testing.T) {
	limits := map[string]decimal.Decimal{"Food": dec("100"), "Rent": dec("900")}
	out := BudgetSummary([]model.Record{
		rec(t, "2025-01-01", "CardA", "Food", "Alice", "150"),
		rec(t, "2025-01-01", "CardA", "Rent", "Alice", "900"),
		rec(t, "2025-01-01", "CardA", "Car", "Alice", "40"),
	}, limits)

	require.Len(t, out, 2)

	food := out[0]
	assert.Equal(t, "Food", food.Category)
	assertDecimal(t, "150", food.Used)
	assertDecimal(t, "100", food.Limit)
	assertDecimal(t, "0", food.Remaining)
	assert.True(t, food.Exceeded)

	rent := out[1]
	assertDecimal(t, "0", rent.Remaining)
	assert.False(t, rent.Exceeded, "exactly at the limit is not exceeded")
}
