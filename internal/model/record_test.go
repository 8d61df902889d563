package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	r, err := ParseRecord([]string{"2025-01-15", "CardA", "lunch", "Food", "Alice", "12.50"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "CardA", r.Source)
	assert.Equal(t, "lunch", r.Description)
	assert.Equal(t, "Food", r.Category)
	assert.Equal(t, "Alice", r.Spender)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("12.5")))
}

func TestParseRecord_TooFewFields(t *testing.T) {
	_, err := ParseRecord([]string{"2025-01-15", "CardA", "lunch", "Food", "Alice"})
	require.Error(t, err)
}

func TestParseRecord_BlankDescriptionAllowed(t *testing.T) {
	r, err := ParseRecord([]string{"2025-01-15", "Cash", "", "Food", "Alice", "3"})
	require.NoError(t, err)
	assert.Empty(t, r.Description)
}

func TestWithCell_Rejects(t *testing.T) {
	base, err := ParseRecord([]string{"2025-01-15", "CardA", "lunch", "Food", "Alice", "12.50"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		field Field
		text  string
	}{
		{"bad date", FieldDate, "2025-13-01"},
		{"not a date", FieldDate, "yesterday"},
		{"bad amount", FieldAmount, "12,50"},
		{"nan amount", FieldAmount, "NaN"},
		{"blank amount", FieldAmount, "  "},
		{"blank category", FieldCategory, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.WithCell(tt.field, tt.text)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "want *FieldError, got %v", err)
			assert.Equal(t, tt.field.String(), fe.Column)
			assert.Equal(t, base, got, "record must be unchanged on failure")
		})
	}
}

func TestWithCell_Accepts(t *testing.T) {
	var r Record
	r, err := r.WithCell(FieldDate, "2025-3-7")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-07", r.Key(FieldDate))

	r, err = r.WithCell(FieldAmount, "-4.25")
	require.NoError(t, err)
	assert.Equal(t, "-4.25", r.Key(FieldAmount))
}

func TestParseGroupField(t *testing.T) {
	f, err := ParseGroupField("Category")
	require.NoError(t, err)
	assert.Equal(t, FieldCategory, f)

	f, err = ParseGroupField("source")
	require.NoError(t, err)
	assert.Equal(t, FieldSource, f)

	_, err = ParseGroupField("amount")
	assert.Error(t, err)
	_, err = ParseGroupField("bogus")
	assert.Error(t, err)
}

func TestRequiresLimit(t *testing.T) {
	assert.True(t, RequiresLimit("Visa Gold"))
	assert.False(t, RequiresLimit("Cash"))
	assert.False(t, RequiresLimit("CASH"))
	assert.False(t, RequiresLimit("Chase Debit"))
	assert.False(t, RequiresLimit(""))
}

func TestMonth(t *testing.T) {
	m, err := ParseMonth("2025-11")
	require.NoError(t, err)
	assert.Equal(t, "2025-11", m.String())
	assert.Equal(t, "2026-02", m.Add(3).String())
	assert.Equal(t, "2024-12", m.Add(-11).String())
	assert.True(t, m.Before(m.Add(1)))
	assert.False(t, m.Before(m))

	_, err = ParseMonth("2025/11")
	assert.Error(t, err)
}
