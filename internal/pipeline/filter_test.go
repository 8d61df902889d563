package pipeline

import (
	"testing"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(t *testing.T, s string) model.Month {
	t.Helper()
	m, err := model.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func TestFilter_Combined(t *testing.T) {
	records := sampleLedger(t)
	f := Filter{From: month(t, "2025-02"), Category: "food", Spender: "BOB"}

	got := f.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "CardB", got[0].Source)
	assert.Equal(t, []int{4}, f.Indices(records))
}

func TestFilter_ZeroMatchesAll(t *testing.T) {
	records := sampleLedger(t)
	var f Filter
	assert.True(t, f.IsZero())
	assert.Equal(t, records, f.Apply(records))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, f.Indices(records))
}
