package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setFilterFlags(t *testing.T, from, to, category string) {
	t.Helper()
	oldFrom, oldTo, oldCat := flagFrom, flagTo, flagCategory
	flagFrom, flagTo, flagCategory = from, to, category
	t.Cleanup(func() { flagFrom, flagTo, flagCategory = oldFrom, oldTo, oldCat })
}

func TestBuildFilter(t *testing.T) {
	setFilterFlags(t, "2025-01", "2025-03", "food")

	f, err := buildFilter()
	require.NoError(t, err)
	assert.Equal(t, 2025, f.From.Year)
	assert.Equal(t, time.January, f.From.Month)
	assert.Equal(t, time.March, f.To.Month)
	assert.Equal(t, "food", f.Category)
	assert.Equal(t, "2025-01 → 2025-03", rangeLabel())
}

func TestBuildFilter_Rejects(t *testing.T) {
	setFilterFlags(t, "2025-13", "", "")
	_, err := buildFilter()
	assert.ErrorContains(t, err, "--from")

	setFilterFlags(t, "2025-04", "2025-02", "")
	_, err = buildFilter()
	assert.ErrorContains(t, err, "before")
}

func TestParseRow(t *testing.T) {
	row, err := parseRow("3")
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	for _, bad := range []string{"0", "-1", "x", ""} {
		_, err := parseRow(bad)
		assert.Error(t, err, bad)
	}
}

func TestRangeLabel_Default(t *testing.T) {
	setFilterFlags(t, "", "", "")
	assert.Equal(t, "all time", rangeLabel())
}
