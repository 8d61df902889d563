package tui

import (
	"testing"

	"github.com/theirongolddev/spendtrack/internal/config"
	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	d, ok, err := parseLimit(" 1500.50 ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1500.5", d.String())

	_, ok, err = parseLimit("")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseLimit("-5")
	assert.Error(t, err)
	_, _, err = parseLimit("lots")
	assert.Error(t, err)
}

func TestCellValidator(t *testing.T) {
	assert.NoError(t, cellValidator(model.FieldDate)("2025-03-07"))
	assert.Error(t, cellValidator(model.FieldDate)("07/03/2025"))
	assert.Error(t, cellValidator(model.FieldAmount)("ten"))
	assert.ErrorIs(t, cellValidator(model.FieldSpender)("  "), model.ErrBlank)
	assert.NoError(t, cellValidator(model.FieldDescription)(""))
}

func TestExpenseValuesParse(t *testing.T) {
	v := expenseValues{
		date:     "2025-03-07",
		source:   "HDFC",
		category: "Food",
		spender:  "Ana",
		amount:   "12.40",
	}
	r, err := model.ParseRecord(v.cells())
	require.NoError(t, err)
	assert.Equal(t, "HDFC", r.Source)
	assert.Empty(t, r.Description)
	assert.Equal(t, "12.4", r.Amount.String())
}

func TestNewExpenseFormDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	var v expenseValues
	_ = newExpenseForm(cfg, &v)

	assert.NotEmpty(t, v.date)
	assert.Equal(t, cfg.Entry.Categories[0], v.category)
	assert.Empty(t, v.spender, "no spender list means free text")
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Forecast.MonthsAhead = 7

	v := newSetupValues(cfg)
	assert.Equal(t, "3", v.monthsAhead, "unlisted value falls back to a listed option")

	v.dataDir = " /srv/money "
	v.spenders = "Ana, , Ravi"
	v.monthsAhead = "6"
	v.theme = "no-such-theme"

	got := v.apply(cfg)
	assert.Equal(t, "/srv/money", got.General.DataDir)
	assert.Equal(t, []string{"Ana", "Ravi"}, got.Entry.Spenders)
	assert.Equal(t, 6, got.Forecast.MonthsAhead)
	assert.Equal(t, cfg.Appearance.Theme, got.Appearance.Theme)
}
