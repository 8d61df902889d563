package pipeline

import (
	"sort"
	"testing"
	"time"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(t *testing.T, date, source, category, spender, amount string) model.Record {
	t.Helper()
	r, err := model.ParseRecord([]string{date, source, "", category, spender, amount})
	require.NoError(t, err)
	return r
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got.String())
}

func sampleLedger(t *testing.T) []model.Record {
	return []model.Record{
		rec(t, "2025-02-03", "CardA", "Food", "Alice", "20"),
		rec(t, "2025-01-10", "CardA", "Rent", "Bob", "1000"),
		rec(t, "2025-01-11", "Cash", "Food", "Alice", "15.255"),
		rec(t, "2025-03-01", "CardB", "Car", "Bob", "60"),
		rec(t, "2025-02-03", "CardB", "Food", "Bob", "5"),
	}
}

func TestSumByMonth(t *testing.T) {
	months := SumByMonth(sampleLedger(t))
	require.Len(t, months, 3)

	assert.Equal(t, "2025-01", months[0].Month.String())
	assertDecimal(t, "1015.255", months[0].Total)
	assert.Equal(t, "2025-02", months[1].Month.String())
	assertDecimal(t, "25", months[1].Total)
	assert.Equal(t, "2025-03", months[2].Month.String())
	assertDecimal(t, "60", months[2].Total)
}

func TestSumByMonth_Empty(t *testing.T) {
	assert.Empty(t, SumByMonth(nil))
}

func TestSumBy(t *testing.T) {
	byCat := SumBy(sampleLedger(t), model.FieldCategory)
	require.Len(t, byCat, 3)
	assertDecimal(t, "40.255", byCat["Food"])
	assertDecimal(t, "1000", byCat["Rent"])
	assertDecimal(t, "60", byCat["Car"])

	bySource := SumBy(sampleLedger(t), model.FieldSource)
	assertDecimal(t, "1020", bySource["CardA"])
	assertDecimal(t, "65", bySource["CardB"])
	assertDecimal(t, "15.255", bySource["Cash"])
}

func TestPartitionsAgree(t *testing.T) {
	records := sampleLedger(t)

	byMonth := decimal.Zero
	for _, m := range SumByMonth(records) {
		byMonth = byMonth.Add(m.Total)
	}
	byCategory := decimal.Zero
	for _, v := range SumBy(records, model.FieldCategory) {
		byCategory = byCategory.Add(v)
	}
	assert.True(t, byMonth.Equal(byCategory), "month total %s != category total %s", byMonth, byCategory)
	assert.True(t, byMonth.Equal(Totals(records).Total))
}

func TestCrossTab(t *testing.T) {
	ct := CrossTab(sampleLedger(t), model.FieldSpender)

	assert.Equal(t, []string{"Alice", "Bob"}, ct.Rows)
	require.Len(t, ct.Months, 3)
	jan, feb, mar := ct.Months[0], ct.Months[1], ct.Months[2]

	assertDecimal(t, "15.26", ct.Value("Alice", jan)) // rounded to cents
	assertDecimal(t, "20", ct.Value("Alice", feb))
	assertDecimal(t, "0", ct.Value("Alice", mar))
	assertDecimal(t, "1000", ct.Value("Bob", jan))
	assertDecimal(t, "1065", ct.RowTotal("Bob"))
	assertDecimal(t, "25", ct.MonthTotal(feb))
}

func TestCrossTab_IsTotal(t *testing.T) {
	ct := CrossTab(sampleLedger(t), model.FieldCategory)
	never := model.Month{Year: 1999, Month: time.June}
	for _, row := range append(ct.Rows, "NoSuchRow") {
		assertDecimal(t, "0", ct.Value(row, never))
	}
}

func TestTopN(t *testing.T) {
	records := []model.Record{
		rec(t, "2025-01-01", "A", "Food", "x", "10"),
		rec(t, "2025-01-01", "A", "Car", "x", "30"),
		rec(t, "2025-01-01", "A", "Rent", "x", "10"),
		rec(t, "2025-01-01", "A", "Tour", "x", "10"),
		rec(t, "2025-01-01", "A", "OTT", "x", "5"),
	}

	top := TopN(records, model.FieldCategory, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "Car", top[0].Key)
	// Food, Rent and Tour tie at 10; first-seen order wins.
	assert.Equal(t, "Food", top[1].Key)
	assert.Equal(t, "Rent", top[2].Key)

	assert.Len(t, TopN(records, model.FieldCategory, 100), 5)
	assert.Empty(t, TopN(records, model.FieldCategory, 0))
}

func TestTopN_SortedAndIdempotent(t *testing.T) {
	top := TopN(sampleLedger(t), model.FieldSource, 10)
	for i := 1; i < len(top); i++ {
		assert.False(t, top[i].Total.GreaterThan(top[i-1].Total), "not descending at %d", i)
	}

	resorted := append([]model.KeyTotal(nil), top...)
	sort.SliceStable(resorted, func(i, j int) bool {
		return resorted[i].Total.GreaterThan(resorted[j].Total)
	})
	assert.Equal(t, top, resorted)
}

func TestTopExpenseDays(t *testing.T) {
	days := TopExpenseDays(sampleLedger(t), 2)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-01-10", days[0].Date.Format(model.DateLayout))
	assertDecimal(t, "1000", days[0].Total)
	assert.Equal(t, "2025-03-01", days[1].Date.Format(model.DateLayout))

	// 2025-02-03 sums two records.
	all := TopExpenseDays(sampleLedger(t), 10)
	require.Len(t, all, 4)
	assert.Equal(t, "2025-02-03", all[2].Date.Format(model.DateLayout))
	assertDecimal(t, "25", all[2].Total)
}

func TestTotals(t *testing.T) {
	totals := Totals(sampleLedger(t))
	assert.Equal(t, 5, totals.Records)
	assertDecimal(t, "1100.255", totals.Total)
	assertDecimal(t, "35.255", totals.BySpender["Alice"])
	assert.Equal(t, "2025-01-10", totals.FirstDate.Format(model.DateLayout))
	assert.Equal(t, "2025-03-01", totals.LastDate.Format(model.DateLayout))
}

func TestFilters(t *testing.T) {
	records := sampleLedger(t)

	feb := model.Month{Year: 2025, Month: time.February}
	assert.Len(t, FilterByMonthRange(records, feb, feb), 2)
	assert.Len(t, FilterByMonthRange(records, feb, model.Month{}), 3)
	assert.Len(t, FilterByMonthRange(records, model.Month{}, model.Month{}), 5)

	assert.Len(t, FilterByField(records, model.FieldSource, "card"), 4)
	assert.Len(t, FilterByField(records, model.FieldSpender, "ALICE"), 2)
}
