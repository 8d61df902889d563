package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/shopspring/decimal"
)

// benchLedger builds n records spread over three years.
func benchLedger(n int) []model.Record {
	sources := []string{"HDFC", "ICICI", "Cash", "SBI Debit"}
	categories := []string{"Food", "Rent", "Car", "Grocery", "Shopping", "OTT", "Tour"}
	spenders := []string{"Ana", "Ravi", "Meera"}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	records := make([]model.Record, n)
	for i := range records {
		records[i] = model.Record{
			Date:        start.AddDate(0, 0, i%1095),
			Source:      sources[i%len(sources)],
			Description: fmt.Sprintf("item %d", i),
			Category:    categories[i%len(categories)],
			Spender:     spenders[i%len(spenders)],
			Amount:      decimal.New(int64(100+i%9000), -2),
		}
	}
	return records
}

func BenchmarkTotals(b *testing.B) {
	records := benchLedger(50_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Totals(records)
	}
}

func BenchmarkCrossTab(b *testing.B) {
	records := benchLedger(50_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CrossTab(records, model.FieldCategory)
	}
}

func BenchmarkTopExpenseDays(b *testing.B) {
	records := benchLedger(50_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = TopExpenseDays(records, 10)
	}
}

func BenchmarkForecast(b *testing.B) {
	trend := MonthlyTrend(benchLedger(50_000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Forecast(trend, 6); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilterApply(b *testing.B) {
	records := benchLedger(50_000)
	f := Filter{
		From:     model.Month{Year: 2024, Month: time.March},
		To:       model.Month{Year: 2024, Month: time.September},
		Category: "food",
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Apply(records)
	}
}
