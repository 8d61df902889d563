package pipeline

import (
	"sort"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/shopspring/decimal"
)

// CreditSummary reports usage against each configured payment limit.
// Sources without a limit are omitted. Remaining is not clamped.
func CreditSummary(records []model.Record, limits map[string]decimal.Decimal) []model.CreditUsage {
	usage := SumBy(records, model.FieldSource)

	out := make([]model.CreditUsage, 0, len(limits))
	for source, limit := range limits {
		used := usage[source]
		cu := model.CreditUsage{
			Source:    source,
			Limit:     limit,
			Used:      used,
			Remaining: limit.Sub(used),
		}
		if limit.IsPositive() {
			cu.Utilization = used.Div(limit).InexactFloat64()
		}
		out = append(out, cu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// BudgetSummary reports usage against each category budget. Remaining is
// clamped at zero; Exceeded is set when usage is strictly above the limit.
func BudgetSummary(records []model.Record, limits map[string]decimal.Decimal) []model.BudgetUsage {
	usage := SumBy(records, model.FieldCategory)

	out := make([]model.BudgetUsage, 0, len(limits))
	for category, limit := range limits {
		used := usage[category]
		out = append(out, model.BudgetUsage{
			Category:  category,
			Limit:     limit,
			Used:      used,
			Remaining: decimal.Max(decimal.Zero, limit.Sub(used)),
			Exceeded:  used.GreaterThan(limit),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
