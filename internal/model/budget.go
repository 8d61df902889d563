package model

import "github.com/shopspring/decimal"

// CreditUsage compares a payment source's spend against its credit limit.
// Remaining goes negative when the source is over its limit.
type CreditUsage struct {
	Source      string
	Limit       decimal.Decimal
	Used        decimal.Decimal
	Remaining   decimal.Decimal
	Utilization float64 // Used/Limit, 0 when Limit is 0
}

// BudgetUsage compares a category's spend against its budget.
// Remaining is clamped at zero; Exceeded carries the overrun.
type BudgetUsage struct {
	Category  string
	Limit     decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
	Exceeded  bool
}

// ForecastPoint is one projected month.
type ForecastPoint struct {
	Month     Month
	Predicted float64
}

// Forecast holds a least-squares fit of monthly totals and its projection.
type Forecast struct {
	Slope        float64
	Intercept    float64
	History      int // number of observed months
	LastObserved Month
	Points       []ForecastPoint
}
