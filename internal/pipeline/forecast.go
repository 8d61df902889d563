package pipeline

import (
	"errors"

	"github.com/theirongolddev/spendtrack/internal/model"
)

var (
	// ErrInsufficientData means the trend has fewer than two months. It is an
	// expected outcome, not a failure.
	ErrInsufficientData = errors.New("insufficient data: need at least 2 months of history")

	// ErrDegenerateFit means the month indices have zero variance.
	ErrDegenerateFit = errors.New("degenerate fit: month indices have zero variance")
)

// MonthlyTrend is the chronological series of per-month totals. Months with
// no records are absent, not zero.
func MonthlyTrend(records []model.Record) []model.MonthTotal {
	return SumByMonth(records)
}

// Forecast fits total ~ index by ordinary least squares over the trend and
// projects monthsAhead months past the last observed month. Observations are
// treated as equally spaced regardless of calendar gaps.
func Forecast(trend []model.MonthTotal, monthsAhead int) (model.Forecast, error) {
	k := len(trend)
	if k < 2 {
		return model.Forecast{}, ErrInsufficientData
	}

	var sumX, sumY float64
	ys := make([]float64, k)
	for i, mt := range trend {
		ys[i] = mt.Total.InexactFloat64()
		sumX += float64(i)
		sumY += ys[i]
	}
	meanX := sumX / float64(k)
	meanY := sumY / float64(k)

	var sxy, sxx float64
	for i, y := range ys {
		dx := float64(i) - meanX
		sxy += dx * (y - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return model.Forecast{}, ErrDegenerateFit
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX
	last := trend[k-1].Month

	fc := model.Forecast{
		Slope:        slope,
		Intercept:    intercept,
		History:      k,
		LastObserved: last,
	}
	for i := 1; i <= monthsAhead; i++ {
		x := float64(k - 1 + i)
		fc.Points = append(fc.Points, model.ForecastPoint{
			Month:     last.Add(i),
			Predicted: intercept + slope*x,
		})
	}
	return fc, nil
}
