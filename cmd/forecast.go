package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagMonthsAhead int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project monthly spend with a linear trend",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVarP(&flagMonthsAhead, "months", "m", 0, "Months to project (default from config)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	a, records, err := filteredRecords()
	if err != nil {
		return err
	}
	ahead := a.cfg.Forecast.MonthsAhead
	if flagMonthsAhead > 0 {
		ahead = flagMonthsAhead
	}

	trend := pipeline.MonthlyTrend(records)
	fc, err := pipeline.Forecast(trend, ahead)
	if errors.Is(err, pipeline.ErrInsufficientData) {
		fmt.Println()
		fmt.Printf("  Not enough history to forecast (%d month(s); need at least 2).\n", len(trend))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  next %d month(s)", ahead)))
	fmt.Println()

	rows := make([][]string, 0, len(trend)+len(fc.Points)+1)
	for _, mt := range trend {
		rows = append(rows, []string{mt.Month.String(), cli.FormatMoney(mt.Total), cli.Muted("actual")})
	}
	rows = append(rows, []string{"---"})
	for _, p := range fc.Points {
		rows = append(rows, []string{p.Month.String(), cli.FormatMoney(decimal.NewFromFloat(p.Predicted).Round(2)), cli.Warn("projected")})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Spend", ""},
		Rows:    rows,
	}))

	sign := "+"
	if fc.Slope < 0 {
		sign = "-"
	}
	fmt.Println()
	fmt.Printf("  Fit over %d months: %s%s/month\n", fc.History, sign,
		cli.FormatMoney(decimal.NewFromFloat(fc.Slope).Abs().Round(2)))
	return nil
}
