package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagBy    string
	flagTopN  int
	flagDaysN int
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Spend per calendar month",
	RunE:  runMonthly,
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Month-by-month table grouped by category, spender or source",
	RunE:  runBreakdown,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Largest categories, spenders or sources",
	RunE:  runTop,
}

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Dates with the highest spend",
	RunE:  runDays,
}

func init() {
	breakdownCmd.Flags().StringVar(&flagBy, "by", "category", "Group by category, spender or source")
	topCmd.Flags().StringVar(&flagBy, "by", "category", "Group by category, spender or source")
	topCmd.Flags().IntVarP(&flagTopN, "limit", "n", 5, "Number of groups to show")
	daysCmd.Flags().IntVarP(&flagDaysN, "limit", "n", 5, "Number of days to show")

	rootCmd.AddCommand(monthlyCmd, breakdownCmd, topCmd, daysCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	_, records, err := filteredRecords()
	if err != nil {
		return err
	}
	months := pipeline.SumByMonth(records)
	if len(months) == 0 {
		printEmpty()
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY SPEND  %s", rangeLabel())))
	fmt.Println()

	peak := 0.0
	vals := make([]float64, len(months))
	for i, m := range months {
		vals[i] = m.Total.InexactFloat64()
		peak = max(peak, vals[i])
	}

	rows := make([][]string, 0, len(months))
	for i, m := range months {
		delta := ""
		if i > 0 {
			delta = cli.FormatDelta(m.Total, months[i-1].Total)
		}
		bar := ""
		if peak > 0 {
			bar = cli.RenderUsageBar(vals[i]/peak, 20)
		}
		rows = append(rows, []string{m.Month.String(), cli.FormatMoney(m.Total), delta, bar})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Spent", "Change", ""},
		Rows:    rows,
	}))
	fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(vals))
	return nil
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	field, err := model.ParseGroupField(flagBy)
	if err != nil {
		return err
	}
	_, records, err := filteredRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printEmpty()
		return nil
	}

	ct := pipeline.CrossTab(records, field)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s BY MONTH  %s", field, rangeLabel())))
	fmt.Println()

	headers := []string{field.String()}
	for _, m := range ct.Months {
		headers = append(headers, m.String())
	}
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(ct.Rows)+2)
	for _, key := range ct.Rows {
		row := []string{key}
		for _, m := range ct.Months {
			row = append(row, cli.FormatAmount(ct.Value(key, m)))
		}
		row = append(row, cli.FormatAmount(ct.RowTotal(key)))
		rows = append(rows, row)
	}

	rows = append(rows, []string{"---"})
	totalRow := []string{"Total"}
	grand := pipeline.Totals(records).Total
	for _, m := range ct.Months {
		totalRow = append(totalRow, cli.FormatAmount(ct.MonthTotal(m)))
	}
	totalRow = append(totalRow, cli.FormatAmount(grand))
	rows = append(rows, totalRow)

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	return nil
}

func runTop(_ *cobra.Command, _ []string) error {
	field, err := model.ParseGroupField(flagBy)
	if err != nil {
		return err
	}
	_, records, err := filteredRecords()
	if err != nil {
		return err
	}
	top := pipeline.TopN(records, field, flagTopN)
	if len(top) == 0 {
		printEmpty()
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TOP %d %s  %s", flagTopN, field, rangeLabel())))
	fmt.Println()

	peak := top[0].Total.InexactFloat64()
	for i, kt := range top {
		label := fmt.Sprintf("%2d. %-16s %12s", i+1, kt.Key, cli.FormatMoney(kt.Total))
		fmt.Println(cli.RenderHorizontalBar(label, kt.Total.InexactFloat64(), peak, 30))
	}
	return nil
}

func runDays(_ *cobra.Command, _ []string) error {
	_, records, err := filteredRecords()
	if err != nil {
		return err
	}
	days := pipeline.TopExpenseDays(records, flagDaysN)
	if len(days) == 0 {
		printEmpty()
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TOP EXPENSE DAYS  %s", rangeLabel())))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format(model.DateLayout),
			cli.FormatDayOfWeek(int(d.Date.Weekday())),
			cli.FormatMoney(d.Total),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Spent"},
		Rows:    rows,
	}))
	return nil
}
