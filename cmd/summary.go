package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Total spend with per-category and per-spender splits",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	_, records, err := filteredRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printEmpty()
		return nil
	}

	totals := pipeline.Totals(records)
	months := pipeline.SumByMonth(records)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING  %s", rangeLabel())))
	fmt.Println()

	rows := [][]string{
		{"Records", cli.FormatNumber(int64(totals.Records))},
		{"First", cli.FormatDate(totals.FirstDate)},
		{"Last", cli.FormatDate(totals.LastDate)},
		{"Months", cli.FormatNumber(int64(len(months)))},
		{"---"},
		{"Total", cli.FormatMoney(totals.Total)},
	}
	if n := len(months); n > 0 {
		rows = append(rows, []string{"Per month", cli.FormatMoney(totals.Total.Div(decimal.NewFromInt(int64(n))))})
	}
	if n := len(months); n > 1 {
		cur, prev := months[n-1], months[n-2]
		rows = append(rows, []string{
			"Latest month",
			fmt.Sprintf("%s  %s (%s vs %s)", cur.Month, cli.FormatMoney(cur.Total),
				cli.FormatDelta(cur.Total, prev.Total), prev.Month),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))

	fmt.Println()
	fmt.Print(cli.RenderTable(shareTable("By Category", "Category", pipeline.TopN(records, model.FieldCategory, len(totals.ByCategory)), totals.Total)))
	fmt.Println()
	fmt.Print(cli.RenderTable(shareTable("By Spender", "Spender", pipeline.TopN(records, model.FieldSpender, len(totals.BySpender)), totals.Total)))
	return nil
}

// shareTable lists keyed totals with their share of the grand total.
func shareTable(title, keyHeader string, items []model.KeyTotal, grand decimal.Decimal) cli.Table {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		share := 0.0
		if grand.IsPositive() {
			share = it.Total.Div(grand).InexactFloat64()
		}
		rows = append(rows, []string{it.Key, cli.FormatMoney(it.Total), cli.FormatPercent(share)})
	}
	return cli.Table{
		Title:   title,
		Headers: []string{keyHeader, "Spent", "Share"},
		Rows:    rows,
	}
}
