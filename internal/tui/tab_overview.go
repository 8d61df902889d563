package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/tui/components"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	totals := a.totals
	var b strings.Builder

	// Row 1: Metric cards
	spanDelta := ""
	if !totals.FirstDate.IsZero() {
		spanDelta = totals.FirstDate.Format("Jan 2006") + " → " + totals.LastDate.Format("Jan 2006")
	}

	monthValue, monthDelta := "-", ""
	if n := len(a.months); n > 0 {
		cur := a.months[n-1]
		monthValue = cli.FormatMoney(cur.Total)
		monthDelta = cur.Month.String()
		if n > 1 {
			monthDelta += " (" + cli.FormatDelta(cur.Total, a.months[n-2].Total) + ")"
		}
	}

	avgValue := "-"
	if n := len(a.months); n > 0 {
		avgValue = cli.FormatMoney(totals.Total.Div(decimal.NewFromInt(int64(n))))
	}

	topCategory, topShare := "-", ""
	if len(a.categories) > 0 {
		top := a.categories[0]
		topCategory = top.Key
		if totals.Total.IsPositive() {
			topShare = cli.FormatPercent(top.Total.Div(totals.Total).InexactFloat64()) + " of spend"
		}
	}

	cards := []components.Metric{
		{Label: "Total Spend", Value: cli.FormatMoney(totals.Total), Delta: spanDelta},
		{Label: "Records", Value: cli.FormatNumber(int64(totals.Records)), Delta: fmt.Sprintf("%d months", len(a.months))},
		{Label: "Latest Month", Value: monthValue, Delta: monthDelta},
		{Label: "Monthly Avg", Value: avgValue, Delta: ""},
		{Label: "Top Category", Value: topCategory, Delta: topShare},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Category + Spender breakdown
	halves := components.LayoutRow(cw, 2)
	catCard := components.ContentCard("By Category", renderKeyBars(a.categories, totals.Total, halves[0], t.Accent), halves[0])
	spendCard := components.ContentCard("By Spender", renderKeyBars(a.spenders, totals.Total, halves[1], t.Cyan), halves[1])
	b.WriteString(components.CardRow([]string{catCard, spendCard}))
	b.WriteString("\n")

	// Row 3: Top expense days + monthly sparkline
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Top Expense Days", a.renderTopDays(halves[0]), halves[0]),
		components.ContentCard("Monthly Spend", a.renderMonthSparkline(halves[1]), halves[1]),
	}))

	return b.String()
}

// renderKeyBars draws one horizontal bar per key, scaled to the largest.
func renderKeyBars(items []model.KeyTotal, grand decimal.Decimal, outerW int, color lipgloss.Color) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	if len(items) == 0 {
		return mutedStyle.Render("No data")
	}

	innerW := components.CardInnerWidth(outerW)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	barStyle := lipgloss.NewStyle().Foreground(color)
	valStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := 14
	valW := 12
	pctW := 6
	barW := max(innerW-nameW-valW-pctW-3, 4)

	peak := items[0].Total.InexactFloat64()
	var body strings.Builder
	for _, it := range items {
		v := it.Total.InexactFloat64()
		n := 0
		if peak > 0 {
			n = int(v / peak * float64(barW))
		}
		share := 0.0
		if grand.IsPositive() {
			share = it.Total.Div(grand).InexactFloat64()
		}
		fmt.Fprintf(&body, "%s %s%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(it.Key, nameW))),
			barStyle.Render(strings.Repeat("█", max(n, 0))),
			strings.Repeat(" ", max(barW-n, 0)),
			valStyle.Render(fmt.Sprintf("%*s", valW, cli.FormatMoney(it.Total))),
			valStyle.Render(fmt.Sprintf("%*s", pctW, cli.FormatPercent(share))))
	}
	return strings.TrimSuffix(body.String(), "\n")
}

func (a App) renderTopDays(outerW int) string {
	t := theme.Active
	if len(a.topDays) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("No data")
	}
	innerW := components.CardInnerWidth(outerW)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	valStyle := lipgloss.NewStyle().Foreground(t.Orange)

	var body strings.Builder
	for _, d := range a.topDays {
		date := cli.FormatDate(d.Date)
		amount := cli.FormatMoney(d.Total)
		gap := max(innerW-lipgloss.Width(date)-lipgloss.Width(amount), 1)
		body.WriteString(dateStyle.Render(date) + strings.Repeat(" ", gap) + valStyle.Render(amount) + "\n")
	}
	return strings.TrimSuffix(body.String(), "\n")
}

func (a App) renderMonthSparkline(outerW int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	if len(a.months) == 0 {
		return mutedStyle.Render("No data")
	}

	innerW := components.CardInnerWidth(outerW)
	months := a.months
	if len(months) > innerW {
		months = months[len(months)-innerW:]
	}
	vals := make([]float64, len(months))
	for i, m := range months {
		vals[i] = m.Total.InexactFloat64()
	}

	var body strings.Builder
	body.WriteString(components.Sparkline(vals, t.Accent))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(months[0].Month.String() + " … " + months[len(months)-1].Month.String()))
	return body.String()
}
