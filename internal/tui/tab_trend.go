package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/pipeline"
	"github.com/theirongolddev/spendtrack/internal/tui/components"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderTrendTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	var b strings.Builder

	if len(a.months) == 0 {
		return components.ContentCard("Monthly Trend", mutedStyle.Render("No data"), cw)
	}

	// Row 1: observed months followed by projected ones
	bars := make([]components.ChartBar, 0, len(a.months)+len(a.forecast.Points))
	for _, m := range a.months {
		bars = append(bars, components.ChartBar{Label: m.Month.Month.String()[:3], Value: m.Total})
	}
	projected := 0
	if a.forecastErr == nil {
		for _, p := range a.forecast.Points {
			bars = append(bars, components.ChartBar{
				Label:     p.Month.Month.String()[:3],
				Value:     decimal.NewFromFloat(max(p.Predicted, 0)),
				Projected: true,
			})
			projected++
		}
	}

	title := fmt.Sprintf("Monthly Spend (%d months)", len(a.months))
	if projected > 0 {
		title += fmt.Sprintf(" + %d projected", projected)
	}
	b.WriteString(components.ContentCard(title,
		components.MonthChart(bars, t.Accent, components.CardInnerWidth(cw), 10), cw))
	b.WriteString("\n")

	// Row 2: forecast detail + category cross-tab
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Forecast", a.renderForecastBody(), halves[0]),
		components.ContentCard("Category by Month", a.renderCrossTab(halves[1]), halves[1]),
	}))
	return b.String()
}

func (a App) renderForecastBody() string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	projStyle := lipgloss.NewStyle().Foreground(t.Magenta)

	switch {
	case errors.Is(a.forecastErr, pipeline.ErrInsufficientData):
		return mutedStyle.Render("Need at least 2 months of history to project.")
	case a.forecastErr != nil:
		return mutedStyle.Render(a.forecastErr.Error())
	}

	fc := a.forecast
	direction := "rising"
	if fc.Slope < 0 {
		direction = "falling"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s\n", labelStyle.Render("History:"),
		valueStyle.Render(fmt.Sprintf("%d months through %s", fc.History, fc.LastObserved)))
	fmt.Fprintf(&body, "%s %s\n\n", labelStyle.Render("Trend:  "),
		valueStyle.Render(fmt.Sprintf("%s %s/month", direction, cli.FormatMoney(decimal.NewFromFloat(fc.Slope).Abs()))))
	for _, p := range fc.Points {
		fmt.Fprintf(&body, "%s  %s\n",
			labelStyle.Render(p.Month.String()),
			projStyle.Render(cli.FormatMoney(decimal.NewFromFloat(p.Predicted))))
	}
	return strings.TrimSuffix(body.String(), "\n")
}

// renderCrossTab shows the trailing months of the category table.
func (a App) renderCrossTab(outerW int) string {
	t := theme.Active
	ct := a.crossTab
	if len(ct.Rows) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("No data")
	}

	innerW := components.CardInnerWidth(outerW)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	valStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	const cellW = 10
	nameW := 12
	months := ct.Months
	fit := max((innerW-nameW)/(cellW+1), 1)
	months = months[max(len(months)-min(fit, crossTabMonths), 0):]

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", nameW, "")))
	for _, m := range months {
		body.WriteString(headerStyle.Render(fmt.Sprintf(" %*s", cellW, m.String())))
	}
	body.WriteString("\n")
	for _, row := range ct.Rows {
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(row, nameW))))
		for _, m := range months {
			v := ct.Value(row, m)
			cell := "-"
			if !v.IsZero() {
				cell = cli.FormatMoney(v)
			}
			body.WriteString(valStyle.Render(fmt.Sprintf(" %*s", cellW, truncStr(cell, cellW))))
		}
		body.WriteString("\n")
	}
	return strings.TrimSuffix(body.String(), "\n")
}
