package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/tui/components"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderLimitsTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	halves := components.LayoutRow(cw, 2)

	// Credit card utilisation
	var credit strings.Builder
	if len(a.credit) == 0 {
		credit.WriteString(mutedStyle.Render("No payment limits set.\nUse `spendtrack credit set SOURCE AMOUNT`."))
	}
	for _, c := range a.credit {
		detail := fmt.Sprintf("%s / %s", cli.FormatMoney(c.Used), cli.FormatMoney(c.Limit))
		credit.WriteString(components.UsageBar(c.Source, c.Utilization, detail, 12, a.limitBarWidth(halves[0])))
		credit.WriteString("\n")
		left := "remaining " + cli.FormatMoney(c.Remaining)
		if c.Remaining.IsNegative() {
			left = lipgloss.NewStyle().Foreground(t.Red).Render("over by " + cli.FormatMoney(c.Remaining.Neg()))
		} else {
			left = mutedStyle.Render(left)
		}
		credit.WriteString(strings.Repeat(" ", 13) + left + "\n")
	}

	// Category budgets
	var budget strings.Builder
	if len(a.budget) == 0 {
		budget.WriteString(mutedStyle.Render("No budgets set.\nUse `spendtrack budget set CATEGORY AMOUNT`."))
	}
	for _, u := range a.budget {
		pct := 0.0
		if u.Limit.IsPositive() {
			pct = u.Used.Div(u.Limit).InexactFloat64()
		}
		detail := fmt.Sprintf("%s / %s", cli.FormatMoney(u.Used), cli.FormatMoney(u.Limit))
		budget.WriteString(components.UsageBar(u.Category, pct, detail, 12, a.limitBarWidth(halves[1])))
		budget.WriteString("\n")
		if u.Exceeded {
			over := u.Used.Sub(u.Limit)
			budget.WriteString(strings.Repeat(" ", 13) +
				lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render("exceeded by "+cli.FormatMoney(over)) + "\n")
		} else {
			budget.WriteString(strings.Repeat(" ", 13) + mutedStyle.Render("remaining "+cli.FormatMoney(u.Remaining)) + "\n")
		}
	}

	unset := a.store.MissingLimits(a.records)
	var b strings.Builder
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Payment Sources", strings.TrimSuffix(credit.String(), "\n"), halves[0]),
		components.ContentCard("Category Budgets", strings.TrimSuffix(budget.String(), "\n"), halves[1]),
	}))
	if len(unset) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Sources Without Limits",
			lipgloss.NewStyle().Foreground(t.Orange).Render(strings.Join(unset, ", ")), cw))
	}
	return b.String()
}

// limitBarWidth leaves room for the label, percentage and detail columns.
func (a App) limitBarWidth(outerW int) int {
	return min(max(components.CardInnerWidth(outerW)-12-1-1-5-2-25, 8), usageBarWidth)
}
