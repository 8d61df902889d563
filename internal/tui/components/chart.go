package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values. It is the fallback when
// there is no room for a full chart.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := min(max(int(v/peak*float64(len(sparkBlocks)-1)), 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// ChartBar is one column of a month chart.
type ChartBar struct {
	Label     string
	Value     decimal.Decimal
	Projected bool
}

// MonthChart draws bars scaled to the largest value, with that value on the
// axis. Projected bars use the projection color. When the bars do not fit,
// the most recent ones are kept.
func MonthChart(bars []ChartBar, color lipgloss.Color, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		vals := make([]float64, len(bars))
		for i, bar := range bars {
			vals[i] = bar.Value.InexactFloat64()
		}
		return Sparkline(vals, color)
	}

	t := theme.Active
	peak := decimal.Zero
	for _, bar := range bars {
		peak = decimal.Max(peak, bar.Value)
	}
	peakLabel := cli.FormatMoney(peak)
	if !peak.IsPositive() {
		peak = decimal.NewFromInt(1)
	}

	axisW := len(peakLabel)
	chartW := max(width-axisW-1, 5)
	barW := min(max((chartW+1)/len(bars)-1, 1), 6)
	if fit := (chartW + 1) / (barW + 1); fit < len(bars) {
		bars = bars[len(bars)-fit:]
	}
	n := len(bars)
	axisLen := n*barW + n - 1

	heights := make([]float64, n)
	for i, bar := range bars {
		heights[i] = max(bar.Value.Div(peak).InexactFloat64(), 0) * float64(height)
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	projStyle := lipgloss.NewStyle().Foreground(t.Magenta).Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = peakLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, label)))

		for i, h := range heights {
			if i > 0 {
				b.WriteString(bg.Render(" "))
			}
			style := barStyle
			if bars[i].Projected {
				style = projStyle
			}
			switch {
			case h >= float64(row):
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case h > float64(row-1):
				idx := min(int((h-float64(row-1))*float64(len(sparkBlocks))), len(sparkBlocks)-1)
				b.WriteString(style.Render(strings.Repeat(string(sparkBlocks[idx]), barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))

	// Labels are placed newest first; the last one is pulled inside the axis
	// and earlier ones are skipped when they would touch a placed label.
	line := []rune(strings.Repeat(" ", axisLen))
	prev := axisLen + 1
	for i := n - 1; i >= 0; i-- {
		lbl := []rune(bars[i].Label)
		pos := min(i*(barW+1), axisLen-len(lbl))
		if pos < 0 || pos+len(lbl) >= prev {
			continue
		}
		copy(line[pos:], lbl)
		prev = pos
	}
	b.WriteString("\n")
	b.WriteString(bg.Render(strings.Repeat(" ", axisW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(line), " ")))
	return b.String()
}
