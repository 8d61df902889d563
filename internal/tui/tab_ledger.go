package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/tui/components"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ledgerState holds the ledger tab's cursor and edit state. cursor indexes
// App.rows, not the ledger itself.
type ledgerState struct {
	cursor int
	offset int
	column model.Field

	editing       bool
	confirmDelete bool
	input         textinput.Model
}

func newLedgerState() ledgerState {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 256
	return ledgerState{column: model.FieldDate, input: ti}
}

// clamp keeps the cursor inside n rows and the offset inside a window of
// visible rows.
func (s *ledgerState) clamp(n, visible int) {
	if n == 0 {
		s.cursor, s.offset = 0, 0
		return
	}
	s.cursor = min(max(s.cursor, 0), n-1)
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
	s.offset = min(max(s.offset, 0), max(n-visible, 0))
}

func (s *ledgerState) move(delta, n, visible int) {
	s.cursor += delta
	s.clamp(n, visible)
}

// selectedRow returns the ledger index under the cursor.
func (a App) selectedRow() (int, bool) {
	if len(a.rows) == 0 || a.ledger.cursor >= len(a.rows) {
		return 0, false
	}
	return a.rows[a.ledger.cursor], true
}

// updateLedgerKey handles ledger navigation. handled is false for keys the
// global handler should see.
func (a App) updateLedgerKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	n := len(a.rows)
	visible := a.ledgerVisibleRows()

	switch msg.String() {
	case "j", "down":
		a.ledger.move(1, n, visible)
	case "k", "up":
		a.ledger.move(-1, n, visible)
	case "g", "home":
		a.ledger.cursor = 0
		a.ledger.clamp(n, visible)
	case "G", "end":
		a.ledger.cursor = n - 1
		a.ledger.clamp(n, visible)
	case "ctrl+d":
		a.ledger.move(visible/2, n, visible)
	case "ctrl+u":
		a.ledger.move(-visible/2, n, visible)
	case "tab":
		a.ledger.column = (a.ledger.column + 1) % model.Field(len(model.Schema))
	case "shift+tab":
		a.ledger.column = (a.ledger.column - 1 + model.Field(len(model.Schema))) % model.Field(len(model.Schema))
	case "enter", "e":
		row, ok := a.selectedRow()
		if !ok || a.busy {
			return a, nil, true
		}
		a.ledger.editing = true
		a.ledger.input.SetValue(a.cellText(row, a.ledger.column))
		a.ledger.input.CursorEnd()
		return a, a.ledger.input.Focus(), true
	case "d", "delete":
		if _, ok := a.selectedRow(); ok && !a.busy {
			a.ledger.confirmDelete = true
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateLedgerEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.ledger.editing = false
		a.ledger.input.Blur()
		a.setStatus("edit cancelled", components.StatusInfo)
		return a, nil
	case "enter":
		a.ledger.editing = false
		a.ledger.input.Blur()
		row, ok := a.selectedRow()
		if !ok {
			return a, nil
		}
		a.busy = true
		return a, editCellCmd(a.store, row, a.ledger.column, a.ledger.input.Value())
	}

	var cmd tea.Cmd
	a.ledger.input, cmd = a.ledger.input.Update(msg)
	return a, cmd
}

func (a App) updateLedgerConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.ledger.confirmDelete = false
	switch msg.String() {
	case "y", "Y":
		row, ok := a.selectedRow()
		if !ok {
			return a, nil
		}
		a.busy = true
		return a, deleteRowCmd(a.store, row)
	}
	a.setStatus("delete cancelled", components.StatusInfo)
	return a, nil
}

// cellText is the editable text of one cell. Amounts drop the currency
// formatting so the value round-trips through the parser.
func (a App) cellText(row int, col model.Field) string {
	r := a.records[row]
	if col == model.FieldAmount {
		return cli.FormatAmount(r.Amount)
	}
	return r.Key(col)
}

// ledgerColumnWidths sizes the columns to fit inner. Description takes the
// slack.
func ledgerColumnWidths(inner int) []int {
	// #, Date, Source, Description, Category, Spender, Amount
	w := []int{5, 10, 14, 0, 14, 12, 12}
	fixed := 0
	for _, v := range w {
		fixed += v
	}
	fixed += len(w) - 1 // gaps
	w[3] = max(inner-fixed, 12)
	return w
}

func (a App) renderLedgerTab(cw, h int) string {
	t := theme.Active
	ls := a.ledger

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)

	title := fmt.Sprintf("Ledger [%d rows]", len(a.rows))
	if len(a.rows) == 0 {
		return components.ContentCard(title, mutedStyle.Render("No records. Import a file with `spendtrack import`."), cw)
	}

	inner := components.CardInnerWidth(cw)
	widths := ledgerColumnWidths(inner)

	var body strings.Builder

	headers := append([]string{"#"}, model.ColumnNames()...)
	for i, hd := range headers {
		if i > 0 {
			body.WriteString(" ")
		}
		style := headerStyle
		if i-1 == int(ls.column) {
			style = style.Underline(true)
		}
		body.WriteString(style.Render(fitCell(hd, widths[i], i == len(headers)-1)))
	}
	body.WriteString("\n")

	visible := max(h-ledgerOverhead, 1)
	end := min(ls.offset+visible, len(a.rows))
	for i := ls.offset; i < end; i++ {
		row := a.rows[i]
		r := a.records[row]
		cells := []string{
			fmt.Sprintf("%d", row+1),
			r.Date.Format(model.DateLayout),
			r.Source,
			r.Description,
			r.Category,
			r.Spender,
			cli.FormatMoney(r.Amount),
		}

		style := rowStyle
		if i == ls.cursor {
			style = selectedStyle
		}
		for c, cell := range cells {
			if c > 0 {
				body.WriteString(style.Render(" "))
			}
			text := fitCell(cell, widths[c], c == 0 || c == len(cells)-1)
			if i == ls.cursor && c-1 == int(ls.column) {
				body.WriteString(cellStyle.Render(text))
			} else {
				body.WriteString(style.Render(text))
			}
		}
		body.WriteString("\n")
	}

	// Footer: edit prompt, delete confirmation, or hint.
	switch {
	case ls.editing:
		body.WriteString(headerStyle.Render(ls.column.String()+" "))
		body.WriteString(ls.input.View())
	case ls.confirmDelete:
		row, _ := a.selectedRow()
		body.WriteString(lipgloss.NewStyle().Foreground(t.Red).Bold(true).
			Render(fmt.Sprintf("Delete row %d? [y/N]", row+1)))
	default:
		body.WriteString(mutedStyle.Render(fmt.Sprintf("%d/%d  [tab] column  [e]dit  [d]elete",
			ls.cursor+1, len(a.rows))))
	}

	return components.ContentCard(title, body.String(), cw)
}

// fitCell pads or truncates s to exactly w columns.
func fitCell(s string, w int, right bool) string {
	s = truncStr(s, w)
	pad := w - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
