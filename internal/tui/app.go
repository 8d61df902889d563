// Package tui provides the interactive Bubble Tea ledger browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/config"
	"github.com/theirongolddev/spendtrack/internal/ledger"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/pipeline"
	"github.com/theirongolddev/spendtrack/internal/tui/components"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ledgerLoadedMsg carries a fresh read of the ledger and limit files.
type ledgerLoadedMsg struct {
	records       []model.Record
	paymentLimits map[string]decimal.Decimal
	budgetLimits  map[string]decimal.Decimal
	err           error
}

// mutationDoneMsg reports the outcome of an edit or delete.
type mutationDoneMsg struct {
	desc string
	err  error
}

// App is the root Bubble Tea model.
type App struct {
	store  *ledger.Store
	cfg    config.Config
	log    zerolog.Logger
	filter pipeline.Filter

	// Data
	records       []model.Record
	rows          []int // ledger indices visible under the filter
	paymentLimits map[string]decimal.Decimal
	budgetLimits  map[string]decimal.Decimal
	loaded        bool
	loadErr       error
	busy          bool

	// Pre-computed for current filter
	totals      model.Totals
	months      []model.MonthTotal
	categories  []model.KeyTotal
	spenders    []model.KeyTotal
	topDays     []model.DayTotal
	crossTab    model.CrossTab
	credit      []model.CreditUsage
	budget      []model.BudgetUsage
	forecast    model.Forecast
	forecastErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	ledger    ledgerState

	status     string
	statusKind components.StatusKind

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180

	minContentHeight = 5  // minimum content area height
	chromeHeight     = 3  // tab bar + filter row + status bar
	ledgerOverhead   = 6  // card border, title, header row and footer
	topListSize      = 8  // rows in the category and spender bar lists
	crossTabMonths   = 6  // trailing months shown in the category table
	usageBarWidth    = 24 // widest limit bar
)

// Indices into components.Tabs.
const (
	tabOverview = iota
	tabLedger
	tabLimits
	tabTrend
)

// NewApp creates a browser over store. The filter narrows every tab.
func NewApp(store *ledger.Store, cfg config.Config, filter pipeline.Filter, log zerolog.Logger) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		store:     store,
		cfg:       cfg,
		log:       log,
		filter:    filter,
		activeTab: tabLedger,
		ledger:    newLedgerState(),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadLedgerCmd(a.store),
		a.spinner.Tick,
	)
}

// recompute rebuilds every derived view from the loaded ledger.
func (a *App) recompute() {
	filtered := a.filter.Apply(a.records)
	a.rows = a.filter.Indices(a.records)

	a.totals = pipeline.Totals(filtered)
	a.months = pipeline.SumByMonth(filtered)
	a.categories = pipeline.TopN(filtered, model.FieldCategory, topListSize)
	a.spenders = pipeline.TopN(filtered, model.FieldSpender, topListSize)
	a.topDays = pipeline.TopExpenseDays(filtered, 5)
	a.crossTab = pipeline.CrossTab(filtered, model.FieldCategory)
	a.credit = pipeline.CreditSummary(filtered, a.paymentLimits)
	a.budget = pipeline.BudgetSummary(filtered, a.budgetLimits)
	a.forecast, a.forecastErr = pipeline.Forecast(pipeline.MonthlyTrend(filtered), a.cfg.Forecast.MonthsAhead)

	a.ledger.clamp(len(a.rows), a.ledgerVisibleRows())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ledger.clamp(len(a.rows), a.ledgerVisibleRows())
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.ledger.editing {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabLedger {
				a.ledger.move(-1, len(a.rows), a.ledgerVisibleRows())
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabLedger {
				a.ledger.move(1, len(a.rows), a.ledgerVisibleRows())
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ledgerLoadedMsg:
		a.busy = false
		if msg.err != nil {
			a.loadErr = msg.err
			a.loaded = true
			a.setStatus(msg.err.Error(), components.StatusError)
			return a, nil
		}
		a.records = msg.records
		a.paymentLimits = msg.paymentLimits
		a.budgetLimits = msg.budgetLimits
		a.loaded = true
		a.loadErr = nil
		a.recompute()
		return a, nil

	case mutationDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("ledger change rejected")
			a.setStatus(msg.err.Error(), components.StatusError)
		} else {
			a.setStatus(msg.desc, components.StatusOK)
		}
		a.records = a.store.Records()
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blink) to the edit input.
	if a.ledger.editing {
		var cmd tea.Cmd
		a.ledger.input, cmd = a.ledger.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// Modal states intercept all keys.
	if a.ledger.editing {
		return a.updateLedgerEdit(msg)
	}
	if a.ledger.confirmDelete {
		return a.updateLedgerConfirm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabLedger {
		if m, cmd, handled := a.updateLedgerKey(msg); handled {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.busy {
			a.busy = true
			a.setStatus("reloading...", components.StatusInfo)
			return a, loadLedgerCmd(a.store)
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if runes := []rune(key); len(runes) == 1 {
		if idx := components.TabIdxByKey(runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a *App) setStatus(msg string, kind components.StatusKind) {
	a.status = msg
	a.statusKind = kind
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	return max(a.height-chromeHeight, minContentHeight)
}

func (a App) ledgerVisibleRows() int {
	return max(a.contentHeight()-ledgerOverhead, 1)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendtrack needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ spendtrack"))
	b.WriteString(subtitleStyle.Render(" · household expenses"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading ledger..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o l i t", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move between rows"},
			{"g G", "First / Last row"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Ledger", []struct{ key, desc string }{
			{"tab S-tab", "Select column"},
			{"Enter e", "Edit selected cell"},
			{"d", "Delete row"},
			{"Esc", "Cancel edit"},
		}},
		{"General", []struct{ key, desc string }{
			{"r", "Reload from disk"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(a.filterPill())

	// 2. Status bar
	hints := "[?]help  [q]uit"
	if a.activeTab == tabLedger {
		hints = "[e]dit  [d]elete  [?]help"
	}
	right := fmt.Sprintf("%d of %d rows", len(a.rows), len(a.records))
	statusBar := components.RenderStatusBar(w, hints, a.status, a.statusKind, right)

	// 3. Content zone
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	if a.loadErr != nil {
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	} else {
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabLedger:
			content = a.renderLedgerTab(cw, contentH)
		case tabLimits:
			content = a.renderLimitsTab(cw)
		case tabTrend:
			content = a.renderTrendTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) filterPill() string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	if a.filter.IsZero() {
		return dim.Render(" all records ")
	}

	var parts []string
	if !a.filter.From.IsZero() || !a.filter.To.IsZero() {
		from, to := "…", "…"
		if !a.filter.From.IsZero() {
			from = a.filter.From.String()
		}
		if !a.filter.To.IsZero() {
			to = a.filter.To.String()
		}
		parts = append(parts, accent.Render(from+" → "+to))
	}
	for _, f := range []struct{ name, val string }{
		{"category", a.filter.Category},
		{"spender", a.filter.Spender},
		{"source", a.filter.Source},
	} {
		if f.val != "" {
			parts = append(parts, dim.Render(f.name+"~")+accent.Render(f.val))
		}
	}
	return dim.Render(" ") + strings.Join(parts, dim.Render(" │ ")) + dim.Render(" ")
}

// ─── Commands ───────────────────────────────────────────────────

// loadLedgerCmd re-reads the ledger off the event loop.
func loadLedgerCmd(store *ledger.Store) tea.Cmd {
	return func() tea.Msg {
		records, err := store.Load()
		if err != nil {
			return ledgerLoadedMsg{err: err}
		}
		return ledgerLoadedMsg{
			records:       records,
			paymentLimits: store.PaymentLimits(),
			budgetLimits:  store.BudgetLimits(),
		}
	}
}

func editCellCmd(store *ledger.Store, row int, col model.Field, text string) tea.Cmd {
	return func() tea.Msg {
		if err := store.EditCell(row, col, text); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{desc: fmt.Sprintf("row %d: %s updated", row+1, col)}
	}
}

func deleteRowCmd(store *ledger.Store, row int) tea.Cmd {
	return func() tea.Msg {
		if err := store.DeleteRow(row); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{desc: fmt.Sprintf("row %d deleted", row+1)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
