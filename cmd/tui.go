package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/spendtrack/internal/logger"
	"github.com/theirongolddev/spendtrack/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit the ledger interactively",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, level, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs go to a file in the data dir.
	logPath := cfg.Resolve("spendtrack.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()

	a, err := openApp(cfg, logger.NewWithWriter(logFile, level))
	if err != nil {
		return err
	}
	f, err := buildFilter()
	if err != nil {
		return err
	}

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(a.store, a.cfg, f, a.log)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
