// Package cmd implements the spendtrack CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory:  %s\n", cfg.DataDir())
	fmt.Println()

	fmt.Println("  [Files]")
	fmt.Printf("    Ledger:          %s\n", cfg.LedgerPath())
	fmt.Printf("    Payment limits:  %s\n", cfg.PaymentLimitsPath())
	fmt.Printf("    Budget limits:   %s\n", cfg.BudgetLimitsPath())
	fmt.Printf("    Import journal:  %s\n", cfg.JournalPath())
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Months ahead:    %d\n", cfg.Forecast.MonthsAhead)
	fmt.Println()

	fmt.Println("  [Entry]")
	fmt.Printf("    Categories:      %s\n", listOrFree(cfg.Entry.Categories))
	fmt.Printf("    Spenders:        %s\n", listOrFree(cfg.Entry.Spenders))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:           %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:           %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  Run `spendtrack setup` to reconfigure.")
	return nil
}

func listOrFree(items []string) string {
	if len(items) == 0 {
		return "free text"
	}
	return strings.Join(items, ", ")
}
