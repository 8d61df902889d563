package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/spendtrack/internal/config"
	"github.com/theirongolddev/spendtrack/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	cfg, err = tui.RunSetup(cfg)
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Println("  Setup cancelled; nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Ledger: %s\n", cfg.LedgerPath())
	fmt.Println("  Run `spendtrack import FILE` to load expenses.")
	return nil
}
