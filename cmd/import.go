package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/ledger"
	"github.com/theirongolddev/spendtrack/internal/logger"
	"github.com/theirongolddev/spendtrack/internal/store"
	"github.com/theirongolddev/spendtrack/internal/tui"

	"github.com/spf13/cobra"
)

var (
	flagReplace  bool
	flagNoPrompt bool
	flagFormat   string
	flagImportsN int
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import expenses from a CSV or XLSX file",
	Long: "Import expenses from a CSV or XLSX file whose header names the ledger columns.\n" +
		"Rows are appended unless --replace is given. Nothing is written if any row fails to parse.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List past imports",
	Args:  cobra.NoArgs,
	RunE:  runImports,
}

func init() {
	importCmd.Flags().BoolVar(&flagReplace, "replace", false, "Replace the ledger instead of appending")
	importCmd.Flags().BoolVar(&flagNoPrompt, "no-prompt", false, "Do not ask for limits of new payment sources")
	importCmd.Flags().StringVar(&flagFormat, "format", "", "File format: csv or xlsx (default from extension)")
	importsCmd.Flags().IntVarP(&flagImportsN, "limit", "n", 20, "Number of imports to show (0 for all)")
	rootCmd.AddCommand(importCmd, importsCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]
	a, err := loadApp()
	if err != nil {
		return err
	}

	format, err := importFormat(path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	journal, err := store.Open(a.cfg.JournalPath(), a.log)
	if err != nil {
		// A missing journal does not block the import.
		a.log.Warn().Err(err).Msg("import journal unavailable")
		journal = nil
	} else {
		defer journal.Close()
		if prev, ok, err := journal.FindByHash(store.Checksum(raw)); err == nil && ok && !flagReplace {
			fmt.Fprintln(os.Stderr, cli.Warn(fmt.Sprintf("  %s was already imported on %s (%d rows)",
				prev.FileName, prev.ImportedAt.Local().Format("2006-01-02 15:04"), prev.Rows)))
		}
	}

	res, err := a.store.Import(raw, format, ledger.ImportOptions{Replace: flagReplace})
	if err != nil {
		var pe *ledger.ParseError
		if errors.As(err, &pe) {
			return fmt.Errorf("%s: %w (ledger unchanged)", path, err)
		}
		return err
	}

	if journal != nil {
		entry := store.NewEntry(path, string(format), raw, len(res.Records), flagReplace, res.LedgerSize)
		if err := journal.Record(entry); err != nil {
			a.log.Warn().Err(err).Msg("recording import")
		}
	}

	verb := "Appended"
	if flagReplace {
		verb = "Replaced ledger with"
	}
	fmt.Printf("  %s %s rows from %s (ledger now %s rows)\n", verb,
		cli.FormatNumber(int64(len(res.Records))), path, cli.FormatNumber(int64(res.LedgerSize)))

	return promptMissingLimits(a, res.MissingLimits)
}

func importFormat(path string) (ledger.Format, error) {
	if flagFormat != "" {
		return ledger.ParseFormat(flagFormat)
	}
	return ledger.FormatFromPath(path)
}

// promptMissingLimits asks for a credit limit for each new payment source.
func promptMissingLimits(a *app, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	if flagNoPrompt || flagQuiet {
		fmt.Println(cli.Warn(fmt.Sprintf("  No credit limit for: %v", missing)))
		fmt.Println(cli.Muted("  Set one with `spendtrack credit set SOURCE LIMIT`."))
		return nil
	}

	for _, source := range missing {
		limit, ok, err := tui.PromptLimit(source)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := a.store.SetPaymentLimit(source, limit); err != nil {
			return err
		}
		fmt.Printf("  Credit limit for %s set to %s\n", source, cli.FormatMoney(limit))
	}
	return nil
}

func runImports(_ *cobra.Command, _ []string) error {
	cfg, level, err := loadConfig()
	if err != nil {
		return err
	}
	journal, err := store.Open(cfg.JournalPath(), logger.New(level))
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.List(flagImportsN)
	if err != nil {
		return err
	}
	total, err := journal.Count()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  No imports recorded.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("IMPORTS  %d of %d", len(entries), total)))
	fmt.Println()

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		mode := "append"
		if e.Replaced {
			mode = "replace"
		}
		rows = append(rows, []string{
			e.ImportedAt.Local().Format("2006-01-02 15:04"),
			e.FileName,
			e.Format,
			mode,
			cli.FormatNumber(int64(e.Rows)),
			cli.FormatNumber(int64(e.LedgerSize)),
			e.SHA256[:12],
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"When", "File", "Format", "Mode", "Rows", "Ledger", "SHA-256"},
		Rows:    rows,
	}))
	return nil
}
