package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/pipeline"
	"github.com/theirongolddev/spendtrack/internal/tui"

	"github.com/spf13/cobra"
)

var (
	flagYes   bool
	flagListN int
)

var addCmd = &cobra.Command{
	Use:   "add [DATE SOURCE DESCRIPTION CATEGORY SPENDER AMOUNT]",
	Short: "Add an expense (interactive form when no arguments are given)",
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != len(model.Schema) {
			return fmt.Errorf("want no arguments or %d fields, got %d", len(model.Schema), len(args))
		}
		return nil
	},
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit ROW COLUMN VALUE",
	Short: "Change one cell of the ledger (ROW as shown by `list`)",
	Args:  cobra.ExactArgs(3),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete ROW",
	Short: "Delete one row of the ledger (ROW as shown by `list`)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record in the ledger",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show ledger rows",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	clearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	listCmd.Flags().IntVarP(&flagListN, "limit", "n", 0, "Show only the last N matching rows (0 for all)")
	rootCmd.AddCommand(addCmd, editCmd, deleteCmd, clearCmd, listCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var r model.Record
	if len(args) > 0 {
		r, err = model.ParseRecord(args)
	} else {
		r, err = tui.PromptExpense(a.cfg)
	}
	if errors.Is(err, tui.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := a.store.Append(r); err != nil {
		return err
	}
	fmt.Printf("  Added %s %s at %s (row %d)\n", r.Date.Format(model.DateLayout),
		cli.Money(cli.FormatMoney(r.Amount)), r.Source, a.store.Len())

	if missing := a.store.MissingLimits([]model.Record{r}); len(missing) > 0 {
		return promptMissingLimits(a, missing)
	}
	return nil
}

// parseRow converts a 1-based row number into a ledger index.
func parseRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("row %q: want a positive row number", s)
	}
	return n - 1, nil
}

func runEdit(_ *cobra.Command, args []string) error {
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	col, err := model.ParseField(args[1])
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.store.EditCell(row, col, args[2]); err != nil {
		return err
	}
	fmt.Printf("  Row %d %s set to %s\n", row+1, col, a.store.Records()[row].Key(col))
	return nil
}

func runDelete(_ *cobra.Command, args []string) error {
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.store.DeleteRow(row); err != nil {
		return fmt.Errorf("row %d: %w", row+1, err)
	}
	fmt.Printf("  Deleted row %d (%d rows remain)\n", row+1, a.store.Len())
	return nil
}

func runClear(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	n := a.store.Len()
	if n == 0 {
		fmt.Println("  Ledger is already empty.")
		return nil
	}
	if !flagYes {
		ok, err := tui.ConfirmClear(n)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Nothing deleted.")
			return nil
		}
	}
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Printf("  Deleted %d records\n", n)
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	f, err := buildFilter()
	if err != nil {
		return err
	}
	records := a.store.Records()
	idx := f.Indices(records)
	if len(idx) == 0 {
		printEmpty()
		return nil
	}
	if flagListN > 0 && len(idx) > flagListN {
		idx = idx[len(idx)-flagListN:]
	}

	rows := make([][]string, 0, len(idx))
	for _, i := range idx {
		r := records[i]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Date.Format(model.DateLayout),
			r.Source,
			r.Description,
			r.Category,
			r.Spender,
			cli.FormatMoney(r.Amount),
		})
	}
	shown := make([]model.Record, len(idx))
	for j, i := range idx {
		shown[j] = records[i]
	}
	rows = append(rows, []string{"---"}, []string{"", "", "", "", "", "Total", cli.FormatMoney(pipeline.Totals(shown).Total)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: append([]string{"#"}, model.ColumnNames()...),
		Rows:    rows,
	}))
	return nil
}
