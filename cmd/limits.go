package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "Spend per payment source against its credit limit",
	Args:  cobra.NoArgs,
	RunE:  runCredit,
}

var creditSetCmd = &cobra.Command{
	Use:   "set SOURCE LIMIT",
	Short: "Set the credit limit of a payment source",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return setLimit(args, "payment limit", func(a *app, name string, v decimal.Decimal) error {
			return a.store.SetPaymentLimit(name, v)
		})
	},
}

var creditDeleteCmd = &cobra.Command{
	Use:   "delete SOURCE",
	Short: "Remove the credit limit of a payment source",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return deleteLimit(args[0], "payment limit", func(a *app, name string) error {
			return a.store.DeletePaymentLimit(name)
		})
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Spend per category against its budget",
	Args:  cobra.NoArgs,
	RunE:  runBudget,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set CATEGORY LIMIT",
	Short: "Set the budget of a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return setLimit(args, "budget", func(a *app, name string, v decimal.Decimal) error {
			return a.store.SetBudgetLimit(name, v)
		})
	},
}

var budgetDeleteCmd = &cobra.Command{
	Use:   "delete CATEGORY",
	Short: "Remove the budget of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return deleteLimit(args[0], "budget", func(a *app, name string) error {
			return a.store.DeleteBudgetLimit(name)
		})
	},
}

func init() {
	creditCmd.AddCommand(creditSetCmd, creditDeleteCmd)
	budgetCmd.AddCommand(budgetSetCmd, budgetDeleteCmd)
	rootCmd.AddCommand(creditCmd, budgetCmd)
}

func setLimit(args []string, what string, set func(*app, string, decimal.Decimal) error) error {
	v, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("%s %q: not a number", what, args[1])
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := set(a, args[0], v); err != nil {
		return err
	}
	fmt.Printf("  %s for %s set to %s\n", what, args[0], cli.Money(cli.FormatMoney(v)))
	return nil
}

func deleteLimit(name, what string, del func(*app, string) error) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := del(a, name); err != nil {
		return fmt.Errorf("%s %q: %w", what, name, err)
	}
	fmt.Printf("  %s for %s removed\n", what, name)
	return nil
}

func runCredit(_ *cobra.Command, _ []string) error {
	a, records, err := filteredRecords()
	if err != nil {
		return err
	}

	usage := pipeline.CreditSummary(records, a.store.PaymentLimits())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CREDIT USAGE  %s", rangeLabel())))
	fmt.Println()

	if len(usage) == 0 {
		fmt.Println("  No payment limits set.")
		fmt.Println(cli.Muted("  Set one with `spendtrack credit set SOURCE LIMIT`."))
	} else {
		rows := make([][]string, 0, len(usage))
		for _, u := range usage {
			remaining := cli.FormatMoney(u.Remaining)
			if u.Remaining.IsNegative() {
				remaining = cli.Error(remaining)
			}
			rows = append(rows, []string{
				u.Source,
				cli.FormatMoney(u.Limit),
				cli.FormatMoney(u.Used),
				remaining,
				cli.RenderUsageBar(u.Utilization, 16) + " " + cli.FormatPercent(u.Utilization),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Source", "Limit", "Used", "Remaining", "Utilization"},
			Rows:    rows,
		}))
	}

	if missing := a.store.MissingLimits(records); len(missing) > 0 {
		fmt.Println()
		fmt.Println(cli.Warn(fmt.Sprintf("  %d source(s) without a limit: %v", len(missing), missing)))
	}
	return nil
}

func runBudget(_ *cobra.Command, _ []string) error {
	a, records, err := filteredRecords()
	if err != nil {
		return err
	}

	usage := pipeline.BudgetSummary(records, a.store.BudgetLimits())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGETS  %s", rangeLabel())))
	fmt.Println()

	if len(usage) == 0 {
		fmt.Println("  No budgets set.")
		fmt.Println(cli.Muted("  Set one with `spendtrack budget set CATEGORY LIMIT`."))
		return nil
	}

	rows := make([][]string, 0, len(usage))
	for _, u := range usage {
		status := cli.Money("ok")
		if u.Exceeded {
			status = cli.Error("exceeded by " + cli.FormatMoney(u.Used.Sub(u.Limit)))
		}
		frac := 0.0
		if u.Limit.IsPositive() {
			frac = u.Used.Div(u.Limit).InexactFloat64()
		}
		rows = append(rows, []string{
			u.Category,
			cli.FormatMoney(u.Limit),
			cli.FormatMoney(u.Used),
			cli.FormatMoney(u.Remaining),
			cli.RenderUsageBar(frac, 16),
			status,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Budget", "Used", "Remaining", "", "Status"},
		Rows:    rows,
	}))
	return nil
}
