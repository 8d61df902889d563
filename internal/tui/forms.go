package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendtrack/internal/config"
	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// expenseValues backs the fields of the add-expense form.
type expenseValues struct {
	date        string
	source      string
	description string
	category    string
	spender     string
	amount      string
}

func (v expenseValues) cells() []string {
	return []string{v.date, v.source, v.description, v.category, v.spender, v.amount}
}

// cellValidator checks one field through the same path edits and imports use.
func cellValidator(f model.Field) func(string) error {
	return func(s string) error {
		_, err := model.Record{}.WithCell(f, s)
		return err
	}
}

// textField is a select over choices, or free text when there are none.
func textField(title string, f model.Field, choices []string, value *string) huh.Field {
	if len(choices) > 0 {
		if *value == "" {
			*value = choices[0]
		}
		return huh.NewSelect[string]().
			Title(title).
			Options(huh.NewOptions(choices...)...).
			Value(value)
	}
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(cellValidator(f))
}

// newExpenseForm builds the add-expense form. Categories and spenders come
// from the [entry] config section.
func newExpenseForm(cfg config.Config, v *expenseValues) *huh.Form {
	if v.date == "" {
		v.date = time.Now().Format(model.DateLayout)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&v.date).
				Validate(cellValidator(model.FieldDate)),
			huh.NewInput().
				Title("Payment source").
				Placeholder("HDFC, Cash, ...").
				Value(&v.source).
				Validate(cellValidator(model.FieldSource)),
			huh.NewInput().
				Title("Description").
				Value(&v.description),
		),
		huh.NewGroup(
			textField("Category", model.FieldCategory, cfg.Entry.Categories, &v.category),
			textField("Spender", model.FieldSpender, cfg.Entry.Spenders, &v.spender),
			huh.NewInput().
				Title("Amount").
				Value(&v.amount).
				Validate(cellValidator(model.FieldAmount)),
		),
	).WithTheme(huh.ThemeCharm())
}

// PromptExpense asks for one expense interactively and returns the parsed
// record.
func PromptExpense(cfg config.Config) (model.Record, error) {
	var v expenseValues
	if err := runForm(newExpenseForm(cfg, &v)); err != nil {
		return model.Record{}, err
	}
	return model.ParseRecord(v.cells())
}

// ConfirmClear asks before wiping n records.
func ConfirmClear(n int) (bool, error) {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d records?", n)).
			Description("The ledger file will be left with only its header.").
			Affirmative("Delete").
			Negative("Keep").
			Value(&ok),
	)).WithTheme(huh.ThemeCharm())
	if err := runForm(form); err != nil {
		if errors.Is(err, ErrCancelled) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// parseLimit accepts a non-negative decimal. Blank text means skip.
func parseLimit(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, false, errors.New("limit cannot be negative")
	}
	return d, true, nil
}

// PromptLimit asks for the credit limit of a new payment source. ok is false
// when the user leaves it blank.
func PromptLimit(source string) (limit decimal.Decimal, ok bool, err error) {
	var text string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Credit limit for %s", source)).
			Description("Leave blank to skip.").
			Value(&text).
			Validate(func(s string) error {
				_, _, err := parseLimit(s)
				return err
			}),
	)).WithTheme(huh.ThemeCharm())
	if err := runForm(form); err != nil {
		return decimal.Zero, false, err
	}
	return parseLimit(text)
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}
