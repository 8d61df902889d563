package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendtrack/internal/config"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the form-bound values for the setup wizard.
type setupValues struct {
	dataDir     string
	theme       string
	spenders    string
	monthsAhead string
}

var monthsAheadOptions = []string{"1", "3", "6", "12"}

func newSetupValues(cfg config.Config) setupValues {
	months := strconv.Itoa(cfg.Forecast.MonthsAhead)
	known := false
	for _, o := range monthsAheadOptions {
		known = known || o == months
	}
	if !known {
		months = "3"
	}
	return setupValues{
		dataDir:     cfg.DataDir(),
		theme:       cfg.Appearance.Theme,
		spenders:    strings.Join(cfg.Entry.Spenders, ", "),
		monthsAhead: months,
	}
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spendtrack").
				Description("A few settings, then you're ready to import."),
			huh.NewInput().
				Title("Data directory").
				Description("Holds the ledger CSV, limit files and import journal.").
				Value(&v.dataDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("data directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Spenders").
				Description("Comma-separated. Leave blank to type them per expense.").
				Value(&v.spenders),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Months to forecast").
				Options(huh.NewOptions(monthsAheadOptions...)...).
				Value(&v.monthsAhead),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// apply copies the form values onto cfg.
func (v setupValues) apply(cfg config.Config) config.Config {
	cfg.General.DataDir = strings.TrimSpace(v.dataDir)
	if n, err := strconv.Atoi(v.monthsAhead); err == nil {
		cfg.Forecast.MonthsAhead = n
	}
	if theme.Known(v.theme) {
		cfg.Appearance.Theme = v.theme
	}
	cfg.Entry.Spenders = nil
	for _, s := range strings.Split(v.spenders, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Entry.Spenders = append(cfg.Entry.Spenders, s)
		}
	}
	return cfg
}

// RunSetup walks through the first-run settings and saves the result.
func RunSetup(cfg config.Config) (config.Config, error) {
	v := newSetupValues(cfg)
	if err := runForm(newSetupForm(&v)); err != nil {
		return cfg, err
	}
	cfg = v.apply(cfg)
	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg, nil
}
