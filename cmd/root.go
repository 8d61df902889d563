package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spendtrack/internal/cli"
	"github.com/theirongolddev/spendtrack/internal/config"
	"github.com/theirongolddev/spendtrack/internal/ledger"
	"github.com/theirongolddev/spendtrack/internal/logger"
	"github.com/theirongolddev/spendtrack/internal/model"
	"github.com/theirongolddev/spendtrack/internal/pipeline"
	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagDataDir  string
	flagFrom     string
	flagTo       string
	flagCategory string
	flagSpender  string
	flagSource   string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "spendtrack",
	Short:         "Household expense ledger",
	Long:          "Import, enter and analyse household expenses: totals, credit and budget limits, and spend forecasts.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Error("  Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding the ledger and limit files (default from config)")
	pf.StringVar(&flagFrom, "from", "", "First month to include (YYYY-MM)")
	pf.StringVar(&flagTo, "to", "", "Last month to include (YYYY-MM)")
	pf.StringVarP(&flagCategory, "category", "c", "", "Filter to category (substring match)")
	pf.StringVarP(&flagSpender, "spender", "s", "", "Filter to spender (substring match)")
	pf.StringVar(&flagSource, "source", "", "Filter to payment source (substring match)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
}

// app bundles what every command needs.
type app struct {
	cfg   config.Config
	log   zerolog.Logger
	store *ledger.Store
}

// loadConfig reads the config file and applies the global flags to it.
func loadConfig() (config.Config, zerolog.Level, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, zerolog.NoLevel, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return cfg, zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	if flagQuiet {
		level = zerolog.ErrorLevel
	}
	theme.SetActive(cfg.Appearance.Theme)
	cli.ApplyTheme()
	return cfg, level, nil
}

// loadApp is the shared setup path used by every data command.
func loadApp() (*app, error) {
	cfg, level, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openApp(cfg, logger.New(level))
}

// openApp opens the ledger named by cfg.
func openApp(cfg config.Config, log zerolog.Logger) (*app, error) {
	store, err := ledger.Open(ledger.Paths{
		Ledger:        cfg.LedgerPath(),
		PaymentLimits: cfg.PaymentLimitsPath(),
		BudgetLimits:  cfg.BudgetLimitsPath(),
	}, log)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("ledger", cfg.LedgerPath()).Int("records", store.Len()).Msg("ledger opened")
	return &app{cfg: cfg, log: log, store: store}, nil
}

// buildFilter turns the global flags into a record filter.
func buildFilter() (pipeline.Filter, error) {
	f := pipeline.Filter{
		Category: flagCategory,
		Spender:  flagSpender,
		Source:   flagSource,
	}
	var err error
	if flagFrom != "" {
		if f.From, err = model.ParseMonth(flagFrom); err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
	}
	if flagTo != "" {
		if f.To, err = model.ParseMonth(flagTo); err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("--to %s is before --from %s", f.To, f.From)
	}
	return f, nil
}

// filteredRecords loads the app and applies the global filters.
func filteredRecords() (*app, []model.Record, error) {
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	f, err := buildFilter()
	if err != nil {
		return nil, nil, err
	}
	return a, f.Apply(a.store.Records()), nil
}

// rangeLabel describes the active month range for titles.
func rangeLabel() string {
	switch {
	case flagFrom != "" && flagTo != "":
		return flagFrom + " → " + flagTo
	case flagFrom != "":
		return "since " + flagFrom
	case flagTo != "":
		return "through " + flagTo
	}
	return "all time"
}

func printEmpty() {
	fmt.Println()
	fmt.Println("  No records found.")
	fmt.Println(cli.Muted("  Import a file with `spendtrack import FILE` or add one with `spendtrack add`."))
}
