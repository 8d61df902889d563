// Package config loads spendtrack settings from TOML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataDir  = "SPENDTRACK_DATA_DIR"
	EnvLogLevel = "SPENDTRACK_LOG_LEVEL"
)

// Config holds all spendtrack configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Files      FilesConfig      `toml:"files"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Entry      EntryConfig      `toml:"entry"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// FilesConfig names the backing files. Relative names resolve against the
// data directory.
type FilesConfig struct {
	Ledger        string `toml:"ledger"`
	PaymentLimits string `toml:"payment_limits"`
	BudgetLimits  string `toml:"budget_limits"`
	Journal       string `toml:"journal"`
}

// ForecastConfig holds trend forecast settings.
type ForecastConfig struct {
	MonthsAhead int `toml:"months_ahead"`
}

// EntryConfig holds the pick-lists offered when adding an expense. An empty
// list means free text.
type EntryConfig struct {
	Categories []string `toml:"categories"`
	Spenders   []string `toml:"spenders"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Files: FilesConfig{
			Ledger:        "expenses.csv",
			PaymentLimits: "payment_limits.json",
			BudgetLimits:  "budget_limits.json",
			Journal:       "imports.db",
		},
		Forecast: ForecastConfig{
			MonthsAhead: 3,
		},
		Entry: EntryConfig{
			Categories: []string{
				"Food", "Rent", "Car", "Grocery", "Shopping",
				"OTT", "Tour", "Job", "Miscellaneous",
			},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendtrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendtrack")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendtrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "spendtrack")
}

// Load reads .env from the working directory, then the config file,
// returning defaults if it doesn't exist. Environment variables win over
// the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path and applies environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.General.DataDir = dir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
	if cfg.Forecast.MonthsAhead < 0 {
		return cfg, fmt.Errorf("parsing config: forecast.months_ahead must not be negative")
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// DataDir returns the configured data directory, or the XDG default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return expandHome(c.General.DataDir)
	}
	return DefaultDataDir()
}

// Resolve returns name as an absolute-or-relative path rooted at the data
// directory unless it is already absolute.
func (c Config) Resolve(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir(), name)
}

// LedgerPath returns the ledger CSV location.
func (c Config) LedgerPath() string { return c.Resolve(c.Files.Ledger) }

// PaymentLimitsPath returns the payment limits JSON location.
func (c Config) PaymentLimitsPath() string { return c.Resolve(c.Files.PaymentLimits) }

// BudgetLimitsPath returns the budget limits JSON location.
func (c Config) BudgetLimitsPath() string { return c.Resolve(c.Files.BudgetLimits) }

// JournalPath returns the import journal database location.
func (c Config) JournalPath() string { return c.Resolve(c.Files.Journal) }

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
