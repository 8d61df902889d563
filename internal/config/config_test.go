package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 3, cfg.Forecast.MonthsAhead)
	assert.Contains(t, cfg.Entry.Categories, "Miscellaneous")
}

func TestLoadFile_ParsesSections(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[general]
data_dir = "/srv/money"

[files]
ledger = "household.csv"

[forecast]
months_ahead = 6

[entry]
spenders = ["Ana", "Ravi"]

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Forecast.MonthsAhead)
	assert.Equal(t, []string{"Ana", "Ravi"}, cfg.Entry.Spenders)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join("/srv/money", "household.csv"), cfg.LedgerPath())
	// Unset keys keep their defaults.
	assert.Equal(t, filepath.Join("/srv/money", "payment_limits.json"), cfg.PaymentLimitsPath())
	assert.Equal(t, "flexoki-dark", cfg.Appearance.Theme)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvLogLevel, "info")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general]\ndata_dir = \"/elsewhere\"\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "imports.db"), cfg.JournalPath())
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[forecast\n"), 0o600))
	_, err := LoadFile(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[forecast]\nmonths_ahead = -1\n"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestResolve_AbsolutePathKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DataDir = "/data"
	abs := filepath.Join(t.TempDir(), "ledger.csv")
	assert.Equal(t, abs, cfg.Resolve(abs))
	assert.Equal(t, filepath.Join("/data", "x.json"), cfg.Resolve("x.json"))
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	assert.False(t, Exists())
	cfg := DefaultConfig()
	cfg.Forecast.MonthsAhead = 5
	cfg.Entry.Spenders = []string{"Ana"}
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	got, err := LoadFile(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
