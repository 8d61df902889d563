package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, zerolog.WarnLevel)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("path", "ledger.csv").Msg("save failed")
	assert.Contains(t, buf.String(), "save failed")
	assert.Contains(t, buf.String(), "ledger.csv")
}

func TestNew(t *testing.T) {
	log := New(zerolog.InfoLevel)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
