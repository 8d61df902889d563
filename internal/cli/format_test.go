package cli

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"999.994", "$999.99"},
		{"1234", "$1,234.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-40", "-$40.00"},
		{"-1500.5", "-$1,500.50"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(decimal.NewFromInt(150), decimal.NewFromInt(100)); got != "+$50.00" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(decimal.NewFromInt(100), decimal.NewFromInt(150)); got != "-$50.00" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2025-03-07 Fri" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := RenderSparkline([]float64{0, 7}); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
}

func TestRenderUsageBar_Clamps(t *testing.T) {
	for _, frac := range []float64{-0.2, 0, 0.5, 1.5} {
		if got := lipgloss.Width(RenderUsageBar(frac, 10)); got != 10 {
			t.Errorf("RenderUsageBar(%v) width = %d, want 10", frac, got)
		}
	}
}
