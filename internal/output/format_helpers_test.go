package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	v := decimal.NewFromFloat(1234.567)
	if got, want := FormatCurrency(v), "$1234.57"; got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	if got, want := FormatPercentage(v), "12.35%"; got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatRate(t *testing.T) {
	if got, want := FormatRate(decimal.RequireFromString("0.0765")), "7.65%"; got != want {
		t.Errorf("FormatRate = %q, want %q", got, want)
	}
}

func TestFormatDollarsAndShort(t *testing.T) {
	v := decimal.NewFromInt(1_234_567_890)
	if got, want := FormatDollars(v), "$1,234,567,890"; got != want {
		t.Errorf("FormatDollars = %q, want %q", got, want)
	}
	if got, want := FormatShort(v), "$1.23B"; got != want {
		t.Errorf("FormatShort = %q, want %q", got, want)
	}
}

func TestIntAndBoolToString(t *testing.T) {
	if got, want := intToString(42), "42"; got != want {
		t.Errorf("intToString(42) = %q, want %q", got, want)
	}
	if boolToString(true) != "true" || boolToString(false) != "false" {
		t.Errorf("boolToString mismatch")
	}
}
