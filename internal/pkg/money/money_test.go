package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundToCentsIsIdempotent(t *testing.T) {
	raw := decimal.NewFromFloat(1234.5678)

	once := RoundToCents(raw)
	twice := RoundToCents(once)

	if !once.Equal(decimal.NewFromFloat(1234.57)) {
		t.Errorf("Expected 1234.57, got %s", once)
	}
	if !once.Equal(twice) {
		t.Errorf("Rounding changed an already-rounded value: %s vs %s", once, twice)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  decimal.Decimal
	}{
		{"plain string", "1234.56", decimal.NewFromFloat(1234.56)},
		{"currency symbol and commas", "₱1,234.56", decimal.NewFromFloat(1234.56)},
		{"surrounding whitespace", "  500  ", decimal.NewFromInt(500)},
		{"float64", 99.999, decimal.NewFromFloat(100.00)},
		{"int", 42, decimal.NewFromInt(42)},
		{"decimal passthrough", decimal.NewFromFloat(10.005), decimal.NewFromFloat(10.01)},
		{"empty string", "", decimal.Zero},
		{"garbage", "not a number", decimal.Zero},
		{"nil", nil, decimal.Zero},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAmount(tc.input)
			if !got.Equal(tc.want) {
				t.Errorf("ParseAmount(%v) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		input decimal.Decimal
		want  string
	}{
		{decimal.NewFromFloat(1234.5), "₱1,234.50"},
		{decimal.NewFromFloat(1234567.891), "₱1,234,567.89"},
		{decimal.NewFromInt(0), "₱0.00"},
		{decimal.NewFromInt(999), "₱999.00"},
		{decimal.NewFromFloat(-1234.5), "-₱1,234.50"},
	}

	for _, tc := range cases {
		if got := FormatCurrency(tc.input); got != tc.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
