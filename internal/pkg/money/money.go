package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency symbol used for display formatting
const Symbol = "₱"

// RoundToCents rounds half-up to two decimal places. Decimal arithmetic
// makes the epsilon compensation a float implementation would need
// unnecessary. Idempotent.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses a numeric-or-string amount into a cent-rounded decimal.
// Strings may carry the currency symbol, commas, and surrounding whitespace.
// Invalid input yields zero.
func ParseAmount(v interface{}) decimal.Decimal {
	switch a := v.(type) {
	case decimal.Decimal:
		return RoundToCents(a)
	case float64:
		return RoundToCents(decimal.NewFromFloat(a))
	case float32:
		return RoundToCents(decimal.NewFromFloat32(a))
	case int:
		return decimal.NewFromInt(int64(a))
	case int64:
		return decimal.NewFromInt(a)
	case string:
		s := strings.TrimSpace(a)
		s = strings.ReplaceAll(s, Symbol, "")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return RoundToCents(d)
	default:
		return decimal.Zero
	}
}

// FormatCurrency renders an amount with the currency symbol, thousands
// separators, and exactly two decimals, e.g. "₱1,234.56".
func FormatCurrency(d decimal.Decimal) string {
	fixed := RoundToCents(d).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(whole)

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString(Symbol)
	b.WriteString(grouped)
	b.WriteString(".")
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
