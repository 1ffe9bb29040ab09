package studio

import "github.com/shopspring/decimal"

// =============================================================================
// MONEY - decimal helpers, two-digit presentation rounding
// =============================================================================

var hundred = decimal.NewFromInt(100)

// MustParseMoney parses a decimal literal and panics on malformed input.
// Use in tests and fixtures only.
func MustParseMoney(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Money builds a decimal from an integer amount.
func Money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Percent returns value * rate / 100.
func Percent(value decimal.Decimal, rate int) decimal.Decimal {
	return value.Mul(decimal.NewFromInt(int64(rate))).Div(hundred)
}

// ShareOf returns part / total * 100 rounded to two digits, zero when total is zero.
func ShareOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total).Round(2)
}
